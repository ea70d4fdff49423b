package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/loopforge/planrunner/internal/logging"
)

// Center is the notification fan-out hub:
// channels register with a minimum priority and an enabled flag, and Send
// routes a Notification to its target channel, falling back to the
// default, except for critical-priority notifications which always
// broadcast to every enabled channel regardless of target.
type Center struct {
	mu           sync.Mutex
	channels     map[string]Channel
	configs      map[string]ChannelConfig
	defaultName  string
	history      []SendResult
	historyLimit int
	logger       *logging.Logger
}

// CenterOption configures a Center at construction.
type CenterOption func(*Center)

// WithDefaultChannel sets the channel used when a Notification names none.
func WithDefaultChannel(name string) CenterOption {
	return func(c *Center) { c.defaultName = name }
}

// WithHistoryLimit bounds how many SendResults Center retains. Zero means
// unbounded.
func WithHistoryLimit(limit int) CenterOption {
	return func(c *Center) { c.historyLimit = limit }
}

// WithCenterLogger attaches a logger for delivery failures.
func WithCenterLogger(logger *logging.Logger) CenterOption {
	return func(c *Center) { c.logger = logger }
}

// NewCenter constructs an empty Center.
func NewCenter(opts ...CenterOption) *Center {
	c := &Center{
		channels: make(map[string]Channel),
		configs:  make(map[string]ChannelConfig),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterChannel adds or replaces a channel under its own Name().
func (c *Center) RegisterChannel(ch Channel, cfg ChannelConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[ch.Name()] = ch
	c.configs[ch.Name()] = cfg
	if cfg.IsDefault {
		c.defaultName = ch.Name()
	}
}

// UnregisterChannel removes a channel by name. A no-op if absent.
func (c *Center) UnregisterChannel(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.channels, name)
	delete(c.configs, name)
	if c.defaultName == name {
		c.defaultName = ""
	}
}

// SetDefault changes which registered channel absorbs untargeted
// notifications.
func (c *Center) SetDefault(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultName = name
}

// ListChannels returns the configuration of every registered channel.
func (c *Center) ListChannels() []ChannelConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChannelConfig, 0, len(c.configs))
	for _, cfg := range c.configs {
		out = append(out, cfg)
	}
	return out
}

// Send delivers n to its targeted channel, the default channel if
// untargeted, or every enabled channel if n.Priority is critical. It
// never returns an error for a single delivery failure; failures are
// reported via the returned SendResult(s) and recorded in History, since
// escalation must proceed to the operator prompt regardless of whether a
// side channel notification succeeded.
func (c *Center) Send(ctx context.Context, n Notification) (SendResult, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	if n.Priority == PriorityCritical {
		results, err := c.broadcast(ctx, n)
		if err != nil {
			return SendResult{}, err
		}
		if len(results) == 0 {
			return SendResult{}, fmt.Errorf("notify: no channels registered")
		}
		return results[0], nil
	}

	name := n.Channel
	if name == "" {
		name = c.defaultName
	}
	if name == "" {
		return SendResult{}, fmt.Errorf("notify: no channel specified and no default configured")
	}

	result := c.deliver(ctx, name, n)
	c.record(result)
	return result, nil
}

// SendMulti delivers n to each named channel independently, returning one
// SendResult per channel in the order given.
func (c *Center) SendMulti(ctx context.Context, n Notification, channels []string) ([]SendResult, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	results := make([]SendResult, 0, len(channels))
	for _, name := range channels {
		result := c.deliver(ctx, name, n)
		c.record(result)
		results = append(results, result)
	}
	return results, nil
}

func (c *Center) broadcast(ctx context.Context, n Notification) ([]SendResult, error) {
	c.mu.Lock()
	names := make([]string, 0, len(c.channels))
	for name, cfg := range c.configs {
		if cfg.Enabled {
			names = append(names, name)
		}
	}
	c.mu.Unlock()

	results := make([]SendResult, 0, len(names))
	for _, name := range names {
		result := c.deliver(ctx, name, n)
		c.record(result)
		results = append(results, result)
	}
	return results, nil
}

func (c *Center) deliver(ctx context.Context, name string, n Notification) SendResult {
	c.mu.Lock()
	ch, ok := c.channels[name]
	cfg := c.configs[name]
	c.mu.Unlock()

	result := SendResult{ID: n.ID, Channel: name, SentAt: time.Now()}

	if !ok {
		result.Status = StatusFailed
		result.Error = fmt.Sprintf("notify: unknown channel %q", name)
		return result
	}
	if !cfg.Enabled {
		result.Status = StatusFailed
		result.Error = fmt.Sprintf("notify: channel %q is disabled", name)
		return result
	}
	if n.Priority < cfg.MinPriority || !ch.Supports(n.Priority) {
		result.Status = StatusFailed
		result.Error = fmt.Sprintf("notify: channel %q does not accept priority %d", name, n.Priority)
		return result
	}

	if err := ch.Send(ctx, n); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		if c.logger != nil {
			c.logger.Warn("notification delivery failed", "channel", name, "error", err)
		}
		return result
	}

	result.Status = StatusDelivered
	return result
}

func (c *Center) record(result SendResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, result)
	if c.historyLimit > 0 && len(c.history) > c.historyLimit {
		c.history = c.history[len(c.history)-c.historyLimit:]
	}
}

// History returns the most recent results for channel (empty matches
// every channel), newest last, capped at limit (zero means unbounded).
func (c *Center) History(channel string, limit int) []SendResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var matched []SendResult
	for _, result := range c.history {
		if channel == "" || result.Channel == channel {
			matched = append(matched, result)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched
}
