package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMirror subscribes to a Bus and republishes every event onto a Redis
// stream via XAdd. It is a plain data sink for external monitoring
// consumers; nothing in plan execution depends on the mirror succeeding.
type RedisMirror struct {
	client *redis.Client
	stream string
	logger mirrorLogger
	unsub  func()
}

// mirrorLogger is the subset of internal/logging.Logger used here, kept
// narrow so this package does not import internal/logging directly.
type mirrorLogger interface {
	Warn(msg string, args ...any)
}

// noopLogger discards log calls when no logger is supplied.
type noopLogger struct{}

func (noopLogger) Warn(msg string, args ...any) {}

// RedisMirrorOptions configures a RedisMirror.
type RedisMirrorOptions struct {
	// Addr is the Redis server address, e.g. "localhost:6379".
	Addr string
	// Stream is the Redis stream key events are XAdd'd to.
	Stream string
	// Logger receives a warning for every XAdd failure. Optional.
	Logger mirrorLogger
}

// NewRedisMirror creates a Redis client for opts.Addr and returns a mirror
// that is not yet attached to a Bus; no connection is made until the first
// XAdd. Call Attach to begin mirroring.
func NewRedisMirror(opts RedisMirrorOptions) *RedisMirror {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &RedisMirror{
		client: redis.NewClient(&redis.Options{Addr: opts.Addr}),
		stream: opts.Stream,
		logger: logger,
	}
}

// Attach subscribes the mirror to every event published on bus. Each event
// is marshalled to JSON and added to the configured stream with XAdd. A
// failed XAdd is logged and dropped. Each XAdd runs synchronously inside
// the bus handler with a 5-second timeout, so a slow or unreachable Redis
// delays each Publish by up to that long.
func (m *RedisMirror) Attach(bus *Bus) {
	id := bus.SubscribeAll(func(e Event) {
		m.mirror(e)
	})
	m.unsub = func() { bus.Unsubscribe(id) }
}

// Detach stops mirroring. It is safe to call multiple times and safe to
// call before Attach.
func (m *RedisMirror) Detach() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

// Close detaches the mirror and closes its Redis connection.
func (m *RedisMirror) Close() error {
	m.Detach()
	return m.client.Close()
}

func (m *RedisMirror) mirror(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		m.logger.Warn("redis mirror: marshal event", "event_type", e.EventType(), "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: m.stream,
		Values: map[string]any{
			"type":      e.EventType(),
			"timestamp": e.Timestamp().Format(time.RFC3339Nano),
			"payload":   string(payload),
		},
	}
	if _, err := m.client.XAdd(ctx, args).Result(); err != nil {
		m.logger.Warn("redis mirror: xadd failed", "stream", m.stream, "event_type", e.EventType(), "error", fmt.Errorf("%w", err))
	}
}
