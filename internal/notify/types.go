// Package notify implements the out-of-band notification fan-out used by
// the escalation channel: a Center holding multiple
// registered channels, each with a minimum-priority filter, delivering a
// Notification to one, several, or (for critical priority) all channels.
// Delivery failures are non-fatal; the caller still proceeds to the
// blocking operator prompt regardless of notification outcome.
package notify

import (
	"context"
	"time"
)

// NotificationPriority ranks how urgently a notification should be
// delivered. Critical notifications bypass per-channel routing and go to
// every registered, enabled channel.
type NotificationPriority int

const (
	PriorityLow NotificationPriority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// Notification is a single out-of-band message, most often an escalation
// question handed off by internal/escalate.
type Notification struct {
	ID       string
	Title    string
	Body     string
	Priority NotificationPriority
	Metadata map[string]string
	// Channel names a specific registered channel to target. Empty routes
	// to the Center's default channel.
	Channel string
}

// DeliveryStatus is the outcome of a single channel delivery attempt.
type DeliveryStatus string

const (
	StatusDelivered DeliveryStatus = "delivered"
	StatusFailed    DeliveryStatus = "failed"
)

// SendResult records one channel's delivery outcome for a Notification.
type SendResult struct {
	ID      string
	Channel string
	Status  DeliveryStatus
	Error   string
	SentAt  time.Time
}

// Channel is a concrete delivery mechanism (webhook, desktop notifier).
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	Supports(p NotificationPriority) bool
}

// ChannelConfig controls how a registered Channel participates in routing.
type ChannelConfig struct {
	Enabled     bool
	MinPriority NotificationPriority
	IsDefault   bool
}
