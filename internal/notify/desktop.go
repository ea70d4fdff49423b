package notify

import (
	"context"
	"fmt"
	"os/exec"
)

// DesktopSender invokes a local desktop notification command (e.g.
// notify-send, osascript) with a title and body. Swappable in tests,
// following the same injectable-executor idiom as internal/oracle's
// CommandExecutor.
type DesktopSender func(ctx context.Context, title, body string) error

// DesktopChannel delivers notifications through the host's native
// notification system rather than a network call, for operators running
// the runner interactively on their own machine.
type DesktopChannel struct {
	name   string
	sender DesktopSender
}

// NewDesktopChannel constructs a Channel that shells out to sender for
// every delivery. Pass nil to use the platform default (notify-send).
func NewDesktopChannel(name string, sender DesktopSender) *DesktopChannel {
	if sender == nil {
		sender = defaultDesktopSender
	}
	return &DesktopChannel{name: name, sender: sender}
}

func (d *DesktopChannel) Name() string { return d.name }

// Supports reports true for every priority; low-priority desktop popups
// are merely less likely to interrupt the operator, not rejected.
func (d *DesktopChannel) Supports(NotificationPriority) bool { return true }

func (d *DesktopChannel) Send(ctx context.Context, n Notification) error {
	return d.sender(ctx, n.Title, n.Body)
}

func defaultDesktopSender(ctx context.Context, title, body string) error {
	cmd := exec.CommandContext(ctx, "notify-send", title, body)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify: notify-send failed: %w", err)
	}
	return nil
}
