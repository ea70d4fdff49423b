package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appconfig "github.com/loopforge/planrunner/internal/config"
	"github.com/loopforge/planrunner/internal/escalate"
	"github.com/loopforge/planrunner/internal/event"
	"github.com/loopforge/planrunner/internal/logging"
	"github.com/loopforge/planrunner/internal/notify"
	"github.com/loopforge/planrunner/internal/oracle"
	"github.com/loopforge/planrunner/internal/runner"
	"github.com/loopforge/planrunner/internal/state"
	"github.com/loopforge/planrunner/internal/workspace"
)

// wiring bundles everything a run/resume invocation needs along with a
// cleanup func for the optional Redis mirror.
type wiring struct {
	runner  *runner.Runner
	bus     *event.Bus
	logger  *logging.Logger
	cleanup func()
}

func parsePriority(s string) notify.NotificationPriority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return notify.PriorityLow
	case "high":
		return notify.PriorityHigh
	case "critical":
		return notify.PriorityCritical
	default:
		return notify.PriorityNormal
	}
}

// build assembles a Runner and its collaborators from cfg, following the
// same construction order regardless of which subcommand calls it (run and
// resume share everything but the resume flag).
func build(cfg *appconfig.Config) (*wiring, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errs)
	}

	if err := os.MkdirAll(cfg.Runner.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	logger, err := logging.NewLoggerWithRotation(cfg.Runner.StateDir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := state.NewStore(filepath.Join(cfg.Runner.StateDir, "plans"))
	if err != nil {
		return nil, fmt.Errorf("init state store: %w", err)
	}

	oracleClient, err := oracle.NewClient(cfg.Oracle.Command, cfg.Oracle.Args, cfg.Oracle.Timeout(), cfg.Oracle.MaxRetries, oracle.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("init oracle client: %w", err)
	}

	invoker := workspace.NewInvoker(cfg.Workspace.Command, cfg.Workspace.Args, cfg.Workspace.GracefulStop(), workspace.WithLogger(logger))

	center := notify.NewCenter(notify.WithCenterLogger(logger))
	minPriority := parsePriority(cfg.Notify.MinPriority)
	if cfg.Notify.DesktopEnabled {
		center.RegisterChannel(notify.NewDesktopChannel("desktop", nil), notify.ChannelConfig{
			Enabled: true, MinPriority: minPriority, IsDefault: true,
		})
	}
	if cfg.Notify.WebhookURL != "" {
		center.RegisterChannel(notify.NewWebhookChannel("webhook", cfg.Notify.WebhookURL), notify.ChannelConfig{
			Enabled: true, MinPriority: minPriority, IsDefault: !cfg.Notify.DesktopEnabled,
		})
	}

	escalation := escalate.New(os.Stdout, os.Stdin, escalate.WithNotifyCenter(center), escalate.WithLogger(logger))

	bus := event.NewBus()
	attachProgressPrinter(bus)

	cleanup := func() {}
	if cfg.Event.RedisAddr != "" {
		mirror := event.NewRedisMirror(event.RedisMirrorOptions{
			Addr: cfg.Event.RedisAddr, Stream: cfg.Event.RedisStream, Logger: logger,
		})
		mirror.Attach(bus)
		cleanup = func() { _ = mirror.Close() }
	}

	lockDir := filepath.Join(cfg.Runner.StateDir, "locks")
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	r := runner.New(oracleClient, invoker, store, escalation, bus, lockDir,
		runner.WithLogger(logger),
		runner.WithMaxAttempts(cfg.Runner.MaxAttemptsPerTask),
		runner.WithTimeout(cfg.Workspace.Timeout()),
	)

	return &wiring{runner: r, bus: bus, logger: logger, cleanup: cleanup}, nil
}

// attachProgressPrinter subscribes a line-oriented progress printer to bus,
// rendering the same events the Runner publishes for every attempt.
func attachProgressPrinter(bus *event.Bus) {
	bus.SubscribeAll(func(e event.Event) {
		switch ev := e.(type) {
		case event.PlanStartedEvent:
			fmt.Printf("plan %s: %d task(s), resume=%v\n", ev.PlanID, ev.TaskCount, ev.Resumed)
		case event.QueueAdvancedEvent:
			fmt.Printf("[%s] task %s (%d remaining)\n", ev.PlanID, ev.TaskID, ev.Remaining)
		case event.TaskStartedEvent:
			fmt.Printf("  attempt %d: %s\n", ev.Attempt, ev.Title)
		case event.ToolUseEvent:
			fmt.Println("   " + runner.FormatToolUse(ev.Name, ev.Input))
		case event.TaskEscalatedEvent:
			fmt.Printf("  escalated: %s\n", ev.Question)
		case event.TaskFinishedEvent:
			fmt.Printf("  %s: %s\n", ev.Status, ev.Summary)
		case event.PlanCompletedEvent:
			fmt.Printf("plan %s complete: %s (e2e=%s)\n", ev.PlanID, ev.Reason, ev.E2EStatus)
		case event.PlanCancelledEvent:
			fmt.Printf("plan %s cancelled\n", ev.PlanID)
		}
	})
}
