// Package config loads and validates planrunner's configuration, layered
// from defaults, a config file, and environment variables via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete planrunner configuration.
type Config struct {
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Oracle    OracleConfig    `mapstructure:"oracle"`
	Runner    RunnerConfig    `mapstructure:"runner"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Event     EventConfig     `mapstructure:"event"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// WorkspaceConfig controls how the coding agent CLI is invoked (C3 Workspace
// Invoker).
type WorkspaceConfig struct {
	// Command is the executable used to drive the coding agent, e.g. "claude".
	Command string `mapstructure:"command"`
	// Args are extra arguments appended to every invocation.
	Args []string `mapstructure:"args"`
	// Image optionally names a container image the command should run inside.
	// Empty means run the command directly on the host.
	Image string `mapstructure:"image"`
	// TimeoutMinutes bounds a single task invocation (0 disables the timeout).
	TimeoutMinutes int `mapstructure:"timeout_minutes"`
	// GracefulStopMs is how long to wait after an interrupt before force-killing
	// the invoked process tree.
	GracefulStopMs int `mapstructure:"graceful_stop_ms"`
}

// Timeout returns the workspace invocation timeout as a time.Duration
// (0 means disabled).
func (c *WorkspaceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

// GracefulStop returns the graceful-stop grace period as a time.Duration.
func (c *WorkspaceConfig) GracefulStop() time.Duration {
	return time.Duration(c.GracefulStopMs) * time.Millisecond
}

// OracleConfig controls the interpretation oracle subprocess (C4).
type OracleConfig struct {
	// Command is the executable invoked for extract_tasks/interpret/retry_or_escalate.
	Command string `mapstructure:"command"`
	// Args are extra arguments appended to every oracle invocation.
	Args []string `mapstructure:"args"`
	// TimeoutSeconds bounds a single oracle call.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// MaxRetries is how many times a failed oracle call is retried before
	// the Runner treats it as an unrecoverable oracle failure.
	MaxRetries int `mapstructure:"max_retries"`
}

// Timeout returns the oracle call timeout as a time.Duration.
func (c *OracleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RunnerConfig controls the task state machine (C6).
type RunnerConfig struct {
	// MaxAttemptsPerTask is the hard cap on attempts for a single task before
	// the Runner gives up on the plan. A safety backstop only; adaptive
	// retry judgement lives in the oracle prompt.
	MaxAttemptsPerTask int `mapstructure:"max_attempts_per_task"`
	// StateDir is where plan state, lock files, and logs are written.
	StateDir string `mapstructure:"state_dir"`
}

// NotifyConfig controls escalation notifications (C5).
type NotifyConfig struct {
	// WebhookURL, if set, receives a POST for every escalation.
	WebhookURL string `mapstructure:"webhook_url"`
	// DesktopEnabled controls whether a desktop notification is sent.
	DesktopEnabled bool `mapstructure:"desktop_enabled"`
	// MinPriority is the minimum notification priority required for a
	// channel to fire (see internal/notify).
	MinPriority string `mapstructure:"min_priority"`
}

// EventConfig controls the optional Redis event mirror.
type EventConfig struct {
	// RedisAddr, if set, mirrors Runner progress events onto a Redis stream.
	// Empty disables the mirror.
	RedisAddr string `mapstructure:"redis_addr"`
	// RedisStream is the stream key events are XAdd'd to.
	RedisStream string `mapstructure:"redis_stream"`
}

// LoggingConfig controls log level and rotation.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level"`
	// MaxSizeMB is the size at which the log file is rotated (0 disables
	// rotation).
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is how many rotated log files to keep.
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzip-compresses rotated log files.
	Compress bool `mapstructure:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Command:        "claude",
			Args:           []string{},
			Image:          "",
			TimeoutMinutes: 30,
			GracefulStopMs: 500,
		},
		Oracle: OracleConfig{
			Command:        "claude",
			Args:           []string{},
			TimeoutSeconds: 60,
			MaxRetries:     2,
		},
		Runner: RunnerConfig{
			MaxAttemptsPerTask: 10,
			StateDir:           DefaultStateDir(),
		},
		Notify: NotifyConfig{
			WebhookURL:     "",
			DesktopEnabled: true,
			MinPriority:    "normal",
		},
		Event: EventConfig{
			RedisAddr:   "",
			RedisStream: "planrunner:events",
		},
		Logging: LoggingConfig{
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("workspace.command", defaults.Workspace.Command)
	viper.SetDefault("workspace.args", defaults.Workspace.Args)
	viper.SetDefault("workspace.image", defaults.Workspace.Image)
	viper.SetDefault("workspace.timeout_minutes", defaults.Workspace.TimeoutMinutes)
	viper.SetDefault("workspace.graceful_stop_ms", defaults.Workspace.GracefulStopMs)

	viper.SetDefault("oracle.command", defaults.Oracle.Command)
	viper.SetDefault("oracle.args", defaults.Oracle.Args)
	viper.SetDefault("oracle.timeout_seconds", defaults.Oracle.TimeoutSeconds)
	viper.SetDefault("oracle.max_retries", defaults.Oracle.MaxRetries)

	viper.SetDefault("runner.max_attempts_per_task", defaults.Runner.MaxAttemptsPerTask)
	viper.SetDefault("runner.state_dir", defaults.Runner.StateDir)

	viper.SetDefault("notify.webhook_url", defaults.Notify.WebhookURL)
	viper.SetDefault("notify.desktop_enabled", defaults.Notify.DesktopEnabled)
	viper.SetDefault("notify.min_priority", defaults.Notify.MinPriority)

	viper.SetDefault("event.redis_addr", defaults.Event.RedisAddr)
	viper.SetDefault("event.redis_stream", defaults.Event.RedisStream)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if
// unmarshaling fails.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "planrunner")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planrunner"
	}
	return filepath.Join(home, ".config", "planrunner")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultStateDir returns the default directory for plan state, lock files,
// and logs.
func DefaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "planrunner")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planrunner/state"
	}
	return filepath.Join(home, ".local", "state", "planrunner")
}
