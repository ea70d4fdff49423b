package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Workspace.Command != "claude" {
		t.Errorf("Workspace.Command = %q, want %q", cfg.Workspace.Command, "claude")
	}
	if cfg.Workspace.TimeoutMinutes != 30 {
		t.Errorf("Workspace.TimeoutMinutes = %d, want 30", cfg.Workspace.TimeoutMinutes)
	}
	if cfg.Workspace.GracefulStopMs != 500 {
		t.Errorf("Workspace.GracefulStopMs = %d, want 500", cfg.Workspace.GracefulStopMs)
	}

	if cfg.Oracle.Command != "claude" {
		t.Errorf("Oracle.Command = %q, want %q", cfg.Oracle.Command, "claude")
	}
	if cfg.Oracle.TimeoutSeconds != 60 {
		t.Errorf("Oracle.TimeoutSeconds = %d, want 60", cfg.Oracle.TimeoutSeconds)
	}
	if cfg.Oracle.MaxRetries != 2 {
		t.Errorf("Oracle.MaxRetries = %d, want 2", cfg.Oracle.MaxRetries)
	}

	if cfg.Runner.MaxAttemptsPerTask != 10 {
		t.Errorf("Runner.MaxAttemptsPerTask = %d, want 10", cfg.Runner.MaxAttemptsPerTask)
	}
	if cfg.Runner.StateDir == "" {
		t.Error("Runner.StateDir should not be empty")
	}

	if !cfg.Notify.DesktopEnabled {
		t.Error("Notify.DesktopEnabled should be true by default")
	}
	if cfg.Notify.MinPriority != "normal" {
		t.Errorf("Notify.MinPriority = %q, want %q", cfg.Notify.MinPriority, "normal")
	}

	if cfg.Event.RedisAddr != "" {
		t.Errorf("Event.RedisAddr = %q, want empty (mirror disabled by default)", cfg.Event.RedisAddr)
	}
	if cfg.Event.RedisStream != "planrunner:events" {
		t.Errorf("Event.RedisStream = %q, want %q", cfg.Event.RedisStream, "planrunner:events")
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "INFO")
	}
	if cfg.Logging.MaxSizeMB != 10 {
		t.Errorf("Logging.MaxSizeMB = %d, want 10", cfg.Logging.MaxSizeMB)
	}
}

func TestWorkspaceConfigTimeouts(t *testing.T) {
	c := WorkspaceConfig{TimeoutMinutes: 5, GracefulStopMs: 250}

	if c.Timeout() != 5*time.Minute {
		t.Errorf("Timeout() = %v, want 5m", c.Timeout())
	}
	if c.GracefulStop() != 250*time.Millisecond {
		t.Errorf("GracefulStop() = %v, want 250ms", c.GracefulStop())
	}
}

func TestOracleConfigTimeout(t *testing.T) {
	c := OracleConfig{TimeoutSeconds: 45}

	if c.Timeout() != 45*time.Second {
		t.Errorf("Timeout() = %v, want 45s", c.Timeout())
	}
}

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()

	if got := viper.GetString("workspace.command"); got != "claude" {
		t.Errorf("workspace.command = %q, want %q", got, "claude")
	}
	if got := viper.GetInt("runner.max_attempts_per_task"); got != 10 {
		t.Errorf("runner.max_attempts_per_task = %d, want 10", got)
	}
	if got := viper.GetString("event.redis_stream"); got != "planrunner:events" {
		t.Errorf("event.redis_stream = %q, want %q", got, "planrunner:events")
	}
}

func TestLoad(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("workspace.command", "codex")
	viper.Set("runner.max_attempts_per_task", 5)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Workspace.Command != "codex" {
		t.Errorf("Workspace.Command = %q, want %q", cfg.Workspace.Command, "codex")
	}
	if cfg.Runner.MaxAttemptsPerTask != 5 {
		t.Errorf("Runner.MaxAttemptsPerTask = %d, want 5", cfg.Runner.MaxAttemptsPerTask)
	}
}

func TestGetReturnsConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Workspace.Command != "claude" {
		t.Errorf("Workspace.Command = %q, want %q", cfg.Workspace.Command, "claude")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		dir := ConfigDir()
		if dir != "/tmp/xdg-config/planrunner" {
			t.Errorf("ConfigDir() = %q, want %q", dir, "/tmp/xdg-config/planrunner")
		}
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		dir := ConfigDir()
		want := home + "/.config/planrunner"
		if home != "" && dir != want {
			t.Errorf("ConfigDir() = %q, want %q", dir, want)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	got := ConfigFile()
	want := "/tmp/xdg-config/planrunner/config.yaml"
	if got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}

func TestDefaultStateDir(t *testing.T) {
	t.Run("uses XDG_STATE_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
		dir := DefaultStateDir()
		if dir != "/tmp/xdg-state/planrunner" {
			t.Errorf("DefaultStateDir() = %q, want %q", dir, "/tmp/xdg-state/planrunner")
		}
	})
}
