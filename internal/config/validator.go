package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "runner.max_attempts_per_task")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"DEBUG", "INFO", "WARN", "ERROR"}
}

// ValidPriorities returns the list of valid notification priorities.
func ValidPriorities() []string {
	return []string{"low", "normal", "high", "critical"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found.
func (c *Config) Validate() ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, c.validateWorkspace()...)
	errors = append(errors, c.validateOracle()...)
	errors = append(errors, c.validateRunner()...)
	errors = append(errors, c.validateNotify()...)
	errors = append(errors, c.validateEvent()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateWorkspace() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Workspace.Command) == "" {
		errors = append(errors, ValidationError{
			Field:   "workspace.command",
			Value:   c.Workspace.Command,
			Message: "cannot be empty",
		})
	}

	if c.Workspace.TimeoutMinutes < 0 {
		errors = append(errors, ValidationError{
			Field:   "workspace.timeout_minutes",
			Value:   c.Workspace.TimeoutMinutes,
			Message: "must be non-negative (0 disables timeout)",
		})
	}

	if c.Workspace.GracefulStopMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "workspace.graceful_stop_ms",
			Value:   c.Workspace.GracefulStopMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateOracle() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Oracle.Command) == "" {
		errors = append(errors, ValidationError{
			Field:   "oracle.command",
			Value:   c.Oracle.Command,
			Message: "cannot be empty",
		})
	}

	if c.Oracle.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "oracle.timeout_seconds",
			Value:   c.Oracle.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	if c.Oracle.MaxRetries < 0 {
		errors = append(errors, ValidationError{
			Field:   "oracle.max_retries",
			Value:   c.Oracle.MaxRetries,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateRunner() []ValidationError {
	var errors []ValidationError

	const hardAttemptCap = 10
	if c.Runner.MaxAttemptsPerTask < 1 {
		errors = append(errors, ValidationError{
			Field:   "runner.max_attempts_per_task",
			Value:   c.Runner.MaxAttemptsPerTask,
			Message: "must be at least 1",
		})
	}
	if c.Runner.MaxAttemptsPerTask > hardAttemptCap {
		errors = append(errors, ValidationError{
			Field:   "runner.max_attempts_per_task",
			Value:   c.Runner.MaxAttemptsPerTask,
			Message: fmt.Sprintf("exceeds the hard cap of %d attempts per task", hardAttemptCap),
		})
	}

	if strings.TrimSpace(c.Runner.StateDir) == "" {
		errors = append(errors, ValidationError{
			Field:   "runner.state_dir",
			Value:   c.Runner.StateDir,
			Message: "cannot be empty",
		})
	}

	return errors
}

func (c *Config) validateNotify() []ValidationError {
	var errors []ValidationError

	if c.Notify.WebhookURL != "" {
		u, err := url.Parse(c.Notify.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, ValidationError{
				Field:   "notify.webhook_url",
				Value:   c.Notify.WebhookURL,
				Message: "must be a valid http(s) URL",
			})
		}
	}

	if c.Notify.MinPriority != "" && !slices.Contains(ValidPriorities(), c.Notify.MinPriority) {
		errors = append(errors, ValidationError{
			Field:   "notify.min_priority",
			Value:   c.Notify.MinPriority,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidPriorities(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateEvent() []ValidationError {
	var errors []ValidationError

	if c.Event.RedisAddr != "" && strings.TrimSpace(c.Event.RedisStream) == "" {
		errors = append(errors, ValidationError{
			Field:   "event.redis_stream",
			Value:   c.Event.RedisStream,
			Message: "cannot be empty when event.redis_addr is set",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToUpper(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative (0 disables rotation)",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
