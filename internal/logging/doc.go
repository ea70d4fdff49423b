// Package logging provides structured logging for planrunner.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation support for debugging a run after the fact. It is
// designed to make a single run's log stream filterable by plan, task, and
// attempt without requiring a separate aggregation step.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (plan id, task id, attempt number)
//   - Log rotation with configurable size limits
//   - Optional gzip compression for rotated logs
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger] type
// uses Go's slog internally which is designed for concurrent access. The
// [RotatingWriter] type uses a mutex to protect file operations during
// rotation. Child loggers created via With* methods share the underlying
// writer safely.
//
// # Basic Usage
//
// Create a logger for a run's state directory:
//
//	logger, err := logging.NewLogger("/path/to/state", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Debug("detailed info", "key", "value")
//	logger.Info("operation completed", "duration_ms", 150)
//	logger.Warn("potential issue", "threshold", 100)
//	logger.Error("operation failed", "error", err.Error())
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	planLogger := logger.WithPlan("plan-abc123")
//	taskLogger := planLogger.WithTask("task-003")
//	attemptLogger := taskLogger.WithAttempt(2)
//
//	attemptLogger.Info("task completed", "outcome", "success")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"task completed","plan_id":"plan-abc123","task_id":"task-003","attempt":2,"outcome":"success"}
//
// # Log Rotation
//
// For long-running plans, use log rotation to prevent unbounded growth:
//
//	config := logging.RotationConfig{
//	    MaxSizeMB:  10,
//	    MaxBackups: 3,
//	    Compress:   true,
//	}
//
//	writer, err := logging.NewRotatingWriter("/path/to/state/planrunner.log", config)
//
// Rotated files are named: planrunner.log.1, planrunner.log.2, etc., where
// .1 is the most recent backup. When compression is enabled, rotated files
// become planrunner.log.1.gz, etc.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NopLogger()
//	}
//
// # Log Levels
//
// The package defines four log levels:
//
//   - [LevelDebug]: Detailed information for debugging
//   - [LevelInfo]: General operational information (default)
//   - [LevelWarn]: Warning conditions that may need attention
//   - [LevelError]: Error conditions that affect functionality
//
// Use [ValidLevels] to get the list of valid level strings, and [ParseLevel]
// to normalize user-provided level strings.
package logging
