// Package errors provides centralized error definitions and error handling
// utilities for planrunner. It defines the domain-specific error kinds named
// by the Runner's error taxonomy, semantic error types, error constructors
// with context wrapping, and classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - WorkspaceError: errors from the coding-agent workspace invocation (C3)
//   - OracleError: errors from the interpretation oracle (C4)
//   - LockError: errors acquiring or holding a plan lock
//   - StateError: errors reading or writing persisted plan state
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewFatalWorkspaceError("container image missing", baseErr)
//
//	// Semantic error
//	err := errors.NewNotFoundError("plan", "abc123")
//
//	// With context wrapping
//	err := errors.NewLockError("acquire failed", baseErr).WithHolderPID(4821)
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrLockHeld) { ... }
//
//	// Check for error types
//	var oracleErr *errors.OracleError
//	if errors.As(err, &oracleErr) { ... }
//
//	// Use classification helpers
//	if errors.IsRetryable(err) { ... }
//	if errors.IsUserFacing(err) { ... }
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - Retryable: transient errors that may succeed on retry
//   - UserFacing: errors safe to display to the operator (vs internal errors)
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Workspace-related sentinel errors (C3).
var (
	// ErrWorkspaceUnreachable indicates a brief, transient failure spawning or
	// reaching the coding agent process.
	ErrWorkspaceUnreachable = New("workspace unreachable")
	// ErrWorkspaceFatal indicates a permanent workspace failure (missing
	// container image, permission denied).
	ErrWorkspaceFatal = New("workspace fatal error")
	// ErrAgentTaskFailure indicates the agent reported is_error: true for an
	// invocation; routed through the Oracle for a retry/escalate decision.
	ErrAgentTaskFailure = New("agent reported task failure")
	// ErrInvocationTimeout indicates an invocation exceeded its wall-clock
	// budget. Treated as ErrAgentTaskFailure with a synthesized message.
	ErrInvocationTimeout = New("invocation timed out")
)

// Oracle-related sentinel errors (C4).
var (
	// ErrOracleTransient indicates a transient LLM CLI failure; retried with
	// backoff internal to the oracle client.
	ErrOracleTransient = New("oracle transient failure")
	// ErrOracleUnavailable indicates a persistent LLM CLI failure after
	// exhausting internal retries.
	ErrOracleUnavailable = New("oracle unavailable")
	// ErrAmbiguousInterpretation indicates the oracle returned an unclear or
	// unparseable status; treated as needs_help per the safety bias.
	ErrAmbiguousInterpretation = New("ambiguous interpretation")
)

// Lock-related sentinel errors.
var (
	// ErrLockHeld indicates another process already holds the plan lock.
	ErrLockHeld = New("lock held by another process")
	// ErrLockStale indicates a lock file referenced a process that is no
	// longer alive and was reclaimed.
	ErrLockStale = New("stale lock reclaimed")
)

// State-related sentinel errors.
var (
	// ErrStorageUnavailable indicates the state directory is unwritable; the
	// run aborts immediately since there is no state to preserve.
	ErrStorageUnavailable = New("state storage unavailable")
	// ErrStateNotFound indicates no persisted state exists for a plan id.
	// A resume against a plan with no state fails with this.
	ErrStateNotFound = New("plan state not found")
	// ErrStateAlreadyExists indicates a fresh (non-resume) run was requested
	// for a plan that already has persisted state; the operator must resume
	// instead.
	ErrStateAlreadyExists = New("plan state already exists")
	// ErrStateCorrupted indicates persisted state failed to decode.
	ErrStateCorrupted = New("plan state corrupted")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled (operator
	// cancellation, or context cancellation).
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrOperationFailed indicates a general operation failure.
	ErrOperationFailed = New("operation failed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PlanRunnerError is the base interface for all planrunner errors. It extends
// the standard error interface with additional methods for error handling and
// classification.
type PlanRunnerError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to the operator.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show the operator.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// WorkspaceKind distinguishes the two workspace error kinds named by the
// error taxonomy: transient (not retried by the Runner directly; checkpoint
// and exit, operator resumes) and fatal (checkpoint and exit).
type WorkspaceKind int

const (
	// WorkspaceTransient is a spawn stutter or brief unreachability.
	WorkspaceTransient WorkspaceKind = iota
	// WorkspaceFatal is a container missing or permission denied condition.
	WorkspaceFatal
)

// String returns the string representation of the workspace error kind.
func (k WorkspaceKind) String() string {
	switch k {
	case WorkspaceTransient:
		return "transient"
	case WorkspaceFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// WorkspaceError represents errors from the coding-agent workspace
// invocation (C3).
//
// Example:
//
//	err := errors.NewFatalWorkspaceError("container image not found", cause)
//	err = err.WithTaskID("1.2")
type WorkspaceError struct {
	baseError
	Kind    WorkspaceKind
	TaskID  string
	Attempt int
}

// NewTransientWorkspaceError creates a WorkspaceError for a spawn stutter or
// brief unreachability. Not retried by the Runner directly; the run
// checkpoints and exits for the operator to resume.
func NewTransientWorkspaceError(message string, cause error) *WorkspaceError {
	return &WorkspaceError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
		Kind: WorkspaceTransient,
	}
}

// NewFatalWorkspaceError creates a WorkspaceError for a permanent condition
// (missing container image, permission denied). The run checkpoints and
// exits.
func NewFatalWorkspaceError(message string, cause error) *WorkspaceError {
	return &WorkspaceError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityCritical,
			retryable:  false,
			userFacing: true,
		},
		Kind: WorkspaceFatal,
	}
}

// WithTaskID adds a task id to the error context.
func (e *WorkspaceError) WithTaskID(id string) *WorkspaceError {
	e.TaskID = id
	return e
}

// WithAttempt adds an attempt number to the error context.
func (e *WorkspaceError) WithAttempt(attempt int) *WorkspaceError {
	e.Attempt = attempt
	return e
}

// Error returns the formatted error message.
func (e *WorkspaceError) Error() string {
	parts := []string{fmt.Sprintf("kind=%s", e.Kind)}
	if e.TaskID != "" {
		parts = append(parts, fmt.Sprintf("task=%s", e.TaskID))
	}
	if e.Attempt > 0 {
		parts = append(parts, fmt.Sprintf("attempt=%d", e.Attempt))
	}

	prefix := fmt.Sprintf("workspace error [%s]", strings.Join(parts, ", "))

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *WorkspaceError) Is(target error) bool {
	if _, ok := target.(*WorkspaceError); ok {
		return true
	}
	if e.Kind == WorkspaceTransient && errors.Is(target, ErrWorkspaceUnreachable) {
		return true
	}
	if e.Kind == WorkspaceFatal && errors.Is(target, ErrWorkspaceFatal) {
		return true
	}
	return e.baseError.Is(target)
}

// OracleKind distinguishes the oracle error kinds named by the error
// taxonomy.
type OracleKind int

const (
	// OracleTransient is a transient LLM CLI failure, retried with backoff
	// internal to the oracle client.
	OracleTransient OracleKind = iota
	// OracleFatal is a persistent LLM CLI failure after exhausting internal
	// retries.
	OracleFatal
	// OracleAmbiguous is an unclear or unparseable oracle response, treated
	// as needs_help.
	OracleAmbiguous
)

// String returns the string representation of the oracle error kind.
func (k OracleKind) String() string {
	switch k {
	case OracleTransient:
		return "transient"
	case OracleFatal:
		return "fatal"
	case OracleAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// OracleError represents errors from the interpretation oracle (C4).
//
// Example:
//
//	err := errors.NewOracleFatalError("interpret", "claude CLI exited 127", cause)
type OracleError struct {
	baseError
	Kind      OracleKind
	Operation string // extract_tasks, interpret, or retry_or_escalate
}

// NewOracleTransientError creates an OracleError for a transient LLM CLI
// failure.
func NewOracleTransientError(operation, message string, cause error) *OracleError {
	return &OracleError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: false,
		},
		Kind:      OracleTransient,
		Operation: operation,
	}
}

// NewOracleFatalError creates an OracleError for a persistent LLM CLI
// failure. The run checkpoints and exits with "Oracle unavailable".
func NewOracleFatalError(operation, message string, cause error) *OracleError {
	return &OracleError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityCritical,
			retryable:  false,
			userFacing: true,
		},
		Kind:      OracleFatal,
		Operation: operation,
	}
}

// NewAmbiguousInterpretationError creates an OracleError for an unclear or
// unparseable oracle response. Callers must treat this as needs_help, never
// as a silent failure, per the safety bias.
func NewAmbiguousInterpretationError(operation, message string) *OracleError {
	return &OracleError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Kind:      OracleAmbiguous,
		Operation: operation,
	}
}

// Error returns the formatted error message.
func (e *OracleError) Error() string {
	prefix := fmt.Sprintf("oracle error [op=%s, kind=%s]", e.Operation, e.Kind)
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *OracleError) Is(target error) bool {
	if _, ok := target.(*OracleError); ok {
		return true
	}
	switch e.Kind {
	case OracleTransient:
		if errors.Is(target, ErrOracleTransient) {
			return true
		}
	case OracleFatal:
		if errors.Is(target, ErrOracleUnavailable) {
			return true
		}
	case OracleAmbiguous:
		if errors.Is(target, ErrAmbiguousInterpretation) {
			return true
		}
	}
	return e.baseError.Is(target)
}

// LockError represents errors acquiring or holding a plan lock.
//
// Example:
//
//	err := errors.NewLockError("acquire failed", errors.ErrLockHeld)
//	err = err.WithPlanID("abc123").WithHolderPID(4821)
type LockError struct {
	baseError
	PlanID    string
	HolderPID int
}

// NewLockError creates a new LockError.
func NewLockError(message string, cause error) *LockError {
	return &LockError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithPlanID adds a plan id to the error context.
func (e *LockError) WithPlanID(id string) *LockError {
	e.PlanID = id
	return e
}

// WithHolderPID adds the holding process's PID to the error context.
func (e *LockError) WithHolderPID(pid int) *LockError {
	e.HolderPID = pid
	return e
}

// Error returns the formatted error message.
func (e *LockError) Error() string {
	var parts []string
	if e.PlanID != "" {
		parts = append(parts, fmt.Sprintf("plan=%s", e.PlanID))
	}
	if e.HolderPID != 0 {
		parts = append(parts, fmt.Sprintf("held_by=%d", e.HolderPID))
	}

	prefix := "lock error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("lock error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *LockError) Is(target error) bool {
	if _, ok := target.(*LockError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// StateError represents errors reading or writing persisted plan state.
//
// Example:
//
//	err := errors.NewStateError("failed to read state", errors.ErrStateCorrupted)
//	err = err.WithPlanID("abc123").WithPath("/var/lib/planrunner/abc123.json")
type StateError struct {
	baseError
	PlanID string
	Path   string
}

// NewStateError creates a new StateError.
func NewStateError(message string, cause error) *StateError {
	return &StateError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithPlanID adds a plan id to the error context.
func (e *StateError) WithPlanID(id string) *StateError {
	e.PlanID = id
	return e
}

// WithPath adds a file path to the error context.
func (e *StateError) WithPath(path string) *StateError {
	e.Path = path
	return e
}

// WithSeverity sets the error severity. StorageUnavailable is typically
// escalated to SeverityCritical since the run aborts immediately.
func (e *StateError) WithSeverity(s Severity) *StateError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *StateError) Error() string {
	var parts []string
	if e.PlanID != "" {
		parts = append(parts, fmt.Sprintf("plan=%s", e.PlanID))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	prefix := "state error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("state error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *StateError) Is(target error) bool {
	if _, ok := target.(*StateError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("plan", "abc123")
//	fmt.Println(err) // "plan 'abc123' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("plan id cannot be empty")
//	err = err.WithField("planID").WithValue("")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("waiting for workspace invocation", 30*time.Minute)
//	fmt.Println(err) // "timeout error: waiting for workspace invocation (timeout: 30m0s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true, // Timeouts are generally retryable
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// WithRetryable sets whether the error is retryable (default true for timeouts).
func (e *TimeoutError) WithRetryable(r bool) *TimeoutError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) || errors.Is(target, ErrInvocationTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry. This checks for:
//   - Errors implementing PlanRunnerError with IsRetryable() returning true
//   - TimeoutError instances
//   - Errors wrapping ErrTimeout
//
// Example:
//
//	if errors.IsRetryable(err) {
//	    time.Sleep(backoff)
//	    return retry(operation)
//	}
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Check if error implements PlanRunnerError
	var prErr PlanRunnerError
	if As(err, &prErr) {
		return prErr.IsRetryable()
	}

	// Check for known retryable sentinel errors
	if Is(err, ErrTimeout) {
		return true
	}

	return false
}

// IsUserFacing returns true if the error message is safe to display to the
// operator. This checks for:
//   - Errors implementing PlanRunnerError with IsUserFacing() returning true
//   - Semantic errors (NotFoundError, ValidationError, TimeoutError)
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    printSummaryLine(err.Error())
//	} else {
//	    printSummaryLine("an internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	// Check if error implements PlanRunnerError
	var prErr PlanRunnerError
	if As(err, &prErr) {
		return prErr.IsUserFacing()
	}

	// Semantic errors are always user-facing
	var notFound *NotFoundError
	var validation *ValidationError
	var timeout *TimeoutError

	if As(err, &notFound) || As(err, &validation) || As(err, &timeout) {
		return true
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement PlanRunnerError.
//
// Example:
//
//	switch errors.GetSeverity(err) {
//	case errors.SeverityCritical:
//	    escalate(err)
//	case errors.SeverityError:
//	    log.Error("error occurred", "err", err)
//	case errors.SeverityWarning:
//	    log.Warn("warning", "err", err)
//	}
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	// Check if error implements PlanRunnerError
	var prErr PlanRunnerError
	if As(err, &prErr) {
		return prErr.Severity()
	}

	// Default to Error severity for unknown errors
	return SeverityError
}

// IsDomainError returns true if the error is a domain-specific error
// (WorkspaceError, OracleError, LockError, or StateError).
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}

	var workspaceErr *WorkspaceError
	var oracleErr *OracleError
	var lockErr *LockError
	var stateErr *StateError

	return As(err, &workspaceErr) || As(err, &oracleErr) ||
		As(err, &lockErr) || As(err, &stateErr)
}

// IsSemanticError returns true if the error is a semantic error
// (NotFoundError, ValidationError, or TimeoutError).
func IsSemanticError(err error) bool {
	if err == nil {
		return false
	}

	var notFound *NotFoundError
	var validation *ValidationError
	var timeout *TimeoutError

	return As(err, &notFound) || As(err, &validation) || As(err, &timeout)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike fmt.Errorf with %w, this preserves the PlanRunnerError interface.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to process request")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to process task %s", taskID)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
