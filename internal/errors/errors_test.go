package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// WorkspaceError Tests
// -----------------------------------------------------------------------------

func TestNewTransientWorkspaceError(t *testing.T) {
	cause := ErrWorkspaceUnreachable
	err := NewTransientWorkspaceError("spawn stutter", cause)

	if err.message != "spawn stutter" {
		t.Errorf("message = %q, want %q", err.message, "spawn stutter")
	}
	if err.Kind != WorkspaceTransient {
		t.Errorf("Kind = %v, want %v", err.Kind, WorkspaceTransient)
	}
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false, want true")
	}
	if !err.IsUserFacing() {
		t.Error("IsUserFacing() = false, want true")
	}
}

func TestNewFatalWorkspaceError(t *testing.T) {
	err := NewFatalWorkspaceError("container image missing", ErrWorkspaceFatal)

	if err.Kind != WorkspaceFatal {
		t.Errorf("Kind = %v, want %v", err.Kind, WorkspaceFatal)
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
	if err.Severity() != SeverityCritical {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityCritical)
	}
}

func TestWorkspaceError_WithMethods(t *testing.T) {
	err := NewTransientWorkspaceError("test", nil).
		WithTaskID("1.2").
		WithAttempt(3)

	if err.TaskID != "1.2" {
		t.Errorf("TaskID = %q, want %q", err.TaskID, "1.2")
	}
	if err.Attempt != 3 {
		t.Errorf("Attempt = %d, want 3", err.Attempt)
	}
}

func TestWorkspaceError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *WorkspaceError
		want string
	}{
		{
			name: "basic transient error",
			err:  NewTransientWorkspaceError("spawn failed", nil),
			want: "workspace error [kind=transient]: spawn failed",
		},
		{
			name: "fatal error with cause",
			err:  NewFatalWorkspaceError("permission denied", ErrWorkspaceFatal),
			want: "workspace error [kind=fatal]: permission denied: workspace fatal error",
		},
		{
			name: "with task and attempt",
			err:  NewTransientWorkspaceError("test", nil).WithTaskID("2.1").WithAttempt(2),
			want: "workspace error [kind=transient, task=2.1, attempt=2]: test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkspaceError_Is(t *testing.T) {
	err := NewTransientWorkspaceError("test", nil).WithTaskID("1.1")

	if !Is(err, &WorkspaceError{}) {
		t.Error("Is(WorkspaceError{}) = false, want true")
	}
	if !Is(err, ErrWorkspaceUnreachable) {
		t.Error("Is(ErrWorkspaceUnreachable) = false, want true")
	}

	fatal := NewFatalWorkspaceError("test", nil)
	if !Is(fatal, ErrWorkspaceFatal) {
		t.Error("Is(ErrWorkspaceFatal) = false, want true")
	}
	if Is(fatal, ErrWorkspaceUnreachable) {
		t.Error("fatal error should not match transient sentinel")
	}
}

func TestWorkspaceError_Unwrap(t *testing.T) {
	cause := ErrWorkspaceUnreachable
	err := NewTransientWorkspaceError("test", cause)

	if unwrapped := Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

// -----------------------------------------------------------------------------
// OracleError Tests
// -----------------------------------------------------------------------------

func TestNewOracleTransientError(t *testing.T) {
	err := NewOracleTransientError("interpret", "claude CLI hiccup", ErrOracleTransient)

	if err.Operation != "interpret" {
		t.Errorf("Operation = %q, want %q", err.Operation, "interpret")
	}
	if err.Kind != OracleTransient {
		t.Errorf("Kind = %v, want %v", err.Kind, OracleTransient)
	}
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false, want true")
	}
	if err.IsUserFacing() {
		t.Error("IsUserFacing() = true, want false (internal retry detail)")
	}
}

func TestNewOracleFatalError(t *testing.T) {
	err := NewOracleFatalError("retry_or_escalate", "claude CLI exited 127", nil)

	if err.Kind != OracleFatal {
		t.Errorf("Kind = %v, want %v", err.Kind, OracleFatal)
	}
	if err.Severity() != SeverityCritical {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityCritical)
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
}

func TestNewAmbiguousInterpretationError(t *testing.T) {
	err := NewAmbiguousInterpretationError("interpret", "status field unparseable")

	if err.Kind != OracleAmbiguous {
		t.Errorf("Kind = %v, want %v", err.Kind, OracleAmbiguous)
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
	if !err.IsUserFacing() {
		t.Error("IsUserFacing() = false, want true")
	}
}

func TestOracleError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *OracleError
		want string
	}{
		{
			name: "transient",
			err:  NewOracleTransientError("extract_tasks", "timeout", nil),
			want: "oracle error [op=extract_tasks, kind=transient]: timeout",
		},
		{
			name: "fatal with cause",
			err:  NewOracleFatalError("interpret", "unavailable", ErrOracleUnavailable),
			want: "oracle error [op=interpret, kind=fatal]: unavailable: oracle unavailable",
		},
		{
			name: "ambiguous",
			err:  NewAmbiguousInterpretationError("retry_or_escalate", "status: unclear"),
			want: "oracle error [op=retry_or_escalate, kind=ambiguous]: status: unclear",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOracleError_Is(t *testing.T) {
	transient := NewOracleTransientError("interpret", "test", nil)
	if !Is(transient, ErrOracleTransient) {
		t.Error("Is(ErrOracleTransient) = false, want true")
	}

	fatal := NewOracleFatalError("interpret", "test", nil)
	if !Is(fatal, ErrOracleUnavailable) {
		t.Error("Is(ErrOracleUnavailable) = false, want true")
	}

	ambiguous := NewAmbiguousInterpretationError("interpret", "test")
	if !Is(ambiguous, ErrAmbiguousInterpretation) {
		t.Error("Is(ErrAmbiguousInterpretation) = false, want true")
	}
	if Is(ambiguous, ErrOracleUnavailable) {
		t.Error("ambiguous error should not match fatal sentinel")
	}
}

// -----------------------------------------------------------------------------
// LockError Tests
// -----------------------------------------------------------------------------

func TestNewLockError(t *testing.T) {
	err := NewLockError("acquire failed", ErrLockHeld).
		WithPlanID("plan-1").
		WithHolderPID(4821)

	if err.PlanID != "plan-1" {
		t.Errorf("PlanID = %q, want %q", err.PlanID, "plan-1")
	}
	if err.HolderPID != 4821 {
		t.Errorf("HolderPID = %d, want 4821", err.HolderPID)
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
}

func TestLockError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *LockError
		want string
	}{
		{
			name: "basic error",
			err:  NewLockError("acquire failed", nil),
			want: "lock error: acquire failed",
		},
		{
			name: "with plan and holder",
			err:  NewLockError("held", ErrLockHeld).WithPlanID("plan-9").WithHolderPID(111),
			want: "lock error [plan=plan-9, held_by=111]: held: lock held by another process",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLockError_Is(t *testing.T) {
	err := NewLockError("test", ErrLockHeld)

	if !Is(err, &LockError{}) {
		t.Error("Is(LockError{}) = false, want true")
	}
	if !Is(err, ErrLockHeld) {
		t.Error("Is(ErrLockHeld) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// StateError Tests
// -----------------------------------------------------------------------------

func TestNewStateError(t *testing.T) {
	err := NewStateError("failed to read state", ErrStateCorrupted).
		WithPlanID("plan-1").
		WithPath("/var/lib/planrunner/plan-1.json")

	if err.PlanID != "plan-1" {
		t.Errorf("PlanID = %q, want %q", err.PlanID, "plan-1")
	}
	if err.Path != "/var/lib/planrunner/plan-1.json" {
		t.Errorf("Path = %q, want %q", err.Path, "/var/lib/planrunner/plan-1.json")
	}
	if err.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityError)
	}
}

func TestStateError_WithSeverity(t *testing.T) {
	err := NewStateError("unwritable", ErrStorageUnavailable).WithSeverity(SeverityCritical)

	if err.Severity() != SeverityCritical {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityCritical)
	}
}

func TestStateError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StateError
		want string
	}{
		{
			name: "basic error",
			err:  NewStateError("test error", nil),
			want: "state error: test error",
		},
		{
			name: "with plan and path",
			err:  NewStateError("corrupted", ErrStateCorrupted).WithPlanID("p1").WithPath("/tmp/p1.json"),
			want: "state error [plan=p1, path=/tmp/p1.json]: corrupted: plan state corrupted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateError_Is(t *testing.T) {
	err := NewStateError("test", ErrStateNotFound)

	if !Is(err, &StateError{}) {
		t.Error("Is(StateError{}) = false, want true")
	}
	if !Is(err, ErrStateNotFound) {
		t.Error("Is(ErrStateNotFound) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// NotFoundError Tests
// -----------------------------------------------------------------------------

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("plan", "abc123")

	if err.ResourceType != "plan" {
		t.Errorf("ResourceType = %q, want %q", err.ResourceType, "plan")
	}
	if err.ResourceID != "abc123" {
		t.Errorf("ResourceID = %q, want %q", err.ResourceID, "abc123")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestNotFoundError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *NotFoundError
		want string
	}{
		{
			name: "basic error",
			err:  NewNotFoundError("plan", "abc"),
			want: "plan 'abc' not found",
		},
		{
			name: "with cause",
			err:  NewNotFoundError("task", "1.2").WithCause(fmt.Errorf("IO error")),
			want: "task '1.2' not found: IO error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotFoundError_Is(t *testing.T) {
	err := NewNotFoundError("plan", "abc")

	if !Is(err, &NotFoundError{}) {
		t.Error("Is(NotFoundError{}) = false, want true")
	}
	// NotFoundError does not wrap sentinel errors by default
	if Is(err, ErrStateNotFound) {
		t.Error("Is(ErrStateNotFound) = true, want false (not wrapped)")
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("plan id cannot be empty")

	if err.message != "plan id cannot be empty" {
		t.Errorf("message = %q, want %q", err.message, "plan id cannot be empty")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestValidationError_WithMethods(t *testing.T) {
	err := NewValidationError("invalid value").
		WithField("planID").
		WithValue("").
		WithCause(fmt.Errorf("must not be empty"))

	if err.Field != "planID" {
		t.Errorf("Field = %q, want %q", err.Field, "planID")
	}
	if err.Value != "" {
		t.Errorf("Value = %v, want empty string", err.Value)
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "basic error",
			err:  NewValidationError("invalid input"),
			want: "validation error: invalid input",
		},
		{
			name: "with field",
			err:  NewValidationError("cannot be empty").WithField("name"),
			want: "validation error [field=name]: cannot be empty",
		},
		{
			name: "with field and value",
			err:  NewValidationError("must be positive").WithField("count").WithValue(-1),
			want: "validation error [field=count, value=-1]: must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Is(t *testing.T) {
	err := NewValidationError("test")

	if !Is(err, &ValidationError{}) {
		t.Error("Is(ValidationError{}) = false, want true")
	}
	// ValidationError should match ErrInvalidInput
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// TimeoutError Tests
// -----------------------------------------------------------------------------

func TestNewTimeoutError(t *testing.T) {
	err := NewTimeoutError("waiting for workspace invocation", 30*time.Second)

	if err.Operation != "waiting for workspace invocation" {
		t.Errorf("Operation = %q, want %q", err.Operation, "waiting for workspace invocation")
	}
	if err.Duration != 30*time.Second {
		t.Errorf("Duration = %v, want %v", err.Duration, 30*time.Second)
	}
	// Timeouts are retryable by default
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false, want true")
	}
}

func TestTimeoutError_WithMethods(t *testing.T) {
	err := NewTimeoutError("test", time.Second).
		WithCause(fmt.Errorf("context deadline exceeded")).
		WithRetryable(false)

	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
}

func TestTimeoutError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *TimeoutError
		want string
	}{
		{
			name: "basic error",
			err:  NewTimeoutError("waiting for response", 5*time.Second),
			want: "timeout error: waiting for response (timeout: 5s)",
		},
		{
			name: "with cause",
			err:  NewTimeoutError("connecting", time.Minute).WithCause(fmt.Errorf("network unreachable")),
			want: "timeout error: connecting (timeout: 1m0s): network unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTimeoutError_Is(t *testing.T) {
	err := NewTimeoutError("test", time.Second)

	if !Is(err, &TimeoutError{}) {
		t.Error("Is(TimeoutError{}) = false, want true")
	}
	// TimeoutError should match ErrTimeout
	if !Is(err, ErrTimeout) {
		t.Error("Is(ErrTimeout) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Classification Helper Tests
// -----------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "timeout error",
			err:  NewTimeoutError("test", time.Second),
			want: true,
		},
		{
			name: "fatal workspace error not retryable",
			err:  NewFatalWorkspaceError("test", nil),
			want: false,
		},
		{
			name: "transient workspace error retryable",
			err:  NewTransientWorkspaceError("test", nil),
			want: true,
		},
		{
			name: "wrapped timeout sentinel",
			err:  fmt.Errorf("operation failed: %w", ErrTimeout),
			want: true,
		},
		{
			name: "standard error",
			err:  errors.New("standard error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "workspace error",
			err:  NewFatalWorkspaceError("test", nil),
			want: true,
		},
		{
			name: "oracle transient error is internal",
			err:  NewOracleTransientError("interpret", "test", nil),
			want: false,
		},
		{
			name: "not found error",
			err:  NewNotFoundError("plan", "abc"),
			want: true,
		},
		{
			name: "validation error",
			err:  NewValidationError("invalid input"),
			want: true,
		},
		{
			name: "timeout error",
			err:  NewTimeoutError("waiting", time.Second),
			want: true,
		},
		{
			name: "standard error",
			err:  errors.New("internal error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{
			name: "nil error",
			err:  nil,
			want: SeverityDebug,
		},
		{
			name: "transient workspace error",
			err:  NewTransientWorkspaceError("test", nil),
			want: SeverityWarning,
		},
		{
			name: "fatal workspace error",
			err:  NewFatalWorkspaceError("test", nil),
			want: SeverityCritical,
		},
		{
			name: "not found error",
			err:  NewNotFoundError("plan", "abc"),
			want: SeverityWarning,
		},
		{
			name: "standard error",
			err:  errors.New("standard"),
			want: SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "workspace error",
			err:  NewTransientWorkspaceError("test", nil),
			want: true,
		},
		{
			name: "oracle error",
			err:  NewOracleFatalError("interpret", "test", nil),
			want: true,
		},
		{
			name: "lock error",
			err:  NewLockError("test", nil),
			want: true,
		},
		{
			name: "state error",
			err:  NewStateError("test", nil),
			want: true,
		},
		{
			name: "not found error (semantic)",
			err:  NewNotFoundError("plan", "abc"),
			want: false,
		},
		{
			name: "standard error",
			err:  errors.New("test"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDomainError(tt.err); got != tt.want {
				t.Errorf("IsDomainError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSemanticError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "not found error",
			err:  NewNotFoundError("plan", "abc"),
			want: true,
		},
		{
			name: "validation error",
			err:  NewValidationError("invalid"),
			want: true,
		},
		{
			name: "timeout error",
			err:  NewTimeoutError("waiting", time.Second),
			want: true,
		},
		{
			name: "lock error (domain)",
			err:  NewLockError("test", nil),
			want: false,
		},
		{
			name: "standard error",
			err:  errors.New("test"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSemanticError(tt.err); got != tt.want {
				t.Errorf("IsSemanticError() = %v, want %v", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Wrap/Wrapf Tests
// -----------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		want    string
	}{
		{
			name:    "nil error",
			err:     nil,
			message: "context",
			want:    "",
		},
		{
			name:    "wrap standard error",
			err:     errors.New("base error"),
			message: "failed to process",
			want:    "failed to process: base error",
		},
		{
			name:    "wrap workspace error",
			err:     NewTransientWorkspaceError("spawn failed", nil),
			message: "operation failed",
			want:    "operation failed: workspace error [kind=transient]: spawn failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.err == nil {
				if got != nil {
					t.Errorf("Wrap(nil) = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.want {
				t.Errorf("Wrap().Error() = %q, want %q", got.Error(), tt.want)
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	baseErr := errors.New("base error")
	err := Wrapf(baseErr, "failed to process %s", "request")

	want := "failed to process request: base error"
	if err.Error() != want {
		t.Errorf("Wrapf().Error() = %q, want %q", err.Error(), want)
	}

	// Wrapf with nil should return nil
	if got := Wrapf(nil, "test"); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}
}

// -----------------------------------------------------------------------------
// Re-exported Functions Tests
// -----------------------------------------------------------------------------

func TestReexportedFunctions(t *testing.T) {
	// Test that re-exported functions work correctly
	baseErr := New("base error")
	wrappedErr := fmt.Errorf("wrapped: %w", baseErr)

	// Test Is
	if !Is(wrappedErr, baseErr) {
		t.Error("Is() should return true for wrapped error")
	}

	// Test Unwrap
	if Unwrap(wrappedErr) == nil {
		t.Error("Unwrap() should return the base error")
	}

	// Test As
	var workspaceErr *WorkspaceError
	testErr := NewTransientWorkspaceError("test", nil)
	if !As(testErr, &workspaceErr) {
		t.Error("As() should extract WorkspaceError")
	}

	// Test Join
	err1 := New("error 1")
	err2 := New("error 2")
	joined := Join(err1, err2)
	if !Is(joined, err1) || !Is(joined, err2) {
		t.Error("Join() should combine errors")
	}
}

// -----------------------------------------------------------------------------
// Error Chain Tests
// -----------------------------------------------------------------------------

func TestErrorChain(t *testing.T) {
	// Create a chain of errors
	baseErr := ErrLockHeld
	lockErr := NewLockError("failed to acquire", baseErr).WithPlanID("abc123")
	wrappedErr := Wrap(lockErr, "operation failed")

	// Should be able to find all errors in the chain
	if !Is(wrappedErr, ErrLockHeld) {
		t.Error("Should find ErrLockHeld in chain")
	}

	var extracted *LockError
	if !As(wrappedErr, &extracted) {
		t.Error("Should extract LockError from chain")
	}
	if extracted.PlanID != "abc123" {
		t.Errorf("PlanID = %q, want %q", extracted.PlanID, "abc123")
	}
}

// -----------------------------------------------------------------------------
// Sentinel Error Tests
// -----------------------------------------------------------------------------

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	sentinels := []error{
		ErrWorkspaceUnreachable,
		ErrWorkspaceFatal,
		ErrAgentTaskFailure,
		ErrInvocationTimeout,
		ErrOracleTransient,
		ErrOracleUnavailable,
		ErrAmbiguousInterpretation,
		ErrLockHeld,
		ErrLockStale,
		ErrStorageUnavailable,
		ErrStateNotFound,
		ErrStateCorrupted,
		ErrTimeout,
		ErrCanceled,
		ErrInvalidInput,
		ErrOperationFailed,
	}

	// Check that each sentinel is distinct from all others
	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && Is(err1, err2) {
				t.Errorf("Sentinel error %v should not match %v", err1, err2)
			}
		}
	}
}
