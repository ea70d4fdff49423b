// Package oracle implements the interpretation oracle client: a stateless
// wrapper around a small external LLM CLI with three operations
// (extract_tasks, interpret, retry_or_escalate) that convert free-form
// text into typed decisions.
package oracle

// ExtractedTask is the minimal record the oracle emits per task when
// extracting a plan's task list.
type ExtractedTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// InterpretStatus is the three-way classification Interpret assigns to a
// transcript.
type InterpretStatus string

const (
	StatusCompleted InterpretStatus = "completed"
	StatusFailed    InterpretStatus = "failed"
	StatusNeedsHelp InterpretStatus = "needs_help"
)

// Interpretation is interpret()'s typed result.
type Interpretation struct {
	Status         InterpretStatus `json:"status"`
	Summary        string          `json:"summary"`
	Error          string          `json:"error,omitempty"`
	Question       string          `json:"question,omitempty"`
	Options        []string        `json:"options,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
}

// Decision is retry_or_escalate()'s typed result.
type Decision struct {
	Decision         DecisionKind `json:"decision"`
	Reason           string       `json:"reason"`
	GuidanceForRetry string       `json:"guidance_for_retry,omitempty"`
}

// DecisionKind is the retry-vs-escalate verdict.
type DecisionKind string

const (
	DecisionRetry    DecisionKind = "retry"
	DecisionEscalate DecisionKind = "escalate"
)
