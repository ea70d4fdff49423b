// Package state persists a durable, one-file-per-plan record of completed
// tasks, per-task results, attempt history, and end-to-end verification
// status.
package state

import (
	"encoding/json"
	"time"
)

// TaskStatus is the terminal status recorded for a task.
type TaskStatus string

const (
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
	StatusNeedsHelp TaskStatus = "needs_help"
	StatusCancelled TaskStatus = "cancelled"
)

// E2EStatus is the status of the plan's end-to-end verification scenario.
type E2EStatus string

const (
	E2ENone      E2EStatus = ""
	E2EPending   E2EStatus = "pending"
	E2EPassed    E2EStatus = "passed"
	E2EFailed    E2EStatus = "failed"
	E2ENeedsHelp E2EStatus = "needs_help"
)

// TaskResult is recorded when a task exits the Runner, whether by
// completion, cancellation, or terminal failure.
type TaskResult struct {
	TaskID          string     `json:"task_id"`
	Status          TaskStatus `json:"status"`
	DurationSeconds float64    `json:"duration_seconds"`
	CostUSD         float64    `json:"cost_usd"`
	TokensUsed      int        `json:"tokens_used,omitempty"`
	SessionID       string     `json:"session_id,omitempty"`
	Summary         string     `json:"summary"`
	Error           string     `json:"error,omitempty"`
	Question        string     `json:"question,omitempty"`
	Options         []string   `json:"options,omitempty"`
	Recommendation  string     `json:"recommendation,omitempty"`
}

// PlanState is the persisted per-plan document. Unknown top-level fields
// are preserved across a load/save round trip via Extra, so records
// written by a newer version of this program survive an older one.
type PlanState struct {
	PlanID         string                     `json:"plan_id"`
	PlanPath       string                     `json:"plan_path"`
	StartedAt      time.Time                  `json:"started_at"`
	CompletedTasks []string                   `json:"completed_tasks"`
	TaskResults    map[string]TaskResult      `json:"task_results"`
	AttemptHistory map[string][]string        `json:"attempt_history"`
	E2EStatus      E2EStatus                  `json:"e2e_status"`
	Extra          map[string]json.RawMessage `json:"-"`
}

// New returns an initialized, empty PlanState for a freshly started run.
func New(planID, planPath string) *PlanState {
	return &PlanState{
		PlanID:         planID,
		PlanPath:       planPath,
		StartedAt:      time.Now(),
		CompletedTasks: []string{},
		TaskResults:    make(map[string]TaskResult),
		AttemptHistory: make(map[string][]string),
		E2EStatus:      E2ENone,
	}
}

// IsCompleted reports whether taskID already appears in CompletedTasks.
func (s *PlanState) IsCompleted(taskID string) bool {
	for _, id := range s.CompletedTasks {
		if id == taskID {
			return true
		}
	}
	return false
}

// MarkCompleted appends taskID to CompletedTasks if not already present and
// records its result. Call only when the task's status is completed;
// callers own the monotonicity invariant, the Store never validates it.
func (s *PlanState) MarkCompleted(result TaskResult) {
	if s.TaskResults == nil {
		s.TaskResults = make(map[string]TaskResult)
	}
	s.TaskResults[result.TaskID] = result
	if !s.IsCompleted(result.TaskID) {
		s.CompletedTasks = append(s.CompletedTasks, result.TaskID)
	}
}

// RecordResult stores a task's terminal result without marking it completed
// (used for failed/cancelled outcomes, which are not appended to
// CompletedTasks).
func (s *PlanState) RecordResult(result TaskResult) {
	if s.TaskResults == nil {
		s.TaskResults = make(map[string]TaskResult)
	}
	s.TaskResults[result.TaskID] = result
}

// AppendAttempt records a one-line attempt summary for taskID, used as
// input to the retry-or-escalate oracle.
func (s *PlanState) AppendAttempt(taskID, summary string) {
	if s.AttemptHistory == nil {
		s.AttemptHistory = make(map[string][]string)
	}
	s.AttemptHistory[taskID] = append(s.AttemptHistory[taskID], summary)
}

// MarshalJSON merges Extra's preserved unknown fields back in alongside the
// known fields, so a load/save round trip never drops data written by a
// newer version of this program.
func (s PlanState) MarshalJSON() ([]byte, error) {
	type alias PlanState
	known, err := json.Marshal(alias(s))
	if err != nil {
		return nil, err
	}

	if len(s.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(s.Extra)+8)
	for k, v := range s.Extra {
		merged[k] = v
	}

	var knownMap map[string]json.RawMessage
	if err := json.Unmarshal(known, &knownMap); err != nil {
		return nil, err
	}
	for k, v := range knownMap {
		merged[k] = v
	}

	return json.Marshal(merged)
}

// UnmarshalJSON decodes known fields into PlanState and stashes every
// unrecognized top-level key in Extra for round-tripping.
func (s *PlanState) UnmarshalJSON(data []byte) error {
	type alias PlanState
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = PlanState(a)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := map[string]bool{
		"plan_id": true, "plan_path": true, "started_at": true,
		"completed_tasks": true, "task_results": true,
		"attempt_history": true, "e2e_status": true,
	}
	s.Extra = make(map[string]json.RawMessage)
	for k, v := range raw {
		if !known[k] {
			s.Extra[k] = v
		}
	}
	return nil
}
