// Package event defines the progress event catalog used to decouple the
// Runner from its display and monitoring consumers. Events are advisory:
// nothing in the Runner's correctness depends on a subscriber receiving or
// acting on them; event loss is always preferred over blocking execution.
package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "task.started", "plan.completed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Plan Lifecycle Events
// -----------------------------------------------------------------------------

// PlanStartedEvent is emitted when a run begins iterating over a plan's
// tasks, after the lock is acquired and tasks are extracted.
type PlanStartedEvent struct {
	baseEvent
	PlanID    string // Plan identifier
	TaskCount int    // Number of tasks extracted from the plan text
	Resumed   bool   // True if this is a resumed run rather than a fresh one
}

// NewPlanStartedEvent creates a PlanStartedEvent.
func NewPlanStartedEvent(planID string, taskCount int, resumed bool) PlanStartedEvent {
	return PlanStartedEvent{
		baseEvent: newBaseEvent("plan.started"),
		PlanID:    planID,
		TaskCount: taskCount,
		Resumed:   resumed,
	}
}

// PlanCompletedEvent is emitted when a run reaches a terminal outcome: all
// tasks completed (and the e2e scenario, if any, was evaluated), or the run
// stopped early.
type PlanCompletedEvent struct {
	baseEvent
	PlanID    string // Plan identifier
	E2EStatus string // one of null, pending, passed, failed, needs_help (empty if no e2e block)
	Reason    string // human-readable summary of the terminal outcome
}

// NewPlanCompletedEvent creates a PlanCompletedEvent.
func NewPlanCompletedEvent(planID, e2eStatus, reason string) PlanCompletedEvent {
	return PlanCompletedEvent{
		baseEvent: newBaseEvent("plan.completed"),
		PlanID:    planID,
		E2EStatus: e2eStatus,
		Reason:    reason,
	}
}

// PlanCancelledEvent is emitted when an operator cancel signal interrupts a
// run mid-task.
type PlanCancelledEvent struct {
	baseEvent
	PlanID string // Plan identifier
	TaskID string // Task that was active when cancellation fired (may be empty)
}

// NewPlanCancelledEvent creates a PlanCancelledEvent.
func NewPlanCancelledEvent(planID, taskID string) PlanCancelledEvent {
	return PlanCancelledEvent{
		baseEvent: newBaseEvent("plan.cancelled"),
		PlanID:    planID,
		TaskID:    taskID,
	}
}

// -----------------------------------------------------------------------------
// Task Lifecycle Events
// -----------------------------------------------------------------------------

// TaskStartedEvent is emitted when the Runner begins an attempt at a task.
type TaskStartedEvent struct {
	baseEvent
	TaskID  string // Task identifier from the plan
	Title   string // Task title
	Attempt int    // 1-indexed attempt number for this task
}

// NewTaskStartedEvent creates a TaskStartedEvent.
func NewTaskStartedEvent(taskID, title string, attempt int) TaskStartedEvent {
	return TaskStartedEvent{
		baseEvent: newBaseEvent("task.started"),
		TaskID:    taskID,
		Title:     title,
		Attempt:   attempt,
	}
}

// TaskStatus is the terminal status of a task attempt.
type TaskStatus string

const (
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusNeedsHelp TaskStatus = "needs_help"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// TaskFinishedEvent is emitted when an attempt at a task reaches one of the
// four terminal per-attempt statuses.
type TaskFinishedEvent struct {
	baseEvent
	TaskID  string     // Task identifier from the plan
	Status  TaskStatus // completed, failed, needs_help, or cancelled
	Summary string     // Oracle's summary, or a synthesized message for timeouts
	Attempt int        // Attempt number this outcome belongs to
}

// NewTaskFinishedEvent creates a TaskFinishedEvent.
func NewTaskFinishedEvent(taskID string, status TaskStatus, summary string, attempt int) TaskFinishedEvent {
	return TaskFinishedEvent{
		baseEvent: newBaseEvent("task.finished"),
		TaskID:    taskID,
		Status:    status,
		Summary:   summary,
		Attempt:   attempt,
	}
}

// TaskEscalatedEvent is emitted when a task's needs_help interpretation (or
// an Oracle-requested escalate decision) is handed to the Escalation
// Channel.
type TaskEscalatedEvent struct {
	baseEvent
	TaskID   string   // Task identifier from the plan
	Question string   // Question put to the operator
	Options  []string // Candidate answers, if any
}

// NewTaskEscalatedEvent creates a TaskEscalatedEvent.
func NewTaskEscalatedEvent(taskID, question string, options []string) TaskEscalatedEvent {
	return TaskEscalatedEvent{
		baseEvent: newBaseEvent("task.escalated"),
		TaskID:    taskID,
		Question:  question,
		Options:   options,
	}
}

// -----------------------------------------------------------------------------
// Workspace Invocation Display Events
// -----------------------------------------------------------------------------

// ToolUseEvent mirrors the `tool_use` event from the coding agent's NDJSON
// stream. It is the workspace invoker's display stream forwarded onto the
// bus.
type ToolUseEvent struct {
	baseEvent
	TaskID string         // Task the invocation belongs to
	Name   string         // Tool name reported by the agent
	Input  map[string]any // Tool input payload, as reported
}

// NewToolUseEvent creates a ToolUseEvent.
func NewToolUseEvent(taskID, name string, input map[string]any) ToolUseEvent {
	return ToolUseEvent{
		baseEvent: newBaseEvent("tool.use"),
		TaskID:    taskID,
		Name:      name,
		Input:     input,
	}
}

// -----------------------------------------------------------------------------
// Queue Events
// -----------------------------------------------------------------------------

// QueueAdvancedEvent is emitted each time the Runner moves on to the next
// not-yet-completed task in the plan's task list, independent of whether the
// prior task succeeded (used by history/progress consumers to track
// position without re-deriving it from state).
type QueueAdvancedEvent struct {
	baseEvent
	PlanID    string // Plan identifier
	TaskID    string // Task now active
	Position  int    // 0-indexed position in the extracted task list
	Remaining int    // Tasks from this one to the end of the extracted list, this one included
}

// NewQueueAdvancedEvent creates a QueueAdvancedEvent.
func NewQueueAdvancedEvent(planID, taskID string, position, remaining int) QueueAdvancedEvent {
	return QueueAdvancedEvent{
		baseEvent: newBaseEvent("queue.advanced"),
		PlanID:    planID,
		TaskID:    taskID,
		Position:  position,
		Remaining: remaining,
	}
}
