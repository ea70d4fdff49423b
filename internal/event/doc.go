// Package event provides a pub-sub event bus decoupling the Runner from its
// progress display and monitoring consumers.
//
// The Runner publishes events as it drives a plan through its tasks; a CLI
// progress renderer and an optional Redis mirror each subscribe
// independently. Nothing about plan execution depends on a subscriber
// receiving or acting on an event; event delivery is advisory only.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Plan Lifecycle:
//   - [PlanStartedEvent]: Emitted when a run begins iterating a plan's tasks
//   - [PlanCompletedEvent]: Emitted when a run reaches a terminal outcome
//   - [PlanCancelledEvent]: Emitted when an operator cancel signal fires
//
// Task Lifecycle:
//   - [TaskStartedEvent]: Emitted when an attempt at a task begins
//   - [TaskFinishedEvent]: Emitted when an attempt reaches a terminal status
//   - [TaskEscalatedEvent]: Emitted when a task is handed to the Escalation Channel
//
// Workspace Invocation Display:
//   - [ToolUseEvent]: Forwarded from the Workspace Invoker's structured event stream
//
// Queue:
//   - [QueueAdvancedEvent]: Emitted when the Runner moves to the next task
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Multiple goroutines can publish
// and subscribe concurrently. Handlers are called synchronously and protected
// against panics - a panicking handler will not prevent other handlers from
// being called.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	// Subscribe to specific event types
//	bus.Subscribe("task.started", func(e event.Event) {
//	    started := e.(event.TaskStartedEvent)
//	    log.Printf("task %s attempt %d started", started.TaskID, started.Attempt)
//	})
//
//	// Subscribe to all events (useful for logging or the Redis mirror)
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("event: %s at %v", e.EventType(), e.Timestamp())
//	})
//
//	// Publish events
//	bus.Publish(event.NewTaskStartedEvent("1.1", "install dependencies", 1))
//
//	// Unsubscribe when done
//	id := bus.Subscribe("plan.completed", handler)
//	bus.Unsubscribe(id)
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - plan.started, plan.completed, plan.cancelled
//   - task.started, task.finished, task.escalated
//   - tool.use
//   - queue.advanced
package event
