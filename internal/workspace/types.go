// Package workspace invokes the coding agent inside the isolated
// workspace: it spawns the agent CLI as a subprocess, streams
// structured progress events to a callback, captures the complete textual
// transcript, and enforces timeout/cancellation.
package workspace

import "time"

// Termination is the reason an invocation ended.
type Termination string

const (
	TerminationNormal      Termination = "normal"
	TerminationTimeout     Termination = "timeout"
	TerminationCancelled   Termination = "cancelled"
	TerminationSpawnFailed Termination = "spawn_failed"
)

// ToolUseEvent mirrors the `tool_use` NDJSON event from the agent's
// stream, forwarded to Invoke's OnEvent callback as the invocation runs.
type ToolUseEvent struct {
	Name  string
	Input map[string]any
}

// OnEvent is called for every tool_use event in the invocation's event
// stream, in stream order, on a dispatcher goroutine separate from the
// stream reader. A slow callback does not stall the reader: once the
// bounded queue between them is full, the oldest queued events are dropped.
type OnEvent func(ToolUseEvent)

// InvokeOptions are the inputs to a single workspace invocation.
type InvokeOptions struct {
	// Prompt is the free-form instruction seed: task title, description,
	// and any resumption guidance, combined by the caller.
	Prompt string
	// Model is the coding agent's underlying model identifier.
	Model string
	// MaxTurns hard-bounds the agent's internal turn count.
	MaxTurns int
	// AllowedTools lists the tool names the agent may use.
	AllowedTools []string
	// Timeout is the wall-clock cap for the whole invocation. Zero disables
	// the timeout.
	Timeout time.Duration
	// OnEvent receives streamed progress events. May be nil.
	OnEvent OnEvent
	// Cancel, if non-nil, is closed to request cancellation at any time.
	Cancel <-chan struct{}
}

// Result is what Invoke returns.
type Result struct {
	Transcript  string
	IsError     bool
	CostUSD     float64
	DurationMs  int64
	Turns       int
	SessionID   string
	Termination Termination
}
