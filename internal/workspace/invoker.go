package workspace

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	planrunnererrors "github.com/loopforge/planrunner/internal/errors"
	"github.com/loopforge/planrunner/internal/logging"
	"github.com/sourcegraph/conc"
)

// CommandBuilder builds the executable and arguments for a single
// invocation from its options. Swappable in tests.
type CommandBuilder func(opts InvokeOptions) (name string, args []string)

// toolEventQueueSize bounds the channel between the NDJSON line reader and
// the onEvent dispatch goroutine. A full queue drops the oldest queued
// event rather than blocking the reader.
const toolEventQueueSize = 64

// Invoker runs the coding agent CLI as a subprocess. A single Invoker only
// ever runs one invocation at a time; the workspace is assumed to permit
// exactly one active invocation.
type Invoker struct {
	command      CommandBuilder
	gracefulStop time.Duration
	logger       *logging.Logger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithCommandBuilder overrides how the subprocess command line is built,
// for tests.
func WithCommandBuilder(builder CommandBuilder) Option {
	return func(iv *Invoker) { iv.command = builder }
}

// WithLogger attaches a logger for malformed-event diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(iv *Invoker) { iv.logger = logger }
}

// NewInvoker constructs an Invoker that runs command (with args, plus
// per-invocation flags derived from InvokeOptions) as the coding agent
// CLI, waiting gracefulStop after an interrupt before force-killing on
// cancellation.
func NewInvoker(command string, args []string, gracefulStop time.Duration, opts ...Option) *Invoker {
	iv := &Invoker{
		command:      defaultCommandBuilder(command, args),
		gracefulStop: gracefulStop,
	}
	for _, opt := range opts {
		opt(iv)
	}
	return iv
}

func defaultCommandBuilder(command string, baseArgs []string) CommandBuilder {
	return func(opts InvokeOptions) (string, []string) {
		args := make([]string, len(baseArgs))
		copy(args, baseArgs)

		if opts.Model != "" {
			args = append(args, "--model", opts.Model)
		}
		if opts.MaxTurns > 0 {
			args = append(args, "--max-turns", fmt.Sprintf("%d", opts.MaxTurns))
		}
		if len(opts.AllowedTools) > 0 {
			args = append(args, "--allowed-tools", strings.Join(opts.AllowedTools, ","))
		}
		args = append(args, "--permission-mode", "acceptEdits", "--output-format", "stream-json", "-p", opts.Prompt)
		return command, args
	}
}

// Invoke runs the coding agent against a single task. It streams NDJSON
// events from stdout, dispatching tool_use events to opts.OnEvent as they
// arrive, and returns once the `result` event closes the stream, the
// timeout elapses, the process fails to spawn, or opts.Cancel fires. Three
// concurrent activities coexist for the duration of one call: the child
// process, the stdout consumer, and this method's own wait/cancel watch.
func (iv *Invoker) Invoke(ctx context.Context, opts InvokeOptions) (Result, error) {
	name, args := iv.command(opts)
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{Termination: TerminationSpawnFailed}, planrunnererrors.NewFatalWorkspaceError("failed to open stdout pipe", err)
	}

	if err := cmd.Start(); err != nil {
		return Result{Termination: TerminationSpawnFailed}, planrunnererrors.NewFatalWorkspaceError("failed to spawn workspace process", err)
	}

	pgid := cmd.Process.Pid

	var finalResult resultEvent
	var sawResult bool

	eventCh, stopDispatch := startEventDispatcher(opts.OnEvent)

	consumed := make(chan struct{})
	var wg conc.WaitGroup
	wg.Go(func() {
		defer close(consumed)
		defer stopDispatch()
		iv.consume(stdout, eventCh, &finalResult, &sawResult)
	})

	// cmd.Wait closes the stdout pipe, so it only runs once the consumer
	// has read the stream to EOF.
	waitDone := make(chan error, 1)
	go func() {
		<-consumed
		waitDone <- cmd.Wait()
	}()

	var timeoutC <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	select {
	case err := <-waitDone:
		wg.Wait()
		return iv.finish(sawResult, finalResult, err), nil

	case <-timeoutC:
		terminateProcessGroup(pgid, iv.gracefulStop)
		<-waitDone
		wg.Wait()
		return Result{Transcript: "timed out after the configured invocation timeout", IsError: true, Termination: TerminationTimeout}, nil

	case <-opts.Cancel:
		terminateProcessGroup(pgid, iv.gracefulStop)
		<-waitDone
		wg.Wait()
		return Result{Termination: TerminationCancelled}, nil

	case <-ctx.Done():
		terminateProcessGroup(pgid, iv.gracefulStop)
		<-waitDone
		wg.Wait()
		return Result{Termination: TerminationCancelled}, nil
	}
}

func (iv *Invoker) finish(sawResult bool, final resultEvent, waitErr error) Result {
	if !sawResult {
		transcript := "invocation ended without a final result event"
		if waitErr != nil {
			transcript = fmt.Sprintf("%s: %v", transcript, waitErr)
		}
		return Result{Transcript: transcript, IsError: true, Termination: TerminationNormal}
	}

	return Result{
		Transcript:  final.Result,
		IsError:     final.IsError,
		CostUSD:     final.TotalCostUSD,
		DurationMs:  final.DurationMs,
		Turns:       final.NumTurns,
		SessionID:   final.SessionID,
		Termination: TerminationNormal,
	}
}

// resultEvent is the final NDJSON event's shape.
type resultEvent struct {
	IsError      bool    `json:"is_error"`
	Result       string  `json:"result"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	DurationMs   int64   `json:"duration_ms"`
	NumTurns     int     `json:"num_turns"`
	SessionID    string  `json:"session_id"`
}

// toolUseEventWire is the wire shape of a tool_use NDJSON event.
type toolUseEventWire struct {
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// startEventDispatcher runs onEvent on its own goroutine, reading from a
// bounded channel so a slow or blocking onEvent (e.g. an event bus fanning
// out to a network-backed mirror) never backpressures the NDJSON reader
// that feeds it. Stop is only called once the feeding
// consume loop has already returned, so by then nothing sends on ch again;
// the dispatcher drains whatever is left queued before exiting, rather
// than racing a still-buffered event against the stop signal.
func startEventDispatcher(onEvent OnEvent) (chan ToolUseEvent, func()) {
	ch := make(chan ToolUseEvent, toolEventQueueSize)
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	dispatch := func(e ToolUseEvent) {
		if onEvent != nil {
			onEvent(e)
		}
	}

	go func() {
		defer close(doneCh)
		for {
			select {
			case e := <-ch:
				dispatch(e)
			case <-stopCh:
				for {
					select {
					case e := <-ch:
						dispatch(e)
					default:
						return
					}
				}
			}
		}
	}()

	return ch, func() {
		close(stopCh)
		<-doneCh
	}
}

// enqueueDropOldest sends e to ch without blocking. If ch is full, the
// oldest queued event is dropped to make room; event loss is preferred
// over blocking the reader.
func enqueueDropOldest(ch chan ToolUseEvent, e ToolUseEvent) {
	for {
		select {
		case ch <- e:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// consume reads NDJSON lines from stdout, enqueueing tool_use events onto
// eventCh and capturing the final result event. Malformed lines are logged
// and skipped; unknown types are ignored silently. The
// invoker keeps consuming the stream even if the event dispatcher (and, in
// turn, onEvent) is slow, since enqueueDropOldest never blocks.
func (iv *Invoker) consume(stdout io.Reader, eventCh chan ToolUseEvent, final *resultEvent, sawResult *bool) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(line, &envelope); err != nil {
			if iv.logger != nil {
				iv.logger.Warn("malformed workspace event line", "error", err)
			}
			continue
		}

		switch envelope.Type {
		case "tool_use":
			var wire toolUseEventWire
			if err := json.Unmarshal(line, &wire); err != nil {
				if iv.logger != nil {
					iv.logger.Warn("malformed tool_use event", "error", err)
				}
				continue
			}
			enqueueDropOldest(eventCh, ToolUseEvent{Name: wire.Name, Input: wire.Input})
		case "result":
			if err := json.Unmarshal(line, final); err != nil {
				if iv.logger != nil {
					iv.logger.Warn("malformed result event", "error", err)
				}
				continue
			}
			*sawResult = true
		default:
			// unknown event types are ignored silently
		}
	}
}
