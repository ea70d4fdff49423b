// Package runner implements the sequential control loop tying the plan
// lock, state store, workspace invoker, interpretation oracle client, and
// escalation channel together to drive a plan from start to completion,
// one task at a time.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	planrunnererrors "github.com/loopforge/planrunner/internal/errors"
	"github.com/loopforge/planrunner/internal/escalate"
	"github.com/loopforge/planrunner/internal/event"
	"github.com/loopforge/planrunner/internal/logging"
	"github.com/loopforge/planrunner/internal/oracle"
	"github.com/loopforge/planrunner/internal/plan"
	"github.com/loopforge/planrunner/internal/planlock"
	"github.com/loopforge/planrunner/internal/state"
	"github.com/loopforge/planrunner/internal/workspace"
)

// defaultMaxAttemptsPerTask is the hard safety cap on attempts for a
// single task. The oracle is expected to escalate well before this bound.
const defaultMaxAttemptsPerTask = 10

// Runner drives exactly one plan at a time.
type Runner struct {
	oracleClient *oracle.Client
	invoker      *workspace.Invoker
	store        *state.Store
	escalation   *escalate.Channel
	bus          *event.Bus
	lockDir      string
	logger       *logging.Logger

	maxAttempts  int
	model        string
	maxTurns     int
	allowedTools []string
	timeout      time.Duration

	mu         sync.Mutex
	cancelCh   chan struct{}
	cancelOnce sync.Once
}

// Option configures a Runner.
type Option func(*Runner)

func WithLogger(logger *logging.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

func WithMaxAttempts(n int) Option {
	return func(r *Runner) { r.maxAttempts = n }
}

func WithModel(model string) Option {
	return func(r *Runner) { r.model = model }
}

func WithMaxTurns(n int) Option {
	return func(r *Runner) { r.maxTurns = n }
}

func WithAllowedTools(tools []string) Option {
	return func(r *Runner) { r.allowedTools = tools }
}

func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// New constructs a Runner. oracleClient, invoker, store, escalation, and
// bus are required collaborators; lockDir is where plan lock files live.
func New(oracleClient *oracle.Client, invoker *workspace.Invoker, store *state.Store, escalation *escalate.Channel, bus *event.Bus, lockDir string, opts ...Option) *Runner {
	if oracleClient == nil {
		panic("runner: oracle client must not be nil")
	}
	if invoker == nil {
		panic("runner: workspace invoker must not be nil")
	}
	if store == nil {
		panic("runner: state store must not be nil")
	}
	if escalation == nil {
		panic("runner: escalation channel must not be nil")
	}
	if bus == nil {
		panic("runner: event bus must not be nil")
	}

	r := &Runner{
		oracleClient: oracleClient,
		invoker:      invoker,
		store:        store,
		escalation:   escalation,
		bus:          bus,
		lockDir:      lockDir,
		logger:       logging.NopLogger(),
		maxAttempts:  defaultMaxAttemptsPerTask,
		cancelCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cancel signals the active run to stop at the next safe point: after the
// in-flight invocation terminates or is forcibly cancelled. Safe to call
// multiple times or before a run starts.
func (r *Runner) Cancel() {
	r.cancelOnce.Do(func() { close(r.cancelCh) })
}

func (r *Runner) cancelled() bool {
	select {
	case <-r.cancelCh:
		return true
	default:
		return false
	}
}

// Run starts or resumes a plan run. It acquires the plan
// lock, loads or creates state, re-extracts the task list fresh every time
// (the plan text is authoritative; state only tracks which tasks have
// completed), then iterates.
func (r *Runner) Run(ctx context.Context, planPath string, resume bool) error {
	// Bridge the cancel signal into the context so every suspension point
	// (invocation, oracle call, escalation prompt) honors Cancel, not just
	// the invoker's own cancel watch.
	ctx, cancelCtx := context.WithCancel(ctx)
	defer cancelCtx()
	go func() {
		select {
		case <-r.cancelCh:
			cancelCtx()
		case <-ctx.Done():
		}
	}()

	id := planID(planPath)

	lock, err := planlock.Acquire(r.lockDir, id, r.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.logger.Warn("failed to release plan lock", "plan_id", id, "error", err)
		}
	}()

	ps, err := r.store.Load(id)
	if err != nil {
		return err
	}
	switch {
	case resume && ps == nil:
		return planrunnererrors.NewStateError("no persisted state for plan; nothing to resume", planrunnererrors.ErrStateNotFound).WithPlanID(id)
	case !resume && ps != nil:
		return planrunnererrors.NewStateError("plan state already exists; use resume to continue it", planrunnererrors.ErrStateAlreadyExists).WithPlanID(id)
	case ps == nil:
		ps = state.New(id, planPath)
	}

	planText, err := plan.Load(planPath)
	if err != nil {
		return err
	}

	tasks, err := r.oracleClient.ExtractTasks(ctx, planText)
	if err != nil {
		return err
	}

	if resume {
		r.warnOnStaleCompletedTasks(ps, tasks)
	}

	r.bus.Publish(event.NewPlanStartedEvent(id, len(tasks), resume))

	for i, task := range tasks {
		if r.cancelled() {
			return r.finishCancelled(ps, "")
		}
		if ps.IsCompleted(task.ID) {
			continue
		}

		r.bus.Publish(event.NewQueueAdvancedEvent(id, task.ID, i, len(tasks)-i))

		outcome, taskErr := r.runTask(ctx, task.ID, task.Title, task.Description, ps)
		if err := r.checkpoint(ps); err != nil {
			return err
		}
		if taskErr != nil {
			return taskErr
		}
		switch outcome {
		case outcomeDone:
			continue
		case outcomeCancelled:
			return r.finishCancelled(ps, task.ID)
		case outcomeStopped:
			r.bus.Publish(event.NewPlanCompletedEvent(id, string(ps.E2EStatus), "task attempt cap exceeded or oracle unavailable"))
			return nil
		}
	}

	if scenario, ok := plan.ExtractE2EScenario(planText); ok {
		if err := r.runE2E(ctx, id, scenario, ps); err != nil {
			return err
		}
	}

	r.bus.Publish(event.NewPlanCompletedEvent(id, string(ps.E2EStatus), "all tasks completed"))
	return r.checkpoint(ps)
}

func (r *Runner) finishCancelled(ps *state.PlanState, taskID string) error {
	r.bus.Publish(event.NewPlanCancelledEvent(ps.PlanID, taskID))
	return r.checkpoint(ps)
}

func (r *Runner) checkpoint(ps *state.PlanState) error {
	if err := r.store.Save(ps); err != nil {
		return err
	}
	return nil
}

// warnOnStaleCompletedTasks logs when a resumed run's completed_tasks
// references ids that the freshly extracted task list no longer contains.
// Plan id stability across edits is the operator's responsibility; the run
// proceeds regardless.
func (r *Runner) warnOnStaleCompletedTasks(ps *state.PlanState, tasks []oracle.ExtractedTask) {
	current := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		current[t.ID] = true
	}
	for _, id := range ps.CompletedTasks {
		if !current[id] {
			r.logger.Warn("resumed plan's completed task id no longer appears in the extracted task list; plan may have been edited", "plan_id", ps.PlanID, "task_id", id)
		}
	}
}

// taskOutcome is runTask's result for the plan loop.
type taskOutcome int

const (
	// outcomeDone means the task completed; the loop advances.
	outcomeDone taskOutcome = iota
	// outcomeCancelled means the plan-level cancel signal fired; the run
	// must stop entirely.
	outcomeCancelled
	// outcomeStopped means the task hit its attempt cap or the oracle
	// became unavailable; the run stops cleanly so the operator can
	// resume later.
	outcomeStopped
)

// runTask drives the attempt loop for a single task through its state
// machine. The returned error is non-nil only for a hard,
// non-retriable infrastructure failure (workspace spawn failure).
func (r *Runner) runTask(ctx context.Context, taskID, title, description string, ps *state.PlanState) (taskOutcome, error) {
	guidance := ""

	for attempt := 1; ; attempt++ {
		if attempt > r.maxAttempts {
			r.recordTerminalFailure(ps, taskID, fmt.Sprintf("exceeded %d attempts", r.maxAttempts))
			return outcomeStopped, nil
		}
		if r.cancelled() {
			return outcomeCancelled, nil
		}

		r.bus.Publish(event.NewTaskStartedEvent(taskID, title, attempt))

		res, err := r.invoker.Invoke(ctx, workspace.InvokeOptions{
			Prompt:       buildPrompt(title, description, guidance),
			Model:        r.model,
			MaxTurns:     r.maxTurns,
			AllowedTools: r.allowedTools,
			Timeout:      r.timeout,
			Cancel:       r.cancelCh,
			OnEvent: func(e workspace.ToolUseEvent) {
				r.bus.Publish(event.NewToolUseEvent(taskID, e.Name, e.Input))
			},
		})
		if err != nil {
			ps.RecordResult(state.TaskResult{TaskID: taskID, Status: state.StatusFailed, Error: err.Error()})
			return outcomeDone, err
		}

		// A non-nil err above already covers spawn failures (the Invoker
		// only returns an error alongside TerminationSpawnFailed); from
		// here on Termination is one of normal, timeout, or cancelled.
		if res.Termination == workspace.TerminationCancelled {
			ps.RecordResult(state.TaskResult{TaskID: taskID, Status: state.StatusCancelled})
			r.bus.Publish(event.NewTaskFinishedEvent(taskID, event.TaskStatusCancelled, "cancelled", attempt))
			return outcomeCancelled, nil
		}

		transcript := res.Transcript
		if res.Termination == workspace.TerminationTimeout {
			transcript = fmt.Sprintf("timed out after %s", r.timeout)
		}

		interp, err := r.oracleClient.Interpret(ctx, transcript)
		if err != nil {
			if r.cancelled() {
				ps.RecordResult(state.TaskResult{TaskID: taskID, Status: state.StatusCancelled})
				return outcomeCancelled, nil
			}
			r.logger.Warn("oracle unavailable while interpreting task result", "task_id", taskID, "error", err)
			r.recordTerminalFailure(ps, taskID, "oracle unavailable")
			return outcomeStopped, nil
		}

		switch interp.Status {
		case oracle.StatusCompleted:
			ps.MarkCompleted(state.TaskResult{
				TaskID:          taskID,
				Status:          state.StatusCompleted,
				DurationSeconds: float64(res.DurationMs) / 1000,
				CostUSD:         res.CostUSD,
				SessionID:       res.SessionID,
				Summary:         interp.Summary,
			})
			ps.AppendAttempt(taskID, "Completed")
			r.bus.Publish(event.NewTaskFinishedEvent(taskID, event.TaskStatusCompleted, interp.Summary, attempt))
			return outcomeDone, nil

		case oracle.StatusNeedsHelp:
			r.bus.Publish(event.NewTaskEscalatedEvent(taskID, interp.Question, interp.Options))
			response, err := r.escalation.Prompt(ctx, escalate.FromInterpretation(taskID, title, interp))
			if err != nil {
				ps.RecordResult(state.TaskResult{TaskID: taskID, Status: state.StatusCancelled})
				return outcomeCancelled, nil
			}
			guidance = response
			ps.AppendAttempt(taskID, fmt.Sprintf("Resumed with guidance: %s", truncateSummary(response)))
			continue

		case oracle.StatusFailed:
			ps.AppendAttempt(taskID, fmt.Sprintf("Failed: %s", truncateSummary(interp.Error)))

			decision, err := r.oracleClient.RetryOrEscalate(ctx, taskID, title, ps.AttemptHistory[taskID], attempt)
			if err != nil {
				if r.cancelled() {
					ps.RecordResult(state.TaskResult{TaskID: taskID, Status: state.StatusCancelled})
					return outcomeCancelled, nil
				}
				r.logger.Warn("oracle unavailable while deciding retry/escalate", "task_id", taskID, "error", err)
				r.recordTerminalFailure(ps, taskID, "oracle unavailable")
				return outcomeStopped, nil
			}

			if decision.Decision == oracle.DecisionRetry {
				guidance = decision.GuidanceForRetry
				continue
			}

			r.bus.Publish(event.NewTaskEscalatedEvent(taskID, decision.Reason, nil))
			response, err := r.escalation.Prompt(ctx, escalate.FromDecision(taskID, title, decision))
			if err != nil {
				ps.RecordResult(state.TaskResult{TaskID: taskID, Status: state.StatusCancelled})
				return outcomeCancelled, nil
			}
			// The "Failed:" entry above already records this attempt; the
			// operator's guidance feeds the next one.
			guidance = response
			continue

		default:
			// Treated as needs_help per the oracle client's own tie-break
			// policy; this branch should be unreachable.
			r.recordTerminalFailure(ps, taskID, "unrecognized interpretation status")
			return outcomeStopped, nil
		}
	}
}

func (r *Runner) recordTerminalFailure(ps *state.PlanState, taskID, reason string) {
	ps.RecordResult(state.TaskResult{TaskID: taskID, Status: state.StatusFailed, Error: reason})
	r.bus.Publish(event.NewTaskFinishedEvent(taskID, event.TaskStatusFailed, reason, len(ps.AttemptHistory[taskID])))
}

// runE2E issues a single additional invocation for the plan's end-to-end
// verification scenario after all tasks complete.
func (r *Runner) runE2E(ctx context.Context, planIDStr, scenario string, ps *state.PlanState) error {
	ps.E2EStatus = state.E2EPending
	outcome, err := r.runTask(ctx, "e2e", "End-to-end verification", scenario, ps)
	if err != nil {
		ps.E2EStatus = state.E2EFailed
		return err
	}
	switch outcome {
	case outcomeDone:
		if result, ok := ps.TaskResults["e2e"]; ok {
			switch result.Status {
			case state.StatusCompleted:
				ps.E2EStatus = state.E2EPassed
			case state.StatusCancelled:
				ps.E2EStatus = state.E2ENone
			default:
				ps.E2EStatus = state.E2EFailed
			}
		}
	case outcomeCancelled:
		ps.E2EStatus = state.E2ENone
	case outcomeStopped:
		ps.E2EStatus = state.E2ENeedsHelp
	}
	return nil
}
