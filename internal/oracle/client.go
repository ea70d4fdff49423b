package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	planrunnererrors "github.com/loopforge/planrunner/internal/errors"
	"github.com/loopforge/planrunner/internal/logging"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// CommandExecutor runs a command with the given stdin and returns its
// stdout. Swappable in tests.
type CommandExecutor func(ctx context.Context, name string, args []string, stdin string) ([]byte, error)

// defaultExecutor runs the command with os/exec, feeding stdin and
// returning stdout only (stderr is attached to the returned error).
func defaultExecutor(ctx context.Context, name string, args []string, stdin string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// Client is the interpretation oracle client. It is stateless; a single
// Client may be called concurrently from multiple goroutines since every
// operation spawns its own subprocess.
type Client struct {
	command    string
	args       []string
	timeout    time.Duration
	maxRetries int
	executor   CommandExecutor
	schemas    *compiledSchemas
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithExecutor overrides the subprocess executor, for tests.
func WithExecutor(executor CommandExecutor) Option {
	return func(c *Client) { c.executor = executor }
}

// WithLogger attaches a logger for retry/backoff diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient constructs a Client that shells out to command with args on
// every call, bounding each attempt by timeout and retrying up to
// maxRetries times with exponential backoff on failure.
func NewClient(command string, args []string, timeout time.Duration, maxRetries int, opts ...Option) (*Client, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile oracle schemas: %w", err)
	}

	c := &Client{
		command:    command,
		args:       args,
		timeout:    timeout,
		maxRetries: maxRetries,
		executor:   defaultExecutor,
		schemas:    schemas,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ExtractTasks returns the plan's task list, deduplicated by id, in the
// order the oracle returned them. That order is authoritative for
// execution.
func (c *Client) ExtractTasks(ctx context.Context, planText string) ([]ExtractedTask, error) {
	payload, err := c.call(ctx, "extract_tasks", extractTasksPrompt(planText), c.schemas.extractTasks)
	if err != nil {
		return nil, err
	}

	var tasks []ExtractedTask
	if err := json.Unmarshal(payload, &tasks); err != nil {
		return nil, planrunnererrors.NewOracleFatalError("extract_tasks", "decode extracted tasks", err)
	}

	return dedupeByID(tasks), nil
}

// Interpret classifies a complete transcript into
// completed/failed/needs_help. An ambiguous or unparseable status is
// remapped to needs_help: escalating unnecessarily is cheaper than
// silently proceeding on a misunderstood output.
func (c *Client) Interpret(ctx context.Context, transcript string) (Interpretation, error) {
	payload, err := c.call(ctx, "interpret", interpretPrompt(transcript), c.schemas.interpret)
	if err != nil {
		return Interpretation{}, err
	}

	var interp Interpretation
	if err := json.Unmarshal(payload, &interp); err != nil {
		return Interpretation{}, planrunnererrors.NewOracleFatalError("interpret", "decode interpretation", err)
	}

	switch interp.Status {
	case StatusCompleted, StatusFailed, StatusNeedsHelp:
	default:
		interp.Status = StatusNeedsHelp
	}

	return interp, nil
}

// RetryOrEscalate judges from attempt history whether the Runner should
// retry the task with fresh guidance or hand it to the escalation channel.
func (c *Client) RetryOrEscalate(ctx context.Context, taskID, taskTitle string, attemptHistory []string, attemptCount int) (Decision, error) {
	payload, err := c.call(ctx, "retry_or_escalate", retryOrEscalatePrompt(taskID, taskTitle, attemptHistory, attemptCount), c.schemas.decision)
	if err != nil {
		return Decision{}, err
	}

	var decision Decision
	if err := json.Unmarshal(payload, &decision); err != nil {
		return Decision{}, planrunnererrors.NewOracleFatalError("retry_or_escalate", "decode decision", err)
	}

	if decision.Decision != DecisionRetry && decision.Decision != DecisionEscalate {
		decision.Decision = DecisionEscalate
		decision.Reason = "oracle returned an unrecognized decision; escalating as a safety default"
	}

	return decision, nil
}

// call invokes the oracle subprocess with prompt, retrying up to
// c.maxRetries times with exponential backoff. Each attempt is bounded by
// c.timeout. If every attempt fails, returns an OracleFatalError wrapping
// errors.ErrOracleUnavailable, the only failure signal the Runner ever
// sees from this client.
func (c *Client) call(ctx context.Context, operation, prompt string, schema *jsonschema.Schema) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 200 * time.Millisecond
			if c.logger != nil {
				c.logger.Warn("retrying oracle call", "operation", operation, "attempt", attempt, "backoff", backoff)
			}
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, planrunnererrors.NewOracleFatalError(operation, "context cancelled during backoff", ctx.Err())
			}
		}

		out, err := c.attempt(ctx, prompt)
		if err != nil {
			lastErr = planrunnererrors.NewOracleTransientError(operation, "oracle subprocess failed", err)
			continue
		}

		extracted, err := extractJSONBlock(out)
		if err != nil {
			lastErr = planrunnererrors.NewOracleTransientError(operation, "no JSON block in oracle output", err)
			continue
		}

		if _, err := validate(ctx, schema, extracted); err != nil {
			lastErr = planrunnererrors.NewOracleTransientError(operation, "oracle output failed schema validation", err)
			continue
		}

		return extracted, nil
	}

	return nil, planrunnererrors.NewOracleFatalError(operation, "oracle unavailable after retries", lastErr)
}

func (c *Client) attempt(ctx context.Context, prompt string) ([]byte, error) {
	callCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.executor(callCtx, c.command, c.args, prompt)
}

func dedupeByID(tasks []ExtractedTask) []ExtractedTask {
	seen := make(map[string]bool, len(tasks))
	out := make([]ExtractedTask, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
