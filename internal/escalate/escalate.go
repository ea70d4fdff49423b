// Package escalate implements the escalation channel: it
// renders an interpretation's question to the operator's terminal, fires a
// best-effort out-of-band notification, and blocks for a free-form
// response, honoring the same cancellation signal as the rest of a plan
// run.
package escalate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/loopforge/planrunner/internal/logging"
	"github.com/loopforge/planrunner/internal/notify"
	"github.com/loopforge/planrunner/internal/oracle"
)

// skipSentinel selects the interpretation's recommendation verbatim.
const skipSentinel = "skip"

// Channel presents escalation questions to the operator and blocks for a
// response.
type Channel struct {
	out      io.Writer
	in       *bufio.Reader
	center   *notify.Center
	priority notify.NotificationPriority
	logger   *logging.Logger
}

// Option configures a Channel.
type Option func(*Channel)

// WithNotifyCenter attaches a notify.Center that receives a best-effort
// out-of-band copy of every escalation.
func WithNotifyCenter(center *notify.Center) Option {
	return func(c *Channel) { c.center = center }
}

// WithPriority overrides the notification priority used for outgoing
// escalation notifications (default PriorityHigh).
func WithPriority(priority notify.NotificationPriority) Option {
	return func(c *Channel) { c.priority = priority }
}

// WithLogger attaches a logger for notification delivery diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Channel) { c.logger = logger }
}

// New constructs a Channel that writes prompts to out and reads responses
// from in (typically os.Stdout / os.Stdin).
func New(out io.Writer, in io.Reader, opts ...Option) *Channel {
	c := &Channel{
		out:      out,
		in:       bufio.NewReader(in),
		priority: notify.PriorityHigh,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Question is the out-of-band-notification-shaped and terminal-shaped
// content offered to the operator. Built either from an Interpretation's
// needs_help fields or synthesized from an oracle Decision to escalate.
type Question struct {
	TaskID         string
	TaskTitle      string
	Text           string
	Options        []string
	Recommendation string
}

// FromInterpretation builds a Question from a needs_help Interpretation.
func FromInterpretation(taskID, taskTitle string, interp oracle.Interpretation) Question {
	return Question{
		TaskID:         taskID,
		TaskTitle:      taskTitle,
		Text:           interp.Question,
		Options:        interp.Options,
		Recommendation: interp.Recommendation,
	}
}

// FromDecision builds a Question from an oracle Decision to escalate,
// whose Reason becomes the question text.
func FromDecision(taskID, taskTitle string, decision oracle.Decision) Question {
	return Question{
		TaskID:    taskID,
		TaskTitle: taskTitle,
		Text:      decision.Reason,
	}
}

// Prompt renders q, emits a best-effort notification, and blocks reading a
// line of operator response. Returns guidance text to forward into the
// next invocation's prompt. Cancellation via ctx causes an empty response
// and ctx.Err() to be returned; the caller ends the current task as
// cancelled and discards any partial input.
func (c *Channel) Prompt(ctx context.Context, q Question) (string, error) {
	c.render(q)
	go c.notify(ctx, q)

	type readResult struct {
		line string
		err  error
	}
	resultCh := make(chan readResult, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		resultCh <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-resultCh:
		if r.err != nil && r.line == "" {
			return "", r.err
		}
		response := strings.TrimSpace(r.line)
		if strings.EqualFold(response, skipSentinel) {
			return q.Recommendation, nil
		}
		return response, nil
	}
}

func (c *Channel) render(q Question) {
	fmt.Fprintf(c.out, "\n--- task %s needs your input: %s ---\n", q.TaskID, q.TaskTitle)
	fmt.Fprintln(c.out, q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(c.out, "  %d. %s\n", i+1, opt)
	}
	if q.Recommendation != "" {
		fmt.Fprintf(c.out, "recommendation: %s (type %q to accept)\n", q.Recommendation, skipSentinel)
	}
	fmt.Fprint(c.out, "> ")
}

// notify fires a best-effort out-of-band notification. Delivery failures
// are logged and otherwise ignored; they must never block the operator
// prompt.
func (c *Channel) notify(ctx context.Context, q Question) {
	if c.center == nil {
		return
	}

	body := q.Text
	if len(q.Options) > 0 {
		body = fmt.Sprintf("%s\noptions: %s", body, strings.Join(q.Options, ", "))
	}

	_, err := c.center.Send(ctx, notify.Notification{
		Title:    fmt.Sprintf("task %s needs input", q.TaskID),
		Body:     body,
		Priority: c.priority,
		Metadata: map[string]string{"task_id": q.TaskID, "task_title": q.TaskTitle},
	})
	if err != nil && c.logger != nil {
		c.logger.Warn("escalation notification failed", "task_id", q.TaskID, "error", err)
	}
}
