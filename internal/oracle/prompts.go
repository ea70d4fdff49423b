package oracle

import (
	"fmt"
	"strings"
)

// These prompts instruct the oracle CLI to emit pure JSON with no
// decorative formatting. The oracle CLI's own flags for disabling
// tool/plugin use and session persistence are supplied via
// OracleConfig.Args, not embedded here; the prompt only states the output
// contract.

func extractTasksPrompt(planText string) string {
	var b strings.Builder
	b.WriteString("You are extracting actionable tasks from a plan document.\n")
	b.WriteString("Ignore any tasks embedded in fenced example blocks or illustrative sections.\n")
	b.WriteString("Respond with ONLY a JSON array of objects shaped {\"id\", \"title\", \"description\"}, no prose, no markdown fences.\n\n")
	b.WriteString("PLAN:\n")
	b.WriteString(planText)
	return b.String()
}

func interpretPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("You are classifying a coding agent's complete transcript into one of: completed, failed, needs_help.\n")
	b.WriteString("completed: the task was finished, tests pass if any, commits made.\n")
	b.WriteString("failed: an unrecovered error occurred.\n")
	b.WriteString("needs_help: the agent asked a question, presented options, or said it is blocked.\n")
	b.WriteString("If status is ambiguous between completed and needs_help, you MUST return needs_help.\n")
	b.WriteString("Respond with ONLY a JSON object shaped {\"status\", \"summary\", \"error\", \"question\", \"options\", \"recommendation\"} with absent fields as null, no prose, no markdown fences.\n\n")
	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(transcript)
	return b.String()
}

func retryOrEscalatePrompt(taskID, taskTitle string, attemptHistory []string, attemptCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task %s (%q) has failed %d time(s). Decide whether to retry with guidance or escalate to a human operator.\n", taskID, taskTitle, attemptCount)
	b.WriteString("Retry when the latest error differs materially from prior attempts, or attempts remain few and errors look transient (missing imports, typos, missing files).\n")
	b.WriteString("Escalate when the same or near-identical error recurs 3+ times, the issue looks architectural, the agent explicitly asked for human input, or the root cause is outside the agent's reach (permissions, external services).\n")
	b.WriteString("Respond with ONLY a JSON object shaped {\"decision\": \"retry\"|\"escalate\", \"reason\", \"guidance_for_retry\"} (guidance_for_retry present iff decision is retry), no prose, no markdown fences.\n\n")
	b.WriteString("ATTEMPT HISTORY:\n")
	for i, attempt := range attemptHistory {
		fmt.Fprintf(&b, "%d. %s\n", i+1, attempt)
	}
	return b.String()
}
