package runner

import "fmt"

// FormatToolUse renders a streamed tool_use event's name and input into a
// single human-readable line, for CLI progress
// display. It takes the bare name/input rather than a concrete event type
// so both the Workspace Invoker's internal stream and the event bus's
// published ToolUseEvent can share it. Rendering never fails outward; an
// unrecognized or malformed input shape just falls back to a generic line.
func FormatToolUse(name string, input map[string]any) string {
	switch name {
	case "Read":
		if file, ok := input["file_path"].(string); ok {
			return fmt.Sprintf("→ Reading %s...", file)
		}
		if file, ok := input["file"].(string); ok {
			return fmt.Sprintf("→ Reading %s...", file)
		}
	case "Write", "Edit":
		if file, ok := input["file_path"].(string); ok {
			return fmt.Sprintf("→ Writing %s...", file)
		}
		if file, ok := input["file"].(string); ok {
			return fmt.Sprintf("→ Writing %s...", file)
		}
	case "Bash":
		if cmd, ok := input["command"].(string); ok {
			return fmt.Sprintf("→ Running: %s", cmd)
		}
	}
	return fmt.Sprintf("→ %s", name)
}
