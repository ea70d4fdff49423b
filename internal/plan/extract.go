// Package plan implements the one structural parse the orchestrator does
// itself: pulling an end-to-end verification scenario out of a plan
// document's markdown, plus a loader for reading plan files off disk.
// Everything else about a plan's task list is delegated to the
// interpretation oracle (internal/oracle) since the plan's
// natural-language structure is otherwise unconstrained.
package plan

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// e2eHeadingRe matches any markdown heading (any level) whose text
// contains the phrase "E2E Test", case-insensitively.
var e2eHeadingRe = regexp.MustCompile(`(?im)^#{1,6}\s*.*E2E Test.*$`)

// fencedBlockRe matches a fenced code block, capturing its body.
var fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*\\n(.*?)\\n```")

// ExtractE2EScenario returns the text of the first fenced code block
// appearing under a heading containing the phrase "E2E Test", or ("",
// false) if the plan has no such section.
func ExtractE2EScenario(planText string) (string, bool) {
	loc := e2eHeadingRe.FindStringIndex(planText)
	if loc == nil {
		return "", false
	}

	rest := planText[loc[1]:]
	match := fencedBlockRe.FindStringSubmatch(rest)
	if match == nil {
		return "", false
	}

	scenario := strings.TrimSpace(match[1])
	if scenario == "" {
		return "", false
	}
	return scenario, true
}

// Load reads a plan document from path.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read plan %s: %w", path, err)
	}
	return string(data), nil
}
