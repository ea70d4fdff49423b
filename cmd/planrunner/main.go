// Command planrunner drives a human-authored plan document through the
// Runner's task state machine, one task at a time, resuming
// cleanly across restarts and escalating to an operator when the
// Interpretation Oracle can't tell whether a task succeeded.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "planrunner:", err)
		os.Exit(1)
	}
}
