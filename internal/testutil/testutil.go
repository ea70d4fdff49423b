// Package testutil provides scripted test doubles shared across this
// module's package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/loopforge/planrunner/internal/oracle"
	"github.com/loopforge/planrunner/internal/workspace"
)

// ScriptedOracleExecutor returns an oracle.CommandExecutor that replays
// responses in order, one per call, and fails the test if called more
// times than scripted.
func ScriptedOracleExecutor(t *testing.T, responses ...string) oracle.CommandExecutor {
	t.Helper()
	call := 0
	return func(ctx context.Context, name string, args []string, stdin string) ([]byte, error) {
		if call >= len(responses) {
			t.Fatalf("oracle executor called more times (%d) than scripted (%d)", call+1, len(responses))
		}
		resp := responses[call]
		call++
		return []byte(resp), nil
	}
}

// NewOracleClient builds an oracle.Client wired to a ScriptedOracleExecutor.
func NewOracleClient(t *testing.T, responses ...string) *oracle.Client {
	t.Helper()
	c, err := oracle.NewClient("oracle-cli", nil, 0, 2, oracle.WithExecutor(ScriptedOracleExecutor(t, responses...)))
	if err != nil {
		t.Fatalf("oracle.NewClient failed: %v", err)
	}
	return c
}

// ShellScriptInvoker returns a workspace.Invoker whose subprocess is a
// fixed shell script, letting tests exercise the real NDJSON-parsing and
// process-lifecycle code against a controlled child process instead of
// mocking the stream. gracefulStop bounds how long the invoker waits after
// a cancel/timeout signal before force-killing the process group.
func ShellScriptInvoker(script string, gracefulStop time.Duration) *workspace.Invoker {
	return workspace.NewInvoker("", nil, gracefulStop, workspace.WithCommandBuilder(func(opts workspace.InvokeOptions) (string, []string) {
		return "/bin/sh", []string{"-c", script}
	}))
}
