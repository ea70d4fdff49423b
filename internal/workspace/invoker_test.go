package workspace

import (
	"context"
	"testing"
	"time"
)

// scriptBuilder returns a CommandBuilder that runs script through /bin/sh,
// letting tests exercise the real NDJSON-parsing and process-lifecycle code
// against a controlled child process instead of mocking the stream.
func scriptBuilder(script string) CommandBuilder {
	return func(opts InvokeOptions) (string, []string) {
		return "/bin/sh", []string{"-c", script}
	}
}

func TestInvoker_NormalCompletion(t *testing.T) {
	script := `echo '{"type":"tool_use","name":"Read","input":{"file":"a.go"}}'
echo '{"type":"result","is_error":false,"result":"all done","total_cost_usd":0.05,"duration_ms":1200,"num_turns":3,"session_id":"sess-1"}'`

	var events []ToolUseEvent
	iv := NewInvoker("", nil, 200*time.Millisecond, WithCommandBuilder(scriptBuilder(script)))

	result, err := iv.Invoke(context.Background(), InvokeOptions{
		OnEvent: func(e ToolUseEvent) { events = append(events, e) },
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result.Termination != TerminationNormal {
		t.Errorf("expected normal termination, got %s", result.Termination)
	}
	if result.Transcript != "all done" {
		t.Errorf("expected transcript 'all done', got %q", result.Transcript)
	}
	if result.SessionID != "sess-1" {
		t.Errorf("expected session id 'sess-1', got %q", result.SessionID)
	}
	if len(events) != 1 || events[0].Name != "Read" {
		t.Errorf("expected one Read tool_use event, got %+v", events)
	}
}

func TestInvoker_IsErrorPropagated(t *testing.T) {
	script := `echo '{"type":"result","is_error":true,"result":"agent reported a failure","total_cost_usd":0,"duration_ms":10,"num_turns":1,"session_id":"s"}'`

	iv := NewInvoker("", nil, 200*time.Millisecond, WithCommandBuilder(scriptBuilder(script)))
	result, err := iv.Invoke(context.Background(), InvokeOptions{})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError true")
	}
}

func TestInvoker_UnknownEventTypeIgnored(t *testing.T) {
	script := `echo '{"type":"thinking","text":"pondering"}'
echo '{"type":"result","is_error":false,"result":"done","total_cost_usd":0,"duration_ms":1,"num_turns":1,"session_id":"s"}'`

	var calls int
	iv := NewInvoker("", nil, 200*time.Millisecond, WithCommandBuilder(scriptBuilder(script)))
	result, err := iv.Invoke(context.Background(), InvokeOptions{
		OnEvent: func(e ToolUseEvent) { calls++ },
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no tool_use callbacks, got %d", calls)
	}
	if result.Transcript != "done" {
		t.Errorf("expected transcript 'done', got %q", result.Transcript)
	}
}

func TestInvoker_MalformedLineSkipped(t *testing.T) {
	script := `echo 'not json at all'
echo '{"type":"result","is_error":false,"result":"done","total_cost_usd":0,"duration_ms":1,"num_turns":1,"session_id":"s"}'`

	iv := NewInvoker("", nil, 200*time.Millisecond, WithCommandBuilder(scriptBuilder(script)))
	result, err := iv.Invoke(context.Background(), InvokeOptions{})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result.Transcript != "done" {
		t.Errorf("expected transcript 'done' despite malformed line, got %q", result.Transcript)
	}
}

func TestInvoker_Timeout(t *testing.T) {
	script := `sleep 5`

	iv := NewInvoker("", nil, 50*time.Millisecond, WithCommandBuilder(scriptBuilder(script)))
	result, err := iv.Invoke(context.Background(), InvokeOptions{Timeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result.Termination != TerminationTimeout {
		t.Errorf("expected timeout termination, got %s", result.Termination)
	}
	if !result.IsError {
		t.Error("expected timeout result to be an error")
	}
}

func TestInvoker_Cancellation(t *testing.T) {
	script := `sleep 5`

	iv := NewInvoker("", nil, 50*time.Millisecond, WithCommandBuilder(scriptBuilder(script)))
	cancel := make(chan struct{})
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(cancel)
	}()

	result, err := iv.Invoke(context.Background(), InvokeOptions{Cancel: cancel})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result.Termination != TerminationCancelled {
		t.Errorf("expected cancelled termination, got %s", result.Termination)
	}
}

func TestInvoker_SpawnFailure(t *testing.T) {
	iv := NewInvoker("/nonexistent/binary-that-does-not-exist", nil, 50*time.Millisecond)
	result, err := iv.Invoke(context.Background(), InvokeOptions{})
	if err == nil {
		t.Fatal("expected spawn failure error")
	}
	if result.Termination != TerminationSpawnFailed {
		t.Errorf("expected spawn_failed termination, got %s", result.Termination)
	}
}
