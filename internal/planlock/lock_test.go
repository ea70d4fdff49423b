package planlock

import (
	"encoding/json"
	"os"
	"testing"

	planrunnererrors "github.com/loopforge/planrunner/internal/errors"
)

func TestAcquire_FreshLock(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "plan-a", nil)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if lock.PID != os.Getpid() {
		t.Errorf("expected PID %d, got %d", os.Getpid(), lock.PID)
	}

	pid, held := HeldBy(dir, "plan-a")
	if !held || pid != os.Getpid() {
		t.Errorf("expected lock held by current process, got held=%v pid=%d", held, pid)
	}
}

func TestAcquire_AlreadyHeld(t *testing.T) {
	dir := t.TempDir()

	if _, err := Acquire(dir, "plan-a", nil); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	_, err := Acquire(dir, "plan-a", nil)
	if err == nil {
		t.Fatal("expected second Acquire to fail")
	}
	if !planrunnererrors.Is(err, planrunnererrors.ErrLockHeld) {
		t.Errorf("expected ErrLockHeld, got %v", err)
	}
}

func TestAcquire_StaleLockReclaimed(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "plan-a", nil)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	// Simulate a dead owner by rewriting the lock with a PID unlikely to exist.
	if err := os.Remove(lock.lockFile); err != nil {
		t.Fatalf("failed to remove lock for rewrite: %v", err)
	}
	stale := &Lock{PlanID: "plan-a", PID: 999999, Hostname: "stale-host"}
	writeLockFile(t, lock.lockFile, stale)

	reacquired, err := Acquire(dir, "plan-a", nil)
	if err != nil {
		t.Fatalf("expected stale lock to be reclaimed, got error: %v", err)
	}
	if reacquired.PID != os.Getpid() {
		t.Errorf("expected reclaimed lock to have current PID, got %d", reacquired.PID)
	}
}

func TestRelease_OwnedLock(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "plan-a", nil)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	_, held := HeldBy(dir, "plan-a")
	if held {
		t.Error("expected lock to be released")
	}
}

func TestRelease_Idempotent(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "plan-a", nil)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("first Release failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("second Release should be a no-op, got: %v", err)
	}
}

func TestRelease_DoesNotRemoveForeignLock(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "plan-a", nil)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	lock.PID = os.Getpid() + 1 // pretend this Lock value belongs to a different process

	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	_, held := HeldBy(dir, "plan-a")
	if !held {
		t.Error("expected the real lock (owned by current process) to remain")
	}
}

func writeLockFile(t *testing.T, path string, lock *Lock) {
	t.Helper()
	data, err := json.Marshal(lock)
	if err != nil {
		t.Fatalf("failed to marshal test lock: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test lock file: %v", err)
	}
}
