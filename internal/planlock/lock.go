// Package planlock implements a process-exclusive lock per plan id: at
// most one live process may hold the lock for a given plan id. A lock
// referring to a dead process is stale and may be taken.
package planlock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	planrunnererrors "github.com/loopforge/planrunner/internal/errors"
	"github.com/loopforge/planrunner/internal/logging"
)

func lockFileName(planID string) string {
	return planID + ".lock"
}

// Lock represents an acquired plan lock.
type Lock struct {
	PlanID     string    `json:"plan_id"`
	PID        int       `json:"pid"`
	Hostname   string    `json:"hostname"`
	AcquiredAt time.Time `json:"acquired_at"`

	lockFile string
	logger   *logging.Logger
}

// Acquire attempts to record the current process as the owner of planID's
// lock within dir. If a lock file already exists and its owning process is
// alive, returns a *errors.LockError wrapping errors.ErrLockHeld. If the
// owning process is dead, the lock is reclaimed (errors.ErrLockStale is
// logged, not returned) and acquisition proceeds. logger may be nil.
func Acquire(dir, planID string, logger *logging.Logger) (*Lock, error) {
	lockPath := filepath.Join(dir, lockFileName(planID))

	if existing, err := Read(lockPath); err == nil {
		if isProcessAlive(existing.PID) {
			return nil, planrunnererrors.NewLockError("plan is locked by another process", planrunnererrors.ErrLockHeld).
				WithPlanID(planID).
				WithHolderPID(existing.PID)
		}

		staleOwner := existing.PID
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return nil, planrunnererrors.NewLockError("failed to remove stale lock", err).WithPlanID(planID)
		}
		if logger != nil {
			logger.Warn("reclaimed stale plan lock", "plan_id", planID, "stale_pid", staleOwner)
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	lock := &Lock{
		PlanID:     planID,
		PID:        os.Getpid(),
		Hostname:   hostname,
		AcquiredAt: time.Now(),
		lockFile:   lockPath,
		logger:     logger,
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return nil, planrunnererrors.NewLockError("failed to marshal lock", err).WithPlanID(planID)
	}

	f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			if existing, readErr := Read(lockPath); readErr == nil {
				return nil, planrunnererrors.NewLockError("lost acquisition race", planrunnererrors.ErrLockHeld).
					WithPlanID(planID).
					WithHolderPID(existing.PID)
			}
			return nil, planrunnererrors.NewLockError("lost acquisition race", planrunnererrors.ErrLockHeld).WithPlanID(planID)
		}
		return nil, planrunnererrors.NewLockError("failed to create lock file", err).WithPlanID(planID)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(lockPath)
		return nil, planrunnererrors.NewLockError("failed to write lock file", err).WithPlanID(planID)
	}

	if logger != nil {
		logger.Info("plan lock acquired", "plan_id", planID, "pid", lock.PID)
	}

	return lock, nil
}

// Release removes the lock file iff it is still owned by this process.
// Idempotent: releasing an already-released or nonexistent lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.lockFile == "" {
		return nil
	}

	existing, err := Read(l.lockFile)
	if err != nil {
		return nil
	}
	if existing.PID != l.PID {
		return nil
	}

	if err := os.Remove(l.lockFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	if l.logger != nil {
		l.logger.Info("plan lock released", "plan_id", l.PlanID)
	}

	return nil
}

// Read reads and parses a lock file without acquiring it.
func Read(lockPath string) (*Lock, error) {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return nil, err
	}

	var lock Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	lock.lockFile = lockPath
	return &lock, nil
}

// HeldBy reports whether planID's lock within dir is currently held by a
// live process, and if so, by which PID.
func HeldBy(dir, planID string) (pid int, held bool) {
	lock, err := Read(filepath.Join(dir, lockFileName(planID)))
	if err != nil {
		return 0, false
	}
	if !isProcessAlive(lock.PID) {
		return lock.PID, false
	}
	return lock.PID, true
}

// isProcessAlive checks liveness via a signal-0 probe (no-op on Unix if the
// process exists).
func isProcessAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
