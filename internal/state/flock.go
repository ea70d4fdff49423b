package state

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// fileLock provides cross-process mutual exclusion using flock(2), guarding
// a plan's state file during read/write so a concurrent reader within the
// same process tree never observes a torn write.
type fileLock struct {
	path string
	file *os.File
}

func newFileLock(stateDir, planID string) *fileLock {
	return &fileLock{path: filepath.Join(stateDir, planID+".lock")}
}

func (fl *fileLock) Lock() error {
	f, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	fl.file = f

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		fl.file = nil
		return fmt.Errorf("flock: %w", err)
	}
	return nil
}

func (fl *fileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}
	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = fl.file.Close()
		fl.file = nil
		return fmt.Errorf("funlock: %w", err)
	}
	err := fl.file.Close()
	fl.file = nil
	return err
}
