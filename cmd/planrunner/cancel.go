package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	appconfig "github.com/loopforge/planrunner/internal/config"
	"github.com/loopforge/planrunner/internal/planlock"
	"github.com/loopforge/planrunner/internal/runner"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <plan-file>",
	Short: "Request a running plan to stop at the next safe point",
	Long: `cancel sends a SIGINT to the process currently holding the named plan's
lock. That process's own signal handling (the same path Ctrl-C takes)
requests the Runner to stop cleanly after the in-flight task invocation
terminates, then checkpoints state so the run can be resumed later.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return requestCancel(args[0])
	},
}

func requestCancel(planPath string) error {
	cfg := appconfig.Get()
	lockDir := filepath.Join(cfg.Runner.StateDir, "locks")

	id := runner.PlanID(planPath)
	pid, held := planlock.HeldBy(lockDir, id)
	if !held {
		return fmt.Errorf("no running process holds the lock for plan %s", id)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGINT); err != nil {
		return fmt.Errorf("signal process %d: %w", pid, err)
	}

	fmt.Printf("cancel requested for plan %s (pid %d)\n", id, pid)
	return nil
}
