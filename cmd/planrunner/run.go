package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	appconfig "github.com/loopforge/planrunner/internal/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <plan-file>",
	Short: "Start a new run of a plan document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(args[0], false)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <plan-file>",
	Short: "Resume a previously started run of a plan document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(args[0], true)
	},
}

// execute wires a Runner for cfg and drives planPath to completion or a
// clean stop, honoring Ctrl-C / SIGTERM as an operator cancel request.
func execute(planPath string, resume bool) error {
	cfg := appconfig.Get()

	w, err := build(cfg)
	if err != nil {
		return err
	}
	defer w.logger.Close()
	defer w.cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		w.runner.Cancel()
	}()

	if err := w.runner.Run(ctx, planPath, resume); err != nil {
		return fmt.Errorf("run plan: %w", err)
	}
	return nil
}
