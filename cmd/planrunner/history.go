package main

import (
	"fmt"
	"path/filepath"
	"sort"

	appconfig "github.com/loopforge/planrunner/internal/config"
	"github.com/loopforge/planrunner/internal/runner"
	"github.com/loopforge/planrunner/internal/state"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [plan-file]",
	Short: "Show per-task results and attempt history for a plan, or all plans",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showHistory(args)
	},
}

func openStore() (*state.Store, error) {
	cfg := appconfig.Get()
	return state.NewStore(filepath.Join(cfg.Runner.StateDir, "plans"))
}

func showHistory(args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		id := runner.PlanID(args[0])
		ps, err := store.Load(id)
		if err != nil {
			return err
		}
		if ps == nil {
			return fmt.Errorf("no recorded state for plan %s", id)
		}
		printPlanHistory(ps)
		return nil
	}

	plans, err := store.LoadAll()
	if err != nil {
		return err
	}
	for _, id := range sortedKeys(plans) {
		printPlanHistory(plans[id])
		fmt.Println()
	}
	return nil
}

func printPlanHistory(ps *state.PlanState) {
	fmt.Printf("plan %s (%s)\n", ps.PlanID, ps.PlanPath)
	fmt.Printf("  completed: %v\n", ps.CompletedTasks)
	for taskID, result := range ps.TaskResults {
		fmt.Printf("  task %s: %s - %s\n", taskID, result.Status, result.Summary)
		for _, attempt := range ps.AttemptHistory[taskID] {
			fmt.Printf("    - %s\n", attempt)
		}
	}
	if ps.E2EStatus != "" {
		fmt.Printf("  e2e: %s\n", ps.E2EStatus)
	}
}

func sortedKeys(m map[string]*state.PlanState) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
