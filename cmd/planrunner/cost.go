package main

import (
	"fmt"

	"github.com/loopforge/planrunner/internal/runner"
	"github.com/loopforge/planrunner/internal/state"
	"github.com/spf13/cobra"
)

var costCmd = &cobra.Command{
	Use:   "cost [plan-file]",
	Short: "Show total invocation cost for a plan, or all plans",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showCost(args)
	},
}

func showCost(args []string) error {
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
		fmt.Printf("plan %s: $%.4f\n", ps.PlanID, planCost(ps))
		return nil
	}

	plans, err := store.LoadAll()
	if err != nil {
		return err
	}
	var total float64
	for _, id := range sortedKeys(plans) {
		cost := planCost(plans[id])
		total += cost
		fmt.Printf("plan %s: $%.4f\n", id, cost)
	}
	fmt.Printf("total: $%.4f\n", total)
	return nil
}

func planCost(ps *state.PlanState) float64 {
	var total float64
	for _, result := range ps.TaskResults {
		total += result.CostUSD
	}
	return total
}
