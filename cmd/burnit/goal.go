package main

import (
	"fmt"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/spf13/cobra"
)

func newGoalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Show the goal of the selected day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.selectedDate()
			if err != nil {
				return err
			}
			printGoal(a, a.goals.Get(cmd.Context(), date))
			return nil
		},
	}
	cmd.AddCommand(newGoalSetCmd(a))
	return cmd
}

func newGoalSetCmd(a *app) *cobra.Command {
	var goal ledger.Goal
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the goal of the selected day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.selectedDate()
			if err != nil {
				return err
			}
			goal.Date = date
			stored, err := a.goals.Set(cmd.Context(), goal)
			if err != nil {
				return err
			}
			printGoal(a, stored)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Float64Var(&goal.Calories, "calories", ledger.DefaultGoal.Calories, "calorie ceiling (kcal)")
	flags.Float64Var(&goal.Protein, "protein", ledger.DefaultGoal.Protein, "protein floor in grams")
	flags.Float64Var(&goal.Carbs, "carbs", ledger.DefaultGoal.Carbs, "carbohydrate ceiling in grams")
	flags.Float64Var(&goal.Fat, "fat", ledger.DefaultGoal.Fat, "fat ceiling in grams")
	return cmd
}

func printGoal(a *app, goal ledger.Goal) {
	fmt.Fprintf(a.out, "%s: %s kcal, protein %sg, carbs %sg, fat %sg\n",
		goal.Date, num(goal.Calories), num(goal.Protein), num(goal.Carbs), num(goal.Fat))
}
