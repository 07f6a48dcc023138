package main

import (
	"fmt"
	"strings"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// foodFlags 是 add/edit/fav add 共用的营养字段参数
type foodFlags struct {
	calories float64
	protein  float64
	carbs    float64
	fat      float64
	quantity float64
	unit     string
	meal     string
	usdaID   string
}

func (f *foodFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.calories, "calories", 0, "calories (kcal)")
	fs.Float64Var(&f.protein, "protein", 0, "protein in grams")
	fs.Float64Var(&f.carbs, "carbs", 0, "carbohydrates in grams")
	fs.Float64Var(&f.fat, "fat", 0, "fat in grams")
	fs.Float64Var(&f.quantity, "qty", 1, "quantity")
	fs.StringVar(&f.unit, "unit", ledger.DefaultUnit, "unit of the quantity")
	fs.StringVar(&f.meal, "meal", string(ledger.MealSnack), "meal type: breakfast, lunch, dinner or snack")
	fs.StringVar(&f.usdaID, "usda-id", "", "USDA FoodData Central id")
}

func (f *foodFlags) entry(name, date string) ledger.FoodEntry {
	return ledger.FoodEntry{
		Name:     name,
		Calories: f.calories,
		Protein:  f.protein,
		Carbs:    f.carbs,
		Fat:      f.fat,
		Quantity: f.quantity,
		Unit:     f.unit,
		Date:     date,
		MealType: ledger.MealType(f.meal),
		SourceID: f.usdaID,
	}
}

// patch 只包含命令行上显式给出的字段
func (f *foodFlags) patch(fs *pflag.FlagSet) ledger.EntryPatch {
	var p ledger.EntryPatch
	if fs.Changed("calories") {
		p.Calories = &f.calories
	}
	if fs.Changed("protein") {
		p.Protein = &f.protein
	}
	if fs.Changed("carbs") {
		p.Carbs = &f.carbs
	}
	if fs.Changed("fat") {
		p.Fat = &f.fat
	}
	if fs.Changed("qty") {
		p.Quantity = &f.quantity
	}
	if fs.Changed("unit") {
		p.Unit = &f.unit
	}
	if fs.Changed("meal") {
		meal := ledger.MealType(f.meal)
		p.MealType = &meal
	}
	if fs.Changed("usda-id") {
		p.SourceID = &f.usdaID
	}
	return p
}

func newAddCmd(a *app) *cobra.Command {
	var (
		flags    foodFlags
		favorite bool
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Log a food on the selected day",
		Long:  "Log a food on the selected day. With --favorite, NAME names a saved favorite or preset and its values are used.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, err := a.selectedDate()
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")

			entry := flags.entry(name, date)
			if favorite {
				if err := a.favs.Load(ctx); err != nil {
					return err
				}
				fav, ok := a.favs.Find(name)
				if !ok {
					return fmt.Errorf("%w: no favorite named %q", ledger.ErrNotFound, name)
				}
				entry = fav.Entry(date)
				if cmd.Flags().Changed("meal") {
					entry.MealType = ledger.MealType(flags.meal)
				}
			} else if !cmd.Flags().Changed("calories") {
				return fmt.Errorf("%w: --calories is required", ledger.ErrValidation)
			}

			if err := a.ledger.Load(ctx, date); err != nil {
				return err
			}
			added, err := a.ledger.Add(ctx, date, entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "added %s (%s kcal) to %s\n", added.Name, num(added.Calories), date)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&favorite, "favorite", false, "use the favorite or preset named NAME")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		flags  foodFlags
		name   string
		moveTo string
	)
	cmd := &cobra.Command{
		Use:   "edit N",
		Short: "Change fields of the N-th entry of the selected day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, err := a.selectedDate()
			if err != nil {
				return err
			}
			ref, err := a.entryAt(ctx, date, args[0])
			if err != nil {
				return err
			}

			patch := flags.patch(cmd.Flags())
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("move-to") {
				patch.Date = &moveTo
			}
			if patch.IsEmpty() {
				return fmt.Errorf("%w: nothing to change", ledger.ErrValidation)
			}

			updated, err := a.ledger.Edit(ctx, date, ref, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "updated %s on %s\n", updated.Name, updated.Date)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&moveTo, "move-to", "", "move the entry to another day (YYYY-MM-DD)")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm N",
		Aliases: []string{"delete"},
		Short:   "Delete the N-th entry of the selected day",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, err := a.selectedDate()
			if err != nil {
				return err
			}
			ref, err := a.entryAt(ctx, date, args[0])
			if err != nil {
				return err
			}
			if err := a.ledger.Delete(ctx, date, ref); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted entry %s from %s\n", args[0], date)
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every entry of the selected day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, err := a.selectedDate()
			if err != nil {
				return err
			}
			if err := a.ledger.Load(ctx, date); err != nil {
				return err
			}
			if err := a.ledger.ResetDay(ctx, date); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "reset %s\n", date)
			return nil
		},
	}
}
