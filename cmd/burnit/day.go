package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/spf13/cobra"
)

func newDayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "day",
		Short: "Show the entries and totals of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.selectedDate()
			if err != nil {
				return err
			}
			return a.showDay(cmd.Context(), date)
		},
	}
}

func newShiftCmd(a *app, use, short string, days int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := a.selectedDate()
			if err != nil {
				return err
			}
			date, err := ledger.ShiftDate(base, days)
			if err != nil {
				return err
			}
			return a.showDay(cmd.Context(), date)
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the markdown report of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.selectedDate()
			if err != nil {
				return err
			}
			report, err := a.backend.report(cmd.Context(), date)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, report)
			return nil
		},
	}
}

// showDay 加载并打印某一天的条目、总量与目标对比
func (a *app) showDay(ctx context.Context, date string) error {
	if err := a.ledger.Load(ctx, date); err != nil {
		return err
	}
	view := a.ledger.Day(date)
	goal := a.goals.Get(ctx, date)

	fmt.Fprintf(a.out, "%s\n", date)
	if len(view.Entries) == 0 {
		fmt.Fprintln(a.out, "  no food logged")
	} else {
		tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for i, entry := range view.Entries {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s %s\t%s kcal\tP %s\tC %s\tF %s\n",
				i+1, entry.Name, entry.MealType, num(entry.Quantity), entry.Unit,
				num(entry.Calories), num(entry.Protein), num(entry.Carbs), num(entry.Fat))
		}
		tw.Flush()
	}

	cmp := ledger.Compare(view.Totals, goal)
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\ttotal\tgoal\tpct\tstatus")
	writeProgress(tw, "calories", cmp.Calories)
	writeProgress(tw, "protein", cmp.Protein)
	writeProgress(tw, "carbs", cmp.Carbs)
	writeProgress(tw, "fat", cmp.Fat)
	return tw.Flush()
}

func writeProgress(tw *tabwriter.Writer, label string, p ledger.MacroProgress) {
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", label, num(p.Actual), num(p.Goal), strconv.Itoa(int(p.Percent)), p.Status)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// entryAt 把命令行里从 1 开始的序号解析为条目引用
func (a *app) entryAt(ctx context.Context, date, raw string) (ledger.EntryRef, error) {
	pos, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || pos < 1 {
		return ledger.EntryRef{}, fmt.Errorf("%w: entry number must be a positive integer", ledger.ErrValidation)
	}
	if err := a.ledger.Load(ctx, date); err != nil {
		return ledger.EntryRef{}, err
	}
	return a.ledger.RefAt(date, pos-1)
}
