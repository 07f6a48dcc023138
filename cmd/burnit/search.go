package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search USDA FoodData Central",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.backend.search.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(a.out, "no results")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for _, r := range results {
				name := r.Name
				if r.Brand != "" {
					name += " (" + r.Brand + ")"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s kcal\tP %s\tC %s\tF %s\n",
					r.FdcID, name, r.ServingSize, num(r.Calories), num(r.Protein), num(r.Carbs), num(r.Fat))
			}
			return tw.Flush()
		},
	}
}
