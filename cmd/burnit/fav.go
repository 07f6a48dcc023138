package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/spf13/cobra"
)

func newFavCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite foods",
	}
	cmd.AddCommand(newFavListCmd(a), newFavAddCmd(a), newFavRemoveCmd(a))
	return cmd
}

func newFavListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorites and built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.favs.Load(cmd.Context()); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for _, fav := range a.favs.List() {
				id := "preset"
				if !fav.Preset {
					id = strconv.FormatUint(uint64(fav.ID), 10)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s kcal\tP %s\tC %s\tF %s\n",
					id, fav.Name, num(fav.Calories), num(fav.Protein), num(fav.Carbs), num(fav.Fat))
			}
			return tw.Flush()
		},
	}
}

func newFavAddCmd(a *app) *cobra.Command {
	var flags foodFlags
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Save a favorite food",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.favs.Load(ctx); err != nil {
				return err
			}
			entry := flags.entry(strings.Join(args, " "), "")
			fav, added, err := a.favs.Add(ctx, ledger.FavoriteFromEntry(entry))
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(a.out, "%s is already a favorite\n", fav.Name)
				return nil
			}
			fmt.Fprintf(a.out, "saved favorite %s (id %d)\n", fav.Name, fav.ID)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newFavRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a saved favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil || id == 0 {
				return fmt.Errorf("%w: favorite id must be a positive integer", ledger.ErrValidation)
			}
			ctx := cmd.Context()
			if err := a.favs.Load(ctx); err != nil {
				return err
			}
			if err := a.favs.Remove(ctx, uint(id)); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "removed favorite %d\n", id)
			return nil
		},
	}
}
