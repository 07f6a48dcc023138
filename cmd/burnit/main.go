// Command burnit 是卡路里记录的命令行客户端。
package main

import (
	"fmt"
	"os"

	"github.com/Chadbowen248/burnit/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log, err := logger.New(level, "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := newRootCmd(newApp(os.Stdout, log)).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "burnit",
		Short:        "Track daily calories and macros",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown()
		},
	}
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.server, "server", os.Getenv("BURNIT_SERVER"), "burnit server URL; empty uses the local database")
	flags.StringVar(&a.dbPath, "db", "", "sqlite database path for local mode (default DATABASE_PATH or burnit.db)")
	flags.StringVar(&a.date, "date", "", "day to work on as YYYY-MM-DD (default today)")

	root.AddCommand(
		newDayCmd(a),
		newShiftCmd(a, "prev", "Show the day before --date", -1),
		newShiftCmd(a, "next", "Show the day after --date", 1),
		newAddCmd(a),
		newEditCmd(a),
		newRemoveCmd(a),
		newResetCmd(a),
		newReportCmd(a),
		newGoalCmd(a),
		newFavCmd(a),
		newSearchCmd(a),
	)
	return root
}
