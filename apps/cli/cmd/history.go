package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoppscotch/hopp-cli/packages/history"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history [file]",
	Short: "Show recent runs recorded with --history",
	Long: `Show recent runs from a history file recorded with 'hopp test --history'.

Examples:
  hopp history hopp-history.db
  hopp history hopp-history.db --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 10, "Maximum number of runs to show")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	store, err := history.Open(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  passed=%d failed=%d  %s\n",
			run.StartedAt.Format(time.RFC3339),
			run.Source,
			run.Passed,
			run.Failed,
			run.Duration.Round(time.Millisecond),
		)
	}
	return nil
}
