package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingestion runs",
	Long:  `Shows the ingestion run ledger, newest first, with per-source counts.`,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if runStore == nil {
		return errors.New("run ledger not configured")
	}

	ctx := context.Background()
	runs, err := runStore.ListRuns(ctx, runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	for i := range runs {
		run := &runs[i]
		cmd.Printf("%s  %s  (%s, %s)\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.RunID,
			run.Trigger,
			run.Duration().Round(time.Millisecond))
		for j := range run.Sources {
			src := &run.Sources[j]
			cmd.Printf("  %-10s fetched %d, added %d, skipped %d, errors %d\n",
				src.Source, src.Fetched, src.Added, src.Skipped, src.Errors)
			if src.FirstError != "" {
				cmd.Printf("             first error: %s\n", src.FirstError)
			}
		}
	}

	return nil
}
