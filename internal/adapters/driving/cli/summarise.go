package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

var summariseCmd = &cobra.Command{
	Use:   "summarise [date]",
	Short: "Summarise a day with the configured LLM",
	Long: `Builds a transcript digest from the day's entries and asks the
configured LLM for a prose summary. Requires llm.provider to be set.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarise,
}

func init() {
	rootCmd.AddCommand(summariseCmd)
}

func runSummarise(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	date := args[0]
	ctx := context.Background()

	summary, err := summaryService.SummariseDay(ctx, date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLLMUnavailable):
			return errors.New("no LLM configured; set llm.provider in config")
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("no entries for %s", date)
		default:
			return fmt.Errorf("summarise failed: %w", err)
		}
	}

	cmd.Println(summary)
	return nil
}
