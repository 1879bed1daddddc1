package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and search the archive interactively",
	Long: `Open the interactive terminal interface.

The TUI offers a day-by-day browser and semantic search over the
archive, plus an on-demand sync, all driven from the keyboard:

  ↑/k, ↓/j - Navigate
  Enter    - Open / Search
  Esc      - Back
  /        - Search
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// The TUI is long-running, so the background scheduler gets to run
	// alongside it when enabled.
	if schedulerConfig.Enabled && schedulerService != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			if err := schedulerService.Start(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "scheduler stopped: %v\n", err)
			}
		}()
		defer schedulerService.Stop() //nolint:errcheck
	}

	app, err := tui.NewApp(tui.Services{
		Search:  searchService,
		Entries: entryService,
		Ingest:  ingestOrchestrator,
	})
	if err != nil {
		return fmt.Errorf("starting tui: %w", err)
	}

	if runErr := app.WithContext(cmd.Context()).Run(); runErr != nil {
		return fmt.Errorf("tui: %w", runErr)
	}
	return nil
}
