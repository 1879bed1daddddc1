package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

var (
	syncDays   int
	syncLimit  int
	syncForce  bool
	syncDaemon bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [source]",
	Short: "Ingest new records from vendors",
	Long: `Fetches new lifelog records and adds them to the archive.

Without a source, all enabled sources are synced. Syncing is
incremental: each source resumes from the newest day it already has,
and records whose IDs are stored are skipped, so re-running over the
same window adds nothing.

With --daemon, sync runs in the background on the configured interval
until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncDays, "days", 0, "lookback window for sources with no history")
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "cap records fetched per source (0 = no cap)")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "re-ingest records that are already stored")
	syncCmd.Flags().BoolVar(&syncDaemon, "daemon", false, "run the background scheduler until interrupted")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncDaemon {
		return runSyncDaemon(cmd)
	}

	if ingestOrchestrator == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	opts := driving.SyncOptions{
		Days:    syncDays,
		Limit:   syncLimit,
		Force:   syncForce,
		Trigger: "cli",
	}

	var (
		report *domain.SyncReport
		err    error
	)

	if len(args) > 0 {
		source := args[0]
		cmd.Printf("Syncing %s...\n", source)
		report, err = syncWithProgress(ctx, cmd, source, opts)
	} else {
		cmd.Println("Syncing all sources...")
		report, err = ingestOrchestrator.SyncAll(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

// runSyncDaemon runs the scheduler until SIGINT or SIGTERM.
func runSyncDaemon(cmd *cobra.Command) error {
	if schedulerService == nil {
		return errors.New("scheduler not configured")
	}
	if !schedulerConfig.Enabled {
		cmd.Println("Scheduler is disabled. Enable it with:")
		cmd.Println("  pensieve config set scheduler.enabled true")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Println("Background sync running. Press Ctrl-C to stop.")
	if err := schedulerService.Start(ctx); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	return schedulerService.Stop()
}

// syncWithProgress runs a single-source sync while polling its status.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	source string,
	opts driving.SyncOptions,
) (*domain.SyncReport, error) {
	type result struct {
		report *domain.SyncReport
		err    error
	}

	resultCh := make(chan result, 1)
	go func() {
		report, err := ingestOrchestrator.Sync(ctx, source, opts)
		resultCh <- result{report, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case res := <-resultCh:
			if lastCount > 0 {
				cmd.Printf("\r")
			}
			return res.report, res.err
		case <-ticker.C:
			// Progress is best effort; status errors are ignored.
			status, err := ingestOrchestrator.Status(ctx, source)
			if err == nil && status != nil && status.RecordsProcessed > lastCount {
				cmd.Printf("\rProcessing... %d records", status.RecordsProcessed)
				lastCount = status.RecordsProcessed
			}
		}
	}
}

// printReport renders per-source counts and totals.
func printReport(cmd *cobra.Command, report *domain.SyncReport) {
	if report == nil {
		return
	}

	for i := range report.Sources {
		src := &report.Sources[i]
		cmd.Printf("%s: fetched %d, added %d, skipped %d", src.Source, src.Fetched, src.Added, src.Skipped)
		if src.Chunked > 0 {
			cmd.Printf(", chunked %d", src.Chunked)
		}
		if src.Errors > 0 {
			cmd.Printf(", errors %d", src.Errors)
		}
		cmd.Println()
		if src.FirstError != "" {
			cmd.Printf("  first error: %s\n", src.FirstError)
		}
	}

	cmd.Printf("Added %d entries in %s.\n",
		report.TotalAdded(), report.Duration().Round(time.Millisecond))
}
