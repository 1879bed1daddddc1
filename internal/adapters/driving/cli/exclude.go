package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// excludeReason is a flag for the exclude command.
var excludeReason string

var excludeCmd = &cobra.Command{
	Use:   "exclude [source] [native-id]",
	Short: "Never ingest a vendor record",
	Long: `Adds a record to the privacy skip list. Excluded records are dropped
during ingestion even when the vendor keeps returning them. Excluding a
record does not delete entries already stored; use delete for that.`,
	Args: cobra.ExactArgs(2),
	RunE: runExclude,
}

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "Manage the privacy skip list",
}

var exclusionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List excluded records",
	RunE:  runExclusionsList,
}

var exclusionsRemoveCmd = &cobra.Command{
	Use:   "remove [source] [native-id]",
	Short: "Allow a record to be ingested again",
	Args:  cobra.ExactArgs(2),
	RunE:  runExclusionsRemove,
}

func init() {
	excludeCmd.Flags().StringVarP(&excludeReason, "reason", "r", "", "why the record is excluded")

	exclusionsCmd.AddCommand(exclusionsListCmd)
	exclusionsCmd.AddCommand(exclusionsRemoveCmd)
	rootCmd.AddCommand(excludeCmd)
	rootCmd.AddCommand(exclusionsCmd)
}

func runExclude(cmd *cobra.Command, args []string) error {
	if exclusionStore == nil {
		return errors.New("exclusion store not configured")
	}

	source, nativeID := args[0], args[1]
	ctx := context.Background()

	err := exclusionStore.Add(ctx, domain.Exclusion{
		Source:   source,
		NativeID: nativeID,
		Reason:   excludeReason,
	})
	if err != nil {
		return fmt.Errorf("failed to exclude record: %w", err)
	}

	cmd.Printf("Excluded %s record %s.\n", source, nativeID)
	return nil
}

func runExclusionsList(cmd *cobra.Command, _ []string) error {
	if exclusionStore == nil {
		return errors.New("exclusion store not configured")
	}

	ctx := context.Background()
	exclusions, err := exclusionStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list exclusions: %w", err)
	}

	if len(exclusions) == 0 {
		cmd.Println("No excluded records.")
		return nil
	}

	for i := range exclusions {
		excl := &exclusions[i]
		cmd.Printf("%s  %-10s %s", excl.CreatedAt.Format("2006-01-02"), excl.Source, excl.NativeID)
		if excl.Reason != "" {
			cmd.Printf("  (%s)", excl.Reason)
		}
		cmd.Println()
	}

	return nil
}

func runExclusionsRemove(cmd *cobra.Command, args []string) error {
	if exclusionStore == nil {
		return errors.New("exclusion store not configured")
	}

	source, nativeID := args[0], args[1]
	ctx := context.Background()

	if err := exclusionStore.Remove(ctx, source, nativeID); err != nil {
		return fmt.Errorf("failed to remove exclusion: %w", err)
	}

	cmd.Printf("Removed exclusion for %s record %s.\n", source, nativeID)
	return nil
}
