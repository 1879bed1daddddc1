package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	showJSON  bool
	statsJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a stored entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove an entry from the archive",
	Long: `Removes an entry and rebuilds the vector index from the remaining
entries. Rebuilding re-embeds every entry, so deleting from a large
archive takes a while.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the archive contents",
	RunE:  runStats,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output the entry as JSON")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output stats as JSON")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	ctx := context.Background()
	entry, err := entryService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	if showJSON {
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Entry: %s\n\n", entry.ID)
	cmd.Printf("  Source:     %s\n", entry.Source)
	cmd.Printf("  Date:       %s\n", entry.Date)
	cmd.Printf("  Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05"))
	if entry.ShortSummary != "" {
		cmd.Printf("  Summary:    %s\n", entry.ShortSummary)
	}
	if entry.IsChunk() {
		cmd.Printf("  Chunk:      %d of %d\n", entry.ChunkIndex+1, entry.ChunkCount)
	}

	if len(entry.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("    %s: %s\n", k, entry.Metadata[k])
		}
	}

	cmd.Println()
	cmd.Println(entry.Text)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	id := args[0]
	ctx := context.Background()

	deleted, err := entryService.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		cmd.Printf("Entry %s not found.\n", id)
		return nil
	}

	cmd.Printf("Deleted %s and rebuilt the index.\n", id)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if entryService == nil {
		return errors.New("entry service not configured")
	}

	ctx := context.Background()
	stats, err := entryService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Archive:")
	cmd.Printf("  Entries:     %d\n", stats.TotalEntries)
	cmd.Printf("  Vectors:     %d (%d dimensions)\n", stats.IndexSize, stats.Dimensions)
	if stats.ModelName != "" {
		cmd.Printf("  Model:       %s\n", stats.ModelName)
	}
	if stats.EarliestDate != "" {
		cmd.Printf("  Range:       %s to %s\n", stats.EarliestDate, stats.LatestDate)
	}
	if !stats.LastUpdated.IsZero() {
		cmd.Printf("  Updated:     %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
	}

	if len(stats.Sources) > 0 {
		cmd.Println("\n  Sources:")
		sources := make([]string, 0, len(stats.Sources))
		for source := range stats.Sources {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			cmd.Printf("    %-10s %d\n", source, stats.Sources[source])
		}
	}

	return nil
}
