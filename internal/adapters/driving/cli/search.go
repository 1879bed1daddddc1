package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

var (
	searchLimit  int
	searchDate   string
	searchSource string
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the archive by meaning",
	Long: `Searches stored entries semantically. The query is embedded and
entries are ranked by vector distance, so results match meaning rather
than exact words. Use --date or --source to narrow the results.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().StringVar(&searchDate, "date", "", "restrict by date prefix (YYYY-MM-DD, YYYY-MM or YYYY)")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "restrict to one vendor")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := context.Background()
	filter := domain.SearchFilter{
		Date:   searchDate,
		Source: searchSource,
	}

	results, err := searchService.Search(ctx, args[0], searchLimit, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchText(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		entry := &results[i].Entry

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, entry.Title(), results[i].Score)
		cmd.Printf("      %s  %s  %s\n", entry.ID, entry.Source, entry.Date)
		if snippet := resultSnippet(entry); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// resultSnippet flattens the entry text into one display line.
func resultSnippet(entry *domain.Entry) string {
	text := strings.Join(strings.Fields(entry.Text), " ")
	const maxSnippet = 120
	if len(text) > maxSnippet {
		return text[:maxSnippet-3] + "..."
	}
	return text
}
