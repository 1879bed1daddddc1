package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

// SearchInput is the input schema for the search_lifelogs tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the search query to find lifelog entries"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	Date   string `json:"date,omitempty" jsonschema:"restrict results by date prefix: YYYY-MM-DD, YYYY-MM or YYYY"`
	Source string `json:"source,omitempty" jsonschema:"restrict results to one vendor, such as limitless or bee"`
}

// SearchOutput is the output schema for the search_lifelogs tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	EntryID string  `json:"entry_id"`
	Source  string  `json:"source"`
	Date    string  `json:"date"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Text    string  `json:"text,omitempty"`
}

// GetEntryInput is the input schema for the get_lifelog tool.
type GetEntryInput struct {
	ID string `json:"id" jsonschema:"the entry ID to retrieve"`
}

// EntryOutput is the output schema for the get_lifelog tool.
type EntryOutput struct {
	ID         string            `json:"id"`
	Source     string            `json:"source"`
	Date       string            `json:"date"`
	Timestamp  string            `json:"timestamp"`
	Title      string            `json:"title"`
	Summary    string            `json:"summary,omitempty"`
	Text       string            `json:"text"`
	ChunkIndex int               `json:"chunk_index,omitempty"`
	ChunkCount int               `json:"chunk_count,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// StatsInput is the empty input schema for the get_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the get_stats tool.
type StatsOutput struct {
	TotalEntries int            `json:"total_entries"`
	Dimensions   int            `json:"dimensions"`
	Model        string         `json:"model"`
	Sources      map[string]int `json:"sources,omitempty"`
	EarliestDate string         `json:"earliest_date,omitempty"`
	LatestDate   string         `json:"latest_date,omitempty"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Source string `json:"source,omitempty" jsonschema:"sync a single vendor, such as limitless or bee; all sources when omitted"`
	Days   int    `json:"days,omitempty" jsonschema:"lookback window in days for sources that have never been synced"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	RunID   string               `json:"run_id"`
	Added   int                  `json:"added"`
	Sources []SourceReportOutput `json:"sources"`
}

// SourceReportOutput is the per-vendor slice of an ingestion run.
type SourceReportOutput struct {
	Source     string `json:"source"`
	Fetched    int    `json:"fetched"`
	Added      int    `json:"added"`
	Skipped    int    `json:"skipped"`
	Errors     int    `json:"errors"`
	FirstError string `json:"first_error,omitempty"`
}

// registerTools advertises a tool for each wired capability.
func (s *Server) registerTools() {
	mcp.AddTool(s.impl, &mcp.Tool{
		Name:        "search_lifelogs",
		Description: "Search the lifelog archive for entries matching a query",
	}, s.handleSearch)

	if s.entries != nil {
		mcp.AddTool(s.impl, &mcp.Tool{
			Name:        "get_lifelog",
			Description: "Retrieve the full content of a lifelog entry by ID",
		}, s.handleGetEntry)

		mcp.AddTool(s.impl, &mcp.Tool{
			Name:        "get_stats",
			Description: "Summarise the archive: entry counts, sources and date range",
		}, s.handleGetStats)
	}

	if s.ingest != nil {
		mcp.AddTool(s.impl, &mcp.Tool{
			Name:        "ingest",
			Description: "Fetch and index new records from the configured vendors",
		}, s.handleIngest)
	}
}

// handleSearch handles the search_lifelogs tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	filter := domain.SearchFilter{Date: input.Date, Source: input.Source}
	results, err := s.search.Search(ctx, input.Query, limit, filter)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		entry := &results[i].Entry
		output.Results[i] = SearchResultOutput{
			EntryID: entry.ID,
			Source:  entry.Source,
			Date:    entry.Date,
			Title:   entry.Title(),
			Score:   results[i].Score,
			Text:    entry.Text,
		}
	}

	return nil, output, nil
}

// handleGetEntry handles the get_lifelog tool invocation.
func (s *Server) handleGetEntry(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetEntryInput,
) (*mcp.CallToolResult, EntryOutput, error) {
	entry, err := s.entries.Get(ctx, input.ID)
	if err != nil {
		return nil, EntryOutput{}, err
	}

	return nil, EntryOutput{
		ID:         entry.ID,
		Source:     entry.Source,
		Date:       entry.Date,
		Timestamp:  entry.Timestamp.Format(time.RFC3339),
		Title:      entry.Title(),
		Summary:    entry.Summary,
		Text:       entry.Text,
		ChunkIndex: entry.ChunkIndex,
		ChunkCount: entry.ChunkCount,
		Metadata:   entry.Metadata,
	}, nil
}

// handleGetStats handles the get_stats tool invocation.
func (s *Server) handleGetStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.entries.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		TotalEntries: stats.TotalEntries,
		Dimensions:   stats.Dimensions,
		Model:        stats.ModelName,
		Sources:      stats.Sources,
		EarliestDate: stats.EarliestDate,
		LatestDate:   stats.LatestDate,
	}, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	opts := driving.SyncOptions{Days: input.Days, Trigger: "mcp"}

	var report *domain.SyncReport
	var err error
	if input.Source != "" {
		report, err = s.ingest.Sync(ctx, input.Source, opts)
	} else {
		report, err = s.ingest.SyncAll(ctx, opts)
	}
	if err != nil {
		return nil, IngestOutput{}, err
	}

	output := IngestOutput{
		RunID:   report.RunID,
		Added:   report.TotalAdded(),
		Sources: make([]SourceReportOutput, len(report.Sources)),
	}

	for i := range report.Sources {
		src := &report.Sources[i]
		output.Sources[i] = SourceReportOutput{
			Source:     src.Source,
			Fetched:    src.Fetched,
			Added:      src.Added,
			Skipped:    src.Skipped,
			Errors:     src.Errors,
			FirstError: src.FirstError,
		}
	}

	return nil, output, nil
}
