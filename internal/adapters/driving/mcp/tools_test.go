package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SearchResult{
				{
					Entry: domain.Entry{
						ID:           "limitless_abc",
						Source:       "limitless",
						Date:         "2025-07-14",
						ShortSummary: "Morning standup",
						Text:         "Standup notes about the quarterly roadmap.",
					},
					Score: 0.95,
				},
			},
		}

		server, err := New(mockSearch)
		require.NoError(t, err)

		input := SearchInput{Query: "roadmap", Limit: 10}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Len(t, output.Results, 1)
		assert.Equal(t, "limitless_abc", output.Results[0].EntryID)
		assert.Equal(t, "limitless", output.Results[0].Source)
		assert.Equal(t, "2025-07-14", output.Results[0].Date)
		assert.Equal(t, "Morning standup", output.Results[0].Title)
		assert.Equal(t, 0.95, output.Results[0].Score)
		assert.Equal(t, "Standup notes about the quarterly roadmap.", output.Results[0].Text)
	})

	t.Run("default limit is 5", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := New(mockSearch)
		require.NoError(t, err)

		input := SearchInput{Query: "test", Limit: 0}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 5, mockSearch.lastLimit)
	})

	t.Run("forwards date and source filter", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := New(mockSearch)
		require.NoError(t, err)

		input := SearchInput{Query: "test", Date: "2025-07-14", Source: "bee"}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "2025-07-14", mockSearch.lastFilter.Date)
		assert.Equal(t, "bee", mockSearch.lastFilter.Source)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{
			err: errors.New("search failed"),
		}

		server, err := New(mockSearch)
		require.NoError(t, err)

		input := SearchInput{Query: "test"}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleGetEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("returns entry", func(t *testing.T) {
		mockEntries := &mockEntryService{
			entry: &domain.Entry{
				ID:        "bee_42",
				Source:    "bee",
				Date:      "2025-07-14",
				Timestamp: time.Date(2025, 7, 14, 12, 10, 0, 0, time.UTC),
				Summary:   "Lunch conversation",
				Text:      "Lunch conversation about hiking plans.",
				Metadata:  map[string]string{"location": "cafe"},
			},
		}

		server, err := New(&mockSearchService{}, WithEntries(mockEntries))
		require.NoError(t, err)

		input := GetEntryInput{ID: "bee_42"}
		_, output, err := server.handleGetEntry(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "bee_42", output.ID)
		assert.Equal(t, "bee", output.Source)
		assert.Equal(t, "2025-07-14", output.Date)
		assert.Equal(t, "2025-07-14T12:10:00Z", output.Timestamp)
		assert.Equal(t, "Lunch conversation", output.Title)
		assert.Equal(t, "Lunch conversation about hiking plans.", output.Text)
		assert.Equal(t, "cafe", output.Metadata["location"])
	})

	t.Run("returns error when entry is missing", func(t *testing.T) {
		mockEntries := &mockEntryService{err: domain.ErrNotFound}

		server, err := New(&mockSearchService{}, WithEntries(mockEntries))
		require.NoError(t, err)

		input := GetEntryInput{ID: "limitless_missing"}
		_, _, err = server.handleGetEntry(ctx, nil, input)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleGetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("returns archive stats", func(t *testing.T) {
		mockEntries := &mockEntryService{
			stats: &domain.Stats{
				TotalEntries: 42,
				Dimensions:   384,
				ModelName:    "all-minilm",
				Sources:      map[string]int{"limitless": 30, "bee": 12},
				EarliestDate: "2025-06-01",
				LatestDate:   "2025-07-14",
			},
		}

		server, err := New(&mockSearchService{}, WithEntries(mockEntries))
		require.NoError(t, err)

		_, output, err := server.handleGetStats(ctx, nil, StatsInput{})

		require.NoError(t, err)
		assert.Equal(t, 42, output.TotalEntries)
		assert.Equal(t, 384, output.Dimensions)
		assert.Equal(t, "all-minilm", output.Model)
		assert.Equal(t, 30, output.Sources["limitless"])
		assert.Equal(t, "2025-06-01", output.EarliestDate)
		assert.Equal(t, "2025-07-14", output.LatestDate)
	})

	t.Run("returns error on stats failure", func(t *testing.T) {
		mockEntries := &mockEntryService{err: errors.New("store corrupt")}

		server, err := New(&mockSearchService{}, WithEntries(mockEntries))
		require.NoError(t, err)

		_, _, err = server.handleGetStats(ctx, nil, StatsInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store corrupt")
	})
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	report := &domain.SyncReport{
		RunID: "run-1",
		Sources: []domain.SourceReport{
			{Source: "limitless", Fetched: 4, Added: 3, Skipped: 1},
		},
	}

	t.Run("syncs a single source", func(t *testing.T) {
		mockIngest := &mockIngestOrchestrator{report: report}

		server, err := New(&mockSearchService{}, WithIngest(mockIngest))
		require.NoError(t, err)

		input := IngestInput{Source: "limitless", Days: 7}
		_, output, err := server.handleIngest(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "limitless", mockIngest.lastSource)
		assert.Equal(t, 7, mockIngest.lastOpts.Days)
		assert.Equal(t, "mcp", mockIngest.lastOpts.Trigger)
		assert.Equal(t, "run-1", output.RunID)
		assert.Equal(t, 3, output.Added)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, 4, output.Sources[0].Fetched)
		assert.Equal(t, 1, output.Sources[0].Skipped)
	})

	t.Run("syncs all sources when source is omitted", func(t *testing.T) {
		mockIngest := &mockIngestOrchestrator{report: report}

		server, err := New(&mockSearchService{}, WithIngest(mockIngest))
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{})

		require.NoError(t, err)
		assert.True(t, mockIngest.syncedAll)
		assert.Equal(t, "mcp", mockIngest.lastOpts.Trigger)
	})

	t.Run("returns error on sync failure", func(t *testing.T) {
		mockIngest := &mockIngestOrchestrator{err: errors.New("vendor unreachable")}

		server, err := New(&mockSearchService{}, WithIngest(mockIngest))
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Source: "bee"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "vendor unreachable")
	})
}
