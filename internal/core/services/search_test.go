package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/storage/memory"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

func seedSearchStore(t *testing.T) *memory.EntryStore {
	t.Helper()

	store := memory.NewEntryStore()
	_, err := store.Add(context.Background(), []domain.Entry{
		{
			ID:        "limitless_a",
			Source:    domain.SourceLimitless,
			Text:      "Discussed the quarterly budget with finance.",
			Timestamp: time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "limitless_b",
			Source:    domain.SourceLimitless,
			Text:      "Walked the dog around the park.",
			Timestamp: time.Date(2025, 7, 14, 18, 0, 0, 0, time.UTC),
		},
		{
			ID:        "bee_1",
			Source:    domain.SourceBee,
			Text:      "Budget review continued over lunch.",
			Timestamp: time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
	return store
}

func TestSearchService_Search(t *testing.T) {
	svc := NewSearchService(seedSearchStore(t))

	results, err := svc.Search(context.Background(), "budget", 10, domain.SearchFilter{})
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Contains(t, r.Entry.Text, "udget")
		assert.Greater(t, r.Score, 0.0)
	}
}

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	svc := NewSearchService(seedSearchStore(t))

	results, err := svc.Search(context.Background(), "   ", 10, domain.SearchFilter{})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchService_Search_EmptyQueryWithFilter(t *testing.T) {
	svc := NewSearchService(seedSearchStore(t))

	// A bare filter lists the matching entries unranked.
	results, err := svc.Search(context.Background(), "", 10, domain.SearchFilter{Date: "2025-07-14"})
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "2025-07-14", r.Entry.Date)
		assert.Zero(t, r.Score)
	}
}

func TestSearchService_Search_SourceFilter(t *testing.T) {
	svc := NewSearchService(seedSearchStore(t))

	results, err := svc.Search(context.Background(), "budget", 10, domain.SearchFilter{Source: domain.SourceBee})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "bee_1", results[0].Entry.ID)
}

func TestSearchService_Search_DefaultLimit(t *testing.T) {
	store := memory.NewEntryStore()
	var entries []domain.Entry
	for i := 0; i < DefaultSearchLimit+3; i++ {
		entries = append(entries, domain.Entry{
			ID:        domain.EntryID(domain.SourceLimitless, string(rune('a'+i))),
			Source:    domain.SourceLimitless,
			Text:      "meeting notes about the project",
			Timestamp: time.Date(2025, 7, 14, 9, i, 0, 0, time.UTC),
		})
	}
	_, err := store.Add(context.Background(), entries)
	require.NoError(t, err)

	svc := NewSearchService(store)

	results, err := svc.Search(context.Background(), "project", 0, domain.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, results, DefaultSearchLimit)
}

func TestSearchService_Search_StoreError(t *testing.T) {
	store := seedSearchStore(t)
	store.SearchErr = errors.New("index corrupted")
	svc := NewSearchService(store)

	results, err := svc.Search(context.Background(), "budget", 10, domain.SearchFilter{})
	assert.Nil(t, results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search:")
	assert.Contains(t, err.Error(), "index corrupted")
}
