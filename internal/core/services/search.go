package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit is the result count used when the caller passes none.
const DefaultSearchLimit = 5

// SearchService answers semantic queries against the archive.
type SearchService struct {
	store driven.EntryStore
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.EntryStore) *SearchService {
	return &SearchService{store: store}
}

// Search returns up to limit entries matching the query, best first. An
// empty query with a filter lists the filtered entries unranked; an empty
// query without one matches nothing.
func (s *SearchService) Search(ctx context.Context, query string, limit int, filter domain.SearchFilter) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" && filter.IsZero() {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	logger.Debug("Searching %q (limit %d, date %q, source %q)", query, limit, filter.Date, filter.Source)

	results, err := s.store.Search(ctx, query, limit, filter)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Debug("Search returned %d results", len(results))
	return results, nil
}
