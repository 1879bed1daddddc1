package driving

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// SearchService provides semantic search over the archive to external actors.
type SearchService interface {
	// Search returns up to limit entries matching the query, best first.
	// An empty query returns an empty result and no error.
	Search(ctx context.Context, query string, limit int, filter domain.SearchFilter) ([]domain.SearchResult, error)
}
