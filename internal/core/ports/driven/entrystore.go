package driven

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// EntryStore is the archive: a vector index paired with ordered entry
// metadata. The pairing is positional - entry i owns vector i - and the
// store keeps both artifacts consistent across add, delete and reload.
type EntryStore interface {
	// Add embeds and stores entries as one batch, returning the number
	// stored. Entries with empty text are silently dropped and do not
	// count. An embedding failure leaves the store untouched; the batch
	// is never partially stored.
	Add(ctx context.Context, entries []domain.Entry) (int, error)

	// Search embeds the query and returns up to k entries scored by
	// 1/(1+distance), best first, after applying the filter.
	// An empty query with a filter lists matching entries unranked;
	// an empty query without a filter returns an empty result.
	Search(ctx context.Context, query string, k int, filter domain.SearchFilter) ([]domain.SearchResult, error)

	// Get retrieves an entry by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Entry, error)

	// Delete removes an entry by ID and rebuilds the index from the
	// remaining entries. Returns false and no error when the ID is absent.
	Delete(ctx context.Context, id string) (bool, error)

	// IDs returns the set of stored entry IDs for a source.
	// An empty source returns all IDs.
	IDs(ctx context.Context, source string) (map[string]struct{}, error)

	// LatestDate returns the newest entry date for a source, or ""
	// when the source has no entries.
	LatestDate(ctx context.Context, source string) (string, error)

	// ListByDate returns all entries for one day, oldest first.
	ListByDate(ctx context.Context, date string) ([]domain.Entry, error)

	// Clear empties the archive and persists the empty state.
	Clear(ctx context.Context) error

	// Stats summarises the archive contents.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Save persists both artifacts.
	Save(ctx context.Context) error

	// Close releases resources. Mutating operations persist as they go,
	// so Close does not write.
	Close() error
}
