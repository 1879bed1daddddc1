package driving

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// EntryService manages stored entries.
type EntryService interface {
	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*domain.Entry, error)

	// ListByDate returns all entries for one day, oldest first.
	ListByDate(ctx context.Context, date string) ([]domain.Entry, error)

	// Delete removes an entry. The index is rebuilt from the remaining
	// entries, which re-embeds them. Returns false when the ID is absent.
	Delete(ctx context.Context, id string) (bool, error)

	// Stats summarises the archive contents.
	Stats(ctx context.Context) (*domain.Stats, error)
}
