package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

var _ driving.EntryService = (*EntryService)(nil)

// EntryService manages stored entries.
type EntryService struct {
	store driven.EntryStore
}

// NewEntryService creates a new entry service.
func NewEntryService(store driven.EntryStore) *EntryService {
	return &EntryService{store: store}
}

// Get retrieves an entry by ID.
func (s *EntryService) Get(ctx context.Context, id string) (*domain.Entry, error) {
	return s.store.Get(ctx, id)
}

// ListByDate returns all entries for one day, oldest first.
func (s *EntryService) ListByDate(ctx context.Context, date string) ([]domain.Entry, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", domain.ErrInvalidInput, date)
	}
	return s.store.ListByDate(ctx, date)
}

// Delete removes an entry. The index is rebuilt from the remaining
// entries, which re-embeds them.
func (s *EntryService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	if deleted {
		logger.Info("Deleted entry %s", id)
	}
	return deleted, nil
}

// Stats summarises the archive contents.
func (s *EntryService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.store.Stats(ctx)
}
