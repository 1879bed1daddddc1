package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

// fakeSearch is a function-backed driving.SearchService.
type fakeSearch struct {
	searchFunc func(ctx context.Context, query string, limit int, filter domain.SearchFilter) ([]domain.SearchResult, error)
}

func (f *fakeSearch) Search(ctx context.Context, query string, limit int, filter domain.SearchFilter) ([]domain.SearchResult, error) {
	if f.searchFunc != nil {
		return f.searchFunc(ctx, query, limit, filter)
	}
	return nil, nil
}

// fakeEntries is a function-backed driving.EntryService.
type fakeEntries struct {
	getFunc        func(ctx context.Context, id string) (*domain.Entry, error)
	listByDateFunc func(ctx context.Context, date string) ([]domain.Entry, error)
	deleteFunc     func(ctx context.Context, id string) (bool, error)
	statsFunc      func(ctx context.Context) (*domain.Stats, error)
}

func (f *fakeEntries) Get(ctx context.Context, id string) (*domain.Entry, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEntries) ListByDate(ctx context.Context, date string) ([]domain.Entry, error) {
	if f.listByDateFunc != nil {
		return f.listByDateFunc(ctx, date)
	}
	return nil, nil
}

func (f *fakeEntries) Delete(ctx context.Context, id string) (bool, error) {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return false, nil
}

func (f *fakeEntries) Stats(ctx context.Context) (*domain.Stats, error) {
	if f.statsFunc != nil {
		return f.statsFunc(ctx)
	}
	return &domain.Stats{}, nil
}

// fakeIngest is a function-backed driving.IngestOrchestrator.
type fakeIngest struct {
	syncAllFunc func(ctx context.Context, opts driving.SyncOptions) (*domain.SyncReport, error)
}

func (f *fakeIngest) Sync(context.Context, string, driving.SyncOptions) (*domain.SyncReport, error) {
	return &domain.SyncReport{}, nil
}

func (f *fakeIngest) SyncAll(ctx context.Context, opts driving.SyncOptions) (*domain.SyncReport, error) {
	if f.syncAllFunc != nil {
		return f.syncAllFunc(ctx, opts)
	}
	return &domain.SyncReport{}, nil
}

func (f *fakeIngest) Status(context.Context, string) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

func TestServicesValidate(t *testing.T) {
	full := Services{Search: &fakeSearch{}, Entries: &fakeEntries{}, Ingest: &fakeIngest{}}
	assert.NoError(t, full.Validate())

	noIngest := Services{Search: &fakeSearch{}, Entries: &fakeEntries{}}
	assert.NoError(t, noIngest.Validate(), "ingest is optional")

	noSearch := Services{Entries: &fakeEntries{}}
	assert.ErrorIs(t, noSearch.Validate(), ErrSearchRequired)

	noEntries := Services{Search: &fakeSearch{}}
	assert.ErrorIs(t, noEntries.Validate(), ErrEntriesRequired)
}
