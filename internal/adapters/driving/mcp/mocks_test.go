package mcp

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results    []domain.SearchResult
	err        error
	lastLimit  int
	lastFilter domain.SearchFilter
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	limit int,
	filter domain.SearchFilter,
) ([]domain.SearchResult, error) {
	m.lastLimit = limit
	m.lastFilter = filter
	return m.results, m.err
}

// mockEntryService is a mock implementation of driving.EntryService.
type mockEntryService struct {
	entry   *domain.Entry
	entries []domain.Entry
	stats   *domain.Stats
	deleted bool
	err     error
}

func (m *mockEntryService) Get(_ context.Context, _ string) (*domain.Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entry, nil
}

func (m *mockEntryService) ListByDate(_ context.Context, _ string) ([]domain.Entry, error) {
	return m.entries, m.err
}

func (m *mockEntryService) Delete(_ context.Context, _ string) (bool, error) {
	return m.deleted, m.err
}

func (m *mockEntryService) Stats(_ context.Context) (*domain.Stats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

// mockIngestOrchestrator is a mock implementation of driving.IngestOrchestrator.
type mockIngestOrchestrator struct {
	report     *domain.SyncReport
	status     *driving.SyncStatus
	err        error
	lastSource string
	lastOpts   driving.SyncOptions
	syncedAll  bool
}

func (m *mockIngestOrchestrator) Sync(
	_ context.Context,
	source string,
	opts driving.SyncOptions,
) (*domain.SyncReport, error) {
	m.lastSource = source
	m.lastOpts = opts
	return m.report, m.err
}

func (m *mockIngestOrchestrator) SyncAll(
	_ context.Context,
	opts driving.SyncOptions,
) (*domain.SyncReport, error) {
	m.syncedAll = true
	m.lastOpts = opts
	return m.report, m.err
}

func (m *mockIngestOrchestrator) Status(_ context.Context, _ string) (*driving.SyncStatus, error) {
	return m.status, m.err
}
