package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.RunStore = (*RunStore)(nil)

// RunStore keeps the run ledger in a slice.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.SyncReport
}

// NewRunStore returns an empty in-memory ledger.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.SyncReport),
	}
}

// SaveRun appends a completed run, replacing any run with the same ID.
func (s *RunStore) SaveRun(_ context.Context, report *domain.SyncReport) error {
	if report == nil || report.RunID == "" {
		return fmt.Errorf("%w: run report missing ID", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *report
	copied.Sources = append([]domain.SourceReport(nil), report.Sources...)
	s.runs[report.RunID] = copied
	return nil
}

// ListRuns returns recent runs, newest first. A non-positive limit
// returns all runs.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.SyncReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.SyncReport, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].RunID > runs[j].RunID
		}
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetRun retrieves one run by ID.
func (s *RunStore) GetRun(_ context.Context, runID string) (*domain.SyncReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
	}
	return &run, nil
}
