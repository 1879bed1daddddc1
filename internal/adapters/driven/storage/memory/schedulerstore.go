package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.SchedulerStore = (*SchedulerStore)(nil)

// SchedulerStore holds job state in maps for scheduler tests. Outcomes
// are kept per job in append order (oldest first).
type SchedulerStore struct {
	mu       sync.RWMutex
	jobs     map[string]domain.SyncJob
	outcomes map[string][]domain.JobOutcome
}

// NewSchedulerStore returns an empty in-memory scheduler store.
func NewSchedulerStore() *SchedulerStore {
	return &SchedulerStore{
		jobs:     map[string]domain.SyncJob{},
		outcomes: map[string][]domain.JobOutcome{},
	}
}

func (s *SchedulerStore) Job(_ context.Context, id string) (*domain.SyncJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (s *SchedulerStore) Jobs(_ context.Context) ([]domain.SyncJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]domain.SyncJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, nil
}

func (s *SchedulerStore) PutJob(_ context.Context, job *domain.SyncJob) error {
	if job == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *SchedulerStore) DeleteJob(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

func (s *SchedulerStore) RecordOutcome(_ context.Context, outcome *domain.JobOutcome) error {
	if outcome == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[outcome.JobID] = append(s.outcomes[outcome.JobID], *outcome)
	return nil
}

func (s *SchedulerStore) Outcomes(_ context.Context, jobID string, limit int) ([]domain.JobOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.outcomes[jobID]
	newest := make([]domain.JobOutcome, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		newest = append(newest, stored[i])
	}
	if limit > 0 && len(newest) > limit {
		newest = newest[:limit]
	}
	return newest, nil
}

func (s *SchedulerStore) TrimOutcomes(_ context.Context, jobID string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.outcomes[jobID]
	if keep >= 0 && len(stored) > keep {
		s.outcomes[jobID] = append([]domain.JobOutcome(nil), stored[len(stored)-keep:]...)
	}
	return nil
}
