package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.ExclusionStore = (*ExclusionStore)(nil)

// ExclusionStore keeps the skip list in a map.
type ExclusionStore struct {
	mu         sync.RWMutex
	exclusions map[string]domain.Exclusion
}

// NewExclusionStore returns an empty in-memory skip list.
func NewExclusionStore() *ExclusionStore {
	return &ExclusionStore{
		exclusions: make(map[string]domain.Exclusion),
	}
}

func exclusionKey(source, nativeID string) string {
	return source + "\x00" + nativeID
}

// Add stores an exclusion. Adding an existing pair updates the reason
// and keeps the original creation time.
func (s *ExclusionStore) Add(_ context.Context, exclusion domain.Exclusion) error {
	if exclusion.Source == "" || exclusion.NativeID == "" {
		return fmt.Errorf("%w: exclusion needs a source and a native ID", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := exclusionKey(exclusion.Source, exclusion.NativeID)
	if existing, ok := s.exclusions[key]; ok {
		existing.Reason = exclusion.Reason
		s.exclusions[key] = existing
		return nil
	}
	if exclusion.CreatedAt.IsZero() {
		exclusion.CreatedAt = time.Now().UTC()
	}
	s.exclusions[key] = exclusion
	return nil
}

// Remove deletes an exclusion. Removing an absent pair is not an error.
func (s *ExclusionStore) Remove(_ context.Context, source, nativeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.exclusions, exclusionKey(source, nativeID))
	return nil
}

// IsExcluded reports whether a record is on the skip list.
func (s *ExclusionStore) IsExcluded(_ context.Context, source, nativeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.exclusions[exclusionKey(source, nativeID)]
	return ok, nil
}

// List returns all exclusions, newest first.
func (s *ExclusionStore) List(_ context.Context) ([]domain.Exclusion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Exclusion, 0, len(s.exclusions))
	for _, exclusion := range s.exclusions {
		result = append(result, exclusion)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return exclusionKey(result[i].Source, result[i].NativeID) <
				exclusionKey(result[j].Source, result[j].NativeID)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
