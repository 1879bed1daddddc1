package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.EntryStore = (*EntryStore)(nil)

// EntryStore keeps entries in memory. Ranked search uses naive token
// overlap instead of vector distance; everything else follows the port
// contract, including the positional pairing rules.
type EntryStore struct {
	mu      sync.RWMutex
	entries []domain.Entry
	saved   time.Time

	// AddErr, when set, is returned by every Add call.
	AddErr error

	// SearchErr, when set, is returned by every ranked Search call.
	SearchErr error
}

// NewEntryStore returns an empty in-memory store.
func NewEntryStore() *EntryStore {
	return &EntryStore{}
}

// Add stores entries, dropping any with empty text.
func (s *EntryStore) Add(_ context.Context, entries []domain.Entry) (int, error) {
	if s.AddErr != nil {
		return 0, s.AddErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, e := range entries {
		if e.Text == "" {
			continue
		}
		e.VectorID = len(s.entries)
		e.DeriveDate()
		s.entries = append(s.entries, e)
		added++
	}
	if added > 0 {
		s.saved = time.Now()
	}
	return added, nil
}

// Search ranks entries by the fraction of query tokens found in their
// text. An empty query with a filter lists matches unranked; an empty
// query without a filter returns nothing.
func (s *EntryStore) Search(_ context.Context, query string, k int, filter domain.SearchFilter) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: search limit must be positive, got %d", domain.ErrInvalidInput, k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.SearchResult, 0)

	if strings.TrimSpace(query) == "" {
		if filter.IsZero() {
			return results, nil
		}
		for i := range s.entries {
			if !filter.Matches(&s.entries[i]) {
				continue
			}
			results = append(results, domain.SearchResult{Entry: s.entries[i]})
			if len(results) == k {
				break
			}
		}
		return results, nil
	}

	if s.SearchErr != nil {
		return nil, s.SearchErr
	}

	tokens := strings.Fields(strings.ToLower(query))
	for i := range s.entries {
		entry := &s.entries[i]
		if !filter.Matches(entry) {
			continue
		}
		text := strings.ToLower(entry.Text)
		matched := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			Entry: *entry,
			Score: float64(matched) / float64(len(tokens)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Get retrieves an entry by ID.
func (s *EntryStore) Get(_ context.Context, id string) (*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			entry := s.entries[i]
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, id)
}

// Delete removes an entry and renumbers the remainder.
func (s *EntryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		for j := range s.entries {
			s.entries[j].VectorID = j
		}
		s.saved = time.Now()
		return true, nil
	}
	return false, nil
}

// IDs returns the set of stored entry IDs for a source.
func (s *EntryStore) IDs(_ context.Context, source string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]struct{}, len(s.entries))
	for i := range s.entries {
		if source != "" && s.entries[i].Source != source {
			continue
		}
		ids[s.entries[i].ID] = struct{}{}
	}
	return ids, nil
}

// LatestDate returns the newest entry date for a source.
func (s *EntryStore) LatestDate(_ context.Context, source string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := ""
	for i := range s.entries {
		e := &s.entries[i]
		if source != "" && e.Source != source {
			continue
		}
		if e.Date > latest {
			latest = e.Date
		}
	}
	return latest, nil
}

// ListByDate returns all entries for one day, oldest first.
func (s *EntryStore) ListByDate(_ context.Context, date string) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Entry
	for i := range s.entries {
		if s.entries[i].Date == date {
			out = append(out, s.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Clear empties the store.
func (s *EntryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.saved = time.Now()
	return nil
}

// Stats summarises the store contents.
func (s *EntryStore) Stats(_ context.Context) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &domain.Stats{
		TotalEntries: len(s.entries),
		IndexSize:    len(s.entries),
		ModelName:    "memory",
		Sources:      make(map[string]int),
		Dates:        make(map[string]int),
		LastUpdated:  s.saved,
	}
	for i := range s.entries {
		e := &s.entries[i]
		st.Sources[e.Source]++
		if e.Date == "" {
			continue
		}
		st.Dates[e.Date]++
		if st.EarliestDate == "" || e.Date < st.EarliestDate {
			st.EarliestDate = e.Date
		}
		if e.Date > st.LatestDate {
			st.LatestDate = e.Date
		}
	}
	return st, nil
}

// Save is a no-op for the memory store.
func (s *EntryStore) Save(_ context.Context) error {
	return nil
}

// Close is a no-op for the memory store.
func (s *EntryStore) Close() error {
	return nil
}
