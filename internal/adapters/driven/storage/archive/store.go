package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

// Artifact file names inside the data directory.
const (
	entriesFile = "entries.json"
	indexFile   = "index.bin"
)

// Store keeps lifelog entries in memory, mirrored to a pair of on-disk
// artifacts after every mutation. Entry i in the metadata sequence owns
// vector i in the index.
type Store struct {
	mu        sync.RWMutex
	dir       string
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	entries   []domain.Entry
	lastSaved time.Time
}

var _ driven.EntryStore = (*Store)(nil)

// New creates an archive store at the specified data directory.
// If dataDir is empty, defaults to ~/.pensieve/data. Existing artifacts
// are loaded when they form a consistent pair; otherwise the store
// starts empty.
func New(dataDir string, embedder driven.EmbeddingService, index driven.VectorIndex) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pensieve", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %w", domain.ErrPersistence, err)
	}

	if embedder.Dimensions() != index.Dimensions() {
		return nil, fmt.Errorf("%w: embedder produces %d dimensions, index expects %d",
			domain.ErrDimensionMismatch, embedder.Dimensions(), index.Dimensions())
	}

	s := &Store{
		dir:      dataDir,
		embedder: embedder,
		index:    index,
	}
	s.load()
	return s, nil
}

// load restores both artifacts from disk. Any inconsistency degrades to
// an empty store: a half-written or mismatched pair must never surface
// as data.
func (s *Store) load() {
	entriesPath := filepath.Join(s.dir, entriesFile)
	indexPath := filepath.Join(s.dir, indexFile)

	_, entErr := os.Stat(entriesPath)
	_, idxErr := os.Stat(indexPath)
	if os.IsNotExist(entErr) && os.IsNotExist(idxErr) {
		logger.Debug("No archive artifacts in %s, starting empty", s.dir)
		return
	}
	if entErr != nil || idxErr != nil {
		logger.Warn("Archive artifacts incomplete in %s, starting empty", s.dir)
		return
	}

	raw, err := os.ReadFile(entriesPath)
	if err != nil {
		logger.Warn("Reading %s failed: %v, starting empty", entriesFile, err)
		return
	}
	var entries []domain.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Warn("Parsing %s failed: %v, starting empty", entriesFile, err)
		return
	}

	if err := s.index.Load(indexPath); err != nil {
		logger.Warn("Loading %s failed: %v, starting empty", indexFile, err)
		s.index.Reset()
		return
	}
	if s.index.Len() != len(entries) {
		logger.Warn("Archive artifacts disagree (%d vectors, %d entries), starting empty",
			s.index.Len(), len(entries))
		s.index.Reset()
		return
	}

	for i := range entries {
		entries[i].VectorID = i
	}
	s.entries = entries
	logger.Debug("Loaded archive with %d entries from %s", len(entries), s.dir)
}

// Add embeds and stores entries as one batch. Entries with empty text
// are dropped before embedding and do not count towards the result.
// The whole batch is embedded in a single call and committed together.
func (s *Store) Add(ctx context.Context, entries []domain.Entry) (int, error) {
	kept := make([]domain.Entry, 0, len(entries))
	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Text == "" {
			continue
		}
		kept = append(kept, e)
		texts = append(texts, e.Text)
	}
	if len(kept) == 0 {
		return 0, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding %d entries: %w", len(kept), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The index validates every vector before appending any, so a
	// failure here leaves both structures as they were.
	base, err := s.index.Add(ctx, vectors)
	if err != nil {
		return 0, err
	}

	for i := range kept {
		kept[i].VectorID = base + i
		kept[i].DeriveDate()
	}
	s.entries = append(s.entries, kept...)

	if err := s.save(); err != nil {
		return len(kept), err
	}

	logger.Debug("Added %d entries to archive (total %d)", len(kept), len(s.entries))
	return len(kept), nil
}

// Search embeds the query and returns up to k entries scored by
// 1/(1+d) where d is the squared L2 distance, best first. The filter
// applies after scoring. An empty query with a filter falls back to an
// unranked listing in archive order; an empty query without a filter
// returns no results.
func (s *Store) Search(ctx context.Context, query string, k int, filter domain.SearchFilter) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: search limit must be positive, got %d", domain.ErrInvalidInput, k)
	}

	if strings.TrimSpace(query) == "" {
		if filter.IsZero() {
			return []domain.SearchResult{}, nil
		}
		return s.listFiltered(k, filter), nil
	}

	s.mu.RLock()
	size := len(s.entries)
	s.mu.RUnlock()
	if size == 0 {
		return []domain.SearchResult{}, nil
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Overfetch so that filtering still has k candidates to choose from.
	fetch := 2 * k
	if fetch > s.index.Len() {
		fetch = s.index.Len()
	}
	hits, err := s.index.Search(ctx, qvec, fetch)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		if h.Position < 0 || h.Position >= len(s.entries) {
			continue
		}
		entry := s.entries[h.Position]
		if !filter.Matches(&entry) {
			continue
		}
		results = append(results, domain.SearchResult{
			Entry: entry,
			Score: 1 / (1 + float64(h.Distance)),
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

// listFiltered returns up to k entries matching the filter, in archive
// order with zero scores. No embedding call is made.
func (s *Store) listFiltered(k int, filter domain.SearchFilter) []domain.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.SearchResult, 0)
	for i := range s.entries {
		if !filter.Matches(&s.entries[i]) {
			continue
		}
		results = append(results, domain.SearchResult{Entry: s.entries[i]})
		if len(results) == k {
			break
		}
	}
	return results
}

// Get retrieves an entry by ID.
func (s *Store) Get(_ context.Context, id string) (*domain.Entry, error) {
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

// Delete removes an entry by ID and rebuilds the index from the
// remaining entries, renumbering their vector positions. Returns false
// and no error when the ID is absent.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false, nil
	}

	remaining := make([]domain.Entry, 0, len(s.entries)-1)
	remaining = append(remaining, s.entries[:pos]...)
	remaining = append(remaining, s.entries[pos+1:]...)

	if len(remaining) == 0 {
		s.entries = nil
		s.index.Reset()
		if err := s.save(); err != nil {
			return true, err
		}
		return true, nil
	}

	// Re-embed everything that stays before touching either structure,
	// so an embedding failure leaves the archive as it was.
	texts := make([]string, len(remaining))
	for i := range remaining {
		texts[i] = remaining[i].Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return false, fmt.Errorf("re-embedding %d entries: %w", len(remaining), err)
	}

	s.index.Reset()
	if _, err := s.index.Add(ctx, vectors); err != nil {
		return false, err
	}
	for i := range remaining {
		remaining[i].VectorID = i
	}
	s.entries = remaining

	if err := s.save(); err != nil {
		return true, err
	}

	logger.Debug("Deleted entry %s, rebuilt index with %d vectors", id, len(remaining))
	return true, nil
}

// IDs returns the set of stored entry IDs for a source.
// An empty source returns all IDs.
func (s *Store) IDs(_ context.Context, source string) (map[string]struct{}, error) {
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

// LatestDate returns the newest entry date for a source, or "" when
// the source has no dated entries. An empty source considers all entries.
func (s *Store) LatestDate(_ context.Context, source string) (string, error) {
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
func (s *Store) ListByDate(_ context.Context, date string) ([]domain.Entry, error) {
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

// Clear empties the archive and persists the empty state.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.index.Reset()
	if err := s.save(); err != nil {
		return err
	}
	logger.Debug("Cleared archive in %s", s.dir)
	return nil
}

// Stats summarises the archive contents.
func (s *Store) Stats(_ context.Context) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &domain.Stats{
		TotalEntries: len(s.entries),
		IndexSize:    s.index.Len(),
		Dimensions:   s.index.Dimensions(),
		ModelName:    s.embedder.ModelName(),
		Sources:      make(map[string]int),
		Dates:        make(map[string]int),
		LastUpdated:  s.lastSaved,
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

// Save persists both artifacts.
func (s *Store) Save(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// Close releases the index. Mutating operations persist as they go, so
// nothing is written here.
func (s *Store) Close() error {
	return s.index.Close()
}

// save writes both artifacts, metadata first. Each write goes through a
// temporary file renamed into place, so a crash never leaves a half
// written artifact. A crash between the two renames leaves a mismatched
// pair, which load treats as empty. Callers hold the write lock.
func (s *Store) save() error {
	if err := s.saveEntries(); err != nil {
		return err
	}
	if err := s.index.Save(filepath.Join(s.dir, indexFile)); err != nil {
		return err
	}
	s.lastSaved = time.Now()
	return nil
}

func (s *Store) saveEntries() error {
	entries := s.entries
	if entries == nil {
		entries = []domain.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: encoding entries: %w", domain.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".entries-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write entries: %w", domain.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %w", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, entriesFile)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename entries: %w", domain.ErrPersistence, err)
	}
	return nil
}
