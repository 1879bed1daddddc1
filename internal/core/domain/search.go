package domain

import (
	"strings"
	"time"
)

// SearchFilter narrows search results after vector scoring.
// The zero value applies no filtering.
type SearchFilter struct {
	// Date restricts results by prefix: a full DateLayout value selects
	// one day, "2006-01" a month, "2006" a year.
	Date string

	// Source restricts results to a single vendor.
	Source string
}

// IsZero reports whether the filter applies no restrictions.
func (f SearchFilter) IsZero() bool {
	return f.Date == "" && f.Source == ""
}

// Matches reports whether an entry passes the filter.
func (f SearchFilter) Matches(e *Entry) bool {
	if f.Date != "" && !strings.HasPrefix(e.Date, f.Date) {
		return false
	}
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	return true
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Entry is the matched entry.
	Entry Entry

	// Score is the similarity score, computed as 1/(1+d) where d is the
	// L2 distance between query and entry vectors. Higher is closer.
	Score float64
}

// Stats summarises the archive contents.
type Stats struct {
	// TotalEntries is the number of entries in the metadata store.
	TotalEntries int

	// IndexSize is the number of vectors in the index.
	// Equal to TotalEntries unless the artifacts have diverged.
	IndexSize int

	// Dimensions is the embedding vector size.
	Dimensions int

	// ModelName identifies the embedding model the archive was built with.
	ModelName string

	// Sources maps vendor name to entry count.
	Sources map[string]int

	// Dates maps day (DateLayout) to entry count.
	Dates map[string]int

	// EarliestDate is the oldest day present, empty when the archive is empty.
	EarliestDate string

	// LatestDate is the newest day present, empty when the archive is empty.
	LatestDate string

	// LastUpdated is when the artifacts were last persisted, zero when
	// nothing has been saved in this process.
	LastUpdated time.Time
}
