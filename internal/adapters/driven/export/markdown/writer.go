// Package markdown renders archived entries into daily digest files,
// one file per source per day, laid out as
// <out>/<source>/<year>/<MM-Month>/<Month-DD-YYYY>.md.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

var _ driven.DigestWriter = (*Writer)(nil)

// maxJoinOverlap bounds the seam search when stitching chunked entries
// back together. Larger than any configured chunk overlap.
const maxJoinOverlap = 1000

// timeFormat renders entry times as 12-hour clock values.
const timeFormat = "03:04 PM"

// Writer writes markdown digests under a base output directory.
type Writer struct {
	outDir string
}

// NewWriter creates a digest writer rooted at outDir.
func NewWriter(outDir string) *Writer {
	return &Writer{outDir: outDir}
}

// WriteDay writes one digest file per source present in the entries.
func (w *Writer) WriteDay(_ context.Context, date string, entries []domain.Entry, force bool) ([]string, error) {
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", domain.ErrInvalidInput, date)
	}

	bySource := make(map[string][]domain.Entry)
	var sources []string
	for _, entry := range entries {
		if _, ok := bySource[entry.Source]; !ok {
			sources = append(sources, entry.Source)
		}
		bySource[entry.Source] = append(bySource[entry.Source], entry)
	}
	sort.Strings(sources)

	var written []string
	for _, source := range sources {
		path := w.dayPath(source, day)

		if !force {
			if _, err := os.Stat(path); err == nil {
				logger.Debug("Digest %s already exists, skipping", path)
				continue
			}
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("create digest directory: %w", err)
		}

		content := renderDay(source, day, stitchChunks(bySource[source]))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return written, fmt.Errorf("write digest %s: %w", path, err)
		}
		logger.Debug("Wrote digest %s", path)
		written = append(written, path)
	}

	return written, nil
}

// dayPath builds the digest file path for a source and day.
func (w *Writer) dayPath(source string, day time.Time) string {
	return filepath.Join(
		w.outDir,
		source,
		day.Format("2006"),
		day.Format("01-January"),
		day.Format("January-02-2006")+".md",
	)
}

// renderDay produces the digest document for one source and day.
func renderDay(source string, day time.Time, entries []domain.Entry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Conversations - %s\n\n", capitalise(source), day.Format("January 02, 2006"))

	b.WriteString("## Table of Contents\n\n")
	for i := range entries {
		entry := &entries[i]
		fmt.Fprintf(&b, "- [Conversation %d - %s](#conversation-%d): %s\n",
			i+1, entryTime(entry), i+1, tocSummary(entry))
	}
	b.WriteString("\n---\n\n")

	for i := range entries {
		entry := &entries[i]

		fmt.Fprintf(&b, "<a id='conversation-%d'></a>\n", i+1)
		fmt.Fprintf(&b, "## Conversation %d - %s\n\n", i+1, entryTime(entry))

		if entry.Summary != "" {
			fmt.Fprintf(&b, "**Summary:** %s\n\n", entry.Summary)
		}

		b.WriteString("**Details:**\n\n")
		fmt.Fprintf(&b, "- **Time**: %s\n", entryTime(entry))
		if minutes, ok := durationMinutes(entry); ok {
			fmt.Fprintf(&b, "- **Duration**: %d minutes\n", minutes)
		}
		if location := entry.Metadata["location"]; location != "" {
			fmt.Fprintf(&b, "- **Location**: %s\n", location)
		}
		b.WriteString("\n")

		if entry.Text != "" {
			b.WriteString("**Transcript:**\n\n")
			fmt.Fprintf(&b, "```\n%s\n```\n\n", dedupeLines(entry.Text))
		}

		b.WriteString("---\n\n")
	}

	fmt.Fprintf(&b, "*Generated on %s*\n", time.Now().Format("2006-01-02 15:04:05"))
	return b.String()
}

// entryTime renders the entry's clock time, empty when the timestamp is unset.
func entryTime(entry *domain.Entry) string {
	if entry.Timestamp.IsZero() {
		return ""
	}
	return entry.Timestamp.Format(timeFormat)
}

// tocSummary gives the table-of-contents line summary, truncated at 100
// characters.
func tocSummary(entry *domain.Entry) string {
	summary := entry.Summary
	if summary == "" {
		summary = entry.ShortSummary
	}
	if summary == "" {
		return "No summary available"
	}
	runes := []rune(summary)
	if len(runes) > 100 {
		return string(runes[:97]) + "..."
	}
	return summary
}

// durationMinutes derives the conversation length from the start and end
// times the normalisers record.
func durationMinutes(entry *domain.Entry) (int, bool) {
	start, err := domain.ParseTimestamp(entry.Metadata["startTime"])
	if err != nil {
		return 0, false
	}
	end, err := domain.ParseTimestamp(entry.Metadata["endTime"])
	if err != nil {
		return 0, false
	}
	if end.Before(start) {
		return 0, false
	}
	return int(end.Sub(start).Minutes()), true
}

// stitchChunks merges chunked entries back into whole conversations so a
// digest never shows the same transcript piece twice. Unchunked entries
// pass through in order.
func stitchChunks(entries []domain.Entry) []domain.Entry {
	grouped := make(map[string][]domain.Entry)
	var order []string

	for _, entry := range entries {
		key := entry.ID
		if entry.IsChunk() {
			key = chunkParentID(&entry)
		}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], entry)
	}

	out := make([]domain.Entry, 0, len(order))
	for _, key := range order {
		group := grouped[key]
		if len(group) == 1 && !group[0].IsChunk() {
			out = append(out, group[0])
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].ChunkIndex < group[j].ChunkIndex
		})

		merged := group[0]
		merged.ID = key
		merged.ChunkIndex = 0
		merged.ChunkCount = 0
		text := group[0].Text
		for _, chunk := range group[1:] {
			text = joinOverlap(text, chunk.Text)
		}
		merged.Text = text
		out = append(out, merged)
	}
	return out
}

// chunkParentID strips the chunk suffix from an entry ID.
func chunkParentID(entry *domain.Entry) string {
	return strings.TrimSuffix(entry.ID, fmt.Sprintf("_chunk_%d", entry.ChunkIndex))
}

// joinOverlap appends next to acc, dropping the longest seam the two
// share. Chunks overlap by a fixed number of characters, so the shared
// seam is the suffix of one chunk and the prefix of the next.
func joinOverlap(acc, next string) string {
	seam := len(next)
	if len(acc) < seam {
		seam = len(acc)
	}
	if seam > maxJoinOverlap {
		seam = maxJoinOverlap
	}
	for k := seam; k > 0; k-- {
		if strings.HasSuffix(acc, next[:k]) {
			return acc + next[k:]
		}
	}
	return acc + next
}

// dedupeLines removes consecutive duplicate lines from a transcript.
// Vendor transcripts repeat a line when a speaker restarts a sentence.
func dedupeLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	prev := "\x00"
	for _, line := range lines {
		if line != prev {
			out = append(out, line)
		}
		prev = line
	}
	return strings.Join(out, "\n")
}

// capitalise upper-cases the first letter of an ASCII source name.
func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
