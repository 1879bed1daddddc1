// Package chunker splits long entries into overlapping windows so each
// piece embeds and retrieves independently.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultThreshold is the text length above which entries are chunked.
// Shorter entries pass through untouched.
const DefaultThreshold = 2000

// boundaryWindow is how far back from a window edge the splitter looks
// for a sentence boundary before cutting mid-sentence.
const boundaryWindow = 100

// sentence terminators, in "." + space form; the rightmost wins.
var sentenceEnds = []string{". ", "! ", "? "}

// Processor splits entry text into overlapping chunks, preferring cuts
// at sentence boundaries. It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
	threshold int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithThreshold sets the text length above which entries are chunked.
func WithThreshold(threshold int) Option {
	return func(p *Processor) {
		if threshold > 0 {
			p.threshold = threshold
		}
	}
}

// New creates a chunker processor with the given options.
// The overlap must be smaller than the chunk size or the window could
// never advance.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		threshold: DefaultThreshold,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidConfiguration, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process replaces each entry longer than the threshold with its chunks.
// Entries at or below the threshold pass through unchanged.
func (p *Processor) Process(_ context.Context, entries []domain.Entry) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Text) <= p.threshold {
			out = append(out, entry)
			continue
		}
		out = append(out, p.ChunkEntry(entry)...)
	}
	return out, nil
}

// ChunkEntry splits one entry into per-chunk copies. Each chunk carries
// the parent's summaries, timestamp and metadata, an ID suffixed with
// the chunk ordinal, and its position within the total.
func (p *Processor) ChunkEntry(entry domain.Entry) []domain.Entry {
	pieces := p.SplitText(entry.Text)
	if len(pieces) <= 1 {
		return []domain.Entry{entry}
	}

	chunks := make([]domain.Entry, 0, len(pieces))
	for i, text := range pieces {
		chunk := entry
		chunk.ID = domain.ChunkEntryID(entry.ID, i)
		chunk.Text = text
		chunk.ChunkIndex = i
		chunk.ChunkCount = len(pieces)
		if entry.Metadata != nil {
			chunk.Metadata = make(map[string]string, len(entry.Metadata))
			for k, v := range entry.Metadata {
				chunk.Metadata[k] = v
			}
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// SplitText slides a window of chunkSize across the text, stepping back
// up to boundaryWindow characters to end each chunk just after sentence
// punctuation when one falls inside the window. Consecutive chunks share
// overlap characters; the final chunk may be shorter. Non-empty text
// always yields at least one chunk and the whole text is covered.
func (p *Processor) SplitText(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= p.chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(text)/(p.chunkSize-p.overlap)+1)
	start := 0

	for start < len(text) {
		end := start + p.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		// Prefer ending just after sentence punctuation close to the edge.
		searchFrom := end - boundaryWindow
		if searchFrom < start {
			searchFrom = start
		}
		cut := -1
		for _, sep := range sentenceEnds {
			if idx := strings.LastIndex(text[searchFrom:end], sep); idx >= 0 {
				if pos := searchFrom + idx + len(sep); pos > cut {
					cut = pos
				}
			}
		}
		if cut > start {
			end = cut
		}

		chunks = append(chunks, text[start:end])

		next := end - p.overlap
		if next <= start {
			// Degenerate boundary placement; never walk backwards.
			next = end
		}
		start = next
	}

	return chunks
}
