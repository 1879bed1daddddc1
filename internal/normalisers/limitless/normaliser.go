// Package limitless normalises Limitless lifelog payloads into entries.
package limitless

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// summaryLimit caps the fallback summary taken from the transcript.
const summaryLimit = 100

// lifelog is the payload shape returned by the Limitless lifelogs API.
type lifelog struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	Contents  []contentNode `json:"contents"`
}

// contentNode is one block of a lifelog's structured content. The node
// type distinguishes summaries (headings) from transcript (blockquotes).
type contentNode struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	SpeakerName string `json:"speakerName"`
}

// Normaliser handles Limitless lifelog records.
type Normaliser struct{}

// New creates a new Limitless normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Source returns the vendor identifier this normaliser handles.
func (n *Normaliser) Source() string {
	return domain.SourceLimitless
}

// Normalise converts one lifelog payload into an entry.
//
// The structured contents drive extraction: heading1 nodes carry the
// summary, the first heading2 the short summary, and blockquote nodes
// the spoken transcript. Lifelogs without blockquotes fall back to all
// node contents, then to the title. An entry with empty Text or a zero
// Timestamp is returned as-is; the caller decides whether to skip it.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawRecord) (*domain.Entry, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil record", domain.ErrInvalidInput)
	}

	var log lifelog
	if err := json.Unmarshal(raw.Payload, &log); err != nil {
		return nil, fmt.Errorf("%w: parse lifelog payload: %w", domain.ErrInvalidInput, err)
	}
	if log.ID == "" {
		return nil, fmt.Errorf("%w: lifelog without id", domain.ErrInvalidInput)
	}

	summary, shortSummary, transcript := extractContents(log.Contents)

	text := transcript
	if text == "" {
		text = joinAllNodes(log.Contents)
	}
	if text == "" {
		text = log.Title
	}

	if summary == "" {
		summary = log.Title
	}
	if summary == "" && text != "" {
		summary = truncate(text, summaryLimit)
	}

	entry := &domain.Entry{
		ID:           domain.EntryID(domain.SourceLimitless, log.ID),
		Source:       domain.SourceLimitless,
		Text:         text,
		Summary:      summary,
		ShortSummary: shortSummary,
		Metadata:     map[string]string{},
	}

	if log.StartTime != "" {
		ts, err := domain.ParseTimestamp(log.StartTime)
		if err != nil {
			return nil, fmt.Errorf("lifelog %s: %w", log.ID, err)
		}
		entry.Timestamp = ts
	}
	entry.DeriveDate()

	if log.StartTime != "" {
		entry.Metadata["startTime"] = log.StartTime
	}
	if log.EndTime != "" {
		entry.Metadata["endTime"] = log.EndTime
	}
	if log.Title != "" {
		entry.Metadata["title"] = log.Title
	}
	if d := duration(log.StartTime, log.EndTime); d != "" {
		entry.Metadata["duration"] = d
	}

	return entry, nil
}

// extractContents walks the structured nodes. Repeated heading1 nodes
// overwrite the summary so the last one wins; only the first heading2
// becomes the short summary.
func extractContents(nodes []contentNode) (summary, shortSummary, transcript string) {
	var b strings.Builder
	for _, node := range nodes {
		switch node.Type {
		case "heading1":
			summary = node.Content
		case "heading2":
			if shortSummary == "" {
				shortSummary = node.Content
			}
		case "blockquote":
			if node.Content == "" {
				continue
			}
			if node.SpeakerName != "" {
				b.WriteString(node.SpeakerName)
				b.WriteString(": ")
			}
			b.WriteString(node.Content)
			b.WriteString("\n")
		}
	}
	return summary, shortSummary, b.String()
}

// joinAllNodes concatenates every node's content with speaker prefixes,
// used when a lifelog has no blockquote transcript.
func joinAllNodes(nodes []contentNode) string {
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if node.Content == "" {
			continue
		}
		if node.SpeakerName != "" {
			parts = append(parts, node.SpeakerName+": "+node.Content)
		} else {
			parts = append(parts, node.Content)
		}
	}
	return strings.Join(parts, "\n")
}

// truncate shortens s to at most limit characters, marking the cut.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// duration returns the whole-second span between two vendor timestamps,
// or "" when either is missing or unparseable.
func duration(start, end string) string {
	if start == "" || end == "" {
		return ""
	}
	s, err := domain.ParseTimestamp(start)
	if err != nil {
		return ""
	}
	e, err := domain.ParseTimestamp(end)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d", int(e.Sub(s).Seconds()))
}
