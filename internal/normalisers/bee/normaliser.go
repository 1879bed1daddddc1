// Package bee normalises Bee conversation payloads into entries.
package bee

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// conversation is the payload shape for one Bee conversation, as the
// detail endpoint returns it. The connector unwraps the top-level
// "conversation" envelope before handing the payload over, but the
// normaliser tolerates both shapes.
type conversation struct {
	ID              json.Number     `json:"id"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	Summary         string          `json:"summary"`
	ShortSummary    string          `json:"short_summary"`
	PrimaryLocation json.RawMessage `json:"primary_location"`
	Transcriptions  []transcription `json:"transcriptions"`
}

type envelope struct {
	Conversation *conversation `json:"conversation"`
}

type transcription struct {
	Utterances []utterance `json:"utterances"`
}

// utterance is one spoken segment. Speaker labels are numbers in some
// payloads and names in others, so the field stays loosely typed.
type utterance struct {
	Text    string   `json:"text"`
	Speaker any      `json:"speaker"`
	Start   *float64 `json:"start"`
}

// Normaliser handles Bee conversation records.
type Normaliser struct{}

// New creates a new Bee normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Source returns the vendor identifier this normaliser handles.
func (n *Normaliser) Source() string {
	return domain.SourceBee
}

// Normalise converts one conversation payload into an entry.
//
// The transcript is built from all transcription utterances in
// chronological order, each line prefixed with its speaker label.
// Conversations without utterances fall back to the summary, then the
// short summary. An entry with empty Text or a zero Timestamp is
// returned as-is; the caller decides whether to skip it.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawRecord) (*domain.Entry, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil record", domain.ErrInvalidInput)
	}

	conv, err := parseConversation(raw.Payload)
	if err != nil {
		return nil, err
	}
	if conv.ID.String() == "" {
		return nil, fmt.Errorf("%w: conversation without id", domain.ErrInvalidInput)
	}

	text := joinUtterances(conv.Transcriptions)
	if text == "" {
		text = conv.Summary
	}
	if text == "" {
		text = conv.ShortSummary
	}

	entry := &domain.Entry{
		ID:           domain.EntryID(domain.SourceBee, conv.ID.String()),
		Source:       domain.SourceBee,
		Text:         text,
		Summary:      conv.Summary,
		ShortSummary: conv.ShortSummary,
		Metadata:     map[string]string{},
	}

	if conv.StartTime != "" {
		ts, err := domain.ParseTimestamp(conv.StartTime)
		if err != nil {
			return nil, fmt.Errorf("conversation %s: %w", conv.ID, err)
		}
		entry.Timestamp = ts
	}
	entry.DeriveDate()

	if conv.StartTime != "" {
		entry.Metadata["startTime"] = conv.StartTime
	}
	if conv.EndTime != "" {
		entry.Metadata["endTime"] = conv.EndTime
	}
	if loc := locationString(conv.PrimaryLocation); loc != "" {
		entry.Metadata["location"] = loc
	}

	return entry, nil
}

// parseConversation decodes a payload that is either a bare conversation
// object or wrapped in a "conversation" envelope.
func parseConversation(payload []byte) (*conversation, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err == nil && env.Conversation != nil {
		return env.Conversation, nil
	}

	var conv conversation
	if err := json.Unmarshal(payload, &conv); err != nil {
		return nil, fmt.Errorf("%w: parse conversation payload: %w", domain.ErrInvalidInput, err)
	}
	return &conv, nil
}

// joinUtterances flattens all transcriptions into one transcript, one
// line per utterance. Utterances are ordered by their start offset when
// every one carries it; otherwise the API order is kept.
func joinUtterances(transcriptions []transcription) string {
	var utterances []utterance
	for _, tr := range transcriptions {
		utterances = append(utterances, tr.Utterances...)
	}
	if len(utterances) == 0 {
		return ""
	}

	allTimed := true
	for _, u := range utterances {
		if u.Start == nil {
			allTimed = false
			break
		}
	}
	if allTimed {
		sort.SliceStable(utterances, func(i, j int) bool {
			return *utterances[i].Start < *utterances[j].Start
		})
	}

	parts := make([]string, 0, len(utterances))
	for _, u := range utterances {
		if u.Text == "" {
			continue
		}
		if u.Speaker != nil {
			parts = append(parts, fmt.Sprintf("Speaker %v: %s", speakerLabel(u.Speaker), u.Text))
		} else {
			parts = append(parts, u.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// speakerLabel renders a speaker value without a trailing ".0" when the
// vendor sends numeric labels.
func speakerLabel(speaker any) string {
	if f, ok := speaker.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", speaker)
}

// locationString extracts a display string from primary_location, which
// some payloads send as an object with an address and others as a bare
// string.
func locationString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Address != "" {
		return obj.Address
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
