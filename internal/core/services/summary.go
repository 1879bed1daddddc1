package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

var _ driving.SummaryService = (*SummaryService)(nil)

// maxDigestChars caps the transcript digest sent to the model so the
// prompt stays inside small local-model context windows.
const maxDigestChars = 16000

// defaultSummariseSystemPrompt is the fallback when no PromptStore is configured.
const defaultSummariseSystemPrompt = `You are a helpful assistant that summarises daily conversation transcripts.`

// defaultSummariseDayPrompt is the fallback when no PromptStore is configured.
const defaultSummariseDayPrompt = `Summarise the following transcripts from %s.
Write a short narrative of the day, then list the notable topics and decisions.

Transcripts:
%s

Summary:`

// SummaryService produces LLM summaries of a day's entries.
type SummaryService struct {
	store       driven.EntryStore
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewSummaryService creates a new summary service. The llm parameter is
// optional - if nil, SummariseDay returns ErrLLMUnavailable.
func NewSummaryService(store driven.EntryStore, llm driven.LLMService) *SummaryService {
	return &SummaryService{store: store, llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *SummaryService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// SummariseDay returns a prose summary of all entries for the day.
func (s *SummaryService) SummariseDay(ctx context.Context, date string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: configure an LLM provider to enable summaries", domain.ErrLLMUnavailable)
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", domain.ErrInvalidInput, date)
	}

	entries, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return "", fmt.Errorf("list entries: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: no entries for %s", domain.ErrNotFound, date)
	}

	digest := buildDigest(entries)
	logger.Debug("Summarising %d entries for %s (%d chars) with %s",
		len(entries), date, len(digest), s.llm.ModelName())

	system := s.loadPrompt(driven.PromptSummariseSystem, defaultSummariseSystemPrompt)
	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptSummariseDay, defaultSummariseDayPrompt), date, digest)

	summary, err := s.llm.Complete(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("summarise %s: %w", date, err)
	}
	return strings.TrimSpace(summary), nil
}

// buildDigest renders a day's entries as one transcript document, in
// entry order, truncated at maxDigestChars.
func buildDigest(entries []domain.Entry) string {
	var b strings.Builder
	for i := range entries {
		entry := &entries[i]

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if !entry.Timestamp.IsZero() {
			fmt.Fprintf(&b, "[%s] ", entry.Timestamp.Format("15:04"))
		}
		b.WriteString(entry.Title())
		b.WriteString("\n")
		b.WriteString(entry.Text)

		if b.Len() >= maxDigestChars {
			break
		}
	}

	digest := b.String()
	if len(digest) > maxDigestChars {
		digest = digest[:maxDigestChars] + "\n[transcript truncated]"
	}
	return digest
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (s *SummaryService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Template(name)
	if err != nil {
		return fallback
	}
	return prompt
}
