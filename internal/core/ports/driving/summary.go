package driving

import "context"

// SummaryService produces LLM summaries of a day's entries.
type SummaryService interface {
	// SummariseDay returns a prose summary of all entries for the day.
	// Returns ErrLLMUnavailable when no LLM is configured and
	// ErrNotFound when the day has no entries.
	SummariseDay(ctx context.Context, date string) (string, error)
}
