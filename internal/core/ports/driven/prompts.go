package driven

// PromptStore resolves the text of named LLM prompt templates, letting
// users override the built-in wording without rebuilding the binary.
type PromptStore interface {
	// Template returns the prompt text registered under name.
	Template(name string) (string, error)
}

// Prompt names with customisable templates.
const (
	// PromptSummariseSystem frames the model as a transcript summariser.
	PromptSummariseSystem = "summarise_system"

	// PromptSummariseDay wraps a day's transcripts. The template carries
	// two %s placeholders: the date, then the transcript digest.
	PromptSummariseDay = "summarise_day"
)
