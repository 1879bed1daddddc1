package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// builtinPrompts ship with the binary. NewPromptStore seeds the prompt
// directory with them so users have a file to edit rather than an empty
// directory and a hidden default.
var builtinPrompts = map[string]string{
	driven.PromptSummariseSystem: `You are a helpful assistant that summarises daily conversation transcripts.`,

	driven.PromptSummariseDay: `Summarise the following transcripts from %s.
Write a short narrative of the day, then list the notable topics and decisions.

Transcripts:
%s

Summary:`,
}

// PromptStore reads prompt templates from <dir>/<name>.txt. Files are
// read on every Template call, so edits take effect without a restart.
type PromptStore struct {
	dir string
}

// NewPromptStore seeds dir (default ~/.pensieve/prompts) with the
// builtin templates, skipping files the user already edited.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".pensieve", "prompts")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating prompt directory: %w", err)
	}

	for name, text := range builtinPrompts {
		path := filepath.Join(dir, name+".txt")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(text), 0600); err != nil {
			return nil, fmt.Errorf("seeding prompt %s: %w", name, err)
		}
	}

	return &PromptStore{dir: dir}, nil
}

// Template returns the on-disk prompt, or the builtin text when the file
// has gone missing since seeding.
func (s *PromptStore) Template(name string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		if builtin, ok := builtinPrompts[name]; ok {
			return builtin, nil
		}
		return "", fmt.Errorf("prompt %s: %w", name, err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", errors.New("prompt " + name + " is empty")
	}
	return text, nil
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.dir
}
