package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

func TestPromptStoreSeedsBuiltins(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, store.Dir())
	assert.FileExists(t, filepath.Join(dir, "summarise_day.txt"))
	assert.FileExists(t, filepath.Join(dir, "summarise_system.txt"))
}

func TestPromptStoreReturnsBuiltinText(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	text, err := store.Template(driven.PromptSummariseDay)
	require.NoError(t, err)
	assert.Contains(t, text, "%s")
}

func TestPromptStoreKeepsUserEdits(t *testing.T) {
	dir := t.TempDir()
	custom := "Summarise %s briefly.\n\n%s"
	path := filepath.Join(dir, "summarise_day.txt")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0600))

	// Opening the store must not clobber the existing file.
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	text, err := store.Template(driven.PromptSummariseDay)
	require.NoError(t, err)
	assert.Equal(t, custom, text)
}

func TestPromptStoreReadsEditsWithoutReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	edited := "New system framing."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summarise_system.txt"), []byte(edited), 0600))

	text, err := store.Template(driven.PromptSummariseSystem)
	require.NoError(t, err)
	assert.Equal(t, edited, text)
}

func TestPromptStoreMissingFileFallsBackToBuiltin(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "summarise_day.txt")))

	text, err := store.Template(driven.PromptSummariseDay)
	require.NoError(t, err)
	assert.Contains(t, text, "Summarise")
}

func TestPromptStoreUnknownName(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Template("no_such_prompt")
	assert.Error(t, err)
}

func TestPromptStoreEmptyFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "summarise_day.txt"), []byte("  \n"), 0600))

	_, err = store.Template(driven.PromptSummariseDay)
	assert.Error(t, err)
}
