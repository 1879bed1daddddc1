package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/core/services"
)

// stubLLM implements driven.LLMService with a canned completion.
type stubLLM struct {
	reply      string
	lastPrompt string
}

func (s *stubLLM) Complete(_ context.Context, _, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.reply, nil
}

func (s *stubLLM) ModelName() string { return "stub" }

func (s *stubLLM) Ping(_ context.Context) error { return nil }

func (s *stubLLM) Close() error { return nil }

func TestSummariseCmd_NoLLMConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"summarise", "2025-07-14"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM configured; set llm.provider in config")
}

func TestSummariseCmd_PrintsSummary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	llm := &stubLLM{reply: "A quiet day of planning and walks."}
	summaryService = services.NewSummaryService(entryStore, llm)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"summarise", "2025-07-14"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "A quiet day of planning and walks.")
	assert.Contains(t, llm.lastPrompt, "Standup notes about the quarterly roadmap.")
}

func TestSummariseCmd_EmptyDay(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	summaryService = services.NewSummaryService(entryStore, &stubLLM{reply: "unused"})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"summarise", "2030-01-01"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no entries for 2030-01-01")
}

func TestSummariseCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	summaryService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"summarise", "2025-07-14"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "summary service not configured")
}
