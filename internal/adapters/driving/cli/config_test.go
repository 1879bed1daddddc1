package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetAndGet(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "scheduler.enabled", "true"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Set scheduler.enabled.")

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "get", "scheduler.enabled"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "true")
}

func TestConfigGet_Unset(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "get", "llm.provider"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(not set)")
}

func TestConfigSet_UnknownKeyNoted(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "llm.providr", "ollama"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "not a recognised key")
	assert.Contains(t, buf.String(), "Set llm.providr.")
}

func TestConfigList_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No values configured.")
}

func TestConfigList_GroupsBySection(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, configStore.Set("embedding.provider", "ollama"))
	require.NoError(t, configStore.Set("embedding.model", "all-minilm"))
	require.NoError(t, configStore.Set("scheduler.enabled", true))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[embedding]")
	assert.Contains(t, out, "provider = ollama")
	assert.Contains(t, out, "model = all-minilm")
	assert.Contains(t, out, "[scheduler]")
	assert.Contains(t, out, "enabled = true")
}

func TestConfigList_MasksAPIKeys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, configStore.Set("sources.limitless.api_key", "sk-1234567890abcdef"))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sk-1...cdef")
	assert.NotContains(t, buf.String(), "sk-1234567890abcdef")
}

func TestConfigPath(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "path"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), ":memory:")
}

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, true, parseConfigValue("true"))
	assert.Equal(t, false, parseConfigValue("false"))
	assert.Equal(t, 42, parseConfigValue("42"))
	assert.Equal(t, "ollama", parseConfigValue("ollama"))
	assert.Equal(t, "30m", parseConfigValue("30m"))
}

func TestIsKnownConfigKey(t *testing.T) {
	assert.True(t, isKnownConfigKey("embedding.provider"))
	assert.True(t, isKnownConfigKey("sources.bee.api_key"))
	assert.False(t, isKnownConfigKey("search.mode"))
}

func TestDisplayConfigValue_MasksOnlyKeys(t *testing.T) {
	assert.Equal(t, "sk-1...cdef", displayConfigValue("llm.api_key", "sk-1234567890abcdef"))
	assert.Equal(t, "ollama", displayConfigValue("llm.provider", "ollama"))
	assert.Equal(t, "384", displayConfigValue("embedding.dimensions", 384))
}
