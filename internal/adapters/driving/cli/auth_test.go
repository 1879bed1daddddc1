package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthSetCmd_UnknownSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"auth", "set", "notion"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source \"notion\"")
}

func TestAuthStatusCmd_NoKeys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	t.Setenv("LIMITLESS_API_KEY", "")
	t.Setenv("BEE_API_KEY", "")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"auth", "status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "no API key (run 'pensieve auth set limitless')")
	assert.Contains(t, out, "no API key (run 'pensieve auth set bee')")
	assert.Contains(t, out, "Providers:")
	assert.Contains(t, out, "ok (mock)")
	assert.Contains(t, out, "not configured")
}

func TestAuthStatusCmd_ValidatesConfiguredKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	t.Setenv("BEE_API_KEY", "")

	require.NoError(t, configStore.Set("sources.limitless.api_key", "sk-1234567890abcdef"))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"auth", "status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "key sk-1...cdef, validated")
	assert.NotContains(t, out, "sk-1234567890abcdef")
}

func TestAuthStatusCmd_DisabledSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	t.Setenv("BEE_API_KEY", "bee-key-123456789")

	// The test registry only has a limitless connector, so the bee key
	// cannot be validated.
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"auth", "status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(source disabled)")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "****", maskAPIKey("12345678"))
	assert.Equal(t, "sk-1...cdef", maskAPIKey("sk-1234567890abcdef"))
}
