package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync [source]", syncCmd.Use)
}

func TestSyncCmd_HasFlags(t *testing.T) {
	for _, name := range []string{"days", "limit", "force", "daemon"} {
		assert.NotNil(t, syncCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
}

func TestSyncCmd_SingleSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sync", domain.SourceLimitless})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Syncing limitless...")
	assert.Contains(t, buf.String(), "limitless: fetched 1, added 1, skipped 0")
	assert.Contains(t, buf.String(), "Added 1 entries in")

	// The fetched record is in the archive.
	ids, err := entryStore.IDs(context.Background(), domain.SourceLimitless)
	require.NoError(t, err)
	assert.Contains(t, ids, "limitless_d")
}

func TestSyncCmd_SecondRunSkips(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"sync", domain.SourceLimitless})
	require.NoError(t, rootCmd.Execute())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sync", domain.SourceLimitless})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fetched 1, added 0, skipped 1")
	assert.Contains(t, buf.String(), "Added 0 entries in")
}

func TestSyncCmd_AllSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sync"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Syncing all sources...")
	assert.Contains(t, buf.String(), "limitless: fetched 1, added 1")
}

func TestSyncCmd_UnknownSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sync", "notion"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed")
}

func TestSyncCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestOrchestrator = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sync"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestSyncCmd_DaemonDisabled(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	schedulerConfig.Enabled = false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sync", "--daemon"})
	defer func() {
		rootCmd.SetArgs(nil)
		syncDaemon = false // Reset flag
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Scheduler is disabled")
	assert.Contains(t, buf.String(), "pensieve config set scheduler.enabled true")
}

func TestPrintReport_NilReport(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	printReport(rootCmd, nil)

	assert.Empty(t, buf.String())
}

func TestPrintReport_WithErrors(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	printReport(rootCmd, &domain.SyncReport{
		Sources: []domain.SourceReport{{
			Source:     domain.SourceBee,
			Fetched:    3,
			Added:      1,
			Skipped:    1,
			Errors:     1,
			FirstError: "normalise: bad payload",
		}},
	})

	assert.Contains(t, buf.String(), "bee: fetched 3, added 1, skipped 1, errors 1")
	assert.Contains(t, buf.String(), "first error: normalise: bad payload")
}
