package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresSearcher(t *testing.T) {
	server, err := New(nil)
	require.ErrorIs(t, err, ErrNilSearcher)
	assert.Nil(t, server)
}

func TestNew_SearchOnly(t *testing.T) {
	server, err := New(&mockSearchService{})
	require.NoError(t, err)
	require.NotNil(t, server)
	assert.Nil(t, server.entries)
	assert.Nil(t, server.ingest)
}

func TestNew_AllCapabilities(t *testing.T) {
	entries := &mockEntryService{}
	ingest := &mockIngestOrchestrator{}

	server, err := New(&mockSearchService{}, WithEntries(entries), WithIngest(ingest))
	require.NoError(t, err)
	require.NotNil(t, server)
	assert.Same(t, entries, server.entries)
	assert.Same(t, ingest, server.ingest)
}
