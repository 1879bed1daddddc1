package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/keymap"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
)

func newTestBar() Model {
	return New(styles.Default(), keymap.Default())
}

func TestBarStartsIdle(t *testing.T) {
	m := newTestBar()

	assert.Equal(t, Idle, m.Mode())
	assert.Contains(t, m.View(), "Ready")
}

func TestBarModes(t *testing.T) {
	m := newTestBar()

	m.SetSearching()
	assert.Contains(t, m.View(), "Searching...")

	m.SetSyncing()
	assert.Contains(t, m.View(), "Syncing...")

	m.SetResults(7)
	assert.Contains(t, m.View(), "7 results")

	m.SetError("index unavailable")
	assert.Contains(t, m.View(), "Error: index unavailable")

	m.Reset()
	assert.Equal(t, Idle, m.Mode())
}

func TestBarHintsSwitchWithResults(t *testing.T) {
	m := newTestBar()

	assert.Contains(t, m.View(), "q: quit")

	m.SetResults(3)
	assert.Contains(t, m.View(), "n: new search")
}

func TestBarErrorWithoutNote(t *testing.T) {
	m := newTestBar()

	m.SetError("")

	assert.Contains(t, m.View(), "Error")
}
