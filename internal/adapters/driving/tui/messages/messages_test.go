package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreenString(t *testing.T) {
	assert.Equal(t, "menu", ScreenMenu.String())
	assert.Equal(t, "days", ScreenDays.String())
	assert.Equal(t, "day", ScreenDay.String())
	assert.Equal(t, "search", ScreenSearch.String())
	assert.Equal(t, "help", ScreenHelp.String())
	assert.Equal(t, "unknown", Screen(99).String())
	assert.Equal(t, "unknown", Screen(-1).String())
}
