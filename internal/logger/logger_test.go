package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSilentByDefault(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")

	assert.Zero(t, buf.Len())
}

func TestLevelsAndFormatting(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("embedding %d entries", 3)
	Info("sync %s done", "bee")
	Warn("source %s unreachable", "limitless")

	assert.Equal(t,
		"[DEBUG] embedding 3 entries\n"+
			"[INFO] sync bee done\n"+
			"[WARN] source limitless unreachable\n",
		buf.String())
}

func TestToggleMidStream(t *testing.T) {
	buf := capture(t)

	SetVerbose(true)
	Debug("first")
	SetVerbose(false)
	Debug("second")

	assert.Equal(t, "[DEBUG] first\n", buf.String())
}

func TestConcurrentWriters(t *testing.T) {
	capture(t)
	SetVerbose(true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debug("writer %d", n)
			Warn("writer %d", n)
		}(i)
	}
	wg.Wait()
}
