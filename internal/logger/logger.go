// Package logger prints diagnostic output for the --verbose flag. The
// pensieve CLI talks to humans on stdout; everything here goes to stderr
// so piped output stays clean.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var enabled atomic.Bool

var (
	mu   sync.Mutex
	sink io.Writer = os.Stderr
)

// SetVerbose turns diagnostic output on or off. Off by default.
func SetVerbose(on bool) {
	enabled.Store(on)
}

// SetOutput redirects diagnostic output, for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	sink = w
	mu.Unlock()
}

// Debug logs pipeline detail useful when chasing ingestion problems.
func Debug(format string, args ...any) {
	emit("DEBUG", format, args...)
}

// Info logs progress a curious user might want to follow.
func Info(format string, args ...any) {
	emit("INFO", format, args...)
}

// Warn logs recoverable trouble, such as one source failing a sync.
func Warn(format string, args ...any) {
	emit("WARN", format, args...)
}

func emit(level, format string, args ...any) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(sink, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}
