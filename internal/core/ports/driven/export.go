package driven

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// DigestWriter renders a day's entries into per-source digest files.
type DigestWriter interface {
	// WriteDay writes one digest file per source present in the entries
	// and returns the paths written. Existing files are kept unless
	// force is set; skipped files are not returned.
	WriteDay(ctx context.Context, date string, entries []domain.Entry, force bool) ([]string, error)
}
