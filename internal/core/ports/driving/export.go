package driving

import "context"

// ExportService renders stored entries into daily markdown digests.
type ExportService interface {
	// ExportDay writes the digest for one day (domain.DateLayout form).
	// Existing files are kept unless force is set. Returns the paths written.
	ExportDay(ctx context.Context, date string, force bool) ([]string, error)

	// ExportRange writes digests for the most recent days.
	ExportRange(ctx context.Context, days int, force bool) ([]string, error)
}
