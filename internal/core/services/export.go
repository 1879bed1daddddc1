package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

var _ driving.ExportService = (*ExportService)(nil)

// ExportService renders stored entries into daily markdown digests.
type ExportService struct {
	store    driven.EntryStore
	writer   driven.DigestWriter
	timezone string
}

// NewExportService creates a new export service. The timezone resolves
// "today" for range exports; empty means UTC.
func NewExportService(store driven.EntryStore, writer driven.DigestWriter, timezone string) *ExportService {
	return &ExportService{store: store, writer: writer, timezone: timezone}
}

// ExportDay writes the digest for one day. Days with no entries produce
// no files and no error.
func (s *ExportService) ExportDay(ctx context.Context, date string, force bool) ([]string, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", domain.ErrInvalidInput, date)
	}

	entries, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if len(entries) == 0 {
		logger.Debug("No entries for %s, nothing to export", date)
		return nil, nil
	}

	paths, err := s.writer.WriteDay(ctx, date, entries, force)
	if err != nil {
		return paths, fmt.Errorf("export %s: %w", date, err)
	}
	return paths, nil
}

// ExportRange writes digests for the most recent days, today included.
func (s *ExportService) ExportRange(ctx context.Context, days int, force bool) ([]string, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", domain.ErrInvalidInput, days)
	}

	loc := time.UTC
	if s.timezone != "" {
		if l, err := time.LoadLocation(s.timezone); err == nil {
			loc = l
		}
	}

	var written []string
	day := time.Now().In(loc).AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		paths, err := s.ExportDay(ctx, day.Format(domain.DateLayout), force)
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
		day = day.AddDate(0, 0, 1)
	}

	logger.Info("Exported %d digest files", len(written))
	return written, nil
}
