package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/storage/memory"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// exportMockWriter implements driven.DigestWriter for testing.
type exportMockWriter struct {
	err   error
	calls []exportWriteCall
}

type exportWriteCall struct {
	date    string
	entries int
	force   bool
}

func (m *exportMockWriter) WriteDay(_ context.Context, date string, entries []domain.Entry, force bool) ([]string, error) {
	m.calls = append(m.calls, exportWriteCall{date: date, entries: len(entries), force: force})
	if m.err != nil {
		return nil, m.err
	}
	return []string{filepath.Join("out", date+".md")}, nil
}

func TestExportService_ExportDay(t *testing.T) {
	store := memory.NewEntryStore()
	_, err := store.Add(context.Background(), []domain.Entry{
		{
			ID:        "limitless_a",
			Source:    domain.SourceLimitless,
			Text:      "Morning recap.",
			Timestamp: time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "bee_1",
			Source:    domain.SourceBee,
			Text:      "Afternoon recap.",
			Timestamp: time.Date(2025, 7, 14, 15, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	writer := &exportMockWriter{}
	svc := NewExportService(store, writer, "")

	paths, err := svc.ExportDay(context.Background(), "2025-07-14", true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("out", "2025-07-14.md")}, paths)

	require.Len(t, writer.calls, 1)
	assert.Equal(t, "2025-07-14", writer.calls[0].date)
	assert.Equal(t, 2, writer.calls[0].entries)
	assert.True(t, writer.calls[0].force)
}

func TestExportService_ExportDay_InvalidDate(t *testing.T) {
	svc := NewExportService(memory.NewEntryStore(), &exportMockWriter{}, "")

	_, err := svc.ExportDay(context.Background(), "July 14", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportService_ExportDay_EmptyDay(t *testing.T) {
	writer := &exportMockWriter{}
	svc := NewExportService(memory.NewEntryStore(), writer, "")

	paths, err := svc.ExportDay(context.Background(), "2025-07-14", false)
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.Empty(t, writer.calls)
}

func TestExportService_ExportDay_WriterError(t *testing.T) {
	store := memory.NewEntryStore()
	_, err := store.Add(context.Background(), []domain.Entry{{
		ID:        "limitless_a",
		Source:    domain.SourceLimitless,
		Text:      "Some text.",
		Timestamp: time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	writer := &exportMockWriter{err: errors.New("disk full")}
	svc := NewExportService(store, writer, "")

	_, err = svc.ExportDay(context.Background(), "2025-07-14", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export 2025-07-14")
	assert.Contains(t, err.Error(), "disk full")
}

func TestExportService_ExportRange(t *testing.T) {
	now := time.Now().UTC()
	store := memory.NewEntryStore()
	_, err := store.Add(context.Background(), []domain.Entry{
		{
			ID:        "limitless_today",
			Source:    domain.SourceLimitless,
			Text:      "Today's entry.",
			Timestamp: now,
		},
		{
			ID:        "limitless_yesterday",
			Source:    domain.SourceLimitless,
			Text:      "Yesterday's entry.",
			Timestamp: now.AddDate(0, 0, -1),
		},
	})
	require.NoError(t, err)

	writer := &exportMockWriter{}
	svc := NewExportService(store, writer, "")

	paths, err := svc.ExportRange(context.Background(), 3, false)
	require.NoError(t, err)

	// Only days with entries produce files.
	assert.Len(t, paths, 2)
	require.Len(t, writer.calls, 2)
	assert.Equal(t, now.AddDate(0, 0, -1).Format(domain.DateLayout), writer.calls[0].date)
	assert.Equal(t, now.Format(domain.DateLayout), writer.calls[1].date)
}

func TestExportService_ExportRange_InvalidDays(t *testing.T) {
	svc := NewExportService(memory.NewEntryStore(), &exportMockWriter{}, "")

	for _, days := range []int{0, -5} {
		_, err := svc.ExportRange(context.Background(), days, false)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "days %d", days)
	}
}
