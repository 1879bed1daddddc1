// Package exportdir ingests vendor export files from a local directory.
// Each file holds one record's JSON as exported by the vendor app; the
// file name prefix names the vendor ("limitless_*.json", "bee_*.json").
package exportdir

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

var _ driven.Connector = (*Connector)(nil)

// SourceName identifies the export directory pseudo-source. Records it
// emits carry the real vendor source taken from the file name.
const SourceName = "exportdir"

// Connector reads vendor export files from a directory. Fetch scans the
// whole directory; Watch streams records for files created afterwards.
type Connector struct {
	dir    string
	mu     sync.Mutex
	closed bool
}

// New creates a new export directory connector.
func New(dir string) *Connector {
	return &Connector{dir: dir}
}

// Source returns the pseudo-source identifier.
func (c *Connector) Source() string {
	return SourceName
}

// Validate checks the directory exists.
func (c *Connector) Validate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectorClosed
	}
	if c.dir == "" {
		return fmt.Errorf("%w: export directory not configured", domain.ErrConnectorValidation)
	}
	info, err := os.Stat(c.dir)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnectorValidation, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrConnectorValidation, c.dir)
	}
	return nil
}

// Fetch scans the directory and streams every readable export file.
// Since has no effect: export files carry no reliable order, so dedup
// against the archive decides what is new.
func (c *Connector) Fetch(ctx context.Context, q driven.FetchQuery) (<-chan domain.RawRecord, <-chan error) {
	records := make(chan domain.RawRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errs <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		names, err := listExportFiles(c.dir)
		if err != nil {
			errs <- err
			return
		}

		fetched := 0
		for _, name := range names {
			if q.Limit > 0 && fetched >= q.Limit {
				return
			}

			record, ok := readRecord(filepath.Join(c.dir, name))
			if !ok {
				continue
			}
			select {
			case records <- *record:
				fetched++
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return records, errs
}

// Watch streams records for export files created after the call. It
// runs until the context is cancelled. Watcher errors are logged, not
// terminal; only a failure to start watching is.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawRecord, <-chan error) {
	records := make(chan domain.RawRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			errs <- fmt.Errorf("starting watcher: %w", err)
			return
		}
		defer watcher.Close()

		if err := watcher.Add(c.dir); err != nil {
			errs <- fmt.Errorf("watching %s: %w", c.dir, err)
			return
		}
		logger.Debug("Watching %s for new export files", c.dir)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}
				record, ok := readRecord(event.Name)
				if !ok {
					continue
				}
				select {
				case records <- *record:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Export watcher: %v", err)
			}
		}
	}()

	return records, errs
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// listExportFiles returns the JSON file names in the directory, sorted
// for a stable ingestion order.
func listExportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading export directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// readRecord loads one export file. Files with an unknown vendor prefix
// or no id in the payload are skipped with a warning.
func readRecord(path string) (*domain.RawRecord, bool) {
	source, ok := sourceFromFilename(filepath.Base(path))
	if !ok {
		logger.Warn("Skipping export file with unknown vendor prefix: %s", filepath.Base(path))
		return nil, false
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping unreadable export file %s: %v", filepath.Base(path), err)
		return nil, false
	}

	var envelope struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.ID.String() == "" {
		logger.Warn("Skipping export file without an id: %s", filepath.Base(path))
		return nil, false
	}

	return &domain.RawRecord{
		Source:    source,
		NativeID:  envelope.ID.String(),
		Payload:   payload,
		FetchedAt: time.Now().UTC(),
	}, true
}

// sourceFromFilename maps a file name to its vendor by prefix.
func sourceFromFilename(name string) (string, bool) {
	for _, source := range []string{domain.SourceLimitless, domain.SourceBee} {
		if strings.HasPrefix(name, source+"_") || strings.HasPrefix(name, source+"-") {
			return source, true
		}
	}
	return "", false
}
