package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// run ledger, exclusion and scheduler store interfaces through wrapper
// types sharing one database connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pensieve/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pensieve", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL mode keeps readers unblocked during scheduler writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// ExclusionStore returns an ExclusionStore interface backed by this store.
func (s *Store) ExclusionStore() driven.ExclusionStore {
	return &exclusionStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate applies pending migrations in version order. Versions come
// from the numeric prefix of each *.up.sql file name.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// --- Run ledger ---

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun appends a completed run and its per-source reports.
// Saving a run that already exists replaces it.
func (s *runStore) SaveRun(ctx context.Context, report *domain.SyncReport) error {
	if report == nil || report.RunID == "" {
		return fmt.Errorf("%w: run report missing ID", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ingest_runs (run_id, triggered_by, started_at, finished_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			triggered_by = excluded.triggered_by,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, report.RunID, report.Trigger,
		report.StartedAt.Format(time.RFC3339),
		report.FinishedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM ingest_run_sources WHERE run_id = ?", report.RunID); err != nil {
		return fmt.Errorf("clearing run sources: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ingest_run_sources
			(run_id, position, source, fetched, added, skipped, chunked, errors, first_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, src := range report.Sources {
		if _, err := stmt.ExecContext(ctx, report.RunID, i, src.Source,
			src.Fetched, src.Added, src.Skipped, src.Chunked,
			src.Errors, src.FirstError); err != nil {
			return fmt.Errorf("saving run source: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListRuns returns recent runs, newest first. A non-positive limit
// returns all runs.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.SyncReport, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT run_id, triggered_by, started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC, run_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		sources, err := s.querySources(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Sources = sources
	}
	return runs, nil
}

// GetRun retrieves one run by ID.
func (s *runStore) GetRun(ctx context.Context, runID string) (*domain.SyncReport, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT run_id, triggered_by, started_at, finished_at
		FROM ingest_runs WHERE run_id = ?
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	sources, err := s.querySources(ctx, runID)
	if err != nil {
		return nil, err
	}
	run.Sources = sources
	return run, nil
}

// querySources returns the per-source reports of a run in processing order.
func (s *runStore) querySources(ctx context.Context, runID string) ([]domain.SourceReport, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source, fetched, added, skipped, chunked, errors, first_error
		FROM ingest_run_sources
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.SourceReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sr domain.SourceReport
		if err := rows.Scan(&sr.Source, &sr.Fetched, &sr.Added, &sr.Skipped,
			&sr.Chunked, &sr.Errors, &sr.FirstError); err != nil {
			return nil, fmt.Errorf("scanning run source: %w", err)
		}
		sources = append(sources, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run sources: %w", err)
	}
	return sources, nil
}

// scanRun scans one ingest_runs row.
func scanRun(row rowScanner) (*domain.SyncReport, error) {
	var run domain.SyncReport
	var startedAt, finishedAt string
	if err := row.Scan(&run.RunID, &run.Trigger, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	run.StartedAt = parseStoredTime(startedAt)
	run.FinishedAt = parseStoredTime(finishedAt)
	return &run, nil
}

// --- Exclusion store ---

// exclusionStore implements driven.ExclusionStore.
type exclusionStore struct {
	store *Store
}

var _ driven.ExclusionStore = (*exclusionStore)(nil)

// Add stores an exclusion. Adding an existing pair updates the reason
// and keeps the original creation time.
func (s *exclusionStore) Add(ctx context.Context, exclusion domain.Exclusion) error {
	if exclusion.Source == "" || exclusion.NativeID == "" {
		return fmt.Errorf("%w: exclusion needs a source and a native ID", domain.ErrInvalidInput)
	}

	createdAt := exclusion.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO exclusions (source, native_id, reason, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source, native_id) DO UPDATE SET reason = excluded.reason
	`, exclusion.Source, exclusion.NativeID, exclusion.Reason,
		createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("adding exclusion: %w", err)
	}
	return nil
}

// Remove deletes an exclusion. Removing an absent pair is not an error.
func (s *exclusionStore) Remove(ctx context.Context, source, nativeID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM exclusions WHERE source = ? AND native_id = ?", source, nativeID)
	if err != nil {
		return fmt.Errorf("removing exclusion: %w", err)
	}
	return nil
}

// IsExcluded reports whether a record is on the skip list.
func (s *exclusionStore) IsExcluded(ctx context.Context, source, nativeID string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM exclusions WHERE source = ? AND native_id = ?",
		source, nativeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking exclusion: %w", err)
	}
	return count > 0, nil
}

// List returns all exclusions, newest first.
func (s *exclusionStore) List(ctx context.Context) ([]domain.Exclusion, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source, native_id, reason, created_at
		FROM exclusions
		ORDER BY created_at DESC, source, native_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying exclusions: %w", err)
	}
	defer rows.Close()

	var exclusions []domain.Exclusion //nolint:prealloc // size unknown from query
	for rows.Next() {
		var ex domain.Exclusion
		var createdAt string
		if err := rows.Scan(&ex.Source, &ex.NativeID, &ex.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning exclusion: %w", err)
		}
		ex.CreatedAt = parseStoredTime(createdAt)
		exclusions = append(exclusions, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exclusions: %w", err)
	}
	return exclusions, nil
}

// --- SQL helpers ---

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// parseStoredTime parses an RFC3339 string written by this package.
// Returns zero time when empty or invalid.
func parseStoredTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// formatNullableTime formats a time to RFC3339, or returns nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 column.
// Returns zero time when NULL, empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	return parseStoredTime(s.String)
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
