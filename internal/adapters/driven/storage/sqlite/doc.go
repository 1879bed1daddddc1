// Package sqlite persists the archive's bookkeeping in one SQLite
// database: the ingestion run ledger, the privacy skip list, and
// background job state. Entries and vectors live in the archive
// package, not here.
//
// The driver is modernc.org/sqlite, which is pure Go, so builds
// cross-compile without CGO. One *sql.DB serves all three store
// interfaces; the schema advances through numbered .up.sql files
// embedded from the migrations directory.
//
// The database sits at ~/.pensieve/data/metadata.db unless a data
// directory is configured. WAL mode plus a busy timeout keeps
// concurrent store access safe.
package sqlite
