// Package migrations carries the store's schema as embedded SQL.
package migrations

import "embed"

// FS holds every numbered migration file in this directory.
//
//go:embed *.sql
var FS embed.FS
