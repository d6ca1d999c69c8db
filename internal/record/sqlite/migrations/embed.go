package migrations

import "embed"

// FS contains embedded SQLite migrations for match records.
//
//go:embed *.sql
var FS embed.FS
