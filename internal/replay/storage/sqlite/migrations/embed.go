package migrations

import "embed"

// FS contains embedded SQLite migrations for the replay index.
//
//go:embed *.sql
var FS embed.FS
