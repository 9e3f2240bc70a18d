// Package migrations holds the numbered schema scripts of the SQLite vector index.
package migrations

import "embed"

// FS holds NNN_name.up.sql / NNN_name.down.sql pairs. The index applies the
// up scripts in order and records each version in schema_migrations.
//
//go:embed *.sql
var FS embed.FS
