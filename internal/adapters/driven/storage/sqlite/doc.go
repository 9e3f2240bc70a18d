// Package sqlite provides a persistent driven.VectorIndex on SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Vectors are stored as little-endian float32 BLOBs and
// ranked inside the database by the vec_cosine scalar function, which the
// package registers with the driver before the first connection is opened.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory and recorded in the schema_migrations table.
//
// # Data Location
//
// By default, the database is stored at ~/.docqa/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. Writes hold the index lock exclusively and
// run in a transaction, so a rejected batch leaves no partial rows.
package sqlite
