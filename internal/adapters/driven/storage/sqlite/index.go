package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	sqlite "modernc.org/sqlite"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vector"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// DatabaseFile is the file name of the index inside the data directory.
const DatabaseFile = "index.db"

// metaDimensions is the index_meta key holding the established vector length.
const metaDimensions = "dimensions"

// idLookupBatch bounds the number of bound parameters per id lookup.
const idLookupBatch = 500

var registerOnce sync.Once
var registerErr error

// registerFunctions makes vec_cosine available on every connection opened
// afterwards. The driver keeps registrations process-wide.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction("vec_cosine", 2, vecCosine)
	})
	return registerErr
}

// vecCosine is vec_cosine(a BLOB, b BLOB) -> REAL.
// NULL arguments yield NULL.
func vecCosine(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("vec_cosine: expected 2 arguments, got %d", len(args))
	}
	a, ok := args[0].([]byte)
	if !ok {
		if args[0] == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("vec_cosine: unsupported argument type %T; want BLOB", args[0])
	}
	b, ok := args[1].([]byte)
	if !ok {
		if args[1] == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("vec_cosine: unsupported argument type %T; want BLOB", args[1])
	}
	va, err := vector.Decode(a)
	if err != nil {
		return nil, err
	}
	vb, err := vector.Decode(b)
	if err != nil {
		return nil, err
	}
	return vector.Cosine(va, vb), nil
}

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a driven.VectorIndex persisted in a SQLite database.
// Several processes may share one database file, so the entry count and
// the dimension are always read from the database, never from memory.
type VectorIndex struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewVectorIndex opens or creates the index in dataDir.
// If dataDir is empty, defaults to ~/.docqa/data.
func NewVectorIndex(dataDir string) (*VectorIndex, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("registering vector functions: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets searches proceed while a batch is being written. Immediate
	// transactions take the write lock before Add reads the stored state.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	x := &VectorIndex{
		db:   db,
		path: dbPath,
	}

	if err := x.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	count, dim, err := readState(context.Background(), db)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("sqlite index opened at %s (%d entries, %d dimensions)", dbPath, count, dim)
	return x, nil
}

// Path returns the database file path.
func (x *VectorIndex) Path() string {
	return x.path
}

// Close closes the database connection.
func (x *VectorIndex) Close() error {
	return x.db.Close()
}

// Count returns the number of stored entries, or 0 if the database
// cannot be read.
func (x *VectorIndex) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	count, _, err := readState(context.Background(), x.db)
	if err != nil {
		logger.Warn("sqlite index count failed: %v", err)
		return 0
	}
	return count
}

// Dimensions returns the established vector length, or 0 while empty.
func (x *VectorIndex) Dimensions() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	_, dim, err := readState(context.Background(), x.db)
	if err != nil {
		logger.Warn("sqlite index dimensions failed: %v", err)
		return 0
	}
	return dim
}

// Add validates the batch against stored ids and the established dimension,
// then writes it in a single transaction.
func (x *VectorIndex) Add(ctx context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, stored, err := readState(ctx, tx)
	if err != nil {
		return err
	}

	taken, err := existingIDs(ctx, tx, entries)
	if err != nil {
		return err
	}

	dim, err := vector.ValidateBatch(entries, stored, func(id string) bool {
		_, ok := taken[id]
		return ok
	})
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_entries (id, text, metadata, embedding, dimensions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		metadataJSON, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Text, string(metadataJSON), vector.Encode(e.Vector), len(e.Vector), now,
		); err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.ID, err)
		}
	}

	if stored == 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO index_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, metaDimensions, strconv.Itoa(dim)); err != nil {
			return fmt.Errorf("recording dimensions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entries: %w", err)
	}
	return nil
}

// Search ranks every entry by vec_cosine against query and returns the
// topK best. Database failures and a query whose length differs from the
// stored vectors are logged and produce no hits.
func (x *VectorIndex) Search(ctx context.Context, query []float32, topK int) ([]domain.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return []domain.SearchHit{}, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	hits, err := x.search(ctx, query, topK)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("sqlite index search failed: %v", err)
		return []domain.SearchHit{}, nil
	}
	return hits, nil
}

func (x *VectorIndex) search(ctx context.Context, query []float32, topK int) ([]domain.SearchHit, error) {
	count, dim, err := readState(ctx, x.db)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []domain.SearchHit{}, nil
	}
	if len(query) != dim {
		logger.Warn("sqlite index search skipped: query has %d dimensions, index has %d", len(query), dim)
		return []domain.SearchHit{}, nil
	}

	rows, err := x.db.QueryContext(ctx, `
		SELECT id, text, metadata, vec_cosine(embedding, ?) AS score
		FROM index_entries
		ORDER BY score DESC, seq ASC
		LIMIT ?
	`, vector.Encode(query), topK)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	hits := make([]domain.SearchHit, 0, min(topK, count))
	for rows.Next() {
		var (
			hit          domain.SearchHit
			metadataJSON string
			score        sql.NullFloat64
		)
		if err := rows.Scan(&hit.ID, &hit.Text, &metadataJSON, &score); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &hit.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata of %s: %w", hit.ID, err)
		}
		hit.Similarity = score.Float64
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Reset deletes every entry and forgets the dimension.
func (x *VectorIndex) Reset(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM index_entries"); err != nil {
		return fmt.Errorf("deleting entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM index_meta"); err != nil {
		return fmt.Errorf("deleting index metadata: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reset: %w", err)
	}
	return nil
}

// readState reads the entry count and the established dimension.
func readState(ctx context.Context, q queryer) (count, dim int, err error) {
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM index_entries").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting entries: %w", err)
	}

	var value string
	err = q.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", metaDimensions).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return count, 0, nil
	case err != nil:
		return 0, 0, fmt.Errorf("reading dimensions: %w", err)
	}

	dim, err = strconv.Atoi(value)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing dimensions %q: %w", value, err)
	}
	return count, dim, nil
}

// existingIDs returns which ids of entries are already stored.
func existingIDs(ctx context.Context, tx *sql.Tx, entries []domain.IndexEntry) (map[string]struct{}, error) {
	taken := make(map[string]struct{})
	for start := 0; start < len(entries); start += idLookupBatch {
		batch := entries[start:min(start+idLookupBatch, len(entries))]

		args := make([]any, len(batch))
		for i, e := range batch {
			args[i] = e.ID
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		rows, err := tx.QueryContext(ctx, "SELECT id FROM index_entries WHERE id IN ("+placeholders+")", args...)
		if err != nil {
			return nil, fmt.Errorf("looking up ids: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning id: %w", err)
			}
			taken[id] = struct{}{}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("looking up ids: %w", err)
		}
	}
	return taken, nil
}

// migrate runs all pending migrations and records each applied version.
func (x *VectorIndex) migrate(fsys embed.FS) error {
	_, err := x.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := x.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_vector_index.up.sql" -> 1
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

		tx, err := x.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}
