// Package sqlite provides an index.Index backed by an embedded SQLite
// database. Vectors are stored as JSON text and similarity is computed in
// process over the candidate rows, so one database file can serve several
// collections without any external service.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/index"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is an index.Index persisting (id, vector, payload) records in one
// SQLite table per collection.
type Store struct {
	db    *sql.DB
	table string
}

var _ index.Index = (*Store)(nil)

// OpenDB opens (creating when absent) the SQLite database at path. The
// returned handle can back several collections via NewFromDB.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite %s: %v", core.ErrProviderUnavailable, path, err)
	}
	// SQLite allows a single writer; one pooled connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Open opens (creating when absent) the SQLite database at path and binds
// the store to the given collection table.
func Open(path, table string) (*Store, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid collection name %q", core.ErrInvalidInput, table)
	}
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, table: table}, nil
}

// NewFromDB binds a store to an existing database handle so several
// collections can share one file. The caller keeps ownership of the handle.
func NewFromDB(db *sql.DB, table string) (*Store, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid collection name %q", core.ErrInvalidInput, table)
	}
	return &Store{db: db, table: table}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema implements index.Index.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		embedding TEXT NOT NULL,
		payload TEXT NOT NULL
	)`, s.table)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create collection %s: %v", core.ErrSchemaMissing, s.table, err)
	}
	return nil
}

// Upsert implements index.Index.
func (s *Store) Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error {
	if id == "" {
		return fmt.Errorf("%w: record id must not be empty", core.ErrInvalidInput)
	}
	if err := index.ValidateVector(vector); err != nil {
		return err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	rawVec, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("%w: encode vector: %v", core.ErrMalformedRecord, err)
	}
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", core.ErrMalformedRecord, err)
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (id, embedding, payload) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET embedding = excluded.embedding, payload = excluded.payload`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt, id, string(rawVec), string(rawPayload)); err != nil {
		return s.mapErr("upsert", err)
	}
	return nil
}

// Query implements index.Index. Filters narrow the candidate set before the
// top-K ranking is applied; ties are broken by ascending id.
func (s *Store) Query(ctx context.Context, vector []float32, limit int, filters index.Filters) ([]index.Hit, error) {
	if err := index.ValidateLimit(limit); err != nil {
		return nil, err
	}
	if err := index.ValidateVector(vector); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id, embedding, payload FROM %s", s.table))
	if err != nil {
		return nil, s.mapErr("query", err)
	}
	defer rows.Close()

	var hits []index.Hit
	for rows.Next() {
		var id, rawVec, rawPayload string
		if err := rows.Scan(&id, &rawVec, &rawPayload); err != nil {
			return nil, s.mapErr("scan", err)
		}
		var stored []float32
		if err := json.Unmarshal([]byte(rawVec), &stored); err != nil {
			return nil, fmt.Errorf("%w: record %s carries an undecodable vector: %v", core.ErrMalformedRecord, id, err)
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(rawPayload), &payload); err != nil {
			return nil, fmt.Errorf("%w: record %s carries an undecodable payload: %v", core.ErrMalformedRecord, id, err)
		}
		if !filters.Matches(payload) {
			continue
		}
		if len(stored) != len(vector) {
			return nil, fmt.Errorf("%w: query vector width %d does not match stored width %d", core.ErrInvalidInput, len(vector), len(stored))
		}
		hits = append(hits, index.Hit{ID: id, Score: index.CosineSimilarity(vector, stored), Payload: payload})
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapErr("iterate", err)
	}

	index.SortHits(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *Store) mapErr(op string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: collection %s does not exist", core.ErrSchemaMissing, s.table)
	}
	return fmt.Errorf("%w: sqlite %s on %s: %v", core.ErrProviderUnavailable, op, s.table, err)
}
