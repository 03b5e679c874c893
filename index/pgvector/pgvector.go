// Package pgvector provides index.Index implementations backed by PostgreSQL
// with the pgvector extension. Entities live in typed tables (plugin_chains,
// document_chunks) with HNSW cosine indexes; categorical filters are pushed
// down as ILIKE predicates so the database narrows the candidate set before
// ranking.
package pgvector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/embedding"
	"github.com/hupe1980/chainrag/index"
)

// Options configure a pgvector-backed store.
type Options struct {
	Dimensions int
}

// Connect opens a pgx connection pool for the given DSN and verifies it with
// a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect postgres: %v", core.ErrProviderUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", core.ErrProviderUnavailable, err)
	}
	return pool, nil
}

// ChainStore is an index.Index over the plugin_chains table.
type ChainStore struct {
	pool *pgxpool.Pool
	dims int
}

var _ index.Index = (*ChainStore)(nil)

// NewChainStore binds a chain store to an existing pool.
func NewChainStore(pool *pgxpool.Pool, optFns ...func(o *Options)) *ChainStore {
	opts := Options{Dimensions: embedding.DefaultDimensions}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ChainStore{pool: pool, dims: opts.Dimensions}
}

// EnsureSchema implements index.Index.
func (s *ChainStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS plugin_chains (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			description TEXT,
			plugins JSONB NOT NULL,
			genre VARCHAR(100),
			instrument VARCHAR(100),
			tags TEXT[],
			rating FLOAT,
			created_at TIMESTAMP DEFAULT NOW(),
			created_by VARCHAR(255),
			embedding vector(%d)
		)`, s.dims),
		`CREATE INDEX IF NOT EXISTS plugin_chains_embedding_idx
			ON plugin_chains USING hnsw (embedding vector_cosine_ops)`,
	}
	return ensureSchema(ctx, s.pool, "plugin_chains", stmts)
}

// Upsert implements index.Index. The payload is decoded into its typed
// columns; malformed payloads fail loudly before any SQL runs.
func (s *ChainStore) Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error {
	if err := validateRecord(id, vector, s.dims); err != nil {
		return err
	}
	chain, err := core.DecodeChain(id, payload)
	if err != nil {
		return err
	}
	plugins, err := json.Marshal(chain.Plugins)
	if err != nil {
		return fmt.Errorf("%w: encode plugins: %v", core.ErrMalformedRecord, err)
	}
	var createdAt *time.Time
	if !chain.CreatedAt.IsZero() {
		createdAt = &chain.CreatedAt
	}

	const stmt = `INSERT INTO plugin_chains
			(id, name, description, plugins, genre, instrument, tags, rating, created_at, created_by, embedding)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, COALESCE($9, NOW()), NULLIF($10, ''), $11::vector)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			plugins = EXCLUDED.plugins,
			genre = EXCLUDED.genre,
			instrument = EXCLUDED.instrument,
			tags = EXCLUDED.tags,
			rating = EXCLUDED.rating,
			created_by = EXCLUDED.created_by,
			embedding = EXCLUDED.embedding`
	_, err = s.pool.Exec(ctx, stmt,
		chain.ID, chain.Name, chain.Description, plugins, chain.Genre, chain.Instrument,
		chain.Tags, chain.Rating, createdAt, chain.CreatedBy, pgv.NewVector(vector))
	if err != nil {
		return mapErr("upsert plugin_chains", err)
	}
	return nil
}

// Query implements index.Index. Supported filter fields are genre and
// instrument; both push down as case-insensitive substring predicates exactly
// as the similarity ranking expects (narrow first, rank second).
func (s *ChainStore) Query(ctx context.Context, vector []float32, limit int, filters index.Filters) ([]index.Hit, error) {
	if err := index.ValidateLimit(limit); err != nil {
		return nil, err
	}
	if err := index.ValidateVector(vector); err != nil {
		return nil, err
	}

	query := `SELECT id::text, name, description, plugins, genre, instrument, tags, rating, created_at, created_by,
			1 - (embedding <=> $1::vector) AS similarity
		FROM plugin_chains`
	for field, value := range filters {
		if value != "" && field != "genre" && field != "instrument" {
			return nil, fmt.Errorf("%w: unsupported filter field %q", core.ErrInvalidInput, field)
		}
	}
	args := []any{pgv.NewVector(vector)}
	var conds []string
	// Fixed field order keeps the statement text stable across calls.
	for _, field := range []string{"genre", "instrument"} {
		if value := filters[field]; value != "" {
			args = append(args, "%"+value+"%")
			conds = append(conds, fmt.Sprintf("%s ILIKE $%d", field, len(args)))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY embedding <=> $1::vector LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr("query plugin_chains", err)
	}
	defer rows.Close()

	var hits []index.Hit
	for rows.Next() {
		var (
			id, name                     string
			description                  *string
			rawPlugins                   []byte
			genre, instrument, createdBy *string
			tags                         []string
			rating                       *float64
			createdAt                    *time.Time
			similarity                   float64
		)
		if err := rows.Scan(&id, &name, &description, &rawPlugins, &genre, &instrument, &tags, &rating, &createdAt, &createdBy, &similarity); err != nil {
			return nil, mapErr("scan plugin_chains", err)
		}
		var plugins any
		if err := json.Unmarshal(rawPlugins, &plugins); err != nil {
			return nil, fmt.Errorf("%w: row %s carries undecodable plugins: %v", core.ErrMalformedRecord, id, err)
		}
		payload := map[string]any{
			"name":        name,
			"description": stringOrEmpty(description),
			"plugins":     plugins,
			"tags":        tags,
		}
		setIf(payload, "genre", genre)
		setIf(payload, "instrument", instrument)
		setIf(payload, "created_by", createdBy)
		if rating != nil {
			payload["rating"] = *rating
		}
		if createdAt != nil {
			payload["created_at"] = createdAt.Format(time.RFC3339Nano)
		}
		hits = append(hits, index.Hit{ID: id, Score: clampScore(similarity), Payload: payload})
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate plugin_chains", err)
	}
	return hits, nil
}

// ChunkStore is an index.Index over the document_chunks table. The knowledge
// collection carries no categorical fields, so it accepts no filters.
type ChunkStore struct {
	pool *pgxpool.Pool
	dims int
}

var _ index.Index = (*ChunkStore)(nil)

// NewChunkStore binds a chunk store to an existing pool.
func NewChunkStore(pool *pgxpool.Pool, optFns ...func(o *Options)) *ChunkStore {
	opts := Options{Dimensions: embedding.DefaultDimensions}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ChunkStore{pool: pool, dims: opts.Dimensions}
}

// EnsureSchema implements index.Index.
func (s *ChunkStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS document_chunks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			content TEXT NOT NULL,
			metadata JSONB,
			source VARCHAR(255),
			chunk_index INTEGER,
			embedding vector(%d)
		)`, s.dims),
		`CREATE INDEX IF NOT EXISTS document_chunks_embedding_idx
			ON document_chunks USING hnsw (embedding vector_cosine_ops)`,
	}
	return ensureSchema(ctx, s.pool, "document_chunks", stmts)
}

// Upsert implements index.Index.
func (s *ChunkStore) Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error {
	if err := validateRecord(id, vector, s.dims); err != nil {
		return err
	}
	chunk, err := core.DecodeChunk(id, payload)
	if err != nil {
		return err
	}
	var metadata []byte
	if chunk.Metadata != nil {
		if metadata, err = json.Marshal(chunk.Metadata); err != nil {
			return fmt.Errorf("%w: encode metadata: %v", core.ErrMalformedRecord, err)
		}
	}

	const stmt = `INSERT INTO document_chunks (id, content, metadata, source, chunk_index, embedding)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6::vector)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata,
			source = EXCLUDED.source,
			chunk_index = EXCLUDED.chunk_index,
			embedding = EXCLUDED.embedding`
	_, err = s.pool.Exec(ctx, stmt, chunk.ID, chunk.Content, metadata, chunk.Source, chunk.ChunkIndex, pgv.NewVector(vector))
	if err != nil {
		return mapErr("upsert document_chunks", err)
	}
	return nil
}

// Query implements index.Index.
func (s *ChunkStore) Query(ctx context.Context, vector []float32, limit int, filters index.Filters) ([]index.Hit, error) {
	if err := index.ValidateLimit(limit); err != nil {
		return nil, err
	}
	if err := index.ValidateVector(vector); err != nil {
		return nil, err
	}
	for field, value := range filters {
		if value != "" {
			return nil, fmt.Errorf("%w: unsupported filter field %q", core.ErrInvalidInput, field)
		}
	}

	const query = `SELECT id::text, content, metadata, source, chunk_index,
			1 - (embedding <=> $1::vector) AS similarity
		FROM document_chunks
		ORDER BY embedding <=> $1::vector
		LIMIT $2`
	rows, err := s.pool.Query(ctx, query, pgv.NewVector(vector), limit)
	if err != nil {
		return nil, mapErr("query document_chunks", err)
	}
	defer rows.Close()

	var hits []index.Hit
	for rows.Next() {
		var (
			id, content string
			rawMetadata []byte
			source      *string
			chunkIndex  *int
			similarity  float64
		)
		if err := rows.Scan(&id, &content, &rawMetadata, &source, &chunkIndex, &similarity); err != nil {
			return nil, mapErr("scan document_chunks", err)
		}
		payload := map[string]any{
			"content": content,
			"source":  stringOrEmpty(source),
		}
		if chunkIndex != nil {
			payload["chunk_index"] = *chunkIndex
		}
		if len(rawMetadata) > 0 {
			var metadata map[string]any
			if err := json.Unmarshal(rawMetadata, &metadata); err != nil {
				return nil, fmt.Errorf("%w: row %s carries undecodable metadata: %v", core.ErrMalformedRecord, id, err)
			}
			payload["metadata"] = metadata
		}
		hits = append(hits, index.Hit{ID: id, Score: clampScore(similarity), Payload: payload})
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate document_chunks", err)
	}
	return hits, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool, collection string, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: provision %s: %v", core.ErrSchemaMissing, collection, err)
		}
	}
	return nil
}

func validateRecord(id string, vector []float32, dims int) error {
	if id == "" {
		return fmt.Errorf("%w: record id must not be empty", core.ErrInvalidInput)
	}
	if err := index.ValidateVector(vector); err != nil {
		return err
	}
	if len(vector) != dims {
		return fmt.Errorf("%w: vector width %d does not match collection width %d", core.ErrInvalidInput, len(vector), dims)
	}
	return nil
}

func mapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return fmt.Errorf("%w: %s: relation does not exist", core.ErrSchemaMissing, op)
	}
	return fmt.Errorf("%w: %s: %v", core.ErrProviderUnavailable, op, err)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func setIf(payload map[string]any, key string, value *string) {
	if value != nil && *value != "" {
		payload[key] = *value
	}
}
