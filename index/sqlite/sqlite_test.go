package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/index"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "chainrag.db"), "plugin_chains")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestStore_UpsertQueryRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "vintage-vocal", []float32{1, 0, 0}, map[string]any{"name": "Vintage Vocal Chain", "genre": "indie rock"}))
	require.NoError(t, s.Upsert(ctx, "modern-bass", []float32{0, 1, 0}, map[string]any{"name": "Modern Bass Chain", "genre": "electronic"}))

	hits, err := s.Query(ctx, []float32{1, 0.1, 0}, 5, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "vintage-vocal", hits[0].ID)
	assert.Equal(t, "Vintage Vocal Chain", hits[0].Payload["name"])
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestStore_FiltersAndLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "a", []float32{1, 0}, map[string]any{"genre": "indie rock"}))
	require.NoError(t, s.Upsert(ctx, "b", []float32{0.9, 0.1}, map[string]any{"genre": "rock"}))
	require.NoError(t, s.Upsert(ctx, "c", []float32{0, 1}, map[string]any{"genre": "jazz"}))

	// Filtering narrows before ranking: limit 1 with a genre filter still
	// surfaces a rock record even though jazz is irrelevant anyway.
	hits, err := s.Query(ctx, []float32{1, 0}, 1, index.Filters{"genre": "rock"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)

	hits, err = s.Query(ctx, []float32{1, 0}, 5, index.Filters{"genre": "rock"})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	_, err = s.Query(ctx, []float32{1, 0}, 0, nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestStore_UpsertReplaces(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, "chain", []float32{1, 0}, map[string]any{"name": "old"}))
	require.NoError(t, s.Upsert(ctx, "chain", []float32{0, 1}, map[string]any{"name": "new"}))

	hits, err := s.Query(ctx, []float32{0, 1}, 5, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Payload["name"])
}

func TestStore_MissingSchema(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "fresh.db"), "plugin_chains")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Query(context.Background(), []float32{1, 0}, 5, nil)
	assert.ErrorIs(t, err, core.ErrSchemaMissing)

	err = s.Upsert(context.Background(), "chain", []float32{1, 0}, nil)
	assert.ErrorIs(t, err, core.ErrSchemaMissing)
}

func TestStore_EnsureSchemaIdempotentAndConcurrent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.EnsureSchema(ctx)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		assert.NoError(t, err, "concurrent EnsureSchema call %d", i)
	}
}

func TestStore_MalformedRowFailsLoudly(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, "INSERT INTO plugin_chains (id, embedding, payload) VALUES ('bad', 'not-json', '{}')")
	require.NoError(t, err)

	_, err = s.Query(ctx, []float32{1, 0}, 5, nil)
	assert.ErrorIs(t, err, core.ErrMalformedRecord)
}

func TestStore_SharedDatabaseAcrossCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	chains, err := Open(path, "plugin_chains")
	require.NoError(t, err)
	t.Cleanup(func() { _ = chains.Close() })

	chunks, err := NewFromDB(chains.db, "document_chunks")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, chains.EnsureSchema(ctx))
	require.NoError(t, chunks.EnsureSchema(ctx))

	require.NoError(t, chains.Upsert(ctx, "chain", []float32{1, 0}, map[string]any{"name": "chain"}))
	require.NoError(t, chunks.Upsert(ctx, "chunk", []float32{0, 1}, map[string]any{"content": "text"}))

	chainHits, err := chains.Query(ctx, []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	chunkHits, err := chunks.Query(ctx, []float32{0, 1}, 5, nil)
	require.NoError(t, err)
	assert.Len(t, chainHits, 1)
	assert.Len(t, chunkHits, 1)
	assert.Equal(t, "chain", chainHits[0].ID)
	assert.Equal(t, "chunk", chunkHits[0].ID)
}

func TestStore_RejectsInvalidCollectionName(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "x.db"), "bad; DROP TABLE x")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
