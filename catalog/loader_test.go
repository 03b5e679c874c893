package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/embedding"
	"github.com/hupe1980/chainrag/index"
	"github.com/hupe1980/chainrag/retrieval"
)

// scriptedIngestor fails each chain a configured number of times before
// accepting it, and counts every attempt.
type scriptedIngestor struct {
	attempts  map[string]int
	failures  map[string]int
	failWith  error
	documents int
}

func newScriptedIngestor(failWith error, failures map[string]int) *scriptedIngestor {
	return &scriptedIngestor{
		attempts: map[string]int{},
		failures: failures,
		failWith: failWith,
	}
}

func (s *scriptedIngestor) AddChain(_ context.Context, chain core.PluginChain) (string, error) {
	s.attempts[chain.Name]++

	if s.attempts[chain.Name] <= s.failures[chain.Name] {
		return "", s.failWith
	}

	return "id-" + chain.Name, nil
}

func (s *scriptedIngestor) AddDocument(context.Context, core.DocumentChunk) (string, error) {
	s.documents++
	return fmt.Sprintf("doc-%d", s.documents), nil
}

func fastBackoff(o *Options) {
	o.Backoff = func() retry.Backoff {
		return retry.WithMaxRetries(5, retry.NewConstant(time.Millisecond))
	}
}

func chains(names ...string) []core.PluginChain {
	out := make([]core.PluginChain, len(names))
	for i, name := range names {
		out[i] = core.PluginChain{Name: name, Description: name, Plugins: []core.PluginSpec{}}
	}

	return out
}

func TestLoader_ContinueOnFailure(t *testing.T) {
	ing := newScriptedIngestor(
		fmt.Errorf("%w: duplicate name", core.ErrInvalidInput),
		map[string]int{"Broken Chain": 100},
	)
	loader := NewLoader(ing, fastBackoff)

	res := loader.LoadChains(context.Background(), chains("First Chain", "Broken Chain", "Last Chain"))

	assert.Equal(t, Result{Loaded: 2, Failed: 1}, res)
	assert.Equal(t, 1, ing.attempts["First Chain"])
	assert.Equal(t, 1, ing.attempts["Last Chain"], "a failing item must not stop the batch")
}

func TestLoader_RetriesTransientFailures(t *testing.T) {
	ing := newScriptedIngestor(
		fmt.Errorf("%w: connection refused", core.ErrProviderUnavailable),
		map[string]int{"Flaky Chain": 2},
	)
	loader := NewLoader(ing, fastBackoff)

	res := loader.LoadChains(context.Background(), chains("Flaky Chain"))

	assert.Equal(t, Result{Loaded: 1, Failed: 0}, res)
	assert.Equal(t, 3, ing.attempts["Flaky Chain"])
}

func TestLoader_PermanentFailuresNotRetried(t *testing.T) {
	ing := newScriptedIngestor(
		fmt.Errorf("%w: chain name must not be empty", core.ErrInvalidInput),
		map[string]int{"Bad Chain": 100},
	)
	loader := NewLoader(ing, fastBackoff)

	res := loader.LoadChains(context.Background(), chains("Bad Chain"))

	assert.Equal(t, Result{Loaded: 0, Failed: 1}, res)
	assert.Equal(t, 1, ing.attempts["Bad Chain"], "validation failures must not burn retries")
}

func TestLoader_ExhaustsRetriesThenFails(t *testing.T) {
	ing := newScriptedIngestor(
		fmt.Errorf("%w: connection refused", core.ErrProviderUnavailable),
		map[string]int{"Down Chain": 100},
	)
	loader := NewLoader(ing, fastBackoff)

	res := loader.LoadChains(context.Background(), chains("Down Chain"))

	assert.Equal(t, Result{Loaded: 0, Failed: 1}, res)
	assert.Equal(t, 6, ing.attempts["Down Chain"], "initial attempt plus five retries")
}

func TestLoader_LoadSamples(t *testing.T) {
	svc := retrieval.New(embedding.NewHashProvider(128), index.NewInMemory(), index.NewInMemory())
	loader := NewLoader(svc, fastBackoff)
	ctx := context.Background()

	res := loader.LoadSamples(ctx)
	require.Equal(t, Result{Loaded: 7, Failed: 0}, res)

	hits, err := svc.SearchChains(ctx, "Classic Vocal Chain", "", "", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Classic Vocal Chain", hits[0].Entity.Name)

	docs, err := svc.SearchKnowledge(ctx, "compression dynamic range", 3)
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	assert.Equal(t, "Audio Engineering Handbook", docs[0].Entity.Source)
}

func TestLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()

	array := `[
		{"name": "Dir Chain One", "description": "first", "plugins": []},
		{"name": "Dir Chain Two", "description": "second", "plugins": []}
	]`
	single := `{"name": "Dir Chain Three", "description": "third", "plugins": [
		{"name": "LA-2A", "manufacturer": "Universal Audio", "category": "compressor", "order": 1}
	]}`

	require.NoError(t, os.WriteFile(filepath.Join(dir, "array.json"), []byte(array), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "single.json"), []byte(single), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not a chain"), 0o644))

	svc := retrieval.New(embedding.NewHashProvider(128), index.NewInMemory(), index.NewInMemory())
	loader := NewLoader(svc, fastBackoff)

	res, err := loader.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, Result{Loaded: 3, Failed: 1}, res)

	hits, err := svc.SearchChains(context.Background(), "Dir Chain Three", "", "", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Dir Chain Three", hits[0].Entity.Name)
	assert.Len(t, hits[0].Entity.Plugins, 1)
}

func TestLoader_LoadDirMissing(t *testing.T) {
	loader := NewLoader(newScriptedIngestor(nil, nil), fastBackoff)

	_, err := loader.LoadDir(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
