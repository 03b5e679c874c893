package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chainrag/cache"
)

// countingProvider tracks upstream batch calls around a HashProvider.
type countingProvider struct {
	*HashProvider
	batchCalls int
}

func (c *countingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	return c.HashProvider.EmbedBatch(ctx, texts)
}

// failingCache errors on every operation.
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func TestCachedProvider_ServesRepeatsFromCache(t *testing.T) {
	upstream := &countingProvider{HashProvider: NewHashProvider(32)}
	cached := NewCachedProvider(upstream, cache.NewMemory())
	ctx := context.Background()

	first, err := cached.Embed(ctx, "warm vocal chain")
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.batchCalls)

	second, err := cached.Embed(ctx, "warm vocal chain")
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.batchCalls, "repeat must not reach upstream")
	assert.Equal(t, first, second)
}

func TestCachedProvider_BatchMixesHitsAndMisses(t *testing.T) {
	upstream := &countingProvider{HashProvider: NewHashProvider(32)}
	cached := NewCachedProvider(upstream, cache.NewMemory())
	ctx := context.Background()

	warm, err := cached.Embed(ctx, "vocal compression")
	require.NoError(t, err)
	require.Equal(t, 1, upstream.batchCalls)

	vecs, err := cached.EmbedBatch(ctx, []string{"drum bus glue", "vocal compression", "mastering eq"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, 2, upstream.batchCalls, "only the misses go upstream, in one batch")
	assert.Equal(t, warm, vecs[1], "cached vector must land at its input position")

	fresh, err := upstream.HashProvider.Embed(ctx, "drum bus glue")
	require.NoError(t, err)
	assert.Equal(t, fresh, vecs[0])
}

func TestCachedProvider_CacheFailureDegradesToProvider(t *testing.T) {
	upstream := &countingProvider{HashProvider: NewHashProvider(32)}
	cached := NewCachedProvider(upstream, failingCache{})
	ctx := context.Background()

	vec, err := cached.Embed(ctx, "warm vocal chain")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)

	_, err = cached.Embed(ctx, "warm vocal chain")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.batchCalls, "every call reaches upstream while the cache is down")
}

func TestCachedProvider_RejectsEmptyInput(t *testing.T) {
	cached := NewCachedProvider(NewHashProvider(32), cache.NewMemory())

	_, err := cached.Embed(context.Background(), "")
	assert.Error(t, err)
}
