package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chainrag/core"
)

func TestHashProvider_Embed(t *testing.T) {
	p := NewHashProvider(64)

	vec, err := p.Embed(context.Background(), "warm vintage vocal chain")
	require.NoError(t, err)
	assert.Len(t, vec, 64)

	// Unit norm keeps cosine similarity equal to the plain dot product.
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)

	again, err := p.Embed(context.Background(), "warm vintage vocal chain")
	require.NoError(t, err)
	assert.Equal(t, vec, again, "identical input must produce the identical vector")
}

func TestHashProvider_EmbedBatchOrder(t *testing.T) {
	p := NewHashProvider(32)
	texts := []string{"vocal compression", "drum bus glue", "mastering eq"}

	vecs, err := p.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))

	for i, text := range texts {
		single, err := p.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, single, vecs[i], "vector %d must correspond to its input text", i)
	}
}

func TestHashProvider_RejectsEmptyInput(t *testing.T) {
	p := NewHashProvider(32)

	_, err := p.Embed(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = p.Embed(context.Background(), "   ")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = p.EmbedBatch(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = p.EmbedBatch(context.Background(), []string{"ok", ""})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestHashProvider_TokenOverlapRanks(t *testing.T) {
	p := NewHashProvider(256)
	ctx := context.Background()

	query, err := p.Embed(ctx, "warm vintage vocal chain for indie rock")
	require.NoError(t, err)
	vintage, err := p.Embed(ctx, "Vintage Vocal Chain warm analog vocal processing vintage warm analog")
	require.NoError(t, err)
	modern, err := p.Embed(ctx, "Modern Bass Chain clean modern bass processing clean modern")
	require.NoError(t, err)

	assert.Greater(t, dot(query, vintage), dot(query, modern),
		"token overlap must dominate the similarity ordering")
}

func TestHashProvider_Info(t *testing.T) {
	assert.Equal(t, Info{Model: "token-hash", Provider: "hash", Dimensions: 64}, NewHashProvider(64).Info())
	assert.Equal(t, DefaultDimensions, NewHashProvider(0).Info().Dimensions)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
