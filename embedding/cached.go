package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/chainrag/cache"
	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/logging"
)

// CachedOptions configure the caching decorator.
type CachedOptions struct {
	TTL    time.Duration
	Logger logging.Logger
}

// CachedProvider memoizes vectors from an underlying Provider. Repeated
// embeddings of the same text (reindex runs, popular queries) are served from
// the cache instead of the upstream capability. Cache failures degrade to a
// plain provider call and are logged at warn level; they never fail the
// embedding itself.
type CachedProvider struct {
	provider Provider
	store    cache.Cache
	opts     CachedOptions
}

var _ Provider = (*CachedProvider)(nil)

// NewCachedProvider wraps provider with the given cache store.
func NewCachedProvider(provider Provider, store cache.Cache, optFns ...func(o *CachedOptions)) *CachedProvider {
	opts := CachedOptions{
		TTL:    24 * time.Hour,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &CachedProvider{provider: provider, store: store, opts: opts}
}

// Embed implements Provider.
func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch implements Provider. Hits are served from the cache; misses are
// embedded in a single upstream batch and the result preserves input order.
func (p *CachedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateTexts(texts); err != nil {
		return nil, err
	}

	vecs := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		key := p.key(text)
		raw, ok, err := p.store.Get(ctx, key)
		if err != nil {
			p.opts.Logger.Warn("embedding cache get failed", "error", err)
		}
		if ok {
			var vec []float32
			if err := json.Unmarshal(raw, &vec); err == nil && len(vec) > 0 {
				vecs[i] = vec
				continue
			}
			p.opts.Logger.Warn("dropping undecodable embedding cache entry", "key", key)
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return vecs, nil
	}

	fresh, err := p.provider.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("%w: provider returned %d vectors for %d texts", core.ErrProviderUnavailable, len(fresh), len(missTexts))
	}
	for j, vec := range fresh {
		vecs[missIdx[j]] = vec
		raw, err := json.Marshal(vec)
		if err != nil {
			continue
		}
		if err := p.store.Set(ctx, p.key(missTexts[j]), raw, p.opts.TTL); err != nil {
			p.opts.Logger.Warn("embedding cache set failed", "error", err)
		}
	}
	return vecs, nil
}

// Info reports the wrapped provider's metadata.
func (p *CachedProvider) Info() Info {
	return p.provider.Info()
}

// key derives a stable cache key from the provider identity and the text, so
// providers with different models or widths never share entries.
func (p *CachedProvider) key(text string) string {
	info := p.provider.Info()
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d:%s", info.Provider, info.Model, info.Dimensions, text)))
	return "emb:" + hex.EncodeToString(sum[:])
}
