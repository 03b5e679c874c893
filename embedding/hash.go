package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// HashProvider is a lightweight in-process Provider useful for tests,
// examples and offline development. It hashes lowercased tokens into a
// fixed-width bag-of-words vector and L2-normalizes the result, so texts
// sharing tokens genuinely score higher under cosine similarity than
// unrelated texts. It is fully deterministic and needs no network access.
type HashProvider struct {
	dims int
}

var _ Provider = (*HashProvider)(nil)

// NewHashProvider constructs a HashProvider with the given vector width.
// Non-positive widths fall back to DefaultDimensions.
func NewHashProvider(dims int) *HashProvider {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashProvider{dims: dims}
}

// Embed implements Provider.
func (p *HashProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch implements Provider; emits one vector per input in input order.
func (p *HashProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateTexts(texts); err != nil {
		return nil, err
	}
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		vecs[i] = p.embedOne(text)
	}
	return vecs, nil
}

// Info implements Provider.
func (p *HashProvider) Info() Info {
	return Info{Model: "token-hash", Provider: "hash", Dimensions: p.dims}
}

func (p *HashProvider) embedOne(text string) []float32 {
	vec := make([]float32, p.dims)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%p.dims]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// No tokens survived; keep the vector well-formed for cosine math.
		vec[0] = 1
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
