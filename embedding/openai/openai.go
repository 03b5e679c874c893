// Package openai provides an implementation of embedding.Provider using the
// OpenAI Embeddings API. It adapts ChainRAG's batch contract onto the SDK's
// request format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/embedding"
)

// Options configure the OpenAI embedding adapter.
// Fields mirror a subset of Embeddings API parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model      string
	Dimensions int
}

// Provider wraps the OpenAI Embeddings API behind the generic
// embedding.Provider interface.
type Provider struct {
	client *openai.Client
	opts   Options
}

var _ embedding.Provider = (*Provider)(nil)

// New creates a new OpenAI embedding provider using the official client.
// Credentials are read from the environment (OPENAI_API_KEY).
func New(optFns ...func(o *Options)) *Provider {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI embedding provider from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Provider {
	opts := Options{
		Model:      openai.EmbeddingModelTextEmbedding3Small,
		Dimensions: embedding.DefaultDimensions,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{client: client, opts: opts}
}

// Embed implements embedding.Provider.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch implements embedding.Provider. Vectors come back in input order,
// one per text, at the configured dimensionality.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := embedding.ValidateTexts(texts); err != nil {
		return nil, err
	}

	params := openai.EmbeddingNewParams{
		Model:          p.opts.Model,
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	if p.opts.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(p.opts.Dimensions))
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: openai embeddings: %v", core.ErrProviderUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: openai returned %d vectors for %d texts", core.ErrProviderUnavailable, len(resp.Data), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for _, item := range resp.Data {
		vecs[item.Index] = toFloat32(item.Embedding)
	}
	return vecs, nil
}

// Info implements embedding.Provider.
func (p *Provider) Info() embedding.Info {
	return embedding.Info{Model: p.opts.Model, Provider: "openai", Dimensions: p.opts.Dimensions}
}

func toFloat32(values []float64) []float32 {
	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v)
	}
	return vec
}
