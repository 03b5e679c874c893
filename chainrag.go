// Package chainrag provides a high-level façade over the retrieval and
// recommendation services (embedding, similarity indexes, synthesis &
// logging) enabling rapid construction of plugin-chain recommendation
// systems. Most applications interact with this package by:
//  1. Creating a ChainRAG via New() (optionally overriding default in‑memory services)
//  2. Ingesting plugin chains and knowledge chunks (AddChain, AddDocument)
//  3. Submitting queries (SubmitQuery) or running direct similarity search (SearchChains)
//
// The façade delegates orchestration to recommend.Recommender while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a durable
// index backend, a model-backed synthesizer and a structured logger.
package chainrag

import (
	"context"

	"github.com/hupe1980/chainrag/cache"
	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/embedding"
	"github.com/hupe1980/chainrag/index"
	"github.com/hupe1980/chainrag/logging"
	"github.com/hupe1980/chainrag/recommend"
	"github.com/hupe1980/chainrag/retrieval"
)

// Options configures the ChainRAG instance.
type Options struct {
	// Recommender configuration (knowledge evidence limit)
	RecommendConfig recommend.Config

	// Provider computes embeddings for ingestion and search. Defaults to
	// the deterministic hash provider, which needs no credentials or
	// network access.
	Provider embedding.Provider

	// EmbeddingCache, when set, wraps Provider so repeated texts are
	// answered from the cache instead of a provider round trip.
	EmbeddingCache cache.Cache

	// Indexes (default to in-memory implementations if not provided)
	ChainIndex     index.Index
	KnowledgeIndex index.Index

	// Synthesizer turns retrieved evidence into an explanation and a
	// confidence value. Defaults to the deterministic heuristic.
	Synthesizer recommend.Synthesizer

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ChainRAG is the high-level façade aggregating the retrieval service and the
// recommender built on top of it.
type ChainRAG struct {
	opts        Options
	service     *retrieval.Service
	recommender *recommend.Recommender
}

// New creates a new ChainRAG instance with optional overrides. Any unset
// collaborator is initialized with a dependency-free default.
func New(optFns ...func(o *Options)) *ChainRAG {
	opts := Options{
		RecommendConfig: recommend.DefaultConfig,
		Provider:        embedding.NewHashProvider(embedding.DefaultDimensions),
		ChainIndex:      index.NewInMemory(),
		KnowledgeIndex:  index.NewInMemory(),
		Synthesizer:     recommend.NewHeuristic(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	provider := opts.Provider
	if opts.EmbeddingCache != nil {
		provider = embedding.NewCachedProvider(provider, opts.EmbeddingCache)
	}

	service := retrieval.New(provider, opts.ChainIndex, opts.KnowledgeIndex, func(o *retrieval.Options) {
		o.Logger = opts.Logger
	})

	recommender := recommend.New(service, func(o *recommend.Options) {
		o.Config = opts.RecommendConfig
		o.Synthesizer = opts.Synthesizer
		o.Logger = opts.Logger
	})

	return &ChainRAG{opts: opts, service: service, recommender: recommender}
}

// Initialize ensures the backing collections exist. Idempotent.
func (c *ChainRAG) Initialize(ctx context.Context) error { return c.recommender.Initialize(ctx) }

// SubmitQuery runs the full pipeline for one query: validation, concurrent
// evidence retrieval, synthesis and envelope assembly.
func (c *ChainRAG) SubmitQuery(ctx context.Context, query core.Query) (*core.ResponseEnvelope, error) {
	return c.recommender.Recommend(ctx, query)
}

// AddChain ingests a plugin chain and returns its assigned identity.
func (c *ChainRAG) AddChain(ctx context.Context, chain core.PluginChain) (string, error) {
	return c.recommender.AddChain(ctx, chain)
}

// AddDocument ingests a knowledge base chunk and returns its assigned identity.
func (c *ChainRAG) AddDocument(ctx context.Context, chunk core.DocumentChunk) (string, error) {
	return c.recommender.AddDocument(ctx, chunk)
}

// SearchChains performs a direct similarity search without synthesis. Empty
// genre and instrument filters restrict nothing.
func (c *ChainRAG) SearchChains(ctx context.Context, text, genre, instrument string, limit int) ([]core.SimilarityHit[core.PluginChain], error) {
	return c.recommender.SearchChainsDirect(ctx, text, genre, instrument, limit)
}

// SearchKnowledge performs a direct similarity search over the knowledge base.
func (c *ChainRAG) SearchKnowledge(ctx context.Context, text string, limit int) ([]core.SimilarityHit[core.DocumentChunk], error) {
	return c.service.SearchKnowledge(ctx, text, limit)
}

// Recommender exposes the underlying recommender, e.g. for serving it over HTTP.
func (c *ChainRAG) Recommender() *recommend.Recommender { return c.recommender }

// Service exposes the underlying retrieval service, e.g. for bulk loading.
func (c *ChainRAG) Service() *retrieval.Service { return c.service }
