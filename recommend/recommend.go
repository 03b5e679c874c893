package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/logging"
	"github.com/hupe1980/chainrag/retrieval"
)

// Config defines tuning parameters for the Recommender's retrieval behavior.
//
// This configuration focuses on the evidence-gathering side of a query:
//   - Knowledge: how many supporting knowledge base chunks to retrieve
//
// Additional concerns such as timeouts, metrics collection, and distributed
// tracing should be configured via functional options rather than expanding
// this struct to maintain simplicity and focused responsibility.
//
// Example:
//
//	cfg := Config{
//	    KnowledgeLimit: 5,
//	}
type Config struct {
	// KnowledgeLimit caps the number of knowledge base chunks retrieved as
	// supporting evidence for each query. Set to 0 to skip knowledge
	// retrieval entirely; synthesis then works from chain evidence alone.
	KnowledgeLimit int
}

// DefaultConfig provides production-ready default configuration values.
//
// Configuration values:
//   - KnowledgeLimit: 3 (enough grounding context without bloating prompts)
var DefaultConfig = Config{
	KnowledgeLimit: retrieval.DefaultKnowledgeLimit,
}

// Options configures a Recommender instance using the functional options
// pattern.
//
// The Options struct follows the functional options pattern, allowing for:
//   - Clear, readable configuration
//   - Optional parameters with sensible defaults
//   - Future extensibility without breaking changes
//   - Testable configuration logic
//
// Example:
//
//	rec := New(svc,
//	    func(o *Options) { o.Synthesizer = openaisyn.New() },
//	    func(o *Options) { o.Logger = myLogger },
//	)
type Options struct {
	// Config contains operational parameters for retrieval behavior.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// Synthesizer produces the explanation and confidence for a result set.
	// Defaults to the deterministic Heuristic if not provided.
	Synthesizer Synthesizer

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to NoOp logger if nil to ensure no logging dependencies.
	Logger logging.Logger

	// Now supplies the clock used for response timing metadata. Defaults
	// to time.Now; injectable for deterministic tests.
	Now func() time.Time
}

// Recommender orchestrates the complete lifecycle of one recommendation
// query: validation, context rendering, concurrent evidence retrieval,
// synthesis, and response assembly.
//
// Core Responsibilities:
//   - Input Validation: Malformed queries are rejected before any network
//     or store call is attempted
//   - Evidence Retrieval: Chain search and knowledge search run as one
//     concurrent unit of work through the retrieval service
//   - Synthesis Delegation: Explanation and confidence come from the
//     injected Synthesizer; the orchestrator never fabricates either
//   - Response Assembly: Recommendations keep their retrieval order and
//     share the query-level explanation and confidence
//
// Error Handling:
//   - core.ErrInvalidInput surfaces unchanged before retrieval starts
//   - Retrieval failures abort the whole query; no partial or degraded
//     envelope is returned
//   - Synthesizer failures surface as core.ErrSynthesisFailed and likewise
//     produce no envelope
//
// Concurrency Model:
//   - Each query is one independent unit of work with no shared mutable
//     state; a single Recommender serves concurrent callers safely
//   - Chain and knowledge retrieval are issued concurrently; the first
//     failure cancels the sibling call
type Recommender struct {
	service     *retrieval.Service // Embedding + index composition, immutable after construction
	synthesizer Synthesizer        // Explanation/confidence capability
	logger      logging.Logger     // Structured logging interface
	config      Config             // Operational parameters
	now         func() time.Time   // Clock for timing metadata
}

// New creates a Recommender around a retrieval service.
//
// Default Behavior:
//   - Synthesizer: deterministic Heuristic (no external model dependency)
//   - Logger: no-op logger that discards all messages
//   - Config: DefaultConfig
//   - Clock: time.Now
//
// The defaults enable immediate use without external dependencies, making
// the Recommender suitable for development, testing, and deployments that
// prefer deterministic explanations. Production deployments typically
// inject a model-backed Synthesizer.
//
// The Recommender does not take ownership of the retrieval service and will
// not manage its lifecycle.
//
// Example:
//
//	svc := retrieval.New(provider, chainIndex, chunkIndex)
//	rec := recommend.New(svc, func(o *recommend.Options) {
//	    o.Synthesizer = anthropicsyn.New()
//	    o.Logger = logger
//	})
func New(service *retrieval.Service, optFns ...func(o *Options)) *Recommender {
	opts := Options{
		Config:      DefaultConfig,
		Synthesizer: NewHeuristic(),
		Logger:      logging.NoOpLogger{},
		Now:         time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Synthesizer == nil {
		opts.Synthesizer = NewHeuristic()
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Recommender{
		service:     service,
		synthesizer: opts.Synthesizer,
		logger:      opts.Logger,
		config:      opts.Config,
		now:         opts.Now,
	}
}

// Recommend executes one complete recommendation query.
//
// Processing Pipeline:
//  1. Validate the query; core.ErrInvalidInput is returned before any
//     embedding or store call happens
//  2. Render the query context string (text plus applied filters plus
//     owned-plugin context) for the response envelope
//  3. Retrieve candidate chains (with the query's genre and instrument
//     filters) and supporting knowledge chunks concurrently
//  4. Synthesize the retrieved evidence into an explanation and a
//     confidence value
//  5. Assemble the envelope: recommendations in retrieval order, each
//     stamped with the shared explanation and confidence, plus result
//     count and wall-clock search time
//
// A query that retrieves zero chains is still a success: the envelope
// carries an empty recommendation list and the synthesizer's account of
// the empty result. Failures at any stage return a nil envelope.
//
// Example:
//
//	envelope, err := rec.Recommend(ctx, core.Query{
//	    Text:       "warm vintage vocal chain for indie rock",
//	    Genre:      "indie rock",
//	    Instrument: "vocals",
//	})
//	if err != nil {
//	    return err
//	}
//
//	for _, r := range envelope.Recommendations {
//	    fmt.Printf("%s (%.2f)\n", r.Chain.Name, r.Similarity)
//	}
func (r *Recommender) Recommend(ctx context.Context, query core.Query) (*core.ResponseEnvelope, error) {
	start := r.now()

	if err := query.Validate(); err != nil {
		return nil, err
	}

	queryContext := query.Context()

	var (
		chains    []core.SimilarityHit[core.PluginChain]
		knowledge []core.SimilarityHit[core.DocumentChunk]
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		chains, err = r.service.SearchChains(gctx, query.Text, query.Genre, query.Instrument, query.Limit())
		return err
	})

	if r.config.KnowledgeLimit > 0 {
		g.Go(func() error {
			var err error
			knowledge, err = r.service.SearchKnowledge(gctx, query.Text, r.config.KnowledgeLimit)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		r.logger.Error("retrieval failed", "error", err)
		return nil, err
	}

	syn, err := r.synthesizer.Synthesize(ctx, SynthesisRequest{
		Query:        query,
		QueryContext: queryContext,
		Chains:       chains,
		Knowledge:    knowledge,
	})
	if err != nil {
		r.logger.Error("synthesis failed", "error", err)

		if errors.Is(err, core.ErrSynthesisFailed) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %v", core.ErrSynthesisFailed, err)
	}

	confidence := clamp01(syn.Confidence)

	recommendations := make([]core.RecommendationResult, 0, len(chains))
	for _, hit := range chains {
		recommendations = append(recommendations, core.RecommendationResult{
			Chain:       hit.Entity,
			Similarity:  hit.Score,
			Explanation: syn.Explanation,
			Confidence:  confidence,
		})
	}

	elapsed := r.now().Sub(start)

	r.logger.Info("recommendation completed",
		"results", len(recommendations),
		"confidence", confidence,
		"elapsed_ms", float64(elapsed)/float64(time.Millisecond),
	)

	return &core.ResponseEnvelope{
		Recommendations: recommendations,
		QueryContext:    queryContext,
		TotalResults:    len(recommendations),
		SearchTimeMS:    float64(elapsed) / float64(time.Millisecond),
	}, nil
}

// SearchChainsDirect performs a plain similarity search without synthesis.
//
// This is the non-AI search path: it returns raw (chain, score) pairs in
// ranked order, suitable for catalog browsing or clients that render their
// own result presentation. Filters behave exactly as in Recommend.
func (r *Recommender) SearchChainsDirect(ctx context.Context, text, genre, instrument string, limit int) ([]core.SimilarityHit[core.PluginChain], error) {
	return r.service.SearchChains(ctx, text, genre, instrument, limit)
}

// AddChain ingests a plugin chain through the retrieval service and returns
// the assigned identity.
func (r *Recommender) AddChain(ctx context.Context, chain core.PluginChain) (string, error) {
	return r.service.AddChain(ctx, chain)
}

// AddDocument ingests a knowledge base chunk through the retrieval service
// and returns the assigned identity.
func (r *Recommender) AddDocument(ctx context.Context, chunk core.DocumentChunk) (string, error) {
	return r.service.AddDocument(ctx, chunk)
}

// Initialize ensures the backing collections exist. Idempotent; safe to
// call repeatedly and concurrently.
func (r *Recommender) Initialize(ctx context.Context) error {
	return r.service.Initialize(ctx)
}
