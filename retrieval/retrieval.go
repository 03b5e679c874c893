package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/embedding"
	"github.com/hupe1980/chainrag/index"
	"github.com/hupe1980/chainrag/logging"
)

// DefaultKnowledgeLimit is the number of knowledge chunks retrieved as
// supporting evidence when the caller does not ask for more.
const DefaultKnowledgeLimit = 3

// Options configures a Service instance.
type Options struct {
	// Logger provides structured logging. Defaults to NoOp logger if nil.
	Logger logging.Logger

	// NewID assigns identities to ingested entities. Defaults to random
	// UUIDs; injectable for deterministic tests.
	NewID func() string

	// Now supplies creation timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Service composes an embedding.Provider with the chain and knowledge
// collections. It is safe for concurrent use; ingestion and search may run
// concurrently and a completed add is visible to every search issued after
// it returns.
type Service struct {
	provider embedding.Provider
	chains   index.Index
	chunks   index.Index
	opts     Options
}

// New creates a retrieval service over the given provider and collections.
func New(provider embedding.Provider, chains, chunks index.Index, optFns ...func(o *Options)) *Service {
	opts := Options{
		Logger: logging.NoOpLogger{},
		NewID:  uuid.NewString,
		Now:    time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{provider: provider, chains: chains, chunks: chunks, opts: opts}
}

// Initialize ensures both backing collections exist. It is idempotent and
// safe to call repeatedly and concurrently.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.chains.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := s.chunks.EnsureSchema(ctx); err != nil {
		return err
	}
	s.opts.Logger.Info("collections initialized")
	return nil
}

// SearchChains embeds queryText and ranks the chain collection under the
// optional genre and instrument filters. An empty filter restricts nothing.
func (s *Service) SearchChains(ctx context.Context, queryText, genre, instrument string, limit int) ([]core.SimilarityHit[core.PluginChain], error) {
	hits, err := s.search(ctx, s.chains, queryText, limit, index.Filters{"genre": genre, "instrument": instrument})
	if err != nil {
		return nil, err
	}
	results := make([]core.SimilarityHit[core.PluginChain], len(hits))
	for i, hit := range hits {
		chain, err := core.DecodeChain(hit.ID, hit.Payload)
		if err != nil {
			return nil, err
		}
		results[i] = core.SimilarityHit[core.PluginChain]{Entity: chain, Score: hit.Score}
	}
	s.opts.Logger.Debug("chain search completed", "query", queryText, "hits", len(results))
	return results, nil
}

// SearchKnowledge embeds queryText and ranks the knowledge collection. The
// knowledge base carries no categorical fields, so no filters apply.
func (s *Service) SearchKnowledge(ctx context.Context, queryText string, limit int) ([]core.SimilarityHit[core.DocumentChunk], error) {
	hits, err := s.search(ctx, s.chunks, queryText, limit, nil)
	if err != nil {
		return nil, err
	}
	results := make([]core.SimilarityHit[core.DocumentChunk], len(hits))
	for i, hit := range hits {
		chunk, err := core.DecodeChunk(hit.ID, hit.Payload)
		if err != nil {
			return nil, err
		}
		results[i] = core.SimilarityHit[core.DocumentChunk]{Entity: chunk, Score: hit.Score}
	}
	s.opts.Logger.Debug("knowledge search completed", "query", queryText, "hits", len(results))
	return results, nil
}

// AddChain embeds the chain's canonical projection and upserts it into the
// chain collection, returning the assigned id. A missing id is assigned; a
// missing creation timestamp is stamped with the service clock.
func (s *Service) AddChain(ctx context.Context, chain core.PluginChain) (string, error) {
	if strings.TrimSpace(chain.Name) == "" {
		return "", fmt.Errorf("%w: chain name must not be empty", core.ErrInvalidInput)
	}
	if chain.ID == "" {
		chain.ID = s.opts.NewID()
	}
	if chain.CreatedAt.IsZero() {
		chain.CreatedAt = s.opts.Now()
	}
	if chain.Plugins == nil {
		chain.Plugins = []core.PluginSpec{}
	}
	if chain.Tags == nil {
		chain.Tags = []string{}
	}

	vector, err := s.provider.Embed(ctx, chain.EmbeddingText())
	if err != nil {
		return "", err
	}
	payload, err := core.ChainPayload(chain)
	if err != nil {
		return "", err
	}
	if err := s.chains.Upsert(ctx, chain.ID, vector, payload); err != nil {
		return "", err
	}
	s.opts.Logger.Info("chain added", "id", chain.ID, "name", chain.Name)
	return chain.ID, nil
}

// AddDocument embeds the chunk content and upserts it into the knowledge
// collection, returning the assigned id.
func (s *Service) AddDocument(ctx context.Context, chunk core.DocumentChunk) (string, error) {
	if strings.TrimSpace(chunk.Content) == "" {
		return "", fmt.Errorf("%w: chunk content must not be empty", core.ErrInvalidInput)
	}
	if chunk.ID == "" {
		chunk.ID = s.opts.NewID()
	}

	vector, err := s.provider.Embed(ctx, chunk.EmbeddingText())
	if err != nil {
		return "", err
	}
	payload, err := core.ChunkPayload(chunk)
	if err != nil {
		return "", err
	}
	if err := s.chunks.Upsert(ctx, chunk.ID, vector, payload); err != nil {
		return "", err
	}
	s.opts.Logger.Info("document chunk added", "id", chunk.ID, "source", chunk.Source)
	return chunk.ID, nil
}

// search validates shared inputs, embeds the query and delegates to idx.
func (s *Service) search(ctx context.Context, idx index.Index, queryText string, limit int, filters index.Filters) ([]index.Hit, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("%w: query text must not be empty", core.ErrInvalidInput)
	}
	if err := index.ValidateLimit(limit); err != nil {
		return nil, err
	}
	vector, err := s.provider.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}
	return idx.Query(ctx, vector, limit, filters)
}
