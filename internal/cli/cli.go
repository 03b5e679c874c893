// Package cli implements the chainrag command line: wiring from environment
// configuration to a ready ChainRAG instance, plus the serve, init, load and
// query subcommands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hupe1980/chainrag"
	"github.com/hupe1980/chainrag/cache"
	"github.com/hupe1980/chainrag/config"
	"github.com/hupe1980/chainrag/embedding"
	openaiembed "github.com/hupe1980/chainrag/embedding/openai"
	"github.com/hupe1980/chainrag/index"
	"github.com/hupe1980/chainrag/index/pgvector"
	"github.com/hupe1980/chainrag/index/sqlite"
	"github.com/hupe1980/chainrag/logging"
	"github.com/hupe1980/chainrag/recommend"
	anthropicsyn "github.com/hupe1980/chainrag/recommend/anthropic"
	openaisyn "github.com/hupe1980/chainrag/recommend/openai"
)

// app bundles the wired collaborators a subcommand works with.
type app struct {
	cfg     *config.Config
	rag     *chainrag.ChainRAG
	logger  logging.Logger
	cleanup func()
}

// newApp loads configuration and wires the embedding provider, index backend,
// cache and synthesizer it selects.
func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()

	logger := buildLogger(cfg)

	chains, chunks, cleanup, err := buildIndexes(ctx, cfg)
	if err != nil {
		return nil, err
	}

	synthesizer, err := buildSynthesizer(cfg)
	if err != nil {
		cleanup()
		return nil, err
	}

	rag := chainrag.New(func(o *chainrag.Options) {
		o.Provider = buildProvider(cfg)
		o.EmbeddingCache = buildCache(cfg)
		o.ChainIndex = chains
		o.KnowledgeIndex = chunks
		o.Synthesizer = synthesizer
		o.Logger = logger
	})

	return &app{cfg: cfg, rag: rag, logger: logger, cleanup: cleanup}, nil
}

func buildLogger(cfg *config.Config) logging.Logger {
	opts := &slog.HandlerOptions{Level: logLevel(cfg.Log.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return logging.NewSlogAdapter(slog.New(handler))
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildProvider selects OpenAI embeddings when credentials are present and
// falls back to the deterministic hash provider otherwise.
func buildProvider(cfg *config.Config) embedding.Provider {
	if cfg.OpenAIAPIKey == "" {
		return embedding.NewHashProvider(cfg.Embedding.Dimensions)
	}

	return openaiembed.New(func(o *openaiembed.Options) {
		o.Model = cfg.Embedding.Model
		o.Dimensions = cfg.Embedding.Dimensions
	})
}

// buildIndexes returns the chain and knowledge collections for the configured
// backend plus a cleanup releasing any shared handle behind them.
func buildIndexes(ctx context.Context, cfg *config.Config) (index.Index, index.Index, func(), error) {
	switch strings.ToLower(cfg.Index.Backend) {
	case "", "memory":
		return index.NewInMemory(), index.NewInMemory(), func() {}, nil

	case "sqlite":
		db, err := sqlite.OpenDB(cfg.Index.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}

		chains, err := sqlite.NewFromDB(db, "plugin_chains")
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}

		chunks, err := sqlite.NewFromDB(db, "document_chunks")
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}

		return chains, chunks, func() { db.Close() }, nil

	case "pgvector":
		pool, err := pgvector.Connect(ctx, cfg.Database.ConnectionURL())
		if err != nil {
			return nil, nil, nil, err
		}

		dims := func(o *pgvector.Options) { o.Dimensions = cfg.Embedding.Dimensions }

		return pgvector.NewChainStore(pool, dims), pgvector.NewChunkStore(pool, dims), pool.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown index backend %q (expected memory, sqlite or pgvector)", cfg.Index.Backend)
	}
}

func buildSynthesizer(cfg *config.Config) (recommend.Synthesizer, error) {
	switch strings.ToLower(cfg.Synthesizer.Backend) {
	case "", "heuristic":
		return recommend.NewHeuristic(), nil

	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("synthesizer %q requires OPENAI_API_KEY", cfg.Synthesizer.Backend)
		}

		return openaisyn.New(), nil

	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("synthesizer %q requires ANTHROPIC_API_KEY", cfg.Synthesizer.Backend)
		}

		return anthropicsyn.New(func(o *anthropicsyn.Options) {
			o.APIKey = cfg.AnthropicAPIKey
		}), nil

	default:
		return nil, fmt.Errorf("unknown synthesizer backend %q (expected heuristic, openai or anthropic)", cfg.Synthesizer.Backend)
	}
}

// buildCache returns nil when caching is disabled; the façade then embeds
// straight through the provider.
func buildCache(cfg *config.Config) cache.Cache {
	switch strings.ToLower(cfg.Cache.Backend) {
	case "memory":
		return cache.NewMemory()
	case "redis":
		return cache.NewRedis(func(o *cache.RedisOptions) { o.Addr = cfg.Cache.RedisAddr })
	default:
		return nil
	}
}
