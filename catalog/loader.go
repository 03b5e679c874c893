package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/logging"
)

// Ingestor is the subset of ingestion operations the loader depends on.
// Both the retrieval service and the recommender satisfy it.
type Ingestor interface {
	AddChain(ctx context.Context, chain core.PluginChain) (string, error)
	AddDocument(ctx context.Context, chunk core.DocumentChunk) (string, error)
}

// Result counts the outcome of one bulk load.
type Result struct {
	Loaded int // Items successfully ingested
	Failed int // Items given up on after retries
}

// Add folds other into r.
func (r *Result) Add(other Result) {
	r.Loaded += other.Loaded
	r.Failed += other.Failed
}

// Options configures a Loader.
type Options struct {
	// Logger provides structured logging. Defaults to NoOp logger if nil.
	Logger logging.Logger

	// Backoff builds the per-item retry policy. Defaults to Fibonacci
	// backoff starting at one second, capped at five retries.
	Backoff func() retry.Backoff
}

// Loader ingests plugin chains and knowledge chunks in bulk. Failures are
// logged and counted, never propagated: one bad item must not abort the
// batch. Transient provider outages are retried per item before counting it
// as failed.
type Loader struct {
	ingestor Ingestor
	opts     Options
}

// NewLoader creates a bulk loader around an ingestor.
func NewLoader(ingestor Ingestor, optFns ...func(o *Options)) *Loader {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Backoff: func() retry.Backoff {
			return retry.WithMaxRetries(5, retry.NewFibonacci(1*time.Second))
		},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Loader{ingestor: ingestor, opts: opts}
}

// LoadChains ingests the given chains one by one, logging and counting
// failures.
func (l *Loader) LoadChains(ctx context.Context, chains []core.PluginChain) Result {
	var res Result

	for _, chain := range chains {
		if err := l.withRetry(ctx, func(ctx context.Context) error {
			_, err := l.ingestor.AddChain(ctx, chain)
			return err
		}); err != nil {
			l.opts.Logger.Warn("chain load failed", "name", chain.Name, "error", err)
			res.Failed++

			continue
		}

		l.opts.Logger.Info("chain loaded", "name", chain.Name)
		res.Loaded++
	}

	return res
}

// LoadKnowledge ingests the given knowledge chunks one by one, logging and
// counting failures.
func (l *Loader) LoadKnowledge(ctx context.Context, chunks []core.DocumentChunk) Result {
	var res Result

	for _, chunk := range chunks {
		if err := l.withRetry(ctx, func(ctx context.Context) error {
			_, err := l.ingestor.AddDocument(ctx, chunk)
			return err
		}); err != nil {
			l.opts.Logger.Warn("knowledge load failed", "source", chunk.Source, "error", err)
			res.Failed++

			continue
		}

		res.Loaded++
	}

	return res
}

// LoadSamples ingests the curated sample catalog and knowledge base.
func (l *Loader) LoadSamples(ctx context.Context) Result {
	res := l.LoadChains(ctx, SampleChains())
	res.Add(l.LoadKnowledge(ctx, SampleKnowledge()))

	return res
}

// LoadFile ingests the chains from one JSON file. The file may hold a
// single chain object or an array of them.
func (l *Loader) LoadFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	chains, err := decodeChains(data)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return l.LoadChains(ctx, chains), nil
}

// LoadDir ingests every .json file in dir. Unreadable or unparseable files
// are logged and counted as one failure each; the remaining files still
// load.
func (l *Loader) LoadDir(ctx context.Context, dir string) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var res Result

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		fileRes, err := l.LoadFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			l.opts.Logger.Warn("file load failed", "file", entry.Name(), "error", err)
			res.Failed++

			continue
		}

		res.Add(fileRes)
	}

	return res, nil
}

// withRetry runs task under the configured backoff, retrying only provider
// outages. Validation and store-constraint failures are permanent.
func (l *Loader) withRetry(ctx context.Context, task func(ctx context.Context) error) error {
	return retry.Do(ctx, l.opts.Backoff(), func(ctx context.Context) error {
		err := task(ctx)
		if err != nil && errors.Is(err, core.ErrProviderUnavailable) {
			return retry.RetryableError(err)
		}

		return err
	})
}

func decodeChains(data []byte) ([]core.PluginChain, error) {
	var chains []core.PluginChain
	if err := json.Unmarshal(data, &chains); err == nil {
		return chains, nil
	}

	var chain core.PluginChain
	if err := json.Unmarshal(data, &chain); err != nil {
		return nil, err
	}

	return []core.PluginChain{chain}, nil
}
