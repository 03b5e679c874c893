package catalog

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/hupe1980/chainrag/logging"
)

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Logger provides structured logging. Defaults to NoOp logger if nil.
	Logger logging.Logger
}

// Watcher monitors a directory for new or changed chain JSON files and
// ingests them through a Loader. A file written in several bursts may fail
// to parse on an early write event; the final write event loads it.
type Watcher struct {
	watcher *fsnotify.Watcher
	loader  *Loader
	logger  logging.Logger
}

// NewWatcher creates a directory watcher that feeds the given loader.
func NewWatcher(loader *Loader, optFns ...func(o *WatcherOptions)) (*Watcher, error) {
	opts := WatcherOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: w,
		loader:  loader,
		logger:  opts.Logger,
	}, nil
}

// Watch ingests chain files from dir until ctx is cancelled. Create and
// write events on .json files trigger a load; everything else is ignored.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	w.logger.Info("watching for chain files", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}

			res, err := w.loader.LoadFile(ctx, event.Name)
			if err != nil {
				w.logger.Warn("watched file load failed", "file", event.Name, "error", err)
				continue
			}

			w.logger.Info("watched file loaded", "file", event.Name, "loaded", res.Loaded, "failed", res.Failed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
