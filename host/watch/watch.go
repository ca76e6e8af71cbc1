// Package watch pushes a text file to the keyboard whenever it changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"kbhooks/host/logging"
)

// DefaultDebounce is how long the file must be quiet before it is synced.
const DefaultDebounce = 500 * time.Millisecond

// SyncFunc receives the new file contents.
type SyncFunc func(ctx context.Context, text string) error

// Watcher calls a SyncFunc with the contents of one file after each
// burst of changes.
type Watcher struct {
	path     string
	debounce time.Duration
	sync     SyncFunc
	initial  bool
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a sync.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithInitialSync syncs the file once before waiting for changes.
func WithInitialSync() Option {
	return func(w *Watcher) { w.initial = true }
}

// New creates a watcher for path.
func New(path string, sync SyncFunc, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		sync:     sync,
		logger:   logging.GetLogger("watch"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done. The directory is watched rather than the
// file, so editors that replace the file on save keep working.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.logger.Info("watching", "path", w.path, "debounce", w.debounce)

	if w.initial {
		w.syncFile(ctx)
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("change detected", "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.syncFile(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) syncFile(ctx context.Context) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("read failed", "path", w.path, "error", err)
		return
	}
	if err := w.sync(ctx, string(data)); err != nil {
		w.logger.Warn("sync failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("synced", "path", w.path, "bytes", len(data))
}
