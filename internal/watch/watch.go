// Package watch re-runs a callback when a configuration document changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches one document file.
//
// The parent directory is watched rather than the file, so editors that
// save by writing a temporary file and renaming it over the document are
// seen as a change. A burst of events within the debounce window triggers
// a single callback.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	fs       *fsnotify.Watcher
}

// New starts watching path. The caller must Close the watcher.
func New(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, debounce: debounce, logger: logger, fs: fs}, nil
}

// Path returns the absolute path of the watched document.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run calls onChange after every debounced change of the document until
// ctx is cancelled. onChange runs on the Run goroutine; events arriving
// while it runs are coalesced into the next call.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	w.logger.Info("watcher: started", slog.String("path", w.path))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("watcher: stopped")
			return nil

		case <-fire:
			w.logger.Debug("watcher: document changed", slog.String("path", w.path))
			onChange(ctx)

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			schedule()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watcher: events dropped", slog.String("error", err.Error()))
				schedule()
				continue
			}
			w.logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
