package rule

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates a cache entry whenever its rules file changes on
// disk, so long-running callers observe edits without restarting.
type Watcher struct {
	fsw   *fsnotify.Watcher
	cache *Cache
	path  string
}

// NewWatcher watches the rules file at path on behalf of cache. The parent
// directory is watched rather than the file itself, so atomic replacement
// (write to temp, rename over) is observed too.
func NewWatcher(path string, cache *Cache) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	path = filepath.Clean(path)

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()

		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{fsw: fsw, cache: cache, path: path}, nil
}

// Run processes filesystem events until ctx is canceled or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}

			w.cache.Invalidate(w.path)
			slog.Debug("invalidated rules cache",
				slog.String("path", w.path),
				slog.String("op", ev.Op.String()),
			)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			slog.Warn("rules watcher", slog.Any("error", err))
		}
	}
}

// Close stops the watcher. A running [Watcher.Run] returns after Close.
func (w *Watcher) Close() error {
	return w.fsw.Close() //nolint:wrapcheck // Return the original error.
}
