package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// RemovalCallback is invoked when a stored object disappears from the
// uploads directory outside the application's own delete path.
type RemovalCallback func(name string)

// Watch starts an fsnotify watcher on the uploads root and reports object
// removals until ctx is cancelled. The attachment index is never repaired
// automatically; removals are surfaced so operators can spot rows whose
// physical file is gone.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb RemovalCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			// Ignore our own atomic-write temp files.
			if strings.HasPrefix(name, ".noteboard-tmp-") {
				continue
			}
			logger.Warn("watcher: stored object removed",
				slog.String("name", name))
			if cb != nil {
				cb(name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
