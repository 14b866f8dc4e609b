package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/wcar/internal/infrastructure/logging"
)

// DefaultDebounce coalesces the burst of events an editor produces when it
// saves a file.
const DefaultDebounce = 250 * time.Millisecond

// AppsWatcher reloads an Apps policy whenever its file changes on disk.
type AppsWatcher struct {
	apps     *Apps
	logger   *logging.Logger
	debounce time.Duration

	// OnReload, when set, is called after every reload attempt.
	OnReload func(err error)
}

// NewAppsWatcher creates a watcher for apps.
func NewAppsWatcher(apps *Apps, logger *logging.Logger) *AppsWatcher {
	return &AppsWatcher{
		apps:     apps,
		logger:   logging.OrNop(logger).Component("apps-watcher"),
		debounce: DefaultDebounce,
	}
}

// Run watches until ctx is done. The parent directory is watched rather
// than the file, since editors commonly replace the file on save.
func (w *AppsWatcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.apps.Path())
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("Watching tracked-app file", zap.String("path", w.apps.Path()))

	target := filepath.Clean(w.apps.Path())
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", zap.Error(err))

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *AppsWatcher) reload() {
	err := w.apps.Reload()
	switch {
	case err == nil:
		w.logger.Info("Tracked apps reloaded", zap.Int("apps", len(w.apps.Current())))
	case errors.Is(err, ErrCorruptApps):
		w.logger.Warn("Tracked-app file corrupt, using defaults", zap.Error(err))
	default:
		w.logger.Warn("Tracked-app reload failed, keeping previous policy", zap.Error(err))
	}
	if w.OnReload != nil {
		w.OnReload(err)
	}
}
