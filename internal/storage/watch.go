package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"focusloop/internal/logging"
	"focusloop/internal/preferences"
)

const reloadDelay = 150 * time.Millisecond

// Watch streams the re-parsed settings file every time it changes on disk,
// until ctx is cancelled. Editors that replace the file are handled by
// watching its directory. A file that fails to parse is logged and skipped.
func Watch(ctx context.Context, configPath string, logger *slog.Logger) (<-chan preferences.Settings, error) {
	logger = logging.OrDiscard(logger).With("component", "settings-watch")
	configPath = filepath.Clean(configPath)
	dir := filepath.Dir(configPath)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	updates := make(chan preferences.Settings, 4)
	reload := make(chan struct{}, 1)

	go func() {
		defer close(updates)
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warn("close settings watcher", "error", err)
			}
		}()

		debounce := newDebouncer(reloadDelay, func() {
			select {
			case reload <- struct{}{}:
			default:
			}
		})
		defer debounce.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("settings watcher error", "error", err)
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != configPath {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				debounce.Trigger()
			case <-reload:
				settings, err := LoadSettings(configPath)
				if err != nil {
					logger.Warn("settings reload skipped", "path", configPath, "error", err)
					continue
				}
				logger.Info("settings reloaded", "path", configPath)
				select {
				case updates <- settings:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return updates, nil
}

// debouncer coalesces a burst of writes into a single reload.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fire  func()
}

func newDebouncer(delay time.Duration, fire func()) *debouncer {
	return &debouncer{delay: delay, fire: fire}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
