// Package watch notices when the loaded folder changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dockview/internal/log"
	"dockview/internal/scan"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of events (a copy of many files, an editor's
// save dance) into a single notification.
const DefaultDebounce = 250 * time.Millisecond

// Watcher monitors one directory and calls onChange after image files in it
// appear, disappear or are rewritten.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	debounce  time.Duration
	onChange  func()
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a watcher for dir. onChange is called from the watcher's goroutine.
func New(dir string, debounce time.Duration, onChange func()) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		dir:       dir,
		debounce:  debounce,
		onChange:  onChange,
		logger:    log.WithComponent("watch").With(slog.String("dir", dir)),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// relevant reports whether an event can change the image set.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return scan.IsImage(filepath.Base(ev.Name))
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()
	defer w.fsWatcher.Close()

	w.logger.Debug("watching directory")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("file event", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			if !pending {
				pending = true
				timer.Reset(w.debounce)
			}

		case <-timer.C:
			pending = false
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify watcher error", slog.Any("error", err))
		}
	}
}
