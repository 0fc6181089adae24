package ui

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dockview/internal/log"
	"dockview/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const (
	// ThumbnailTileSize is the on-screen edge of a thumbnail tile.
	ThumbnailTileSize = 96

	// thumbnailWorkers bounds concurrent thumbnail decodes.
	thumbnailWorkers = 4
)

// thumbEntry is a generated thumbnail and the file's mtime it was made from.
type thumbEntry struct {
	res     fyne.Resource
	modTime time.Time
}

// ThumbnailManager keeps thumbnail resources in memory and generates missing
// or outdated ones in the background through the ThumbnailService.
type ThumbnailManager struct {
	service    *service.ThumbnailService
	cache      map[string]thumbEntry
	pending    map[string][]func(fyne.Resource)
	cacheMutex sync.Mutex
	slots      chan struct{}
	logger     *slog.Logger
}

// NewThumbnailManager creates a new thumbnail manager.
func NewThumbnailManager(ts *service.ThumbnailService) *ThumbnailManager {
	return &ThumbnailManager{
		service: ts,
		cache:   make(map[string]thumbEntry),
		pending: make(map[string][]func(fyne.Resource)),
		slots:   make(chan struct{}, thumbnailWorkers),
		logger:  log.WithComponent("thumbnails"),
	}
}

// GetThumbnail returns the cached thumbnail for path, or a placeholder while
// it is generated; onComplete then runs on the Fyne thread with the result.
// A thumbnail made before the file was last modified is generated again.
func (tm *ThumbnailManager) GetThumbnail(path string, onComplete func(fyne.Resource)) fyne.Resource {
	modTime := fileModTime(path)
	tm.cacheMutex.Lock()
	if e, ok := tm.cache[path]; ok && e.modTime.Equal(modTime) {
		tm.cacheMutex.Unlock()
		return e.res
	}
	waiters, inFlight := tm.pending[path]
	tm.pending[path] = append(waiters, onComplete)
	tm.cacheMutex.Unlock()

	if !inFlight {
		go tm.generate(path, modTime)
	}
	return theme.FileImageIcon()
}

func (tm *ThumbnailManager) generate(path string, modTime time.Time) {
	tm.slots <- struct{}{}
	data, err := tm.service.Thumbnail(path)
	<-tm.slots

	tm.cacheMutex.Lock()
	waiters := tm.pending[path]
	delete(tm.pending, path)
	var res fyne.Resource
	if err == nil {
		res = fyne.NewStaticResource(filepath.Base(path)+".thumb.png", data)
		tm.cache[path] = thumbEntry{res: res, modTime: modTime}
	}
	tm.cacheMutex.Unlock()

	if err != nil {
		tm.logger.Warn("thumbnail failed", slog.String("file", path), slog.Any("error", err))
		res = theme.BrokenImageIcon()
	}
	fyne.Do(func() {
		for _, w := range waiters {
			if w != nil {
				w(res)
			}
		}
	})
}

// Forget drops the in-memory thumbnail for path.
func (tm *ThumbnailManager) Forget(path string) {
	tm.cacheMutex.Lock()
	delete(tm.cache, path)
	tm.cacheMutex.Unlock()
}

// fileModTime returns path's mtime, or the zero time when it cannot be read.
func fileModTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
