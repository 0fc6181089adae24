package service

import (
	"bytes"
	"fmt"
	"image/png"
	"os"

	"github.com/nfnt/resize"
)

// DefaultThumbnailSize is the edge length of the square thumbnails are fitted into.
const DefaultThumbnailSize = 160

// ThumbStore persists encoded thumbnails. Entries are tied to the file's size
// and modification time so edits invalidate them.
type ThumbStore interface {
	Get(path string, fi os.FileInfo) ([]byte, bool, error)
	Put(path string, fi os.FileInfo, data []byte) error
}

// ThumbnailService produces PNG thumbnails, consulting a store first.
type ThumbnailService struct {
	images *ImageService
	store  ThumbStore // may be nil
	size   uint
	logger func(string)
}

// NewThumbnailService creates a ThumbnailService. A nil store disables caching
// and a size of 0 selects DefaultThumbnailSize.
func NewThumbnailService(images *ImageService, store ThumbStore, size uint, logger func(string)) *ThumbnailService {
	if size == 0 {
		size = DefaultThumbnailSize
	}
	if logger == nil {
		logger = func(string) {}
	}
	return &ThumbnailService{images: images, store: store, size: size, logger: logger}
}

// Size returns the thumbnail edge length.
func (ts *ThumbnailService) Size() uint {
	return ts.size
}

// Thumbnail returns PNG bytes of the oriented image downscaled to fit the
// thumbnail square. Cache failures are logged and otherwise ignored.
func (ts *ThumbnailService) Thumbnail(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if ts.store != nil {
		data, ok, err := ts.store.Get(path, fi)
		if err != nil {
			ts.logger(fmt.Sprintf("thumbnail cache read for %s: %v", path, err))
		} else if ok {
			return data, nil
		}
	}

	img, err := ts.images.Decode(path)
	if err != nil {
		return nil, err
	}
	thumb := resize.Thumbnail(ts.size, ts.size, img, resize.Lanczos3)

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, thumb); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail for %s: %w", path, err)
	}
	data := buf.Bytes()

	if ts.store != nil {
		if err := ts.store.Put(path, fi, data); err != nil {
			ts.logger(fmt.Sprintf("thumbnail cache write for %s: %v", path, err))
		}
	}
	return data, nil
}
