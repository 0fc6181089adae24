// Package thumbcache stores encoded thumbnails in a BoltDB file so the
// thumbnail strip does not decode every image again on each start.
package thumbcache

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	bolt "go.etcd.io/bbolt"
)

const (
	dbFileName       = "dockview_thumbs.db"
	ThumbnailsBucket = "Thumbnails" // key: path + "\x00" + size + "\x00" + mtime, value: PNG bytes
)

// keySep separates the path from the size and mtime. It cannot occur in a path.
const keySep = "\x00"

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

// Cache wraps the thumbnail database.
type Cache struct {
	db     *bolt.DB
	logger LoggerFunc
}

// DefaultDir returns the directory the cache lives in when none is given.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("could not get user cache dir: %w", err)
	}
	return filepath.Join(cacheDir, "dockview"), nil
}

// Open creates or opens the cache file in dir. An empty dir selects DefaultDir.
func Open(dir string, logger LoggerFunc) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			log.Printf("Warning: %v. Using current dir.", err)
			d = "."
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	c := &Cache{logger: logger}
	c.logMessage("Using thumbnail cache at: %s", dbPath)

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open thumbnail cache %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(ThumbnailsBucket)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", ThumbnailsBucket, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	c.db = db
	return c, nil
}

func (c *Cache) logMessage(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// Close closes the database.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func pathPrefix(path string) []byte {
	return []byte(path + keySep)
}

func entryKey(path string, fi os.FileInfo) []byte {
	return []byte(path + keySep + strconv.FormatInt(fi.Size(), 10) + keySep + strconv.FormatInt(fi.ModTime().UnixNano(), 10))
}

// pathOf recovers the image path from a key.
func pathOf(key []byte) string {
	if i := bytes.Index(key, []byte(keySep)); i >= 0 {
		return string(key[:i])
	}
	return string(key)
}

// Get returns the cached thumbnail for the file at path if it is still current.
func (c *Cache) Get(path string, fi os.FileInfo) ([]byte, bool, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ThumbnailsBucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", ThumbnailsBucket)
		}
		if v := b.Get(entryKey(path, fi)); v != nil {
			// Bolt values are only valid inside the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

// Put stores a thumbnail, dropping entries for older versions of the file.
func (c *Cache) Put(path string, fi os.FileInfo, data []byte) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ThumbnailsBucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", ThumbnailsBucket)
		}
		if err := deletePrefix(b, pathPrefix(path)); err != nil {
			return err
		}
		return b.Put(entryKey(path, fi), data)
	})
}

// Remove drops every entry for path.
func (c *Cache) Remove(path string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ThumbnailsBucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", ThumbnailsBucket)
		}
		return deletePrefix(b, pathPrefix(path))
	})
}

func deletePrefix(b *bolt.Bucket, prefix []byte) error {
	var keys [][]byte
	cur := b.Cursor()
	for k, _ := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return fmt.Errorf("failed to delete cache entry %q: %w", pathOf(k), err)
		}
	}
	return nil
}

// Len returns the number of cached thumbnails.
func (c *Cache) Len() (int, error) {
	n := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ThumbnailsBucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", ThumbnailsBucket)
		}
		return b.ForEach(func(_, _ []byte) error {
			n++
			return nil
		})
	})
	return n, err
}

// Prune removes entries whose file no longer exists or has changed since it
// was cached. It returns the number of entries removed.
func (c *Cache) Prune() (int, error) {
	var stale [][]byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ThumbnailsBucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", ThumbnailsBucket)
		}
		return b.ForEach(func(k, _ []byte) error {
			fi, err := os.Stat(pathOf(k))
			if err != nil || !bytes.Equal(k, entryKey(pathOf(k), fi)) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan thumbnail cache: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ThumbnailsBucket))
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune thumbnail cache: %w", err)
	}
	c.logMessage("Pruned %d stale thumbnails", len(stale))
	return len(stale), nil
}
