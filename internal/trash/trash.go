// Package trash moves files to the user's trash or removes them permanently.
//
// System uses the desktop's own trash through wastebasket, which also picks
// the per-volume trash for files on other filesystems. HomeTrash writes a
// freedesktop.org trash at a directory of the caller's choosing: the file
// goes to Dir/files and a .trashinfo record with the original path and
// deletion time goes to Dir/info.
package trash

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dockview/internal/apperr"

	"github.com/Bios-Marcel/wastebasket/v2"
)

const infoTimeLayout = "2006-01-02T15:04:05"

// Deleter removes image files on behalf of the viewer.
type Deleter interface {
	Trash(path string) (string, error)
	Remove(path string) error
}

// System is the desktop's trash.
type System struct{}

// NewSystem returns the desktop's trash.
func NewSystem() *System { return &System{} }

// Trash moves path into the desktop trash. The trash decides the final name,
// so the returned location is empty.
func (System) Trash(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperr.ErrDeleteFailed, path, err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", notFoundOr(abs, err)
	}
	if err := wastebasket.Trash(abs); err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperr.ErrDeleteFailed, abs, err)
	}
	return "", nil
}

// Remove deletes path permanently.
func (System) Remove(path string) error { return Remove(path) }

// HomeTrash is a freedesktop.org trash can rooted at Dir.
type HomeTrash struct {
	Dir string // the Trash directory itself
	now func() time.Time
}

// New returns a trash rooted at dir.
func New(dir string) *HomeTrash {
	return &HomeTrash{Dir: dir, now: time.Now}
}

// Trash moves path into the trash and returns where it ended up.
func (t *HomeTrash) Trash(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperr.ErrDeleteFailed, path, err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", notFoundOr(abs, err)
	}

	filesDir := filepath.Join(t.Dir, "files")
	infoDir := filepath.Join(t.Dir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return "", fmt.Errorf("%w: %s: %v", apperr.ErrDeleteFailed, abs, err)
		}
	}

	name, info, err := t.reserveInfo(infoDir, filepath.Base(abs))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperr.ErrDeleteFailed, abs, err)
	}

	record := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n", escapePath(abs), t.now().Format(infoTimeLayout))
	if _, err := info.WriteString(record); err != nil {
		info.Close()
		os.Remove(info.Name())
		return "", fmt.Errorf("%w: %s: %v", apperr.ErrDeleteFailed, abs, err)
	}
	info.Close()

	dest := filepath.Join(filesDir, name)
	if err := os.Rename(abs, dest); err != nil {
		// Usually a cross-device move; the trash must be on the file's filesystem.
		os.Remove(info.Name())
		return "", fmt.Errorf("%w: %s: %v", apperr.ErrDeleteFailed, abs, err)
	}
	return dest, nil
}

// reserveInfo creates the .trashinfo file exclusively, picking "name", then
// "name.2", "name.3" and so on until one is free.
func (t *HomeTrash) reserveInfo(infoDir, base string) (string, *os.File, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; i < 10000; i++ {
		name := base
		if i > 1 {
			name = stem + "." + strconv.Itoa(i) + ext
		}
		f, err := os.OpenFile(filepath.Join(infoDir, name+".trashinfo"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		if _, err := os.Lstat(filepath.Join(t.Dir, "files", name)); err == nil {
			// Orphaned file without info; keep looking.
			f.Close()
			os.Remove(f.Name())
			continue
		}
		return name, f, nil
	}
	return "", nil, fmt.Errorf("no free name for %s in trash", base)
}

// Remove deletes path permanently.
func (t *HomeTrash) Remove(path string) error { return Remove(path) }

// Remove deletes path permanently. It needs no trash.
func Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return notFoundOr(path, err)
	}
	return nil
}

func notFoundOr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w: %s", apperr.ErrDeleteFailed, apperr.ErrPathNotFound, path)
	}
	return fmt.Errorf("%w: %s: %v", apperr.ErrDeleteFailed, path, err)
}

// escapePath percent-encodes a path for the Path= key, keeping separators.
func escapePath(p string) string {
	parts := strings.Split(filepath.ToSlash(p), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
