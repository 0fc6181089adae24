// Package scan builds image sets from directories and explicitly chosen files.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dockview/internal/apperr"

	"github.com/maruel/natural"
)

// ImageSet is an ordered list of image paths without duplicates.
type ImageSet []string

// supportedExts lists the extensions the viewer can decode.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
}

// IsImage checks if a file name carries a supported image extension.
func IsImage(n string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(n))]
}

// SupportedExtensions returns the supported extensions, sorted, with the leading dot.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExts))
	for e := range supportedExts {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

// NaturalLess orders file names by natural order: digit runs compare
// numerically, everything else case-insensitively. Names that are equal
// under that order, such as "img01" and "img1", fall back to a byte
// comparison so the result is total.
func NaturalLess(a, b string) bool {
	la, lb := strings.ToLower(filepath.Base(a)), strings.ToLower(filepath.Base(b))
	if less, ok := longRunLess(la, lb); ok {
		return less
	}
	if natural.Less(la, lb) {
		return true
	}
	if natural.Less(lb, la) {
		return false
	}
	if la != lb {
		return la < lb
	}
	return a < b
}

// maxShortRun is the longest digit run natural.Less can parse into a uint64
// for every value.
const maxShortRun = 19

// longRunLess decides a and b when their first differing chunks are digit
// runs too long for natural.Less. ok is false when natural.Less can decide.
func longRunLess(a, b string) (less, ok bool) {
	for a != "" && b != "" {
		ca, ra := nextChunk(a)
		cb, rb := nextChunk(b)
		if ca == cb {
			a, b = ra, rb
			continue
		}
		if !isDigit(ca[0]) || !isDigit(cb[0]) {
			return false, false
		}
		na, nb := strings.TrimLeft(ca, "0"), strings.TrimLeft(cb, "0")
		if len(na) <= maxShortRun && len(nb) <= maxShortRun {
			return false, false
		}
		if len(na) != len(nb) {
			return len(na) < len(nb), true
		}
		if na != nb {
			return na < nb, true
		}
		return false, false
	}
	return false, false
}

// nextChunk splits off the leading run of digits or non-digits.
func nextChunk(s string) (string, string) {
	digits := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// SortNatural sorts paths in place by NaturalLess.
func SortNatural(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return NaturalLess(paths[i], paths[j])
	})
}

func statPath(p string) (os.FileInfo, error) {
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrPathNotFound, p)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	return fi, nil
}

// LoadDirectory lists the supported images directly under dir in natural order.
// Sub-directories are not descended into.
func LoadDirectory(dir string) (ImageSet, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	fi, err := statPath(abs)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotDirectory, abs)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", abs, err)
	}

	set := ImageSet{}
	for _, e := range entries {
		if !IsImage(e.Name()) {
			continue
		}
		p := filepath.Join(abs, e.Name())
		if !e.Type().IsRegular() {
			// Symlinks are followed; anything that is not a regular file in the end is skipped.
			if e.Type()&fs.ModeSymlink == 0 {
				continue
			}
			target, err := os.Stat(p)
			if err != nil || !target.Mode().IsRegular() {
				continue
			}
		}
		set = append(set, p)
	}
	SortNatural(set)
	return set, nil
}

// LoadExplicitFile builds the set of path's supported siblings and returns the
// position of path within it.
func LoadExplicitFile(path string) (ImageSet, int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, err := statPath(abs); err != nil {
		return nil, -1, err
	}
	set, err := LoadDirectory(filepath.Dir(abs))
	if err != nil {
		return nil, -1, err
	}
	for i, p := range set {
		if p == abs {
			return set, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %s is not a supported image", apperr.ErrPathNotFound, abs)
}

// LoadFiles keeps the existing supported files among paths, in the given order.
// Later duplicates of a path are dropped.
func LoadFiles(paths []string) ImageSet {
	seen := make(map[string]bool, len(paths))
	set := ImageSet{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil || seen[abs] || !IsImage(abs) {
			continue
		}
		fi, err := os.Stat(abs)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		seen[abs] = true
		set = append(set, abs)
	}
	return set
}

// IndexOf returns the position of p in the set, or -1.
func (s ImageSet) IndexOf(p string) int {
	for i, x := range s {
		if x == p {
			return i
		}
	}
	return -1
}
