// Package navigator owns the loaded image set, the cursor into it and the
// view parameters, and turns them into rendering instructions.
//
// A Navigator is not safe for concurrent use. The presentation layer owns one
// value and calls it from its event thread only.
package navigator

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"dockview/internal/apperr"
	"dockview/internal/scan"
)

const (
	// Empty is the cursor value when no images are loaded.
	Empty = -1

	MinScale     = 0.05
	MaxScale     = 20.0
	DefaultScale = 1.0

	// ZoomStep is the factor applied by the zoom in/out commands.
	ZoomStep = 1.2
	// WheelZoomStep is the factor applied per ctrl+wheel notch.
	WheelZoomStep = 1.15
)

// ViewState holds the display parameters of the current image.
type ViewState struct {
	Scale       float64
	FitToWindow bool
	Rotation    int // degrees clockwise, 0, 90, 180 or 270
}

// Navigator tracks the image set and how the current image is shown.
type Navigator struct {
	set    scan.ImageSet
	index  int
	source string // directory the set was listed from, empty for explicit file lists
	view   ViewState
}

// New returns a Navigator with nothing loaded.
func New() *Navigator {
	return &Navigator{
		index: Empty,
		view:  ViewState{Scale: DefaultScale},
	}
}

// Open loads a directory, or a single file together with its siblings.
func (n *Navigator) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fi, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", apperr.ErrPathNotFound, abs)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", abs, err)
	}

	if fi.IsDir() {
		set, err := scan.LoadDirectory(abs)
		if err != nil {
			return err
		}
		n.replace(set, 0, abs)
		return nil
	}

	set, idx, err := scan.LoadExplicitFile(abs)
	if err != nil {
		return err
	}
	n.replace(set, idx, filepath.Dir(abs))
	return nil
}

// OpenFiles loads an explicit list of files in the given order.
func (n *Navigator) OpenFiles(paths []string) error {
	set := scan.LoadFiles(paths)
	n.replace(set, 0, "")
	if len(set) == 0 {
		return fmt.Errorf("%w: none of %d chosen files is a readable image", apperr.ErrEmptySet, len(paths))
	}
	return nil
}

// Load replaces the set directly. It is used by callers that built the set
// themselves; index is clamped into range.
func (n *Navigator) Load(set scan.ImageSet, index int, source string) {
	n.replace(set, index, source)
}

func (n *Navigator) replace(set scan.ImageSet, index int, source string) {
	n.set = set
	n.source = source
	n.index = Empty
	if len(set) > 0 {
		n.index = clamp(index, 0, len(set)-1)
	}
	n.resetView()
}

// Refresh re-lists the source directory. The current file stays current if it
// still exists, keeping its view state. Sets opened from explicit files are
// pruned of vanished entries instead. When the source directory itself is
// gone the set becomes empty.
func (n *Navigator) Refresh() error {
	var current string
	if n.index != Empty {
		current = n.set[n.index]
	}

	var set scan.ImageSet
	if n.source != "" {
		s, err := scan.LoadDirectory(n.source)
		if errors.Is(err, apperr.ErrPathNotFound) {
			n.replace(nil, 0, "")
			return err
		}
		if err != nil {
			return err
		}
		set = s
	} else {
		set = scan.LoadFiles(n.set)
	}

	if i := set.IndexOf(current); current != "" && i >= 0 {
		n.set = set
		n.index = i
		return nil
	}

	old := n.index
	n.set = set
	n.index = Empty
	if len(set) > 0 {
		n.index = clamp(old, 0, len(set)-1)
	}
	n.resetView()
	return nil
}

// Next advances to the following image, wrapping at the end.
func (n *Navigator) Next() error {
	return n.step(1)
}

// Previous moves to the preceding image, wrapping at the start.
func (n *Navigator) Previous() error {
	return n.step(-1)
}

func (n *Navigator) step(delta int) error {
	if len(n.set) == 0 {
		return apperr.ErrEmptySet
	}
	l := len(n.set)
	n.moveTo(((n.index+delta)%l + l) % l)
	return nil
}

// First jumps to the first image.
func (n *Navigator) First() error {
	if len(n.set) == 0 {
		return apperr.ErrEmptySet
	}
	n.moveTo(0)
	return nil
}

// Last jumps to the last image.
func (n *Navigator) Last() error {
	if len(n.set) == 0 {
		return apperr.ErrEmptySet
	}
	n.moveTo(len(n.set) - 1)
	return nil
}

// Jump makes index the current image.
func (n *Navigator) Jump(index int) error {
	if len(n.set) == 0 {
		return apperr.ErrEmptySet
	}
	if index < 0 || index >= len(n.set) {
		return fmt.Errorf("%w: %d (count %d)", apperr.ErrIndexOutOfRange, index, len(n.set))
	}
	n.moveTo(index)
	return nil
}

// moveTo sets the cursor. Rotation and scale reset only when the displayed
// file changes, which a one-element set never does.
func (n *Navigator) moveTo(index int) {
	if index == n.index {
		return
	}
	n.index = index
	n.resetView()
}

// resetView restores rotation and scale. Fit-to-window is a mode, not a
// per-image setting, and survives.
func (n *Navigator) resetView() {
	n.view.Scale = DefaultScale
	n.view.Rotation = 0
}

// ApplyZoom multiplies the scale by factor and leaves fit-to-window mode.
func (n *Navigator) ApplyZoom(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidZoom, factor)
	}
	n.view.FitToWindow = false
	n.view.Scale = clampFloat(n.view.Scale*factor, MinScale, MaxScale)
	return nil
}

// ResetZoom shows the image at its intrinsic size.
func (n *Navigator) ResetZoom() {
	n.view.FitToWindow = false
	n.view.Scale = DefaultScale
}

// SetFitToWindow switches fit mode. The stored scale is kept and applies
// again once fit mode is left.
func (n *Navigator) SetFitToWindow(enabled bool) {
	n.view.FitToWindow = enabled
}

// ToggleFit flips fit mode and returns the new value.
func (n *Navigator) ToggleFit() bool {
	n.view.FitToWindow = !n.view.FitToWindow
	return n.view.FitToWindow
}

// Rotate turns the current image by delta degrees clockwise.
func (n *Navigator) Rotate(delta int) error {
	if delta%90 != 0 {
		return fmt.Errorf("%w: %d", apperr.ErrInvalidRotation, delta)
	}
	n.view.Rotation = ((n.view.Rotation+delta)%360 + 360) % 360
	return nil
}

// RemoveCurrent drops the current entry from the set and returns its path.
// Deleting the file itself is up to the caller. The cursor stays on the same
// position, which now holds the following image, or moves to the new last one.
func (n *Navigator) RemoveCurrent() (string, error) {
	if len(n.set) == 0 {
		return "", apperr.ErrEmptySet
	}
	removed := n.set[n.index]
	set := make(scan.ImageSet, 0, len(n.set)-1)
	set = append(set, n.set[:n.index]...)
	set = append(set, n.set[n.index+1:]...)
	n.set = set

	if len(n.set) == 0 {
		n.index = Empty
	} else {
		n.index = clamp(n.index, 0, len(n.set)-1)
	}
	n.resetView()
	return removed, nil
}

// Current returns the path of the current image.
func (n *Navigator) Current() (string, error) {
	if n.index == Empty {
		return "", apperr.ErrEmptySet
	}
	return n.set[n.index], nil
}

// Position returns the cursor and the size of the set.
func (n *Navigator) Position() (index, count int) {
	return n.index, len(n.set)
}

// Images returns a copy of the current set.
func (n *Navigator) Images() scan.ImageSet {
	out := make(scan.ImageSet, len(n.set))
	copy(out, n.set)
	return out
}

// Source returns the directory the set was listed from, or "" for explicit files.
func (n *Navigator) Source() string {
	return n.source
}

// View returns the current view state.
func (n *Navigator) View() ViewState {
	return n.view
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
