package navigator

import (
	"fmt"
	"math"
)

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

// String formats the size as WxH.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Instruction tells the presentation layer what to draw.
type Instruction struct {
	Path     string
	Index    int
	Count    int
	Rotation int     // degrees clockwise
	Scale    float64 // effective scale applied to the rotated image
	Target   Size    // pixel size to draw at
	Fit      bool
}

// FitScale returns the largest scale at which an image of size img fits in
// viewport, never above 1.0. An unknown viewport or image gives 1.0.
func FitScale(viewport, img Size) float64 {
	if viewport.W <= 0 || viewport.H <= 0 || img.W <= 0 || img.H <= 0 {
		return 1.0
	}
	s := math.Min(float64(viewport.W)/float64(img.W), float64(viewport.H)/float64(img.H))
	return math.Min(s, 1.0)
}

// RotatedSize returns the bounds of an image of size s after rotating it.
func RotatedSize(s Size, rotation int) Size {
	if rotation%180 != 0 {
		return Size{W: s.H, H: s.W}
	}
	return s
}

// Instruction computes how to show the current image. intrinsic is the
// decoded, unrotated image size; viewport is the drawable area.
func (n *Navigator) Instruction(viewport, intrinsic Size) (Instruction, error) {
	path, err := n.Current()
	if err != nil {
		return Instruction{}, err
	}
	rotated := RotatedSize(intrinsic, n.view.Rotation)

	scale := n.view.Scale
	if n.view.FitToWindow {
		scale = FitScale(viewport, rotated)
	}

	return Instruction{
		Path:     path,
		Index:    n.index,
		Count:    len(n.set),
		Rotation: n.view.Rotation,
		Scale:    scale,
		Target:   scaleSize(rotated, scale),
		Fit:      n.view.FitToWindow,
	}, nil
}

func scaleSize(s Size, scale float64) Size {
	w := int(math.Round(float64(s.W) * scale))
	h := int(math.Round(float64(s.H) * scale))
	if s.W > 0 && w < 1 {
		w = 1
	}
	if s.H > 0 && h < 1 {
		h = 1
	}
	return Size{W: w, H: h}
}
