package ui

import (
	"image"
	"image/color"

	"dockview/internal/navigator"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/disintegration/imaging"
)

// ImageArea shows an already scaled and rotated frame, centred when it is
// smaller than the area and pannable by dragging when it is larger. Zoom and
// resize are reported to the owner, which renders a new frame.
type ImageArea struct {
	widget.BaseWidget

	frame  image.Image
	raster *canvas.Raster

	panOffset    fyne.Position // in device pixels, applied to the centred frame
	isPanning    bool
	lastMousePos fyne.Position
	pixelScale   float32 // device pixels per fyne unit, learnt from the last draw

	OnZoom      func(factor float64) // mouse wheel
	OnResize    func()
	OnDoubleTap func()
}

// NewImageArea creates an empty ImageArea.
func NewImageArea() *ImageArea {
	ia := &ImageArea{pixelScale: 1}
	ia.raster = canvas.NewRaster(ia.draw)
	ia.ExtendBaseWidget(ia)
	return ia
}

// SetImage replaces the displayed frame. A nil frame clears the area.
// Panning is kept so zooming a dragged image stays near the same spot.
func (ia *ImageArea) SetImage(frame image.Image) {
	if frame == nil {
		ia.panOffset = fyne.Position{}
	}
	ia.frame = frame
	ia.Refresh()
}

// Frame returns the displayed frame.
func (ia *ImageArea) Frame() image.Image { return ia.frame }

// ResetPan recentres the frame.
func (ia *ImageArea) ResetPan() {
	ia.panOffset = fyne.Position{}
	ia.Refresh()
}

// Resize remembers the new size and tells the owner about it.
func (ia *ImageArea) Resize(size fyne.Size) {
	changed := size != ia.Size()
	ia.BaseWidget.Resize(size)
	if changed && ia.OnResize != nil {
		ia.OnResize()
	}
}

// frameOrigin returns where the frame's top-left corner goes in a view of
// size view, with pan clamped so a large frame never leaves a gap.
func frameOrigin(view, frame navigator.Size, pan fyne.Position) image.Point {
	axis := func(v, f int, p float32) int {
		if f <= v {
			return (v - f) / 2
		}
		o := (v-f)/2 + int(p)
		if o > 0 {
			o = 0
		}
		if o < v-f {
			o = v - f
		}
		return o
	}
	return image.Pt(axis(view.W, frame.W, pan.X), axis(view.H, frame.H, pan.Y))
}

// draw is the rendering function for the canvas.Raster.
func (ia *ImageArea) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	if s := ia.Size(); s.Width > 0 {
		ia.pixelScale = float32(w) / s.Width
	}
	dst := imaging.New(w, h, color.Transparent)
	if ia.frame == nil {
		return dst
	}
	b := ia.frame.Bounds()
	at := frameOrigin(navigator.Size{W: w, H: h}, navigator.Size{W: b.Dx(), H: b.Dy()}, ia.panOffset)
	return imaging.Paste(dst, ia.frame, at)
}

// CreateRenderer is a Fyne lifecycle method.
func (ia *ImageArea) CreateRenderer() fyne.WidgetRenderer {
	return &imageAreaRenderer{ia: ia}
}

// Scrolled handles mouse wheel events for zooming.
func (ia *ImageArea) Scrolled(ev *fyne.ScrollEvent) {
	if ia.OnZoom == nil || ia.frame == nil {
		return
	}
	switch {
	case ev.Scrolled.DY > 0:
		ia.OnZoom(navigator.WheelZoomStep)
	case ev.Scrolled.DY < 0:
		ia.OnZoom(1 / navigator.WheelZoomStep)
	}
}

// DoubleTapped toggles fit-to-window through the owner.
func (ia *ImageArea) DoubleTapped(_ *fyne.PointEvent) {
	if ia.OnDoubleTap != nil {
		ia.OnDoubleTap()
	}
}

// MouseDown starts panning.
func (ia *ImageArea) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		ia.isPanning = true
		ia.lastMousePos = ev.Position
	}
}

// MouseUp stops panning.
func (ia *ImageArea) MouseUp(_ *desktop.MouseEvent) {
	ia.isPanning = false
}

// Dragged handles mouse drag for panning.
func (ia *ImageArea) Dragged(ev *fyne.DragEvent) {
	if !ia.isPanning || ia.frame == nil {
		return
	}
	delta := ev.Position.Subtract(ia.lastMousePos)
	ia.panOffset = ia.panOffset.Add(fyne.NewPos(delta.X*ia.pixelScale, delta.Y*ia.pixelScale))
	ia.clampPan()
	ia.lastMousePos = ev.Position
	ia.Refresh()
}

// clampPan keeps the offset within what draw can use, so reversing a drag
// past the edge responds at once.
func (ia *ImageArea) clampPan() {
	b := ia.frame.Bounds()
	s := ia.Size()
	limit := func(p float32, view, frame int) float32 {
		edge := float32(frame-view) / 2
		if edge < 0 {
			return 0
		}
		if p > edge {
			return edge
		}
		if p < -edge {
			return -edge
		}
		return p
	}
	ia.panOffset.X = limit(ia.panOffset.X, int(s.Width*ia.pixelScale), b.Dx())
	ia.panOffset.Y = limit(ia.panOffset.Y, int(s.Height*ia.pixelScale), b.Dy())
}

// DragEnd finalizes panning.
func (ia *ImageArea) DragEnd() {
	ia.isPanning = false
}

// --- Renderer for ImageArea ---
type imageAreaRenderer struct{ ia *ImageArea }

func (r *imageAreaRenderer) Layout(size fyne.Size)        { r.ia.raster.Resize(size) }
func (r *imageAreaRenderer) MinSize() fyne.Size           { return fyne.NewSize(100, 100) }
func (r *imageAreaRenderer) Refresh()                     { canvas.Refresh(r.ia.raster) }
func (r *imageAreaRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.ia.raster} }
func (r *imageAreaRenderer) Destroy()                     {}

var _ fyne.Widget = (*ImageArea)(nil)
var _ fyne.Scrollable = (*ImageArea)(nil)
var _ fyne.Draggable = (*ImageArea)(nil)
var _ fyne.DoubleTappable = (*ImageArea)(nil)
var _ desktop.Mouseable = (*ImageArea)(nil)
