package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// tappableImage is a thumbnail tile: an image over a highlight that shows
// hover and selection, running onTapped when clicked.
type tappableImage struct {
	widget.BaseWidget
	image    *canvas.Image
	frame    *canvas.Rectangle
	onTapped func()

	hovered  bool
	selected bool
}

func newTappableImage(res fyne.Resource, onTapped func()) *tappableImage {
	ti := &tappableImage{
		image:    canvas.NewImageFromResource(res),
		frame:    canvas.NewRectangle(color.Transparent),
		onTapped: onTapped,
	}
	ti.image.FillMode = canvas.ImageFillContain
	ti.image.ScaleMode = canvas.ImageScaleSmooth
	ti.frame.CornerRadius = theme.InputRadiusSize()
	ti.ExtendBaseWidget(ti)
	return ti
}

func (t *tappableImage) CreateRenderer() fyne.WidgetRenderer {
	return &tileRenderer{tile: t}
}

func (t *tappableImage) Tapped(_ *fyne.PointEvent) {
	if t.onTapped != nil {
		t.onTapped()
	}
}

func (t *tappableImage) MouseIn(_ *desktop.MouseEvent) {
	t.hovered = true
	t.Refresh()
}

func (t *tappableImage) MouseMoved(_ *desktop.MouseEvent) {}

func (t *tappableImage) MouseOut() {
	t.hovered = false
	t.Refresh()
}

// Cursor shows a pointer over clickable tiles.
func (t *tappableImage) Cursor() desktop.Cursor {
	if t.selected {
		return desktop.DefaultCursor
	}
	return desktop.PointerCursor
}

// SetResource swaps the shown image, e.g. placeholder for the real thumbnail.
func (t *tappableImage) SetResource(res fyne.Resource) {
	if t.image.Resource == res {
		return
	}
	t.image.Resource = res
	t.image.Image = nil
	canvas.Refresh(t.image)
}

// SetSelected marks the tile of the image on display.
func (t *tappableImage) SetSelected(selected bool) {
	t.selected = selected
	t.Refresh()
}

func (t *tappableImage) SetMinSize(size fyne.Size) {
	t.image.SetMinSize(size)
}

type tileRenderer struct{ tile *tappableImage }

func (r *tileRenderer) Layout(size fyne.Size) {
	r.tile.frame.Resize(size)
	inset := theme.Padding()
	r.tile.image.Move(fyne.NewPos(inset, inset))
	r.tile.image.Resize(size.Subtract(fyne.NewSize(2*inset, 2*inset)))
}

func (r *tileRenderer) MinSize() fyne.Size {
	inset := 2 * theme.Padding()
	return r.tile.image.MinSize().Add(fyne.NewSize(inset, inset))
}

func (r *tileRenderer) Refresh() {
	f := r.tile.frame
	f.FillColor = color.Transparent
	f.StrokeWidth = 0
	switch {
	case r.tile.selected:
		f.StrokeColor = theme.Color(theme.ColorNamePrimary)
		f.StrokeWidth = 3
	case r.tile.hovered:
		f.FillColor = theme.Color(theme.ColorNameHover)
	}
	f.Refresh()
	canvas.Refresh(r.tile.image)
}

func (r *tileRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.tile.frame, r.tile.image}
}

func (r *tileRenderer) Destroy() {}

var (
	_ fyne.Tappable      = (*tappableImage)(nil)
	_ desktop.Hoverable  = (*tappableImage)(nil)
	_ desktop.Cursorable = (*tappableImage)(nil)
)
