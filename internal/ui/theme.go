package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// dockTheme wraps the default theme, pins the light or dark variant and
// tightens padding so the dock stays compact.
type dockTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

// Ensure dockTheme implements fyne.Theme
var _ fyne.Theme = (*dockTheme)(nil)

// NewDockTheme returns the application theme in its dark or light variant.
func NewDockTheme(dark bool) fyne.Theme {
	v := theme.VariantLight
	if dark {
		v = theme.VariantDark
	}
	return &dockTheme{Theme: theme.DefaultTheme(), variant: v}
}

// Color ignores the system variant.
func (t *dockTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

func (t *dockTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNamePadding {
		return 2
	}
	return t.Theme.Size(name)
}
