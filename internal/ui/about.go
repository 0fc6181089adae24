package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const aboutText = "An image viewer with a dock of navigation, zoom, rotate and slideshow controls."

type About struct {
	title     string
	parent    fyne.Window
	container *fyne.Container
	d         dialog.Dialog
}

func NewAbout(parent fyne.Window, title string) *About {
	a := &About{
		title:  title,
		parent: parent,
	}

	icon := widget.NewIcon(theme.FileImageIcon())
	heading := widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	body := widget.NewLabel(aboutText)
	body.Wrapping = fyne.TextWrapWord
	body.Alignment = fyne.TextAlignCenter

	ok := container.NewHBox(
		layout.NewSpacer(),
		widget.NewButton("OK", func() { a.Hide() }),
		layout.NewSpacer(),
	)

	a.container = container.NewBorder(
		container.NewVBox(container.NewGridWrap(fyne.NewSize(64, 64), icon), heading),
		ok, nil, nil, body)
	return a
}

func (a *About) Hide() {
	if a.d != nil {
		a.d.Hide()
	}
}

func (a *About) Show() {
	a.d = dialog.NewCustomWithoutButtons(a.title, a.container, a.parent)
	a.d.Resize(fyne.NewSize(360, 240))
	a.d.Show()
}
