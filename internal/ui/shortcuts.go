package ui

import (
	"dockview/internal/navigator"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// keyCommands maps single keys to dock commands.
var keyCommands = map[fyne.KeyName]navigator.Command{
	fyne.KeyRight:    navigator.CmdNext,
	fyne.KeyDown:     navigator.CmdNext,
	fyne.KeyPageDown: navigator.CmdNext,
	fyne.KeyLeft:     navigator.CmdPrevious,
	fyne.KeyUp:       navigator.CmdPrevious,
	fyne.KeyPageUp:   navigator.CmdPrevious,
	fyne.KeyHome:     navigator.CmdFirst,
	fyne.KeyEnd:      navigator.CmdLast,
	fyne.KeyPlus:     navigator.CmdZoomIn,
	fyne.KeyEqual:    navigator.CmdZoomIn,
	fyne.KeyMinus:    navigator.CmdZoomOut,
	fyne.Key0:        navigator.CmdZoomReset,
	fyne.KeyF:        navigator.CmdFit,
	fyne.KeyL:        navigator.CmdRotateLeft,
	fyne.KeyR:        navigator.CmdRotateRight,
	fyne.KeyF11:      navigator.CmdFullscreen,
	fyne.KeyP:        navigator.CmdSlideshow,
	fyne.KeySpace:    navigator.CmdSlideshow,
	fyne.KeyDelete:   navigator.CmdDelete,
	fyne.KeyI:        navigator.CmdDetails,
}

// keyCommand returns the command bound to key, if any.
func keyCommand(key fyne.KeyName) (navigator.Command, bool) {
	cmd, ok := keyCommands[key]
	return cmd, ok
}

func (a *App) buildKeyboardShortcuts() {
	canvas := a.UI.MainWin.Canvas()

	// ctrl+q to quit application
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.quit() })
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyO,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.run(navigator.CmdOpen) })
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyO,
		Modifier: a.UI.mainModKey | fyne.KeyModifierShift,
	}, func(_ fyne.Shortcut) { a.run(navigator.CmdOpenFolder) })
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyS,
		Modifier: a.UI.mainModKey,
	}, func(_ fyne.Shortcut) { a.run(navigator.CmdSaveAs) })

	canvas.SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			// close dialogs first, then leave fullscreen
			if top := canvas.Overlays().Top(); top != nil {
				top.Hide()
				return
			}
			if a.UI.MainWin.FullScreen() {
				a.UI.MainWin.SetFullScreen(false)
			}
			return
		}
		if cmd, ok := keyCommand(key.Name); ok {
			a.run(cmd)
		}
	})
}

// shortcutRows is the help table, one {description, keys} pair per row.
var shortcutRows = [][2]string{
	{"Next Image", "Right, Down, Page Down"},
	{"Previous Image", "Left, Up, Page Up"},
	{"First / Last Image", "Home / End"},
	{"Zoom In / Out", "+ / -"},
	{"Actual Size", "0"},
	{"Toggle Fit to Window", "F"},
	{"Rotate Left / Right", "L / R"},
	{"Start / Stop Slideshow", "P or Space"},
	{"Fullscreen", "F11 (Esc leaves)"},
	{"Image Details", "I"},
	{"Delete Image", "Delete"},
	{"Open File / Folder", "Ctrl+O / Ctrl+Shift+O"},
	{"Save As", "Ctrl+S"},
	{"Quit Application", "Ctrl+Q"},
}

func (a *App) showShortcuts() {
	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(shortcutRows) + 1, 2 }, // +1 for header row
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle.Bold = true
				label.SetText([2]string{"Description", "Shortcut"}[id.Col])
				return
			}
			label.TextStyle.Bold = false
			label.SetText(shortcutRows[id.Row-1][id.Col])
		},
	)
	table.SetColumnWidth(0, 250)
	table.SetColumnWidth(1, 250)
	win.SetContent(table)
	win.Resize(fyne.NewSize(520, 480))
	win.Show()
}
