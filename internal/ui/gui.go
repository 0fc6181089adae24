package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"dockview/internal/navigator"
	"dockview/internal/scan"
	"dockview/internal/service"
	"dockview/internal/trash"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

func (a *App) buildToolbar() *widget.Toolbar {
	cmd := func(c navigator.Command) func() { return func() { a.run(c) } }

	a.UI.pauseAction = widget.NewToolbarAction(theme.MediaPlayIcon(), cmd(navigator.CmdSlideshow))
	a.UI.fitAction = widget.NewToolbarAction(theme.ViewFullScreenIcon(), cmd(navigator.CmdFit))

	return widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), cmd(navigator.CmdOpenFolder)),
		widget.NewToolbarAction(theme.FileImageIcon(), cmd(navigator.CmdOpen)),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MediaSkipPreviousIcon(), cmd(navigator.CmdFirst)),
		widget.NewToolbarAction(theme.NavigateBackIcon(), cmd(navigator.CmdPrevious)),
		a.UI.pauseAction,
		widget.NewToolbarAction(theme.NavigateNextIcon(), cmd(navigator.CmdNext)),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), cmd(navigator.CmdLast)),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomOutIcon(), cmd(navigator.CmdZoomOut)),
		widget.NewToolbarAction(theme.ZoomFitIcon(), cmd(navigator.CmdZoomReset)),
		widget.NewToolbarAction(theme.ZoomInIcon(), cmd(navigator.CmdZoomIn)),
		a.UI.fitAction,
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MediaReplayIcon(), cmd(navigator.CmdRotateLeft)),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), cmd(navigator.CmdRotateRight)),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.InfoIcon(), cmd(navigator.CmdDetails)),
		widget.NewToolbarAction(theme.MailSendIcon(), cmd(navigator.CmdShare)),
		widget.NewToolbarAction(theme.DeleteIcon(), cmd(navigator.CmdDelete)),
		widget.NewToolbarAction(theme.ComputerIcon(), cmd(navigator.CmdFullscreen)),
	)
}

// updateToolbarState keeps the play and fit icons in step with the state.
func (a *App) updateToolbarState() {
	if a.UI.toolBar == nil {
		return
	}
	if a.slideshowManager.IsRunning() {
		a.UI.pauseAction.SetIcon(theme.MediaPauseIcon())
	} else {
		a.UI.pauseAction.SetIcon(theme.MediaPlayIcon())
	}
	if a.nav.View().FitToWindow {
		a.UI.fitAction.SetIcon(theme.ViewRestoreIcon())
	} else {
		a.UI.fitAction.SetIcon(theme.ViewFullScreenIcon())
	}
	a.UI.toolBar.Refresh()
}

func (a *App) buildStatusBar() fyne.CanvasObject {
	a.UI.statusLabel = widget.NewLabel("")
	a.UI.statusLabel.Truncation = fyne.TextTruncateEllipsis

	logLabel := widget.NewLabel("")
	logLabel.Truncation = fyne.TextTruncateEllipsis
	var upBtn, downBtn *widget.Button
	upBtn = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { a.logUIManager.ShowPreviousLogMessage() })
	downBtn = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { a.logUIManager.ShowNextLogMessage() })
	a.logUIManager = NewLogUIManager(logLabel, upBtn, downBtn, DefaultMaxLogMessages)
	a.logUIManager.UpdateLogDisplay()

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, a.UI.statusLabel, container.NewHBox(upBtn, downBtn), logLabel),
	)
}

func (a *App) buildMainMenu() *fyne.MainMenu {
	cmd := func(label string, c navigator.Command) *fyne.MenuItem {
		return fyne.NewMenuItem(label, func() { a.run(c) })
	}

	a.UI.recentMenu = fyne.NewMenu("Recent")
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = a.UI.recentMenu
	a.rebuildRecentMenu()

	themeItem := fyne.NewMenuItem("Theme", nil)
	themeItem.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Dark", func() { a.setTheme(true) }),
		fyne.NewMenuItem("Light", func() { a.setTheme(false) }),
	)

	return fyne.NewMainMenu(
		fyne.NewMenu("File",
			cmd("Open File...", navigator.CmdOpen),
			cmd("Open Folder...", navigator.CmdOpenFolder),
			recentItem,
			fyne.NewMenuItemSeparator(),
			cmd("Save As...", navigator.CmdSaveAs),
			cmd("Share...", navigator.CmdShare),
			fyne.NewMenuItemSeparator(),
			cmd("Delete Image...", navigator.CmdDelete),
			cmd("Image Details", navigator.CmdDetails),
		),
		fyne.NewMenu("Go",
			cmd("Next Image", navigator.CmdNext),
			cmd("Previous Image", navigator.CmdPrevious),
			cmd("First Image", navigator.CmdFirst),
			cmd("Last Image", navigator.CmdLast),
			fyne.NewMenuItemSeparator(),
			cmd("Start/Stop Slideshow", navigator.CmdSlideshow),
		),
		fyne.NewMenu("View",
			cmd("Zoom In", navigator.CmdZoomIn),
			cmd("Zoom Out", navigator.CmdZoomOut),
			cmd("Actual Size", navigator.CmdZoomReset),
			cmd("Fit to Window", navigator.CmdFit),
			fyne.NewMenuItemSeparator(),
			cmd("Rotate Left", navigator.CmdRotateLeft),
			cmd("Rotate Right", navigator.CmdRotateRight),
			fyne.NewMenuItemSeparator(),
			cmd("Full Screen", navigator.CmdFullscreen),
			themeItem,
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcuts),
			fyne.NewMenuItem("About", func() { NewAbout(a.UI.MainWin, appTitle).Show() }),
		),
	)
}

// rebuildRecentMenu refills File > Open Recent from the recent list.
func (a *App) rebuildRecentMenu() {
	if a.UI.recentMenu == nil {
		return
	}
	recent := a.recent.List()
	items := make([]*fyne.MenuItem, 0, len(recent)+2)
	for _, p := range recent {
		p := p
		items = append(items, fyne.NewMenuItem(p, func() { a.openPath(p) }))
	}
	if len(items) == 0 {
		none := fyne.NewMenuItem("(empty)", nil)
		none.Disabled = true
		items = append(items, none)
	} else {
		items = append(items, fyne.NewMenuItemSeparator(), fyne.NewMenuItem("Clear Recent", func() {
			a.recent.Clear()
			a.rebuildRecentMenu()
		}))
	}
	a.UI.recentMenu.Items = items
	if a.UI.MainWin != nil && a.UI.MainWin.MainMenu() != nil {
		a.UI.MainWin.MainMenu().Refresh()
	}
}

func (a *App) buildMainUI() fyne.CanvasObject {
	a.UI.MainWin.SetMaster()
	// set main mod key to super on darwin hosts, else set it to ctrl
	if runtime.GOOS == "darwin" {
		a.UI.mainModKey = fyne.KeyModifierSuper
	} else {
		a.UI.mainModKey = fyne.KeyModifierControl
	}

	a.UI.imageArea = NewImageArea()
	a.UI.imageArea.OnZoom = a.onWheelZoom
	a.UI.imageArea.OnResize = a.onImageAreaResized
	a.UI.imageArea.OnDoubleTap = func() { a.run(navigator.CmdFit) }

	a.UI.thumbnailStrip = container.NewHBox()
	thumbs := container.NewHScroll(a.UI.thumbnailStrip)
	thumbs.SetMinSize(fyne.NewSize(0, float32(ThumbnailTileSize)+theme.Padding()*4))

	a.UI.toolBar = a.buildToolbar()
	dock := container.NewVBox(
		thumbs,
		container.NewCenter(a.UI.toolBar),
		a.buildStatusBar(),
	)

	a.UI.MainWin.SetMainMenu(a.buildMainMenu())
	a.buildKeyboardShortcuts()
	a.updateToolbarState()

	return container.NewBorder(nil, dock, nil, nil, a.UI.imageArea)
}

// Dialogs

func (a *App) showOpenFileDialog() {
	a.slideshowManager.Pause(true)
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		defer a.slideshowManager.ResumeAfterOperation()
		if err != nil {
			a.addErrorMessage("Open file", err)
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		r.Close()
		a.openPath(path)
	}, a.UI.MainWin)
	d.SetFilter(storage.NewExtensionFileFilter(scan.SupportedExtensions()))
	a.setDialogLocation(d.SetLocation)
	d.Show()
}

// showSaveAsDialog writes a copy of the current image where the user picks.
// A different extension converts the image to that format.
func (a *App) showSaveAsDialog() {
	src, err := a.nav.Current()
	if err != nil {
		a.addErrorMessage("Save As", err)
		return
	}
	a.slideshowManager.Pause(true)
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		defer a.slideshowManager.ResumeAfterOperation()
		if err != nil {
			a.addErrorMessage("Save As", err)
			return
		}
		if w == nil {
			return
		}
		dst := w.URI().Path()
		w.Close()
		a.saveAs(src, dst)
	}, a.UI.MainWin)
	d.SetFileName(filepath.Base(src))
	a.setDialogLocation(d.SetLocation)
	d.Show()
}

func (a *App) saveAs(src, dst string) {
	if err := a.ImageService.SaveAs(src, dst); err != nil {
		a.addErrorMessage("Save "+filepath.Base(src), err)
		if a.UI.MainWin != nil {
			dialog.ShowError(err, a.UI.MainWin)
		}
		return
	}
	a.addLogMessage(fmt.Sprintf("Saved %s as %s", filepath.Base(src), dst))
}

// share hands the current image to the desktop mail client. Without the
// share helper a plain mail link naming the file is opened instead.
func (a *App) share() {
	path, err := a.nav.Current()
	if err != nil {
		a.addErrorMessage("Share", err)
		return
	}
	if !service.CanShare() {
		if err := a.app.OpenURL(service.ShareMailURL(path)); err != nil {
			a.addErrorMessage("Share "+filepath.Base(path), err)
		}
		return
	}
	cmd := service.ShareCommand(path)
	if err := cmd.Start(); err != nil {
		a.addErrorMessage("Share "+filepath.Base(path), err)
		return
	}
	a.addLogMessage(fmt.Sprintf("Sharing %s", filepath.Base(path)))
	go func() {
		if err := cmd.Wait(); err != nil {
			a.logger.Warn("share helper failed", "file", path, "error", err)
		}
	}()
}

func (a *App) showOpenFolderDialog() {
	a.slideshowManager.Pause(true)
	d := dialog.NewFolderOpen(func(u fyne.ListableURI, err error) {
		defer a.slideshowManager.ResumeAfterOperation()
		if err != nil {
			a.addErrorMessage("Open folder", err)
			return
		}
		if u == nil {
			return
		}
		a.openPath(u.Path())
	}, a.UI.MainWin)
	a.setDialogLocation(d.SetLocation)
	d.Show()
}

// setDialogLocation starts file dialogs in the folder of the current set.
func (a *App) setDialogLocation(set func(fyne.ListableURI)) {
	dir := a.nav.Source()
	if dir == "" {
		return
	}
	if l, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
		set(l)
	}
}

// deleteFileCheck asks whether to trash or permanently delete the current
// image. The slideshow is paused while the question is open.
func (a *App) deleteFileCheck() {
	path, err := a.nav.Current()
	if err != nil {
		a.addErrorMessage("Delete", err)
		return
	}
	a.slideshowManager.Pause(true)

	var d dialog.Dialog
	finish := func(permanent, confirmed bool) {
		d.Hide()
		if confirmed {
			a.deleteFile(path, permanent)
		}
		a.slideshowManager.ResumeAfterOperation()
		a.updateToolbarState()
	}

	permBtn := widget.NewButtonWithIcon("Delete Permanently", theme.WarningIcon(), func() { finish(true, true) })
	permBtn.Importance = widget.DangerImportance
	trashBtn := widget.NewButtonWithIcon("Move to Trash", theme.DeleteIcon(), func() { finish(false, true) })
	trashBtn.Importance = widget.HighImportance
	if a.deleter == nil {
		trashBtn.Disable()
	}
	cancelBtn := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), func() { finish(false, false) })

	msg := widget.NewLabel(fmt.Sprintf("Delete %s?\nPermanent deletion can't be undone.", filepath.Base(path)))
	content := container.NewVBox(
		msg,
		container.NewHBox(layout.NewSpacer(), cancelBtn, permBtn, trashBtn),
	)
	d = dialog.NewCustomWithoutButtons("Delete Image", content, a.UI.MainWin)
	d.Show()
}

// deleteFile removes path from disk and from the set, then shows whichever
// image took its place.
func (a *App) deleteFile(path string, permanent bool) {
	var err error
	switch {
	case permanent:
		err = trash.Remove(path)
	case a.deleter == nil:
		err = errors.New("no trash available")
	default:
		_, err = a.deleter.Trash(path)
	}
	if err != nil {
		a.addErrorMessage("Delete "+filepath.Base(path), err)
		dialog.ShowError(err, a.UI.MainWin)
		return
	}

	if cur, _ := a.nav.Current(); cur == path {
		if _, err := a.nav.RemoveCurrent(); err != nil {
			a.addErrorMessage("Delete", err)
		}
	} else if err := a.nav.Refresh(); err != nil {
		a.addErrorMessage("Refresh", err)
	}
	a.thumbnailManager.Forget(path)
	if a.thumbCache != nil {
		if err := a.thumbCache.Remove(path); err != nil {
			a.logger.Warn("failed to drop cached thumbnail", "file", path, "error", err)
		}
	}
	a.recent.Remove(path)
	a.rebuildRecentMenu()

	if permanent {
		a.addLogMessage(fmt.Sprintf("Deleted %s", filepath.Base(path)))
	} else {
		a.addLogMessage(fmt.Sprintf("Moved %s to trash", filepath.Base(path)))
	}
	a.loadAndDisplayCurrentImage()
	a.refreshThumbnailStrip()
}

func (a *App) showDetails() {
	if a.img.Path == "" {
		a.addErrorMessage("Details", fmt.Errorf("no image loaded"))
		return
	}
	index, count := a.nav.Position()
	md := detailsMarkdown(index, count, a.img.Info)
	text := widget.NewRichTextFromMarkdown(md)
	text.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(text)
	scroll.SetMinSize(fyne.NewSize(420, 360))
	dialog.ShowCustom(filepath.Base(a.img.Path), "Close", scroll, a.UI.MainWin)
}
