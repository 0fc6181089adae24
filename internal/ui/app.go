// Package ui is the fyne front-end of the DockView image viewer.
package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dockview/internal/apperr"
	"dockview/internal/history"
	"dockview/internal/log"
	"dockview/internal/navigator"
	"dockview/internal/service"
	"dockview/internal/settings"
	"dockview/internal/slideshow"
	"dockview/internal/thumbcache"
	"dockview/internal/trash"
	"dockview/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	appID    = "io.github.dockview"
	appTitle = "DockView"

	// resizeSettle is how long the window must stop resizing before a
	// fit-to-window frame is rendered again.
	resizeSettle = 120 * time.Millisecond
)

// Config is what the command line hands to the GUI.
type Config struct {
	Path         string // file or directory to open at start, may be empty
	SettingsPath string
	Settings     settings.Settings
	Fullscreen   bool
	StartShow    bool
}

// Img is the decoded image currently on screen.
type Img struct {
	OriginalImage image.Image // EXIF-oriented, before zoom and rotation
	Path          string
	Info          *service.ImageInfo
}

// App represents the whole application with all its windows, widgets and functions
type App struct {
	app fyne.App
	UI  UI

	nav          *navigator.Navigator
	img          Img
	settings     settings.Settings
	settingsPath string
	recent       *history.RecentList

	slideshowManager *slideshow.SlideshowManager
	ImageService     *service.ImageService
	thumbnailManager *ThumbnailManager
	thumbCache       *thumbcache.Cache
	deleter          trash.Deleter
	logUIManager     *LogUIManager
	logger           *slog.Logger

	isDarkTheme bool

	// loadSeq and renderSeq discard results of superseded background work.
	loadSeq     int
	renderSeq   int
	resizeTimer *time.Timer

	ctx         context.Context
	cancel      context.CancelFunc
	watchCancel context.CancelFunc
	watchedDir  string
}

// addLogMessage shows message in the status log and writes it to the log.
func (a *App) addLogMessage(message string) {
	a.logger.Info(message)
	if a.logUIManager != nil {
		a.logUIManager.AddLogMessage(message)
	}
}

func (a *App) addErrorMessage(action string, err error) {
	a.logger.Error(action, slog.Any("error", err))
	if a.logUIManager != nil {
		a.logUIManager.AddErrorMessage(fmt.Sprintf("%s: %v", action, err))
	}
}

// run performs a user command. Navigator commands are applied to the
// navigator and the display is brought up to date; the rest open dialogs or
// change the window.
func (a *App) run(cmd navigator.Command) {
	before, _ := a.nav.Current()

	err := a.nav.Do(cmd)
	switch {
	case errors.Is(err, apperr.ErrNotNavigatorCommand):
		a.runPresentation(cmd)
		return
	case err != nil:
		a.addErrorMessage(cmd.String(), err)
		return
	}

	after, _ := a.nav.Current()
	if after != before {
		a.loadAndDisplayCurrentImage()
		a.refreshThumbnailStrip()
		return
	}
	a.renderCurrent()
	a.updateToolbarState()
}

func (a *App) runPresentation(cmd navigator.Command) {
	switch cmd {
	case navigator.CmdOpen:
		a.showOpenFileDialog()
	case navigator.CmdOpenFolder:
		a.showOpenFolderDialog()
	case navigator.CmdFullscreen:
		a.UI.MainWin.SetFullScreen(!a.UI.MainWin.FullScreen())
	case navigator.CmdSlideshow:
		a.togglePlay()
	case navigator.CmdDelete:
		a.deleteFileCheck()
	case navigator.CmdDetails:
		a.showDetails()
	case navigator.CmdSaveAs:
		a.showSaveAsDialog()
	case navigator.CmdShare:
		a.share()
	}
}

// openPath opens a directory or a file with its siblings.
func (a *App) openPath(path string) {
	if err := a.nav.Open(path); err != nil {
		a.addErrorMessage("Open "+filepath.Base(path), err)
		if errors.Is(err, apperr.ErrPathNotFound) {
			a.recent.Remove(path)
			a.rebuildRecentMenu()
		}
		return
	}
	abs, _ := filepath.Abs(path)
	a.recent.Touch(abs)
	a.rebuildRecentMenu()
	a.afterOpen()
}

// openFiles opens an explicit list of files, e.g. several dropped at once.
func (a *App) openFiles(paths []string) {
	if err := a.nav.OpenFiles(paths); err != nil {
		a.addErrorMessage("Open files", err)
	}
	a.afterOpen()
}

func (a *App) afterOpen() {
	_, count := a.nav.Position()
	if src := a.nav.Source(); src != "" {
		a.addLogMessage(fmt.Sprintf("Loaded %d images from %s", count, src))
	} else {
		a.addLogMessage(fmt.Sprintf("Loaded %d images", count))
	}
	a.startWatcher()
	a.loadAndDisplayCurrentImage()
	a.refreshThumbnailStrip()
}

// loadAndDisplayCurrentImage decodes the current file in a background
// goroutine and updates the UI on the main Fyne thread.
func (a *App) loadAndDisplayCurrentImage() {
	a.loadSeq++
	seq := a.loadSeq

	path, err := a.nav.Current()
	if err != nil {
		a.img = Img{}
		a.UI.imageArea.SetImage(nil)
		a.UI.MainWin.SetTitle(appTitle)
		a.updateStatusBar()
		a.updateToolbarState()
		return
	}

	go func() {
		img, decodeErr := a.ImageService.Decode(path)
		info, infoErr := a.ImageService.Info(path)
		fyne.Do(func() {
			if seq != a.loadSeq {
				return
			}
			if decodeErr != nil {
				a.handleImageDisplayError(path, decodeErr)
				return
			}
			if infoErr != nil {
				a.logger.Warn("no details for image", slog.String("file", path), slog.Any("error", infoErr))
				info = nil
			}
			a.img = Img{OriginalImage: img, Path: path, Info: info}
			a.UI.MainWin.SetTitle(fmt.Sprintf("%s - %s", appTitle, filepath.Base(path)))
			a.renderCurrent()
			a.updateStatusBar()
			a.updateToolbarState()
		})
	}()
}

// viewport returns the image area's size in device pixels.
func (a *App) viewport() navigator.Size {
	s := a.UI.imageArea.Size()
	scale := a.UI.MainWin.Canvas().Scale()
	return navigator.Size{W: int(s.Width * scale), H: int(s.Height * scale)}
}

// renderCurrent produces the on-screen frame for the decoded image using the
// navigator's current instruction.
func (a *App) renderCurrent() {
	if a.img.OriginalImage == nil {
		return
	}
	ins, err := a.nav.Instruction(a.viewport(), service.Bounds(a.img.OriginalImage))
	if err != nil {
		return
	}
	if ins.Path != a.img.Path {
		// The navigator moved on; the decode for the new file will render.
		return
	}
	a.renderSeq++
	seq := a.renderSeq
	src := a.img.OriginalImage
	go func() {
		frame := a.ImageService.Render(src, ins)
		fyne.Do(func() {
			if seq != a.renderSeq {
				return
			}
			a.UI.imageArea.SetImage(frame)
			a.updateStatusBar()
		})
	}()
}

// onImageAreaResized re-renders fit-to-window frames once resizing settles.
func (a *App) onImageAreaResized() {
	if !a.nav.View().FitToWindow {
		return
	}
	if a.resizeTimer != nil {
		a.resizeTimer.Stop()
	}
	a.resizeTimer = time.AfterFunc(resizeSettle, func() {
		fyne.Do(a.renderCurrent)
	})
}

func (a *App) onWheelZoom(factor float64) {
	if err := a.nav.ApplyZoom(factor); err != nil {
		a.addErrorMessage("Zoom", err)
		return
	}
	a.renderCurrent()
	a.updateToolbarState()
}

// refresh re-lists the current folder after the watcher saw changes. The
// current image is decoded again when its file was rewritten in place.
func (a *App) refresh() {
	before, _ := a.nav.Current()
	if err := a.nav.Refresh(); err != nil {
		a.addErrorMessage("Refresh", err)
		if errors.Is(err, apperr.ErrPathNotFound) {
			a.stopWatcher()
			a.loadAndDisplayCurrentImage()
			a.refreshThumbnailStrip()
		}
		return
	}
	after, _ := a.nav.Current()
	a.refreshThumbnailStrip()
	switch {
	case after != before:
		a.loadAndDisplayCurrentImage()
	case a.img.Path == after && rewritten(after, a.img.Info):
		a.logger.Debug("current image changed on disk", slog.String("file", after))
		a.loadAndDisplayCurrentImage()
	default:
		a.updateStatusBar()
	}
}

// rewritten reports whether path's mtime differs from the one seen when info
// was read. Without info there is nothing to compare against.
func rewritten(path string, info *service.ImageInfo) bool {
	if info == nil {
		return false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !fi.ModTime().Equal(info.ModTime)
}

func (a *App) startWatcher() {
	src := a.nav.Source()
	if src == a.watchedDir && a.watchCancel != nil {
		return
	}
	a.stopWatcher()
	if src == "" {
		return
	}
	w, err := watch.New(src, watch.DefaultDebounce, func() { fyne.Do(a.refresh) })
	if err != nil {
		a.logger.Warn("folder will not refresh automatically", slog.String("dir", src), slog.Any("error", err))
		return
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.watchCancel = cancel
	a.watchedDir = src
	go func() {
		if err := w.Run(ctx); err != nil {
			a.logger.Error("watcher stopped", slog.Any("error", err))
		}
	}()
}

func (a *App) stopWatcher() {
	if a.watchCancel != nil {
		a.watchCancel()
	}
	a.watchCancel = nil
	a.watchedDir = ""
}

// togglePlay handles toggling the slideshow state and updating the UI icon.
func (a *App) togglePlay() {
	if a.slideshowManager.Toggle() {
		a.addLogMessage(fmt.Sprintf("Slideshow started (%s)", a.slideshowManager.Interval()))
	} else {
		a.addLogMessage("Slideshow stopped")
	}
	a.updateToolbarState()
	a.updateStatusBar()
}

// setTheme switches between the light and dark application themes.
func (a *App) setTheme(dark bool) {
	a.isDarkTheme = dark
	a.app.Settings().SetTheme(NewDockTheme(dark))
	if dark {
		a.settings.Appearance.Theme = settings.ThemeDark
	} else {
		a.settings.Appearance.Theme = settings.ThemeLight
	}
}

func (a *App) saveSettings() {
	a.settings.Recent = a.recent.List()
	a.settings.View.FitToWindow = a.nav.View().FitToWindow
	a.settings.Slideshow.IntervalMs = int(a.slideshowManager.Interval() / time.Millisecond)
	if !a.UI.MainWin.FullScreen() {
		size := a.UI.MainWin.Canvas().Size()
		a.settings.Window.Width = int(size.Width)
		a.settings.Window.Height = int(size.Height)
	}
	if a.settingsPath == "" {
		return
	}
	if err := settings.Save(a.settingsPath, a.settings); err != nil {
		a.logger.Error("failed to save settings", slog.Any("error", err))
	}
}

func (a *App) shutdown() {
	a.saveSettings()
	a.stopWatcher()
	a.cancel()
	if a.thumbCache != nil {
		if err := a.thumbCache.Close(); err != nil {
			a.logger.Error("failed to close thumbnail cache", slog.Any("error", err))
		}
	}
}

// quit saves state and ends the application.
func (a *App) quit() {
	a.shutdown()
	a.app.Quit()
}

func newApp(fa fyne.App, cfg Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		app:              fa,
		nav:              navigator.New(),
		settings:         cfg.Settings,
		settingsPath:     cfg.SettingsPath,
		recent:           history.NewRecentList(history.DefaultCapacity, cfg.Settings.Recent...),
		slideshowManager: slideshow.NewSlideshowManager(cfg.Settings.SlideshowInterval()),
		ImageService:     service.NewImageService(),
		logger:           log.WithComponent("ui"),
		ctx:              ctx,
		cancel:           cancel,
	}
	a.nav.SetFitToWindow(cfg.Settings.View.FitToWindow)

	var store service.ThumbStore
	if cfg.Settings.Thumbnails.Cache {
		c, err := thumbcache.Open("", func(m string) { a.logger.Debug(m, slog.String("component", "thumbcache")) })
		if err != nil {
			a.logger.Warn("thumbnail cache disabled", slog.Any("error", err))
		} else {
			a.thumbCache = c
			store = c
			go func() {
				if _, err := c.Prune(); err != nil {
					a.logger.Warn("failed to prune thumbnail cache", slog.Any("error", err))
				}
			}()
		}
	}
	thumbs := service.NewThumbnailService(a.ImageService, store, uint(cfg.Settings.Thumbnails.Size), func(m string) {
		a.logger.Warn(m, slog.String("component", "thumbnails"))
	})
	a.thumbnailManager = NewThumbnailManager(thumbs)

	a.deleter = trash.NewSystem()
	return a
}

// CreateApplication is the GUI entrypoint
func CreateApplication(cfg Config) {
	fa := app.NewWithID(appID)
	fa.SetIcon(theme.FileImageIcon())

	a := newApp(fa, cfg)
	a.setTheme(cfg.Settings.Appearance.Theme != settings.ThemeLight)

	a.UI.MainWin = fa.NewWindow(appTitle)
	a.UI.MainWin.SetIcon(theme.FileImageIcon())
	a.UI.MainWin.SetContent(a.buildMainUI())
	a.UI.MainWin.Resize(fyne.NewSize(float32(cfg.Settings.Window.Width), float32(cfg.Settings.Window.Height)))
	a.UI.MainWin.SetOnDropped(a.onDropped)
	a.UI.MainWin.SetCloseIntercept(a.quit)
	a.UI.MainWin.CenterOnScreen()
	if cfg.Fullscreen {
		a.UI.MainWin.SetFullScreen(true)
	}

	go a.slideshowManager.Run(a.ctx, func() {
		fyne.Do(func() { a.run(navigator.CmdNext) })
	})

	fa.Lifecycle().SetOnStarted(func() {
		if cfg.Path != "" {
			a.openPath(cfg.Path)
		} else {
			a.updateStatusBar()
			a.addLogMessage("Open a folder or drop images to begin")
		}
		if cfg.StartShow {
			a.slideshowManager.Start()
			a.updateToolbarState()
		}
	})

	a.UI.MainWin.ShowAndRun()
}

// onDropped opens whatever was dropped on the window: one folder or file
// through Open, several files as an explicit set.
func (a *App) onDropped(_ fyne.Position, uris []fyne.URI) {
	paths := make([]string, 0, len(uris))
	for _, u := range uris {
		if u.Scheme() == "file" {
			paths = append(paths, u.Path())
		}
	}
	switch len(paths) {
	case 0:
		return
	case 1:
		a.openPath(paths[0])
	default:
		a.openFiles(paths)
	}
}

// UI holds the widgets the App updates after construction.
type UI struct {
	MainWin    fyne.Window
	mainModKey fyne.KeyModifier

	imageArea      *ImageArea
	toolBar        *widget.Toolbar
	pauseAction    *widget.ToolbarAction
	fitAction      *widget.ToolbarAction
	thumbnailStrip *fyne.Container
	statusLabel    *widget.Label
	recentMenu     *fyne.Menu
}
