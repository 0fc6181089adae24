package ui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"dockview/internal/navigator"
	"dockview/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
)

// thumbnailWindow is how many thumbnails the strip shows around the current
// image. It should be odd so the current one sits in the middle.
const thumbnailWindow = 11

// formatNumberWithCommas takes an integer and returns a string representation
// with commas as thousands separators.
func formatNumberWithCommas(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// statusText is the status line: "name  (i/n)  WxHpx", or a hint when
// nothing is loaded. frame is the size on screen, zero when not yet known.
func statusText(path string, index, count int, frame navigator.Size, playing bool) string {
	if count == 0 || index == navigator.Empty {
		return "No images loaded"
	}
	s := fmt.Sprintf("%s  (%d/%d)", filepath.Base(path), index+1, count)
	if frame.W > 0 && frame.H > 0 {
		s += fmt.Sprintf("  %dx%dpx", frame.W, frame.H)
	}
	if playing {
		s += "  | Playing"
	}
	return s
}

// updateStatusBar updates the text of the status bar.
func (a *App) updateStatusBar() {
	if a.UI.statusLabel == nil {
		return
	}
	index, count := a.nav.Position()
	path, _ := a.nav.Current()
	var frame navigator.Size
	if f := a.UI.imageArea.Frame(); f != nil && a.img.Path == path {
		frame = service.Bounds(f)
	}
	a.UI.statusLabel.SetText(statusText(path, index, count, frame, a.slideshowManager.IsRunning()))
}

// detailsMarkdown renders the details dialog for the image at index.
func detailsMarkdown(index, count int, info *service.ImageInfo) string {
	if info == nil {
		return "# Info\n---\nImage metadata not available."
	}

	exifString := "(not available)"
	if len(info.EXIFData) > 0 {
		keys := make([]string, 0, len(info.EXIFData))
		for k := range info.EXIFData {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var builder strings.Builder
		for _, k := range keys {
			builder.WriteString(fmt.Sprintf("- **%s**: %s\n\n", k, info.EXIFData[k]))
		}
		exifString = builder.String()
	}

	return fmt.Sprintf(`## Stats
**File:** %s

**Folder:** %s

**Position:** %s of %s

**Format:** %s

**Size:**   %s bytes

**Width:**   %d px

**Height:**  %d px

**Last modified:** %s

---
## EXIF Data
%s
`,
		filepath.Base(info.Path),
		filepath.Dir(info.Path),
		formatNumberWithCommas(int64(index+1)),
		formatNumberWithCommas(int64(count)),
		strings.ToUpper(info.Format),
		formatNumberWithCommas(info.Size),
		info.Width,
		info.Height,
		info.ModTime.Format("2006-01-02 15:04:05"),
		exifString,
	)
}

// handleImageDisplayError keeps the previous frame on screen and reports why
// the new one could not be shown.
func (a *App) handleImageDisplayError(imagePath string, err error) {
	a.addErrorMessage("Cannot show "+filepath.Base(imagePath), err)
	a.UI.MainWin.SetTitle(fmt.Sprintf("%s - Error %s", appTitle, filepath.Base(imagePath)))
	a.updateStatusBar()
}

// viewportRange returns the half-open range [start, end) of set indices the
// thumbnail strip shows for the given current index.
func viewportRange(index, count, window int) (start, end int) {
	if count <= 0 || index < 0 {
		return 0, 0
	}
	if window >= count {
		return 0, count
	}
	start = index - window/2
	if start < 0 {
		start = 0
	}
	end = start + window
	if end > count {
		end = count
		start = end - window
	}
	return start, end
}

// refreshThumbnailStrip updates the content of the horizontal thumbnail strip.
func (a *App) refreshThumbnailStrip() {
	if a.UI.thumbnailStrip == nil {
		return
	}
	a.UI.thumbnailStrip.RemoveAll()

	images := a.nav.Images()
	index, _ := a.nav.Position()
	start, end := viewportRange(index, len(images), thumbnailWindow)

	a.UI.thumbnailStrip.Add(layout.NewSpacer())
	for i := start; i < end; i++ {
		i := i
		path := images[i]

		tile := newTappableImage(theme.FileImageIcon(), func() {
			if i == index {
				return
			}
			if a.slideshowManager.IsRunning() {
				a.togglePlay()
			}
			if err := a.nav.Jump(i); err != nil {
				a.addErrorMessage("Jump", err)
				return
			}
			a.loadAndDisplayCurrentImage()
			a.refreshThumbnailStrip()
		})
		tile.SetMinSize(fyne.NewSize(ThumbnailTileSize, ThumbnailTileSize))

		tile.SetSelected(i == index)
		tile.SetResource(a.thumbnailManager.GetThumbnail(path, func(res fyne.Resource) {
			tile.SetResource(res)
		}))
		a.UI.thumbnailStrip.Add(tile)
	}
	a.UI.thumbnailStrip.Add(layout.NewSpacer())
	a.UI.thumbnailStrip.Refresh()
}
