package ui

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"dockview/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(imaging.New(64, 48, color.NRGBA{R: 200, A: 255}), path))
	return path
}

func TestThumbnailManagerGeneratesOnce(t *testing.T) {
	test.NewTempApp(t)
	dir := t.TempDir()
	path := writeTestImage(t, dir, "a.png")

	images := service.NewImageService()
	tm := NewThumbnailManager(service.NewThumbnailService(images, nil, 32, nil))

	var calls atomic.Int32
	var got atomic.Value
	onDone := func(res fyne.Resource) {
		got.Store(res)
		calls.Add(1)
	}

	placeholder := tm.GetThumbnail(path, onDone)
	assert.Equal(t, theme.FileImageIcon(), placeholder)

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	res, _ := got.Load().(fyne.Resource)
	require.NotNil(t, res)
	assert.Equal(t, "a.png.thumb.png", res.Name())

	cfg, _, err := image.DecodeConfig(bytes.NewReader(res.Content()))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 32)

	// cached now, returned synchronously
	assert.Same(t, res, tm.GetThumbnail(path, onDone))

	tm.Forget(path)
	assert.Equal(t, theme.FileImageIcon(), tm.GetThumbnail(path, onDone))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestThumbnailManagerBrokenImage(t *testing.T) {
	test.NewTempApp(t)
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	tm := NewThumbnailManager(service.NewThumbnailService(service.NewImageService(), nil, 32, nil))

	done := make(chan fyne.Resource, 1)
	tm.GetThumbnail(path, func(res fyne.Resource) { done <- res })

	select {
	case res := <-done:
		assert.Equal(t, theme.BrokenImageIcon(), res)
	case <-time.After(2 * time.Second):
		t.Fatal("no callback for broken image")
	}
}

func TestThumbnailManagerRegeneratesAfterRewrite(t *testing.T) {
	test.NewTempApp(t)
	dir := t.TempDir()
	path := writeTestImage(t, dir, "a.png")

	tm := NewThumbnailManager(service.NewThumbnailService(service.NewImageService(), nil, 32, nil))

	done := make(chan fyne.Resource, 2)
	tm.GetThumbnail(path, func(res fyne.Resource) { done <- res })
	var first fyne.Resource
	select {
	case first = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("no thumbnail")
	}
	require.Same(t, first, tm.GetThumbnail(path, nil))

	// rewrite the file in place with a different shape and a later mtime
	require.NoError(t, imaging.Save(imaging.New(20, 60, color.NRGBA{B: 200, A: 255}), path))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	assert.Equal(t, theme.FileImageIcon(), tm.GetThumbnail(path, func(res fyne.Resource) { done <- res }))
	select {
	case second := <-done:
		cfg, _, err := image.DecodeConfig(bytes.NewReader(second.Content()))
		require.NoError(t, err)
		assert.Greater(t, cfg.Height, cfg.Width, "thumbnail shows the new content")
	case <-time.After(2 * time.Second):
		t.Fatal("thumbnail was not regenerated")
	}
}
