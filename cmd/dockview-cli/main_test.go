package main

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dockview/internal/apperr"
	"dockview/internal/thumbcache"
	"dockview/internal/trash"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommandC executes a cobra command and captures its output.
func executeCommandC(root *cobra.Command, args ...string) (string, string, error) {
	actualStdout := new(bytes.Buffer)
	actualStderr := new(bytes.Buffer)
	root.SetOut(actualStdout)
	root.SetErr(actualStderr)
	root.SetArgs(args)

	err := root.Execute()

	return actualStdout.String(), actualStderr.String(), err
}

// newTestRoot returns a root command whose trash lives under t.TempDir().
func newTestRoot(t *testing.T) (*cobra.Command, string) {
	t.Helper()
	trashDir := filepath.Join(t.TempDir(), "Trash")
	root := NewRootCmd(func() (trash.Deleter, error) { return trash.New(trashDir), nil })
	return root, trashDir
}

// setupImages writes small images plus a non-image into a fresh directory.
func setupImages(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		img := imaging.New(64, 48, color.NRGBA{G: 180, A: 255})
		require.NoError(t, imaging.Save(img, filepath.Join(dir, n)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	return dir
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestRootHelp(t *testing.T) {
	root, _ := newTestRoot(t)
	stdout, stderr, err := executeCommandC(root, "--help")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "dockview-cli [command]")
}

func TestListCommand(t *testing.T) {
	dir := setupImages(t, "b10.png", "b2.png", "a.jpg")

	t.Run("directory in natural order", func(t *testing.T) {
		root, _ := newTestRoot(t)
		stdout, stderr, err := executeCommandC(root, "list", dir)
		require.NoError(t, err, "stderr: %s", stderr)
		assert.Equal(t, []string{
			"* " + filepath.Join(dir, "a.jpg"),
			"  " + filepath.Join(dir, "b2.png"),
			"  " + filepath.Join(dir, "b10.png"),
		}, lines(stdout))
	})

	t.Run("file marks itself", func(t *testing.T) {
		root, _ := newTestRoot(t)
		stdout, _, err := executeCommandC(root, "list", filepath.Join(dir, "b2.png"))
		require.NoError(t, err)
		assert.Contains(t, lines(stdout), "* "+filepath.Join(dir, "b2.png"))
		assert.Len(t, lines(stdout), 3)
	})

	t.Run("glob filter", func(t *testing.T) {
		root, _ := newTestRoot(t)
		stdout, _, err := executeCommandC(root, "list", "--glob", "b*.png", dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"  " + filepath.Join(dir, "b2.png"),
			"  " + filepath.Join(dir, "b10.png"),
		}, lines(stdout))
	})

	t.Run("bad glob", func(t *testing.T) {
		root, _ := newTestRoot(t)
		_, _, err := executeCommandC(root, "list", "--glob", "[", dir)
		assert.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		root, _ := newTestRoot(t)
		stdout, _, err := executeCommandC(root, "list", t.TempDir())
		require.NoError(t, err)
		assert.Contains(t, stdout, "No images found.")
	})

	t.Run("missing path", func(t *testing.T) {
		root, _ := newTestRoot(t)
		_, _, err := executeCommandC(root, "list", filepath.Join(dir, "gone"))
		assert.ErrorIs(t, err, apperr.ErrPathNotFound)
	})
}

func TestInfoCommand(t *testing.T) {
	dir := setupImages(t, "a.png")
	root, _ := newTestRoot(t)

	stdout, _, err := executeCommandC(root, "info", filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Format:   PNG")
	assert.Contains(t, stdout, "Size:     64x48 px")
}

func TestRenderCommand(t *testing.T) {
	dir := setupImages(t, "a.png")
	src := filepath.Join(dir, "a.png")

	tests := []struct {
		name         string
		args         []string
		wantW, wantH int
	}{
		{"actual size", nil, 64, 48},
		{"fit", []string{"--fit", "--viewport", "32x32"}, 32, 24},
		{"fit never enlarges", []string{"--fit", "--viewport", "640x480"}, 64, 48},
		{"zoom", []string{"--zoom", "0.5"}, 32, 24},
		{"rotate", []string{"--rotate", "90"}, 48, 64},
		{"rotate and fit", []string{"--rotate=-90", "--fit", "--viewport", "24x100"}, 24, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.png")
			root, _ := newTestRoot(t)
			args := append([]string{"render", src, "--out", out}, tt.args...)
			stdout, stderr, err := executeCommandC(root, args...)
			require.NoError(t, err, "stderr: %s", stderr)
			assert.Contains(t, stdout, "Wrote "+out)

			img, err := imaging.Open(out)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, img.Bounds().Dx())
			assert.Equal(t, tt.wantH, img.Bounds().Dy())
		})
	}

	t.Run("invalid input", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.png")
		for _, args := range [][]string{
			{"render", src, "--out", out, "--viewport", "wide"},
			{"render", src, "--out", out, "--viewport", "0x10"},
			{"render", src, "--out", out, "--rotate", "45"},
			{"render", src, "--out", out, "--zoom", "0"},
			{"render", src},
		} {
			root, _ := newTestRoot(t)
			_, _, err := executeCommandC(root, args...)
			assert.Error(t, err, "args %v", args)
		}
		assert.NoFileExists(t, out)
	})
}

func TestParseViewport(t *testing.T) {
	s, err := parseViewport("800x600")
	require.NoError(t, err)
	assert.Equal(t, 800, s.W)
	assert.Equal(t, 600, s.H)

	s, err = parseViewport(" 12X34 ")
	require.NoError(t, err)
	assert.Equal(t, 12, s.W)
	assert.Equal(t, 34, s.H)

	for _, bad := range []string{"", "800", "x600", "800x", "-1x5", "axb"} {
		_, err := parseViewport(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTrashCommand(t *testing.T) {
	t.Run("dry run by default", func(t *testing.T) {
		dir := setupImages(t, "a.png")
		root, trashDir := newTestRoot(t)
		stdout, _, err := executeCommandC(root, "trash", filepath.Join(dir, "a.png"))
		require.NoError(t, err)
		assert.Contains(t, stdout, "[DRY RUN]")
		assert.FileExists(t, filepath.Join(dir, "a.png"))
		assert.NoDirExists(t, trashDir)
	})

	t.Run("force moves to trash", func(t *testing.T) {
		dir := setupImages(t, "a.png")
		root, trashDir := newTestRoot(t)
		stdout, _, err := executeCommandC(root, "trash", "--force", filepath.Join(dir, "a.png"))
		require.NoError(t, err)
		assert.Contains(t, stdout, "Moved ")
		assert.NoFileExists(t, filepath.Join(dir, "a.png"))
		assert.FileExists(t, filepath.Join(trashDir, "files", "a.png"))
		assert.FileExists(t, filepath.Join(trashDir, "info", "a.png.trashinfo"))
	})

	t.Run("permanent", func(t *testing.T) {
		dir := setupImages(t, "a.png")
		root, trashDir := newTestRoot(t)
		_, _, err := executeCommandC(root, "trash", "--force", "--permanent", filepath.Join(dir, "a.png"))
		require.NoError(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "a.png"))
		assert.NoDirExists(t, trashDir)
	})

	t.Run("trash dir flag", func(t *testing.T) {
		dir := setupImages(t, "a.png")
		other := filepath.Join(t.TempDir(), "OtherTrash")
		root, trashDir := newTestRoot(t)
		stdout, _, err := executeCommandC(root, "trash", "--force", "--trash-dir", other, filepath.Join(dir, "a.png"))
		require.NoError(t, err)
		assert.Contains(t, stdout, "Moved ")
		assert.FileExists(t, filepath.Join(other, "files", "a.png"))
		assert.NoDirExists(t, trashDir)
	})

	t.Run("permanent needs no trash", func(t *testing.T) {
		dir := setupImages(t, "a.png")
		root := NewRootCmd(func() (trash.Deleter, error) { return nil, errors.New("no trash here") })
		stdout, _, err := executeCommandC(root, "trash", "--force", "--permanent", filepath.Join(dir, "a.png"))
		require.NoError(t, err)
		assert.Contains(t, stdout, "Deleted ")
		assert.NoFileExists(t, filepath.Join(dir, "a.png"))
	})

	t.Run("missing file", func(t *testing.T) {
		root, _ := newTestRoot(t)
		_, _, err := executeCommandC(root, "trash", "--force", filepath.Join(t.TempDir(), "nope.png"))
		assert.Error(t, err)
	})
}

func TestThumbsCleanCommand(t *testing.T) {
	dir := setupImages(t, "keep.png", "gone.png")
	cacheDir := t.TempDir()

	c, err := thumbcache.Open(cacheDir, nil)
	require.NoError(t, err)
	for _, n := range []string{"keep.png", "gone.png"} {
		p := filepath.Join(dir, n)
		fi, err := os.Stat(p)
		require.NoError(t, err)
		require.NoError(t, c.Put(p, fi, []byte("png")))
	}
	require.NoError(t, c.Close())
	require.NoError(t, os.Remove(filepath.Join(dir, "gone.png")))

	root, _ := newTestRoot(t)
	stdout, stderr, err := executeCommandC(root, "thumbs-clean", "--cache", cacheDir)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Removed 1 stale thumbnails, 1 remain.")
}
