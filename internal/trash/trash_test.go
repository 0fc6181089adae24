package trash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dockview/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrash(t *testing.T) *HomeTrash {
	t.Helper()
	tr := New(filepath.Join(t.TempDir(), "Trash"))
	tr.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local) }
	return tr
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(name), 0644))
	return p
}

func TestTrashMovesFileAndWritesInfo(t *testing.T) {
	tr := newTestTrash(t)
	src := touch(t, t.TempDir(), "my photo.png")

	dest, err := tr.Trash(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tr.Dir, "files", "my photo.png"), dest)
	assert.NoFileExists(t, src)
	assert.FileExists(t, dest)

	info, err := os.ReadFile(filepath.Join(tr.Dir, "info", "my photo.png.trashinfo"))
	require.NoError(t, err)
	text := string(info)
	assert.True(t, strings.HasPrefix(text, "[Trash Info]\n"))
	assert.Contains(t, text, "my%20photo.png")
	assert.Contains(t, text, "DeletionDate=2024-05-06T07:08:09")
}

func TestTrashNameCollision(t *testing.T) {
	tr := newTestTrash(t)
	a := touch(t, t.TempDir(), "a.png")
	b := touch(t, t.TempDir(), "a.png")

	first, err := tr.Trash(a)
	require.NoError(t, err)
	second, err := tr.Trash(b)
	require.NoError(t, err)

	assert.Equal(t, "a.png", filepath.Base(first))
	assert.Equal(t, "a.2.png", filepath.Base(second))
	assert.FileExists(t, filepath.Join(tr.Dir, "info", "a.2.png.trashinfo"))
}

func TestTrashMissingFile(t *testing.T) {
	tr := newTestTrash(t)
	_, err := tr.Trash(filepath.Join(t.TempDir(), "gone.png"))
	assert.ErrorIs(t, err, apperr.ErrDeleteFailed)
	assert.ErrorIs(t, err, apperr.ErrPathNotFound)

	entries, _ := os.ReadDir(filepath.Join(tr.Dir, "info"))
	assert.Empty(t, entries, "no info record for a failed move")
}

func TestRemove(t *testing.T) {
	tr := newTestTrash(t)
	p := touch(t, t.TempDir(), "x.png")

	require.NoError(t, tr.Remove(p))
	assert.NoFileExists(t, p)

	err := tr.Remove(p)
	assert.ErrorIs(t, err, apperr.ErrDeleteFailed)
	assert.ErrorIs(t, err, apperr.ErrPathNotFound)
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "/home/u/a%20b/c%23d.png", escapePath("/home/u/a b/c#d.png"))
}

func TestSystemMissingFile(t *testing.T) {
	var d Deleter = NewSystem()
	_, err := d.Trash(filepath.Join(t.TempDir(), "gone.png"))
	assert.ErrorIs(t, err, apperr.ErrDeleteFailed)
	assert.ErrorIs(t, err, apperr.ErrPathNotFound)
}

func TestRemoveWithoutTrash(t *testing.T) {
	p := touch(t, t.TempDir(), "x.png")
	require.NoError(t, Remove(p))
	assert.NoFileExists(t, p)

	require.NoError(t, NewSystem().Remove(touch(t, t.TempDir(), "y.png")))
	assert.ErrorIs(t, Remove(p), apperr.ErrPathNotFound)
}
