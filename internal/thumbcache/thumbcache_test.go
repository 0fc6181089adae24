package thumbcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir(), func(m string) { t.Logf("thumbcache: %s", m) })
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func writeFile(t *testing.T, dir, name, content string) (string, os.FileInfo) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	fi, err := os.Stat(p)
	require.NoError(t, err)
	return p, fi
}

func TestPutGet(t *testing.T) {
	c := openTestCache(t)
	p, fi := writeFile(t, t.TempDir(), "a.png", "x")

	_, ok, err := c.Get(p, fi)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(p, fi, []byte("thumb")))
	data, ok, err := c.Get(p, fi)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("thumb"), data)
}

func TestChangedFileMisses(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()
	p, fi := writeFile(t, dir, "a.png", "x")
	require.NoError(t, c.Put(p, fi, []byte("old")))

	_, fi2 := writeFile(t, dir, "a.png", "longer content")
	_, ok, err := c.Get(p, fi2)
	require.NoError(t, err)
	assert.False(t, ok, "size changed, entry is stale")

	require.NoError(t, c.Put(p, fi2, []byte("new")))
	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "older version replaced")
}

func TestRemove(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()
	a, fa := writeFile(t, dir, "a.png", "x")
	ab, fab := writeFile(t, dir, "a.png.bak.png", "x")
	require.NoError(t, c.Put(a, fa, []byte("a")))
	require.NoError(t, c.Put(ab, fab, []byte("ab")))

	require.NoError(t, c.Remove(a))
	_, ok, _ := c.Get(a, fa)
	assert.False(t, ok)
	_, ok, _ = c.Get(ab, fab)
	assert.True(t, ok, "a path sharing a prefix is untouched")
}

func TestPrune(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()
	keep, fk := writeFile(t, dir, "keep.png", "x")
	gone, fg := writeFile(t, dir, "gone.png", "x")
	changed, fc := writeFile(t, dir, "changed.png", "x")
	require.NoError(t, c.Put(keep, fk, []byte("k")))
	require.NoError(t, c.Put(gone, fg, []byte("g")))
	require.NoError(t, c.Put(changed, fc, []byte("c")))

	require.NoError(t, os.Remove(gone))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(changed, later, later))

	n, err := c.Prune()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, left)
	_, ok, _ := c.Get(keep, fk)
	assert.True(t, ok)
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, nil)
	require.NoError(t, err)
	p, fi := writeFile(t, t.TempDir(), "a.png", "x")
	require.NoError(t, c.Put(p, fi, []byte("t")))
	require.NoError(t, c.Close())

	c, err = Open(dir, nil)
	require.NoError(t, err)
	defer c.Close()
	_, ok, err := c.Get(p, fi)
	require.NoError(t, err)
	assert.True(t, ok)
}
