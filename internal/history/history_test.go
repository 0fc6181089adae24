package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTouchOrdersNewestFirst(t *testing.T) {
	rl := NewRecentList(3)
	rl.Touch("/a")
	rl.Touch("/b")
	rl.Touch("/c")
	assert.Equal(t, []string{"/c", "/b", "/a"}, rl.List())

	rl.Touch("/a")
	assert.Equal(t, []string{"/a", "/c", "/b"}, rl.List(), "re-touching moves to the top without duplicating")
}

func TestCapacityDropsOldest(t *testing.T) {
	rl := NewRecentList(2)
	rl.Touch("/a")
	rl.Touch("/b")
	rl.Touch("/c")
	assert.Equal(t, []string{"/c", "/b"}, rl.List())
}

func TestInitialEntriesKeepOrder(t *testing.T) {
	rl := NewRecentList(DefaultCapacity, "/new", "/old", "/new")
	assert.Equal(t, []string{"/new", "/old"}, rl.List())
}

func TestDisabledAndEmptyPath(t *testing.T) {
	rl := NewRecentList(-1)
	rl.Touch("/a")
	assert.Equal(t, 0, rl.Len())

	rl = NewRecentList(2)
	rl.Touch("")
	assert.Equal(t, 0, rl.Len())
}

func TestRemoveAndClear(t *testing.T) {
	rl := NewRecentList(5, "/a", "/b", "/c")
	rl.Remove("/b")
	rl.Remove("/missing")
	assert.Equal(t, []string{"/a", "/c"}, rl.List())

	l := rl.List()
	l[0] = "changed"
	assert.Equal(t, "/a", rl.List()[0], "List returns a copy")

	rl.Clear()
	assert.Empty(t, rl.List())
}
