// Package history keeps the list of recently opened folders and files.
package history

// DefaultCapacity is the number of recent locations kept when none is given.
const DefaultCapacity = 10

// RecentList is a most-recently-used list of locations. The newest entry is first.
type RecentList struct {
	items    []string
	capacity int
}

// NewRecentList creates a list holding at most capacity entries.
// If capacity is 0, the list is disabled. Negative capacity is treated as 0.
func NewRecentList(capacity int, initial ...string) *RecentList {
	if capacity < 0 {
		capacity = 0
	}
	rl := &RecentList{
		items:    make([]string, 0, capacity),
		capacity: capacity,
	}
	// Oldest first so the first initial entry ends up on top.
	for i := len(initial) - 1; i >= 0; i-- {
		rl.Touch(initial[i])
	}
	return rl
}

// Touch moves path to the top, adding it if needed and dropping the oldest
// entry when the list is full.
func (rl *RecentList) Touch(path string) {
	if rl.capacity == 0 || path == "" {
		return
	}
	rl.Remove(path)
	rl.items = append([]string{path}, rl.items...)
	if len(rl.items) > rl.capacity {
		rl.items = rl.items[:rl.capacity]
	}
}

// Remove drops path from the list. Removing an absent path is a no-op.
func (rl *RecentList) Remove(path string) {
	out := rl.items[:0]
	for _, p := range rl.items {
		if p != path {
			out = append(out, p)
		}
	}
	rl.items = out
}

// List returns a copy of the entries, newest first.
func (rl *RecentList) List() []string {
	return append([]string(nil), rl.items...)
}

// Len returns the number of entries.
func (rl *RecentList) Len() int { return len(rl.items) }

// Clear empties the list.
func (rl *RecentList) Clear() {
	rl.items = rl.items[:0]
}
