package engine

import "sync"

// Table hands out opaque handles for engine-side objects. Handles start at 1
// and are never reused, so a stale handle can not alias a newer object.
// The zero value is ready to use.
type Table[T any] struct {
	mu    sync.Mutex
	last  uintptr
	items map[uintptr]*T
}

// Add registers v and returns its handle.
func (t *Table[T]) Add(v *T) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.items == nil {
		t.items = map[uintptr]*T{}
	}
	t.last++
	t.items[t.last] = v
	return t.last
}

// Get looks up a live handle.
func (t *Table[T]) Get(h uintptr) (*T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.items[h]
	return v, ok
}

// Delete removes h. It reports false for Null, unknown and already deleted handles.
func (t *Table[T]) Delete(h uintptr) (*T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.items[h]
	if !ok {
		return nil, false
	}
	delete(t.items, h)
	return v, true
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}
