// Package undo keeps bounded per-segment undo and redo stacks.
package undo

// Ring is a fixed-capacity LIFO stack. Pushing onto a full ring drops the
// oldest item.
type Ring[T any] struct {
	items []T
	head  int // index of the oldest item
	size  int
}

// NewRing returns an empty ring holding at most capacity items.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// Len returns the number of stored items.
func (r *Ring[T]) Len() int {
	return r.size
}

// Push adds v on top and reports whether the oldest item was evicted.
func (r *Ring[T]) Push(v T) bool {
	if r.size == len(r.items) {
		r.items[r.head] = v
		r.head = (r.head + 1) % len(r.items)
		return true
	}
	r.items[(r.head+r.size)%len(r.items)] = v
	r.size++
	return false
}

// Pop removes and returns the newest item.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	idx := (r.head + r.size - 1) % len(r.items)
	v := r.items[idx]
	r.items[idx] = zero
	r.size--
	return v, true
}

// Peek returns the newest item without removing it.
func (r *Ring[T]) Peek() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.items[(r.head+r.size-1)%len(r.items)], true
}

// Items returns the stored items from oldest to newest.
func (r *Ring[T]) Items() []T {
	out := make([]T, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.items[(r.head+i)%len(r.items)])
	}
	return out
}

// Clear removes all items.
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head = 0
	r.size = 0
}
