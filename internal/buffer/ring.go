package buffer

import (
	"fmt"
)

// Ring is a fixed capacity ring buffer keeping the last x elements.
// Once full, every push overwrites and evicts the oldest element.
// Indexing is logical, e.g. At(0) is always the oldest element held.
// Ring is not safe for concurrent use.
type Ring[T any] struct {
	index  int
	count  int
	values []T
}

// NewRing creates a new ring with the given buffer size.
func NewRing[T any](size int) *Ring[T] {
	if size <= 0 {
		panic(fmt.Sprintf("ring size must be positive: %d", size))
	}
	return &Ring[T]{
		values: make([]T, size),
	}
}

// Push adds an element to the ring.
// If the ring was already full, the evicted oldest element is returned with true.
// The evicted slot is handed over to the caller, the ring keeps no reference to it.
func (r *Ring[T]) Push(v T) (T, bool) {
	var evicted T
	full := r.Full()
	if full {
		evicted = r.values[r.index]
	}
	r.values[r.index] = v
	r.index = r.next(r.index)
	if !full {
		r.count++
	}
	return evicted, full
}

// Size returns the number of elements within the ring.
func (r *Ring[T]) Size() int {
	return r.count
}

// Cap returns the capacity of the ring.
func (r *Ring[T]) Cap() int {
	return len(r.values)
}

// Full returns true if the ring has been filled at least once.
func (r *Ring[T]) Full() bool {
	return r.count == len(r.values)
}

// At returns the element at the given logical index,
// 0 being the oldest and Size()-1 the most recent one.
// Indexing outside of the filled range is a programming error and panics.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.count {
		panic(fmt.Sprintf("ring index out of range [%d] with size %d", i, r.count))
	}
	return r.values[r.slot(i)]
}

// Last returns the most recent element, if any.
func (r *Ring[T]) Last() (T, bool) {
	if r.count == 0 {
		var empty T
		return empty, false
	}
	return r.At(r.count - 1), true
}

// Get returns an ordered slice of the ring elements, oldest first.
func (r *Ring[T]) Get() []T {
	v := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		v[i] = r.values[r.slot(i)]
	}
	return v
}

func (r *Ring[T]) slot(i int) int {
	if r.count < len(r.values) {
		return i
	}
	// once full, the write index points at the oldest element
	return (r.index + i) % len(r.values)
}

func (r *Ring[T]) next(index int) int {
	return (index + 1) % len(r.values)
}
