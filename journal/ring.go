package journal

import "sync"

// Ring is a thread-safe ring buffer keeping the most recent entries.
type Ring[T any] struct {
	buf      []T
	size     uint64
	capacity uint64
	next     uint64
	mu       sync.RWMutex
}

// NewRing creates a ring holding at most capacity entries.
func NewRing[T any](capacity uint64) *Ring[T] {
	if capacity == 0 {
		panic("capacity must be greater than 0")
	}

	return &Ring[T]{
		buf:      make([]T, capacity),
		capacity: capacity,
	}
}

// Push appends an entry, overwriting the oldest one once the ring is full.
func (r *Ring[T]) Push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next%r.capacity] = v
	r.next++

	if r.size < r.capacity {
		r.size++
	}
}

// Last returns up to n of the most recent entries, oldest first.
func (r *Ring[T]) Last(n uint64) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := min(n, r.size)
	if count == 0 {
		return []T{}
	}

	result := make([]T, count)
	start := r.next - count
	for i := uint64(0); i < count; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}

	return result
}

// All returns every retained entry, oldest first.
func (r *Ring[T]) All() []T {
	return r.Last(r.capacity)
}

// Len returns the number of retained entries.
func (r *Ring[T]) Len() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *Ring[T]) Cap() uint64 {
	return r.capacity
}
