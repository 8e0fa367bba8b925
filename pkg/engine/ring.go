package engine

import "sync"

// ring keeps the most recent values pushed into it. It is safe for
// concurrent use; the debug server reads while the loop writes.
type ring[T any] struct {
	mu   sync.RWMutex
	buf  []T
	next int
	full bool
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{buf: make([]T, max(capacity, 1))}
}

func (r *ring[T]) push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = v
	r.next++
	if r.next == len(r.buf) {
		r.next, r.full = 0, true
	}
}

// items returns the retained values, oldest first, or nil when empty.
func (r *ring[T]) items() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.full {
		if r.next == 0 {
			return nil
		}
		return append([]T(nil), r.buf[:r.next]...)
	}
	out := make([]T, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

func (r *ring[T]) capacity() int { return len(r.buf) }
