// Package batch provides the generic size+timeout batcher described in
// spec.md §4.9: a single-producer helper with no scheduling and no
// binary-search over time, used inside the event unit to group rendered
// events before handing them to the output stage.
package batch

import (
	"sync"
	"time"
)

// Batcher groups items added via Add into slices flushed to onFlush once
// either size items have accumulated or timeout has elapsed since the first
// item of the pending group arrived. Close flushes any remainder.
type Batcher[T any] struct {
	size    int
	timeout time.Duration
	onFlush func([]T)

	mu      sync.Mutex
	pending []T
	timer   *time.Timer
	closed  bool
}

// New creates a Batcher. onFlush is invoked synchronously (holding no
// internal lock) from whichever goroutine triggers the flush — either the
// caller of Add or the internal timeout goroutine.
func New[T any](size int, timeout time.Duration, onFlush func([]T)) *Batcher[T] {
	if size <= 0 {
		size = 1
	}
	return &Batcher[T]{
		size:    size,
		timeout: timeout,
		onFlush: onFlush,
	}
}

// Add appends x to the pending group, flushing immediately if this fills
// the group to size.
func (b *Batcher[T]) Add(x T) {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return
	}

	if len(b.pending) == 0 && b.timeout > 0 {
		b.timer = time.AfterFunc(b.timeout, b.flushOnTimeout)
	}
	b.pending = append(b.pending, x)

	if len(b.pending) < b.size {
		b.mu.Unlock()
		return
	}

	flushed := b.takeLocked()
	b.mu.Unlock()
	b.onFlush(flushed)
}

func (b *Batcher[T]) flushOnTimeout() {
	b.mu.Lock()
	if b.closed || len(b.pending) == 0 {
		b.mu.Unlock()
		return
	}
	flushed := b.takeLocked()
	b.mu.Unlock()
	b.onFlush(flushed)
}

// takeLocked must be called with mu held; it clears the pending group and
// its timer, returning what had accumulated.
func (b *Batcher[T]) takeLocked() []T {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	flushed := b.pending
	b.pending = nil
	return flushed
}

// Close flushes any remaining pending items and stops accepting further Add
// calls.
func (b *Batcher[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	flushed := b.takeLocked()
	b.mu.Unlock()

	if len(flushed) > 0 {
		b.onFlush(flushed)
	}
}
