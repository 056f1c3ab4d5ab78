package batch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatcherFlushesOnSize(t *testing.T) {
	var mu sync.Mutex
	var flushes [][]int

	b := New(2, 0, func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		flushes = append(flushes, items)
	})

	b.Add(1)
	b.Add(2)
	b.Add(3)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, flushes, 1)
	assert.Equal(t, []int{1, 2}, flushes[0])
}

func TestBatcherFlushesOnTimeout(t *testing.T) {
	flushed := make(chan []int, 1)
	b := New(100, 20*time.Millisecond, func(items []int) {
		flushed <- items
	})
	defer b.Close()

	b.Add(1)
	b.Add(2)

	select {
	case items := <-flushed:
		assert.Equal(t, []int{1, 2}, items)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for timeout flush")
	}
}

func TestBatcherCloseFlushesRemainder(t *testing.T) {
	var flushes [][]int
	b := New(100, 0, func(items []int) {
		flushes = append(flushes, items)
	})

	b.Add(1)
	b.Add(2)
	b.Close()

	require.Len(t, flushes, 1)
	assert.Equal(t, []int{1, 2}, flushes[0])

	// Add after close is a no-op.
	b.Add(3)
	assert.Len(t, flushes, 1)
}

func TestBatcherCloseWithNothingPendingDoesNotFlush(t *testing.T) {
	calls := 0
	b := New(10, 0, func(items []int) { calls++ })
	b.Close()
	assert.Equal(t, 0, calls)
}
