package arrutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPast(t *testing.T) {
	sorted := []int64{1, 2, 2, 5, 9}
	past, future := SplitPast(sorted, 4)
	assert.Equal(t, []int64{1, 2, 2}, past)
	assert.Equal(t, []int64{5, 9}, future)
}

func TestSplitPastAllPast(t *testing.T) {
	sorted := []int64{1, 2, 3}
	past, future := SplitPast(sorted, 100)
	assert.Equal(t, sorted, past)
	assert.Empty(t, future)
}

func TestCountPast(t *testing.T) {
	assert.Equal(t, 3, CountPast([]int64{1, 2, 2, 5, 9}, 4))
	assert.Equal(t, 0, CountPast([]int64{5, 9}, 4))
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	chunks := Chunk(items, 2)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)
}

func TestChunkEmpty(t *testing.T) {
	assert.Nil(t, Chunk([]int{}, 2))
}

func TestChunkInvalidSize(t *testing.T) {
	assert.Panics(t, func() { Chunk([]int{1}, 0) })
}

func TestMergeSorted(t *testing.T) {
	a := []int64{1, 4, 7}
	b := []int64{2, 4, 8}
	c := []int64{0, 100}
	merged := MergeSorted(a, b, c)
	assert.Equal(t, []int64{0, 1, 2, 4, 4, 7, 8, 100}, merged)
	assert.True(t, IsNonDecreasing(merged))
}

func TestIsNonDecreasing(t *testing.T) {
	assert.True(t, IsNonDecreasing([]int64{1, 1, 2, 3}))
	assert.False(t, IsNonDecreasing([]int64{1, 2, 1}))
}
