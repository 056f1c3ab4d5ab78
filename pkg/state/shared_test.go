package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedVisibleAcrossReaders(t *testing.T) {
	s := NewShared()
	require.NoError(t, s.Set("counter", 5))

	v, ok := s.Get("counter")
	require.True(t, ok)
	assert.Equal(t, 5, v)

	snap := s.Snapshot()
	assert.Equal(t, 5, snap["counter"])

	// Mutating the snapshot must not affect the store.
	snap["counter"] = 999
	v, _ = s.Get("counter")
	assert.Equal(t, 5, v)
}

func TestSharedMissingKey(t *testing.T) {
	s := NewShared()
	_, ok := s.Get("missing")
	assert.False(t, ok)
}
