package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposedSetAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "composed.bin")
	c, err := Open(path, 4096)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(map[string]any{"counter": int8(1)}))

	v, ok, err := c.Get("counter")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 1, v)
}

func TestComposedGetForUpdateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "composed.bin")
	c, err := Open(path, 4096)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(map[string]any{"counter": int8(1)}))

	data, err := c.GetForUpdate()
	require.NoError(t, err)
	current, _ := data["counter"].(int8)
	data["counter"] = current + 1
	require.NoError(t, c.Set(data))

	v, ok, err := c.Get("counter")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 2, v)
}

func TestComposedCancelUpdateDiscardsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "composed.bin")
	c, err := Open(path, 4096)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(map[string]any{"counter": int8(1)}))

	_, err = c.GetForUpdate()
	require.NoError(t, err)
	c.CancelUpdate()

	v, ok, err := c.Get("counter")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 1, v)
}

func TestComposedOverflowRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "composed.bin")
	c, err := Open(path, 8)
	require.NoError(t, err)
	defer c.Close()

	err = c.Set(map[string]any{"key": "a value far too long for eight bytes of capacity"})
	assert.ErrorIs(t, err, ErrComposedOverflow)
}
