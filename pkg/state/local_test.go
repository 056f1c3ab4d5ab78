package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalIsolatesAliases(t *testing.T) {
	l := NewLocal()
	a := l.For("template-a")
	b := l.For("template-b")

	require.NoError(t, a.Set("counter", 1))

	_, ok := b.Get("counter")
	assert.False(t, ok, "write to template-a's locals must not be visible to template-b")

	v, ok := a.Get("counter")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestLocalForReturnsSameScope(t *testing.T) {
	l := NewLocal()
	first := l.For("template-a")
	require.NoError(t, first.Set("k", "v"))

	second := l.For("template-a")
	v, ok := second.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
