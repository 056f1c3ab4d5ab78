package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuildsRegisteredKind(t *testing.T) {
	r := New[string]()
	r.Register("upper", func(spec any) (string, error) {
		return spec.(string) + "!", nil
	})

	got, err := r.Build("upper", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello!", got)
}

func TestRegistryUnknownKindErrors(t *testing.T) {
	r := New[int]()
	_, err := r.Build("missing", nil)
	require.Error(t, err)
}

func TestRegistryKindsListsAllRegistered(t *testing.T) {
	r := New[int]()
	r.Register("a", func(any) (int, error) { return 1, nil })
	r.Register("b", func(any) (int, error) { return 2, nil })
	assert.ElementsMatch(t, []string{"a", "b"}, r.Kinds())
}
