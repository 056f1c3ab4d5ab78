package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshalString(t *testing.T) {
	var d Duration
	require.NoError(t, yaml.Unmarshal([]byte(`30s`), &d))
	assert.Equal(t, 30*time.Second, d.Duration())
}

func TestDurationUnmarshalNumber(t *testing.T) {
	var d Duration
	require.NoError(t, yaml.Unmarshal([]byte(`1.5`), &d))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())
}

func TestDurationUnmarshalInvalidString(t *testing.T) {
	var d Duration
	assert.Error(t, yaml.Unmarshal([]byte(`not-a-duration`), &d))
}

func TestStringListAcceptsScalarOrSequence(t *testing.T) {
	var s StringList
	require.NoError(t, yaml.Unmarshal([]byte(`/templates/a.j2`), &s))
	assert.Equal(t, StringList{"/templates/a.j2"}, s)

	var multi StringList
	require.NoError(t, yaml.Unmarshal([]byte(`[/a.j2, /b.j2]`), &multi))
	assert.Equal(t, StringList{"/a.j2", "/b.j2"}, multi)
}

func TestTimeBoundIsNever(t *testing.T) {
	assert.True(t, TimeBound("never").IsNever())
	assert.False(t, TimeBound("2024-01-01T00:00:00Z").IsNever())
}
