package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSamplesCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nalice,30\nbob,40\n"), 0o600))

	out, err := LoadSamples(map[string]config.SampleSpec{
		"users": {Type: config.SampleCSV, Source: path, Header: true},
	})
	require.NoError(t, err)
	require.Len(t, out["users"], 2)
	assert.Equal(t, []any{"alice", "30"}, out["users"][0])
}

func TestLoadSamplesJSONNormalizesScalars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codes.json")
	require.NoError(t, os.WriteFile(path, []byte(`[200, 404, 500]`), 0o600))

	out, err := LoadSamples(map[string]config.SampleSpec{
		"codes": {Type: config.SampleJSON, Source: path},
	})
	require.NoError(t, err)
	require.Len(t, out["codes"], 3)
	assert.Equal(t, []any{float64(200)}, out["codes"][0])
}

func TestLoadSamplesItemsInline(t *testing.T) {
	out, err := LoadSamples(map[string]config.SampleSpec{
		"greetings": {Type: config.SampleItems, Items: []any{"hi", "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"hi"}, {"hello"}}, out["greetings"])
}

func TestLoadSamplesMissingFileIsFatal(t *testing.T) {
	_, err := LoadSamples(map[string]config.SampleSpec{
		"missing": {Type: config.SampleCSV, Source: "/nonexistent/path.csv"},
	})
	assert.Error(t, err)
}

func TestModuleRandIntWithinBounds(t *testing.T) {
	m := NewModule(1)
	for i := 0; i < 50; i++ {
		v := m.RandInt(10, 20)
		assert.GreaterOrEqual(t, v, 10)
		assert.LessOrEqual(t, v, 20)
	}
}

func TestModuleSHA256IsDeterministic(t *testing.T) {
	m := NewModule(1)
	assert.Equal(t, m.SHA256("hello"), m.SHA256("hello"))
	assert.NotEqual(t, m.SHA256("hello"), m.SHA256("world"))
}

func TestModuleSecureTokenLength(t *testing.T) {
	m := NewModule(1)
	tok, err := m.SecureToken(16)
	require.NoError(t, err)
	assert.Len(t, tok, 32)
}

type fakeRunner struct {
	lastCmd string
	result  Result
}

func (f *fakeRunner) Run(ctx context.Context, cmd string, block bool) (Result, error) {
	f.lastCmd = cmd
	return f.result, nil
}

func TestRendererRendersSimpleTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event.jinja")
	require.NoError(t, os.WriteFile(path, []byte("ts={{ timestamp }} tag={{ tags[0] }}"), 0o600))

	r := New(&fakeRunner{}, 1)
	out, err := r.Render(path, EventContext{
		Tags: []string{"web"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "tag=web")
}
