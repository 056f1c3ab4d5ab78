package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventum-project/eventum-core/pkg/config"
)

func TestFileOutputWritesAndFlushesEveryCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.log")

	o, err := New(config.OutputSpec{Kind: config.OutputFile, File: &config.FileOutputSpec{
		Path:            path,
		Formatter:       config.FormatterSpec{Kind: config.FormatterPlain},
		CleanupInterval: config.Duration(time.Minute),
	}}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, o.Open(ctx))
	defer o.Close(ctx)

	n, err := o.Write(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestFileOutputOverwriteTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.log")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	o, err := New(config.OutputSpec{Kind: config.OutputFile, File: &config.FileOutputSpec{
		Path:            path,
		Formatter:       config.FormatterSpec{Kind: config.FormatterPlain},
		WriteMode:       config.WriteModeOverwrite,
		CleanupInterval: config.Duration(time.Minute),
	}}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, o.Open(ctx))
	defer o.Close(ctx)

	_, err = o.Write(ctx, []string{"fresh"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))
}
