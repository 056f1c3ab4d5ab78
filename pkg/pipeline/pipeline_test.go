package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventum-project/eventum-core/internal/testsupport"
	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/output"
)

func writeTemplate(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSupervisorSampleRunDeliversEveryEvent(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeTemplate(t, dir, "event.jinja", "tick")
	outPath := filepath.Join(dir, "out.log")

	cfg := config.Config{
		Input: config.ProducerSpec{
			Kind:   config.ProducerStatic,
			Static: &config.StaticProducerSpec{Count: 3},
		},
		Event: config.EventSpec{
			Mode: config.PickerAll,
			Templates: []config.TemplateSpec{
				{Alias: "a", Source: config.StringList{tplPath}},
			},
		},
		Output: []config.OutputSpec{
			{
				Kind: config.OutputFile,
				File: &config.FileOutputSpec{
					Path:      outPath,
					Formatter: config.FormatterSpec{Kind: config.FormatterPlain},
				},
			},
		},
	}

	sv, err := New(Options{Config: cfg, Mode: ModeSample})
	require.NoError(t, err)
	defer sv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, sv.Run(ctx))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.Equal(t, "tick", line)
	}
}

func TestSupervisorSampleRunConservesLinspaceCount(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeTemplate(t, dir, "event.jinja", "{{ timestamp }}")

	cfg := config.Config{
		Input: config.ProducerSpec{
			Kind: config.ProducerLinspace,
			Linspace: &config.LinspaceProducerSpec{
				Start: "2024-01-01T00:00:00Z",
				End:   "2024-01-01T00:00:03Z",
				Count: 3,
			},
		},
		Event: config.EventSpec{
			Mode: config.PickerAll,
			Templates: []config.TemplateSpec{
				{Alias: "a", Source: config.StringList{tplPath}},
			},
		},
	}

	sink := &testsupport.MemorySink{}
	sv, err := New(Options{Config: cfg, Mode: ModeSample, ExtraPlugins: []output.Plugin{sink}})
	require.NoError(t, err)
	defer sv.Close()

	require.NoError(t, sv.Run(context.Background()))

	assert.True(t, sink.Opened())
	assert.True(t, sink.Closed())
	// spec.md §8 "Count conservation (sample)": linspace.count must match
	// exactly, regardless of how many timestamps landed in any one
	// internal batch.
	assert.Len(t, sink.Events(), 3)
}

func TestSupervisorLiveRunDeliversEveryEventPromptly(t *testing.T) {
	dir := t.TempDir()
	tplPath := writeTemplate(t, dir, "event.jinja", "tick")

	cfg := config.Config{
		Input: config.ProducerSpec{
			Kind:   config.ProducerStatic,
			Static: &config.StaticProducerSpec{Count: 3},
		},
		Event: config.EventSpec{
			Mode: config.PickerAll,
			Templates: []config.TemplateSpec{
				{Alias: "a", Source: config.StringList{tplPath}},
			},
		},
	}

	sink := &testsupport.MemorySink{}
	sv, err := New(Options{Config: cfg, Mode: ModeLive, ExtraPlugins: []output.Plugin{sink}})
	require.NoError(t, err)
	defer sv.Close()

	// static is a finite live producer: once its one batch of "now"
	// timestamps clears the timestamps batcher's scheduling-mode hold and
	// the event stage renders it, the input/event/output units drain and
	// Run returns on its own. This exercises spec.md §1's live-mode
	// real-time delivery promise end-to-end: if the batcher's Delay or the
	// event batcher's timeout were left at their zero-value defaults, this
	// run would stall well past the deadline below waiting on the 100,000/
	// 1000-item size triggers that never fill.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, sv.Run(ctx))

	assert.True(t, sink.Opened())
	assert.True(t, sink.Closed())
	assert.Len(t, sink.Events(), 3)
}

func TestSupervisorRejectsProducerThatCannotSample(t *testing.T) {
	cfg := config.Config{
		Input: config.ProducerSpec{
			Kind:  config.ProducerTimer,
			Timer: &config.TimerProducerSpec{Seconds: 1, Count: 1, Repeat: nil},
		},
		Event: config.EventSpec{
			Mode: config.PickerAll,
			Templates: []config.TemplateSpec{
				{Alias: "a", Source: config.StringList{"unused.jinja"}},
			},
		},
	}

	_, err := New(Options{Config: cfg, Mode: ModeSample})
	assert.Error(t, err)
}

func TestSupervisorEscalatesOutputOpenFailure(t *testing.T) {
	cfg := config.Config{
		Input: config.ProducerSpec{
			Kind:   config.ProducerStatic,
			Static: &config.StaticProducerSpec{Count: 1},
		},
		Event: config.EventSpec{
			Mode: config.PickerAll,
			Templates: []config.TemplateSpec{
				{Alias: "a", Source: config.StringList{"unused.jinja"}},
			},
		},
		Output: []config.OutputSpec{
			{
				Kind: config.OutputFile,
				File: &config.FileOutputSpec{
					// A path under a nonexistent directory fails Open.
					Path:      "/nonexistent/dir/out.log",
					Formatter: config.FormatterSpec{Kind: config.FormatterPlain},
				},
			},
		},
	}

	sv, err := New(Options{Config: cfg, Mode: ModeSample})
	require.NoError(t, err)
	defer sv.Close()

	err = sv.Run(context.Background())
	assert.Error(t, err)
}
