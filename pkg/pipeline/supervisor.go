package pipeline

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eventum-project/eventum-core/pkg/condition"
	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/input"
	"github.com/eventum-project/eventum-core/pkg/output"
	"github.com/eventum-project/eventum-core/pkg/picker"
	"github.com/eventum-project/eventum-core/pkg/render"
	"github.com/eventum-project/eventum-core/pkg/state"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// Options configures a Supervisor beyond the validated config.Config:
// knobs the YAML schema doesn't carry (spec.md §6 scopes the schema to
// producer/event/output shape only) but the pipeline still needs to run —
// the run mode, the reference clock, and the two internal batchers' size
// and delay bounds.
type Options struct {
	Config config.Config
	Mode   Mode
	Logger *slog.Logger

	// Now supplies the reference instant producers clamp start/end bounds
	// against; nil defaults to time.Now.
	Now func() time.Time

	// Seed seeds the renderer's module.rand helpers; module.faker draws from
	// crypto/rand and is not seeded.
	Seed int64

	// TimestampBatcher configures the pkg/timestamp.Batcher sitting
	// between the producer and the event unit (spec.md §4.2). Scheduling
	// is forced on whenever Mode is ModeLive, regardless of this value,
	// since live mode always releases on wall-clock arrival.
	TimestampBatcher timestamp.Config

	// EventBatchSize/EventBatchTimeout configure the generic batcher
	// (spec.md §4.9) between the event unit and the output unit.
	EventBatchSize    int
	EventBatchTimeout time.Duration

	// QueueACapacity/QueueBCapacity bound the two inter-stage channels
	// (spec.md §2's "queue A"/"queue B").
	QueueACapacity int
	QueueBCapacity int

	// RefreshStatusInterval is the escalation goroutine's poll period;
	// zero defaults to DefaultRefreshStatusInterval.
	RefreshStatusInterval time.Duration

	// SubprocessRunner is injected into the renderer's subprocess.run
	// binding; nil defaults to render.ShellRunner.
	SubprocessRunner render.SubprocessRunner

	// ExtraPlugins are appended after whatever Config.Output builds,
	// letting callers (chiefly tests) inject an in-memory sink without a
	// YAML-shaped spec — the same seam SubprocessRunner gives the renderer.
	ExtraPlugins []output.Plugin
}

func (o Options) refreshStatusInterval() time.Duration {
	if o.RefreshStatusInterval <= 0 {
		return DefaultRefreshStatusInterval
	}
	return o.RefreshStatusInterval
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Supervisor wires together one producer, one timestamps batcher, one
// renderer/picker pair, the three state scopes, and the configured output
// plugins into the three-stage pipeline of spec.md §4.8.
type Supervisor struct {
	opts Options
	log  *slog.Logger

	producer  input.Producer
	tsBatcher *timestamp.Batcher

	renderer  *render.Renderer
	picker    picker.Picker
	templates map[string]config.StringList
	params    map[string]any
	samples   map[string][][]any

	local    *state.Local
	shared   *state.Shared
	composed *state.Composed

	plugins []output.Plugin

	queueA chan timestamp.Batch
	queueB chan []string

	mu   sync.Mutex
	done map[string]unitState
}

// New builds a Supervisor from already-validated options. It compiles no
// templates and opens no output connections eagerly beyond the composed
// state's shared-memory block (loading samples is the only work done
// up front, per spec.md §4.5 "missing file or parse error is a fatal
// configuration error").
func New(opts Options) (*Supervisor, error) {
	log := logWith(opts.Logger, "pipeline")

	nowFn := func() timestamp.Timestamp { return timestamp.FromTime(opts.now()) }
	producer, err := input.New(0, nil, opts.Config.Input, nowFn)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building input producer: %w", err)
	}
	if opts.Mode == ModeSample && !producer.SupportsSample() {
		return nil, fmt.Errorf("pipeline: producer kind %q does not support sample mode", opts.Config.Input.Kind)
	}
	if opts.Mode == ModeLive && !producer.SupportsLive() {
		return nil, fmt.Errorf("pipeline: producer kind %q does not support live mode", opts.Config.Input.Kind)
	}

	batcherCfg := opts.TimestampBatcher
	if opts.Mode == ModeLive {
		batcherCfg.Scheduling = true
		if batcherCfg.Delay <= 0 {
			batcherCfg.Delay = timestamp.MinBatchDelay
		}
	}
	tsBatcher := timestamp.New(batcherCfg)

	samples, err := render.LoadSamples(opts.Config.Event.Samples)
	if err != nil {
		return nil, fmt.Errorf("pipeline: loading samples: %w", err)
	}

	templates := make(map[string]config.StringList, len(opts.Config.Event.Templates))
	for _, t := range opts.Config.Event.Templates {
		templates[t.Alias] = t.Source
	}

	evaluator := condition.NewEvaluator(logWith(log, "condition"))
	pick, err := picker.New(opts.Config.Event, evaluator)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building picker: %w", err)
	}

	var composed *state.Composed
	if cs := opts.Config.Event.Composed; cs != nil {
		composed, err = state.Open(cs.Path, cs.MaxBytes)
		if err != nil {
			return nil, fmt.Errorf("pipeline: opening composed state: %w", err)
		}
	}

	plugins := make([]output.Plugin, 0, len(opts.Config.Output))
	for i, spec := range opts.Config.Output {
		plugin, err := output.New(spec, logWith(log, "output"))
		if err != nil {
			if composed != nil {
				_ = composed.Close()
			}
			return nil, fmt.Errorf("pipeline: building output[%d] (%s): %w", i, spec.Kind, err)
		}
		plugins = append(plugins, plugin)
	}
	plugins = append(plugins, opts.ExtraPlugins...)

	queueACap := opts.QueueACapacity
	if queueACap <= 0 {
		queueACap = 16
	}
	queueBCap := opts.QueueBCapacity
	if queueBCap <= 0 {
		queueBCap = 16
	}

	return &Supervisor{
		opts:      opts,
		log:       log,
		producer:  producer,
		tsBatcher: tsBatcher,
		renderer:  render.New(opts.SubprocessRunner, opts.Seed),
		picker:    pick,
		templates: templates,
		params:    opts.Config.Event.Params,
		samples:   samples,
		local:     state.NewLocal(),
		shared:    state.NewShared(),
		composed:  composed,
		plugins:   plugins,
		queueA:    make(chan timestamp.Batch, queueACap),
		queueB:    make(chan []string, queueBCap),
		done:      make(map[string]unitState, 3),
	}, nil
}

// Close releases resources New acquired outside of Run — currently only
// the composed state's shared-memory block, which outlives any single Run
// call by design (spec.md §3: it is "visible across processes").
func (s *Supervisor) Close() error {
	if s.composed != nil {
		return s.composed.Close()
	}
	return nil
}
