package input

import (
	"context"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// timerProducer produces Count copies every Seconds, for Repeat cycles (nil
// Repeat means live-only, infinite) (spec.md §4.1 "Timer").
type timerProducer struct {
	base
	start   time.Time
	period  time.Duration
	count   int
	repeat  *int
	now     NowFunc
}

func newTimerProducer(b base, spec *config.TimerProducerSpec, now NowFunc) (Producer, error) {
	start := time.Now()
	if spec.Start != "" {
		resolved, err := resolveTime(spec.Start, start)
		if err != nil {
			return nil, err
		}
		start = resolved
	}
	return &timerProducer{
		base:   b,
		start:  start,
		period: time.Duration(spec.Seconds * float64(time.Second)),
		count:  spec.Count,
		repeat: spec.Repeat,
		now:    now,
	}, nil
}

func (p *timerProducer) SupportsSample() bool { return p.repeat != nil }
func (p *timerProducer) SupportsLive() bool   { return true }

func (p *timerProducer) GenerateSample(ctx context.Context, emit Emit) error {
	cycles := 0
	if p.repeat != nil {
		cycles = *p.repeat
	}
	for i := 0; i < cycles; i++ {
		fire := p.start.Add(p.period * time.Duration(i))
		if err := p.emitCopies(emit, fire); err != nil {
			return err
		}
	}
	return nil
}

func (p *timerProducer) GenerateLive(ctx context.Context, emit Emit) error {
	// Skip whole periods already past, per spec.md §4.1 "In live, skip whole
	// periods already past."
	now := p.now()
	cycle := 0
	for {
		fire := p.start.Add(p.period * time.Duration(cycle))
		if toTimestamp(fire) >= now {
			break
		}
		cycle++
	}

	for p.repeat == nil || cycle < *p.repeat {
		fire := p.start.Add(p.period * time.Duration(cycle))
		if err := sleepUntil(ctx, fire); err != nil {
			return err
		}
		if err := p.emitCopies(emit, fire); err != nil {
			return err
		}
		cycle++
	}
	return nil
}

func (p *timerProducer) emitCopies(emit Emit, at time.Time) error {
	ts := toTimestamp(at)
	batch := make([]timestamp.Timestamp, p.count)
	for i := range batch {
		batch[i] = ts
	}
	return emit(timestamp.Batch{Timestamps: batch})
}

// sleepUntil blocks until at or ctx is cancelled, whichever comes first.
func sleepUntil(ctx context.Context, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d := time.Until(at)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
