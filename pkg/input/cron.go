package input

import (
	"context"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
	"github.com/robfig/cron/v3"
)

// cronProducer yields the next cron-fired moment within [start,end],
// sleeping until it in live mode or enumerating every fire in sample mode
// (spec.md §4.1 "Cron").
type cronProducer struct {
	base
	schedule cron.Schedule
	count    int
	start    timestamp.Timestamp
	end      timestamp.Timestamp
	never    bool
	now      NowFunc
}

func newCronProducer(b base, spec *config.CronProducerSpec, now NowFunc) (Producer, error) {
	schedule, err := cron.ParseStandard(spec.Expression)
	if err != nil {
		return nil, err
	}

	refNow := now().Time()
	start, err := resolveStart(spec.Start, refNow, true)
	if err != nil {
		return nil, err
	}
	end, never, err := resolveEnd(spec.End, refNow)
	if err != nil {
		return nil, err
	}
	if err := checkRange(start, end, never); err != nil {
		return nil, err
	}

	return &cronProducer{
		base:     b,
		schedule: schedule,
		count:    spec.Count,
		start:    toTimestamp(start),
		end:      toTimestamp(end),
		never:    never,
		now:      now,
	}, nil
}

func (p *cronProducer) SupportsSample() bool { return !p.never }
func (p *cronProducer) SupportsLive() bool   { return true }

func (p *cronProducer) GenerateSample(ctx context.Context, emit Emit) error {
	// Next returns the first fire strictly after its argument; stepping back
	// one nanosecond keeps a fire that lands exactly on start.
	cursor := p.start.Time().Add(-time.Nanosecond)
	end := p.end.Time()
	for {
		next := p.schedule.Next(cursor)
		if next.After(end) {
			return nil
		}
		if err := p.emitCopies(emit, next); err != nil {
			return err
		}
		cursor = next
	}
}

func (p *cronProducer) GenerateLive(ctx context.Context, emit Emit) error {
	cursor := p.start.Time().Add(-time.Nanosecond)
	for {
		next := p.schedule.Next(cursor)
		if !p.never && toTimestamp(next) > p.end {
			return nil
		}
		if err := sleepUntil(ctx, next); err != nil {
			return err
		}
		if err := p.emitCopies(emit, next); err != nil {
			return err
		}
		cursor = next
	}
}

func (p *cronProducer) emitCopies(emit Emit, at time.Time) error {
	ts := toTimestamp(at)
	batch := make([]timestamp.Timestamp, p.count)
	for i := range batch {
		batch[i] = ts
	}
	return emit(timestamp.Batch{Timestamps: batch})
}
