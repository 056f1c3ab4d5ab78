package input

import (
	"context"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// linspaceProducer computes Count equally spaced points across [start,end]
// (spec.md §4.1 "Linspace"). Sample mode emits every point as one batch;
// live mode drops past points and relies on the batcher's scheduling mode
// to release the rest at wall-clock.
type linspaceProducer struct {
	base
	start    time.Time
	end      time.Time
	count    int
	endpoint bool
	now      NowFunc
}

func newLinspaceProducer(b base, spec *config.LinspaceProducerSpec, now NowFunc) (Producer, error) {
	ref := time.Now()
	start, err := resolveTime(spec.Start, ref)
	if err != nil {
		return nil, err
	}
	end, err := resolveTime(spec.End, ref)
	if err != nil {
		return nil, err
	}
	if err := checkRange(start, end, false); err != nil {
		return nil, err
	}
	return &linspaceProducer{base: b, start: start, end: end, count: spec.Count, endpoint: spec.EndpointOrDefault(), now: now}, nil
}

func (p *linspaceProducer) SupportsSample() bool { return true }
func (p *linspaceProducer) SupportsLive() bool    { return true }

func (p *linspaceProducer) points() []timestamp.Timestamp {
	span := p.end.Sub(p.start)
	n := p.count
	divisor := n
	if p.endpoint {
		divisor = n - 1
	}
	if divisor < 1 {
		divisor = 1
	}

	points := make([]timestamp.Timestamp, n)
	step := span / time.Duration(divisor)
	for i := 0; i < n; i++ {
		points[i] = toTimestamp(p.start.Add(step * time.Duration(i)))
	}
	return points
}

func (p *linspaceProducer) GenerateSample(ctx context.Context, emit Emit) error {
	return emit(timestamp.Batch{Timestamps: p.points()})
}

func (p *linspaceProducer) GenerateLive(ctx context.Context, emit Emit) error {
	now := p.now()
	pts := p.points()
	future := pts[:0:0]
	for _, ts := range pts {
		if ts >= now {
			future = append(future, ts)
		}
	}
	if len(future) == 0 {
		return nil
	}
	return emit(timestamp.Batch{Timestamps: future})
}
