package input

import (
	"context"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// staticProducer emits Count copies of the current instant (spec.md §4.1
// "Static").
type staticProducer struct {
	base
	count int
}

func newStaticProducer(b base, spec *config.StaticProducerSpec) (Producer, error) {
	return &staticProducer{base: b, count: spec.Count}, nil
}

func (p *staticProducer) SupportsSample() bool { return true }
func (p *staticProducer) SupportsLive() bool   { return true }

func (p *staticProducer) GenerateSample(ctx context.Context, emit Emit) error {
	return p.emitNow(emit)
}

func (p *staticProducer) GenerateLive(ctx context.Context, emit Emit) error {
	return p.emitNow(emit)
}

func (p *staticProducer) emitNow(emit Emit) error {
	now := toTimestamp(time.Now())
	ts := make([]timestamp.Timestamp, p.count)
	for i := range ts {
		ts[i] = now
	}
	return emit(timestamp.Batch{Timestamps: ts})
}
