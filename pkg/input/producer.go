// Package input implements the timestamp producers of spec.md §4.1: cron,
// linspace, static, timer, explicit timestamp lists, and time-pattern
// pools. Each producer is constructed from its validated config.ProducerSpec
// variant and exposes the same Producer contract, mirroring the way
// tarsy's queue.SessionExecutor gives the worker pool a single-method
// contract it drives without caring about the concrete implementation
// (pkg/queue/types.go).
package input

import (
	"context"
	"fmt"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// Emit receives one batch of timestamps produced in ascending order.
type Emit func(timestamp.Batch) error

// Producer is the contract every timestamp producer implements (spec.md
// §4.1).
type Producer interface {
	// ID is this producer's unique numeric id within the run.
	ID() int32
	// Tags are attached to every emission from this producer.
	Tags() []string
	// SupportsSample reports whether GenerateSample can be called.
	SupportsSample() bool
	// SupportsLive reports whether GenerateLive can be called.
	SupportsLive() bool
	// GenerateSample enumerates every fire in [start,end] once and returns.
	GenerateSample(ctx context.Context, emit Emit) error
	// GenerateLive sleeps until each scheduled instant and emits forever
	// (or until ctx is cancelled / the configured end is reached).
	GenerateLive(ctx context.Context, emit Emit) error
}

// New constructs the Producer for a validated spec.ProducerSpec, mirroring
// tarsy's pkg/agent/factory.go kind-keyed constructor switch.
func New(id int32, tags []string, spec config.ProducerSpec, now NowFunc) (Producer, error) {
	base := base{id: id, tags: tags}

	switch spec.Kind {
	case config.ProducerCron:
		return newCronProducer(base, spec.Cron, now)
	case config.ProducerLinspace:
		return newLinspaceProducer(base, spec.Linspace, now)
	case config.ProducerStatic:
		return newStaticProducer(base, spec.Static)
	case config.ProducerTimer:
		return newTimerProducer(base, spec.Timer, now)
	case config.ProducerTimestamps:
		return newTimestampsProducer(base, spec.Timestamps, now)
	case config.ProducerTimePatterns:
		return newTimePatternsProducer(base, spec.TimePatterns, now)
	default:
		return nil, fmt.Errorf("input: unknown producer kind %q", spec.Kind)
	}
}

// NowFunc supplies the reference "now" a producer clamps its start/end
// bounds against; injected so tests can fix it.
type NowFunc func() timestamp.Timestamp

// base holds the fields every producer shares.
type base struct {
	id   int32
	tags []string
}

func (b base) ID() int32      { return b.id }
func (b base) Tags() []string { return b.tags }
