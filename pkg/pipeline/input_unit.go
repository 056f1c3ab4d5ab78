package pipeline

import (
	"context"

	eerrors "github.com/eventum-project/eventum-core/pkg/errors"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// runInputUnit is the input stage of spec.md §4.8: it drives the
// configured producer (sample or live, per Options.Mode), feeds every
// emitted timestamp into the timestamps batcher, and forwards whatever the
// batcher scrolls out to Queue A. It owns closing Queue A — the only
// writer — so the event unit can range over it to detect completion,
// mirroring spec.md §4.8's "on clean termination each upstream unit sends a
// null/sentinel batch" (a closed Go channel is that sentinel).
func (s *Supervisor) runInputUnit(ctx context.Context) error {
	scrollDone := make(chan struct{})
	go func() {
		defer close(scrollDone)
		defer close(s.queueA)
		for {
			batch, ok, err := s.tsBatcher.Next(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Error("input: batcher scroll failed", "error", err)
				}
				return
			}
			if !ok {
				return
			}
			select {
			case s.queueA <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()

	emit := func(b timestamp.Batch) error {
		return s.tsBatcher.Add(ctx, b.Timestamps, true)
	}

	var genErr error
	switch s.opts.Mode {
	case ModeLive:
		genErr = s.producer.GenerateLive(ctx, emit)
	default:
		genErr = s.producer.GenerateSample(ctx, emit)
	}

	s.tsBatcher.Close()
	<-scrollDone

	if genErr != nil && ctx.Err() == nil {
		return eerrors.NewUnitFatalError("input", genErr)
	}
	return ctx.Err()
}
