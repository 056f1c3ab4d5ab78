package pipeline

import (
	"context"
	"time"

	"github.com/eventum-project/eventum-core/pkg/batch"
	eerrors "github.com/eventum-project/eventum-core/pkg/errors"
	"github.com/eventum-project/eventum-core/pkg/picker"
	"github.com/eventum-project/eventum-core/pkg/render"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// runEventUnit is the event stage of spec.md §4.8: for each timestamp read
// off Queue A it resolves the alias(es) via the picker, renders them, and
// hands the rendered strings to the generic size+timeout batcher (spec.md
// §4.9), whose flushes become Queue B. A template render failure is the
// per-event recoverable RuntimeError of spec.md §7 — it is logged and the
// event is dropped, not escalated.
func (s *Supervisor) runEventUnit(ctx context.Context) error {
	gb := batch.New(s.eventBatchSize(), s.eventBatchTimeout(), func(events []string) {
		select {
		case s.queueB <- events:
		case <-ctx.Done():
		}
	})

	defer close(s.queueB)
	defer gb.Close()

	tags := s.producer.Tags()

	for {
		select {
		case b, ok := <-s.queueA:
			if !ok {
				return ctx.Err()
			}
			if err := s.renderBatch(ctx, b, tags, gb); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Supervisor) eventBatchSize() int {
	if s.opts.EventBatchSize <= 0 {
		return 1000
	}
	return s.opts.EventBatchSize
}

// eventBatchTimeout returns the configured event→output batcher timeout,
// defaulting to timestamp.MinBatchDelay in live mode so that Queue B still
// flushes promptly between size-triggered batches (spec.md §1's real-time
// delivery promise) even when the caller leaves EventBatchTimeout unset. In
// sample mode an unset timeout stays zero (size-only flushing): there is no
// wall clock to respect, so there is nothing for a timer to buy.
func (s *Supervisor) eventBatchTimeout() time.Duration {
	if s.opts.EventBatchTimeout > 0 {
		return s.opts.EventBatchTimeout
	}
	if s.opts.Mode == ModeLive {
		return timestamp.MinBatchDelay
	}
	return 0
}

// renderBatch renders every timestamp in b in order, preserving the event
// stage's input order (spec.md §5 "Event stage preserves input order").
// Each resolved alias renders against its own Local scope (spec.md §8
// "State isolation": a write to template A's locals never affects template
// B's) — so aliases are resolved here and rendered one at a time rather
// than through Renderer.RenderAll, which would share one EventContext.Local
// across every alias picked for the event.
func (s *Supervisor) renderBatch(ctx context.Context, b timestamp.Batch, tags []string, gb *batch.Batcher[string]) error {
	for _, ts := range b.Timestamps {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		t := ts.Time()
		pickCtx := picker.Context{Timestamp: t, Tags: tags, Shared: s.shared.Snapshot()}

		aliases, err := s.picker.Pick(pickCtx)
		if err != nil {
			s.log.Warn("event: pick failed, dropping event",
				"error", eerrors.NewRuntimeError("picker", "", err))
			continue
		}

		for _, alias := range aliases {
			paths, ok := s.templates[alias]
			if !ok {
				s.log.Warn("event: no template registered for alias, dropping", "alias", alias)
				continue
			}
			evCtx := render.EventContext{
				Timestamp: t,
				Tags:      tags,
				Params:    s.params,
				Samples:   s.samples,
				Local:     s.local.For(alias),
				Shared:    s.shared,
				Composed:  s.composed,
			}
			for _, path := range paths {
				out, err := s.renderer.Render(path, evCtx)
				if err != nil {
					s.log.Warn("event: render failed, dropping event",
						"error", eerrors.NewRuntimeError("renderer", alias, err))
					continue
				}
				gb.Add(out)
			}
		}
	}
	return nil
}
