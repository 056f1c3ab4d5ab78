package pipeline

import (
	"context"
	"sync"

	"github.com/eventum-project/eventum-core/pkg/output"
)

// runOutputUnit is the output stage of spec.md §4.8: it reads Queue B and
// fans each batch out to every configured plugin concurrently. A plugin's
// per-write failure is logged and does not affect its siblings — only
// Open failing (handled in Run, before any unit starts) is unit-fatal, per
// spec.md §7.
func (s *Supervisor) runOutputUnit(ctx context.Context) error {
	for {
		select {
		case events, ok := <-s.queueB:
			if !ok {
				return ctx.Err()
			}
			s.writeToAllPlugins(ctx, events)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// writeToAllPlugins delivers events to every plugin concurrently, preserving
// per-plugin ordering but promising nothing across plugins (spec.md §5
// "Output stage preserves the order it receives... per plugin; no
// cross-plugin ordering is promised").
func (s *Supervisor) writeToAllPlugins(ctx context.Context, events []string) {
	var wg sync.WaitGroup
	for _, plugin := range s.plugins {
		wg.Add(1)
		go func(p output.Plugin) {
			defer wg.Done()
			delivered, err := p.Write(ctx, events)
			if err != nil {
				s.log.Error("output: write failed", "delivered", delivered, "total", len(events), "error", err)
			}
		}(plugin)
	}
	wg.Wait()
}
