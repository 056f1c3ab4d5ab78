// Package pipeline implements the three-stage supervisor of spec.md §4.8:
// an input unit (producer → timestamps batcher → Queue A), an event unit
// (picker + renderer → generic batcher → Queue B), and an output unit
// (fan-out to every configured sink). It generalizes tarsy's WorkerPool
// (pkg/queue/pool.go) from "N identical workers pulling sessions off one
// queue" to "3 heterogeneous units connected by bounded channels": the
// same start/stop-channel/WaitGroup shape, the same ticker-polled liveness
// check (pkg/queue/orphan.go's runOrphanDetection), generalized from
// recovering orphaned DB rows to escalating a unit's early death into a
// full pipeline teardown.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	eerrors "github.com/eventum-project/eventum-core/pkg/errors"
)

// Mode selects whether the input unit runs its producer in sample mode
// (generate a finite batch as fast as possible) or live mode (release
// events as their wall-clock moment arrives), per spec.md §1.
type Mode int

const (
	// ModeSample generates a finite batch as fast as possible.
	ModeSample Mode = iota
	// ModeLive releases events respecting each timestamp's wall-clock value.
	ModeLive
)

func (m Mode) String() string {
	if m == ModeLive {
		return "live"
	}
	return "sample"
}

// DefaultRefreshStatusInterval is the liveness-poll period the escalation
// goroutine uses, per spec.md §4.8 ("REFRESH_STATUS_INTERVAL ≈ 100ms").
const DefaultRefreshStatusInterval = 100 * time.Millisecond

// unitState records whether a unit has finished and, if so, with what
// error — mirroring the done-flag spec.md §4.8 describes ("supervisor
// observes a shared done flag/event for each unit").
type unitState struct {
	finished bool
	err      error
}

// markDone records name's completion. Called exactly once per unit, from
// that unit's own goroutine.
func (s *Supervisor) markDone(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[name] = unitState{finished: true, err: err}
}

// snapshotDone returns a copy of the done map for the escalation goroutine
// to inspect without holding the lock across its decision.
func (s *Supervisor) snapshotDone() map[string]unitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]unitState, len(s.done))
	for k, v := range s.done {
		out[k] = v
	}
	return out
}

// runEscalation polls every RefreshStatusInterval for a unit that finished
// with a non-nil error while its siblings are still running, and cancels
// the shared context so the rest of the pipeline tears down — spec.md
// §4.8's "crash escalation", grounded on pkg/queue/orphan.go's
// ticker-driven runOrphanDetection.
func (s *Supervisor) runEscalation(ctx context.Context, cancel context.CancelFunc, stop <-chan struct{}) {
	ticker := time.NewTicker(s.opts.refreshStatusInterval())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			states := s.snapshotDone()
			for name, st := range states {
				if !st.finished || st.err == nil {
					continue
				}
				if allFinished(states) {
					continue
				}
				s.log.Error("pipeline: unit failed, escalating teardown", "unit", name, "error", st.err)
				cancel()
				return
			}
		}
	}
}

func allFinished(states map[string]unitState) bool {
	for _, name := range unitNames {
		if st, ok := states[name]; !ok || !st.finished {
			return false
		}
	}
	return true
}

var unitNames = []string{"input", "event", "output"}

// firstFatalError returns the first non-context-cancellation error recorded
// across the three units, in input/event/output order, wrapped as a
// pkg/errors.UnitFatalError — the supervisor's single source of truth for
// the process exit code (spec.md §7 "the process exit code is the
// supervisor's single source of truth").
func (s *Supervisor) firstFatalError() error {
	states := s.snapshotDone()
	for _, name := range unitNames {
		st, ok := states[name]
		if !ok || st.err == nil {
			continue
		}
		if st.err == context.Canceled {
			continue
		}
		var unitErr *eerrors.UnitFatalError
		if asUnitFatal(st.err, &unitErr) {
			return unitErr
		}
		return eerrors.NewUnitFatalError(name, st.err)
	}
	return nil
}

// asUnitFatal reports whether err is already a *eerrors.UnitFatalError,
// avoiding a double-wrap when a unit already returned one.
func asUnitFatal(err error, target **eerrors.UnitFatalError) bool {
	if uf, ok := err.(*eerrors.UnitFatalError); ok {
		*target = uf
		return true
	}
	return false
}

// Run starts the three pipeline units, waits for them to finish (sample
// mode: the input unit exhausts its producer and the rest drain; live
// mode: until ctx is cancelled), and escalates any early unit death into a
// full teardown. It returns the first fatal error, or nil on clean
// completion.
func (s *Supervisor) Run(ctx context.Context) error {
	for _, p := range s.plugins {
		if err := p.Open(ctx); err != nil {
			return eerrors.NewUnitFatalError("output", fmt.Errorf("open plugin: %w", err))
		}
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, p := range s.plugins {
			if err := p.Close(closeCtx); err != nil {
				s.log.Error("pipeline: closing output plugin failed", "error", err)
			}
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopEscalation := make(chan struct{})
	var escWG sync.WaitGroup
	escWG.Add(1)
	go func() {
		defer escWG.Done()
		s.runEscalation(runCtx, cancel, stopEscalation)
	}()

	units := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"input", s.runInputUnit},
		{"event", s.runEventUnit},
		{"output", s.runOutputUnit},
	}

	var unitWG sync.WaitGroup
	for _, u := range units {
		unitWG.Add(1)
		go func(name string, fn func(context.Context) error) {
			defer unitWG.Done()
			err := fn(runCtx)
			s.log.Debug("pipeline: unit finished", "unit", name, "error", err)
			s.markDone(name, err)
		}(u.name, u.fn)
	}
	unitWG.Wait()

	close(stopEscalation)
	escWG.Wait()

	return s.firstFatalError()
}

// logWith builds a component-scoped logger the way every stage/plugin in
// this codebase does at construction time (spec.md §9 "no process-wide
// singletons"; tarsy's slog.With("component", ...) convention).
func logWith(log *slog.Logger, component string) *slog.Logger {
	if log == nil {
		log = slog.Default()
	}
	return log.With("component", component)
}
