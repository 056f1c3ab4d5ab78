package input

import (
	"fmt"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/relativetime"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// resolveStart resolves a start TimeBound against reference, defaulting to
// reference for live mode and to the zero time for sample mode (spec.md
// §4.1 "Empty/open start defaults to now in live, to datetime-min in
// sample").
func resolveStart(bound config.TimeBound, reference time.Time, live bool) (time.Time, error) {
	if bound == "" {
		if live {
			return reference, nil
		}
		return time.Time{}, nil
	}
	return resolveTime(bound, reference)
}

// resolveEnd resolves an end TimeBound, which may be the literal "never"
// (live-only, meaning unbounded).
func resolveEnd(bound config.TimeBound, reference time.Time) (end time.Time, never bool, err error) {
	if bound.IsNever() {
		return time.Time{}, true, nil
	}
	if bound == "" {
		return time.Time{}, false, fmt.Errorf("input: end is required")
	}
	t, err := resolveTime(bound, reference)
	return t, false, err
}

// resolveTime accepts an absolute RFC 3339 datetime or a relative
// expression understood by pkg/relativetime ("+1d12h"); human expressions
// such as "in 2 hours" are delegated to relativetime.Resolve as well, which
// treats any non-RFC3339, non-signed-duration string as invalid rather than
// guessing at natural language, keeping parsing deterministic.
func resolveTime(bound config.TimeBound, reference time.Time) (time.Time, error) {
	s := string(bound)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return relativetime.Resolve(s, reference)
}

// checkRange validates start < end, the shared invariant every producer's
// bounds enforce (spec.md §4.1 "end <= start is invalid").
func checkRange(start, end time.Time, never bool) error {
	if never {
		return nil
	}
	if !end.After(start) {
		return fmt.Errorf("input: end (%s) must be after start (%s)", end, start)
	}
	return nil
}

func toTimestamp(t time.Time) timestamp.Timestamp {
	return timestamp.FromTime(t)
}
