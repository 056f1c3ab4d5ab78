// Package relativetime parses the expression grammar used by producer
// `start`/`end` fields: "[±]<int>(d|h|m|s){1,4}", components in any order,
// at most one of each unit, sign applying to the whole expression.
package relativetime

import (
	"fmt"
	"strconv"
	"time"
)

// unitDurations maps each unit letter of the grammar to its length; the
// order components appear in the input string is not constrained.
var unitDurations = map[byte]time.Duration{
	'd': 24 * time.Hour,
	'h': time.Hour,
	'm': time.Minute,
	's': time.Second,
}

// Parse parses a relative-time expression such as "-1d12h30m" or "+45s"
// into a duration. An empty string is invalid. At most one occurrence of
// each unit letter is allowed; units may appear in any order.
func Parse(expr string) (time.Duration, error) {
	if expr == "" {
		return 0, fmt.Errorf("relativetime: empty expression")
	}

	s := expr
	sign := time.Duration(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}

	if s == "" {
		return 0, fmt.Errorf("relativetime: %q has a sign but no magnitude", expr)
	}

	seen := make(map[byte]bool, 4)
	var total time.Duration
	numStart := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			continue
		}

		unit, ok := unitDurations[c]
		if !ok {
			return 0, fmt.Errorf("relativetime: %q has unknown unit %q", expr, c)
		}
		if i == numStart {
			return 0, fmt.Errorf("relativetime: %q is missing a number before %q", expr, c)
		}
		if seen[c] {
			return 0, fmt.Errorf("relativetime: %q repeats unit %q", expr, c)
		}
		seen[c] = true

		n, err := strconv.Atoi(s[numStart:i])
		if err != nil {
			return 0, fmt.Errorf("relativetime: %q has an invalid number: %w", expr, err)
		}
		total += time.Duration(n) * unit
		numStart = i + 1
	}

	if numStart != len(s) {
		return 0, fmt.Errorf("relativetime: %q has a trailing number with no unit", expr)
	}
	if len(seen) == 0 {
		return 0, fmt.Errorf("relativetime: %q has no recognized unit", expr)
	}

	return sign * total, nil
}

// Resolve applies a parsed relative expression to a reference instant.
func Resolve(expr string, reference time.Time) (time.Time, error) {
	d, err := Parse(expr)
	if err != nil {
		return time.Time{}, err
	}
	return reference.Add(d), nil
}
