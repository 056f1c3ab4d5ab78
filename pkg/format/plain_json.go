package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// plainFormatter passes every event through unchanged (spec.md §4.6
// "plain: pass-through").
type plainFormatter struct{}

func (plainFormatter) Format(events []string) ([]string, int, []FormatError) {
	out := make([]string, len(events))
	copy(out, events)
	return out, len(out), nil
}

// jsonFormatter parses each event as JSON and re-emits it pretty-printed at
// the configured indent width. A parse failure is a recoverable per-event
// error; it never halts the rest of the batch.
type jsonFormatter struct {
	indent int
}

func (f jsonFormatter) Format(events []string) ([]string, int, []FormatError) {
	formatted := make([]string, 0, len(events))
	var errs []FormatError

	prefix := ""
	indent := strings.Repeat(" ", f.indent)

	for _, e := range events {
		var v any
		if err := json.Unmarshal([]byte(e), &v); err != nil {
			errs = append(errs, FormatError{Event: e, Err: fmt.Errorf("invalid json: %w", err)})
			continue
		}

		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if f.indent > 0 {
			enc.SetIndent(prefix, indent)
		}
		if err := enc.Encode(v); err != nil {
			errs = append(errs, FormatError{Event: e, Err: fmt.Errorf("re-encode: %w", err)})
			continue
		}
		formatted = append(formatted, strings.TrimRight(buf.String(), "\n"))
	}

	return formatted, len(formatted), errs
}

// jsonBatchFormatter validates each event as JSON, then concatenates the
// entire batch into a single JSON array (spec.md §4.6 "json-batch").
// Malformed events are dropped from the array and reported individually;
// the rest of the batch still forms a valid array.
type jsonBatchFormatter struct {
	indent int
}

func (f jsonBatchFormatter) Format(events []string) ([]string, int, []FormatError) {
	values := make([]json.RawMessage, 0, len(events))
	var errs []FormatError

	for _, e := range events {
		var v any
		if err := json.Unmarshal([]byte(e), &v); err != nil {
			errs = append(errs, FormatError{Event: e, Err: fmt.Errorf("invalid json: %w", err)})
			continue
		}
		values = append(values, json.RawMessage(e))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if f.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", f.indent))
	}
	if err := enc.Encode(values); err != nil {
		// Every input event failed; report each as an error rather than
		// losing them silently.
		for _, e := range events {
			errs = append(errs, FormatError{Event: e, Err: fmt.Errorf("batch encode: %w", err)})
		}
		return nil, 0, errs
	}

	return []string{strings.TrimRight(buf.String(), "\n")}, len(values), errs
}
