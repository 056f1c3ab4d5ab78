// Package format implements the five event formatters of spec.md §4.6:
// plain, json, json-batch, template, template-batch.
package format

import (
	"fmt"

	"github.com/eventum-project/eventum-core/pkg/config"
)

// FormatError carries one event that failed to format. Errors never halt
// the batch — they're collected and returned alongside whatever did format
// successfully, the way tarsy's executor aggregates per-tool-call failures
// instead of aborting the whole call (pkg/mcp/executor.go).
type FormatError struct {
	Event string
	Err   error
}

func (e FormatError) Error() string {
	return fmt.Sprintf("format: %v (event: %q)", e.Err, e.Event)
}

func (e FormatError) Unwrap() error { return e.Err }

// Formatter turns a batch of rendered events into their final wire form.
type Formatter interface {
	Format(events []string) (formatted []string, ok int, errs []FormatError)
}

// New constructs the Formatter for a validated config.FormatterSpec.
func New(spec config.FormatterSpec) (Formatter, error) {
	switch spec.Kind {
	case config.FormatterPlain:
		return plainFormatter{}, nil
	case config.FormatterJSON:
		return jsonFormatter{indent: spec.Indent}, nil
	case config.FormatterJSONBatch:
		return jsonBatchFormatter{indent: spec.Indent}, nil
	case config.FormatterTemplate:
		return newTemplateFormatter(spec.Template, false)
	case config.FormatterTemplateBatch:
		return newTemplateFormatter(spec.Template, true)
	default:
		return nil, fmt.Errorf("format: unknown formatter kind %q", spec.Kind)
	}
}
