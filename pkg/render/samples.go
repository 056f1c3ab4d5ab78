package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/eventum-project/eventum-core/pkg/config"
)

// Sampler loads one named sample set, exposed to templates as
// samples.<name> — a sequence of rows, each row itself a sequence of
// fields, per spec.md §4.5 ("flat lists are normalised to 1-tuples").
type Sampler interface {
	Load(spec config.SampleSpec) ([][]any, error)
}

// LoadSamples loads every configured sample set up front; a missing file or
// parse error is a fatal configuration error (spec.md §4.5), surfaced to the
// caller rather than deferred to first template use.
func LoadSamples(specs map[string]config.SampleSpec) (map[string][][]any, error) {
	out := make(map[string][][]any, len(specs))
	for name, spec := range specs {
		var sampler Sampler
		switch spec.Type {
		case config.SampleCSV:
			sampler = csvSampler{}
		case config.SampleJSON:
			sampler = jsonSampler{}
		case config.SampleItems:
			sampler = itemsSampler{}
		default:
			return nil, fmt.Errorf("render: sample %q: unknown type %q", name, spec.Type)
		}

		rows, err := sampler.Load(spec)
		if err != nil {
			return nil, fmt.Errorf("render: sample %q: %w", name, err)
		}
		out[name] = rows
	}
	return out, nil
}

// csvSampler reads spec.Source as a delimited file, optionally stripping a
// header row.
type csvSampler struct{}

func (csvSampler) Load(spec config.SampleSpec) ([][]any, error) {
	f, err := os.Open(spec.Source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", spec.Source, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if spec.Delimiter != "" {
		runes := []rune(spec.Delimiter)
		r.Comma = runes[0]
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", spec.Source, err)
	}
	if spec.Header && len(records) > 0 {
		records = records[1:]
	}

	rows := make([][]any, len(records))
	for i, record := range records {
		row := make([]any, len(record))
		for j, field := range record {
			row[j] = field
		}
		rows[i] = row
	}
	return rows, nil
}

// jsonSampler parses spec.Source as a JSON array of rows; each element may
// itself be an array, or a bare scalar normalised to a 1-tuple.
type jsonSampler struct{}

func (jsonSampler) Load(spec config.SampleSpec) ([][]any, error) {
	data, err := os.ReadFile(spec.Source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", spec.Source, err)
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", spec.Source, err)
	}
	return normalizeRows(raw), nil
}

// itemsSampler takes rows inline from the config rather than an external
// file.
type itemsSampler struct{}

func (itemsSampler) Load(spec config.SampleSpec) ([][]any, error) {
	return normalizeRows(spec.Items), nil
}

func normalizeRows(raw []any) [][]any {
	rows := make([][]any, len(raw))
	for i, item := range raw {
		if row, ok := item.([]any); ok {
			rows[i] = row
			continue
		}
		rows[i] = []any{item}
	}
	return rows
}
