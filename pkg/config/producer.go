package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CronProducerSpec is the `cron` producer's validated fields.
type CronProducerSpec struct {
	Expression string    `yaml:"expression" validate:"required"`
	Count      int       `yaml:"count" validate:"required,min=1"`
	Start      TimeBound `yaml:"start,omitempty"`
	End        TimeBound `yaml:"end,omitempty"`
}

// LinspaceProducerSpec is the `linspace` producer's validated fields.
type LinspaceProducerSpec struct {
	Start    TimeBound `yaml:"start" validate:"required"`
	End      TimeBound `yaml:"end" validate:"required"`
	Count    int       `yaml:"count" validate:"required,min=1"`
	Endpoint *bool     `yaml:"endpoint,omitempty"`
}

// EndpointOrDefault returns Endpoint, defaulting to true when unset.
func (l LinspaceProducerSpec) EndpointOrDefault() bool {
	if l.Endpoint == nil {
		return true
	}
	return *l.Endpoint
}

// StaticProducerSpec is the `static` producer's validated fields.
type StaticProducerSpec struct {
	Count int `yaml:"count" validate:"required,min=1"`
}

// TimerProducerSpec is the `timer` producer's validated fields. A nil
// Repeat means live-only, infinite repetition.
type TimerProducerSpec struct {
	Start   TimeBound `yaml:"start,omitempty"`
	Seconds float64   `yaml:"seconds" validate:"required,min=0.1"`
	Count   int       `yaml:"count" validate:"required,min=1"`
	Repeat  *int      `yaml:"repeat,omitempty" validate:"omitempty,min=1"`
}

// TimestampsProducerSpec is the `timestamps` producer's validated fields:
// either an inline list of ISO-8601 timestamps or an absolute path to a
// newline-delimited file of them.
type TimestampsProducerSpec struct {
	Source StringList `yaml:"source" validate:"required,min=1"`
}

// IsFileSource reports whether Source names a single file path rather than
// an inline list of timestamps.
func (t TimestampsProducerSpec) IsFileSource() bool {
	return len(t.Source) == 1 && len(t.Source[0]) > 0 && t.Source[0][0] == '/'
}

// TimePatternsProducerSpec is the `time_patterns` producer's validated
// fields: a pool of pattern files merged either sample-then-sort (sample
// mode) or through the live merger with ordered_merging controlling whether
// the fast ordered path or the bounded-lookahead path is used.
type TimePatternsProducerSpec struct {
	Patterns       []string `yaml:"patterns" validate:"required,min=1"`
	OrderedMerging bool     `yaml:"ordered_merging"`
}

// ProducerSpec is the tagged union of spec.md §3 ProducerSpec. Exactly one
// of the pointer fields is populated, selected by Kind, the way tarsy's
// config.MCPServerConfig dispatches on a Type/TransportType field
// (pkg/config/enums.go) — here via a custom UnmarshalYAML since the kind
// name IS the YAML map key rather than a sibling field.
type ProducerSpec struct {
	Kind ProducerKind

	Cron         *CronProducerSpec
	Linspace     *LinspaceProducerSpec
	Static       *StaticProducerSpec
	Timer        *TimerProducerSpec
	Timestamps   *TimestampsProducerSpec
	TimePatterns *TimePatternsProducerSpec
}

// UnmarshalYAML decodes a single-key map `{<kind>: {...fields...}}` into the
// matching variant.
func (p *ProducerSpec) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("producer: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("producer: %w, got %d keys", ErrAmbiguousUnion, len(raw))
	}

	for kind, node := range raw {
		p.Kind = ProducerKind(kind)
		if !p.Kind.IsValid() {
			return fmt.Errorf("producer: unknown kind %q", kind)
		}
		switch p.Kind {
		case ProducerCron:
			p.Cron = &CronProducerSpec{}
			return node.Decode(p.Cron)
		case ProducerLinspace:
			p.Linspace = &LinspaceProducerSpec{}
			return node.Decode(p.Linspace)
		case ProducerStatic:
			p.Static = &StaticProducerSpec{}
			return node.Decode(p.Static)
		case ProducerTimer:
			p.Timer = &TimerProducerSpec{}
			return node.Decode(p.Timer)
		case ProducerTimestamps:
			p.Timestamps = &TimestampsProducerSpec{}
			return node.Decode(p.Timestamps)
		case ProducerTimePatterns:
			p.TimePatterns = &TimePatternsProducerSpec{}
			return node.Decode(p.TimePatterns)
		}
	}
	return nil
}
