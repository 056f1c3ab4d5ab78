// Package config loads and validates the eventum-core pipeline
// configuration: which producer feeds the input stage, how the event stage
// picks and renders templates, and which sinks the output stage writes to.
package config

// Config is the fully loaded, validated, ready-to-use pipeline
// configuration — the parsed form of spec.md §6's three top-level
// sections.
type Config struct {
	Input  ProducerSpec `yaml:"input" validate:"required"`
	Event  EventSpec    `yaml:"event" validate:"required"`
	Output []OutputSpec `yaml:"output,omitempty"`
}

// Stats summarizes a loaded configuration for a single startup log line,
// mirroring tarsy's Config.Stats() convention.
type Stats struct {
	InputKind     ProducerKind
	TemplateCount int
	OutputCount   int
}

// Stats computes a Stats snapshot of cfg.
func (c *Config) Stats() Stats {
	return Stats{
		InputKind:     c.Input.Kind,
		TemplateCount: len(c.Event.Templates),
		OutputCount:   len(c.Output),
	}
}
