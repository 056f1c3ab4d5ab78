package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes either a bare number of seconds or a Go duration string
// ("30s", "1h30m") into a time.Duration, the way tarsy's loader.go parses
// its string-typed *_ttl/*_interval YAML fields with time.ParseDuration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	// Numbers first: yaml.v3 also decodes a numeric scalar into a string.
	var seconds float64
	if err := value.Decode(&seconds); err == nil {
		*d = Duration(seconds * float64(time.Second))
		return nil
	}

	var asString string
	if err := value.Decode(&asString); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\" or a number of seconds")
	}
	parsed, err := time.ParseDuration(asString)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", asString, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// TimeBound is a start/end boundary accepted in one of: an absolute RFC 3339
// datetime, a relative expression parsed by pkg/relativetime ("+1d12h"), or
// (end only) the literal "never". Human expressions such as "in 2 hours" or
// "yesterday" are not parsed; pkg/input rejects them as invalid. It is kept as the raw string through validation; parsing
// happens in pkg/input against a reference "now".
type TimeBound string

// IsNever reports whether the bound is the literal "never" end sentinel.
func (b TimeBound) IsNever() bool {
	return string(b) == "never"
}

// OscillatorSpec defines one periodic interval of a time pattern.
type OscillatorSpec struct {
	Period int       `yaml:"period" validate:"required,min=1"`
	Unit   TimeUnit  `yaml:"unit" validate:"required"`
	Start  TimeBound `yaml:"start,omitempty"`
	End    TimeBound `yaml:"end,omitempty"`
}

// MultiplierSpec scales the base event count per oscillator interval.
type MultiplierSpec struct {
	Ratio float64 `yaml:"ratio" validate:"required,min=1"`
}

// RandomizerSpec jitters the per-interval count drawn by MultiplierSpec.
type RandomizerSpec struct {
	Deviation float64   `yaml:"deviation" validate:"min=0,max=1"`
	Direction Direction `yaml:"direction" validate:"required"`
	Sampling  int       `yaml:"sampling,omitempty" validate:"omitempty,min=1"`
}

// SpreaderSpec distributes an interval's points across its span.
type SpreaderSpec struct {
	Distribution Distribution   `yaml:"distribution" validate:"required"`
	Parameters   map[string]any `yaml:"parameters,omitempty"`
}

// TimePatternSpec is a single time-pattern file's contents (spec.md §3
// TimePatternSpec): an oscillator defining the period, a multiplier/
// randomizer pair defining the per-interval count, and a spreader defining
// how points land inside the interval.
type TimePatternSpec struct {
	Oscillator OscillatorSpec `yaml:"oscillator" validate:"required"`
	Multiplier MultiplierSpec `yaml:"multiplier" validate:"required"`
	Randomizer RandomizerSpec `yaml:"randomizer" validate:"required"`
	Spreader   SpreaderSpec   `yaml:"spreader" validate:"required"`
}

// SampleSpec describes one named sample set available to templates as
// samples.<name>.
type SampleSpec struct {
	Type      SampleKind `yaml:"type" validate:"required"`
	Source    string     `yaml:"source,omitempty"`
	Header    bool       `yaml:"header,omitempty"`
	Delimiter string     `yaml:"delimiter,omitempty"`
	Items     []any      `yaml:"items,omitempty"`
}

// TLSSpec is the TLS material shared by the http, opensearch and clickhouse
// outputs: CA to verify the server, optional client certificate for mutual
// TLS, and a toggle to skip verification entirely.
type TLSSpec struct {
	Verify          bool    `yaml:"verify"`
	CACert          string  `yaml:"ca_cert,omitempty"`
	ClientCert      string  `yaml:"client_cert,omitempty"`
	ClientCertKey   string  `yaml:"client_cert_key,omitempty"`
	ServerHostName  string  `yaml:"server_host_name,omitempty"`
	TLSMode         TLSMode `yaml:"tls_mode,omitempty"`
}

// TimeoutSpec is the connect/request timeout pair shared by network outputs.
type TimeoutSpec struct {
	ConnectTimeout Duration `yaml:"connect_timeout,omitempty"`
	RequestTimeout Duration `yaml:"request_timeout,omitempty"`
}

// DefaultTimeouts returns the timeout defaults applied when a network
// output omits them.
func DefaultTimeouts() TimeoutSpec {
	return TimeoutSpec{ConnectTimeout: Duration(5 * time.Second), RequestTimeout: Duration(30 * time.Second)}
}
