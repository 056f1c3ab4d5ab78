package config

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/robfig/cron/v3"
)

// Validator validates a loaded Config comprehensively, fail-fast, mirroring
// tarsy's pkg/config.Validator (one validateX method per concern, called in
// dependency order from ValidateAll).
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for cfg.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll validates the input producer, the event section, then each
// output in turn.
func (v *Validator) ValidateAll() error {
	if err := v.validateInput(); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	if err := v.validateEvent(); err != nil {
		return fmt.Errorf("event validation failed: %w", err)
	}
	if err := v.validateOutputs(); err != nil {
		return fmt.Errorf("output validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateInput() error {
	p := v.cfg.Input
	if !p.Kind.IsValid() {
		return NewValidationError("input", "kind", fmt.Errorf("unknown producer kind %q", p.Kind))
	}

	switch p.Kind {
	case ProducerCron:
		return v.validateCron(p.Cron)
	case ProducerLinspace:
		return v.validateLinspace(p.Linspace)
	case ProducerStatic:
		return v.validateStatic(p.Static)
	case ProducerTimer:
		return v.validateTimer(p.Timer)
	case ProducerTimestamps:
		return v.validateTimestamps(p.Timestamps)
	case ProducerTimePatterns:
		return v.validateTimePatterns(p.TimePatterns)
	}
	return nil
}

func (v *Validator) validateCron(c *CronProducerSpec) error {
	if c == nil {
		return NewValidationError("input.cron", "", fmt.Errorf("missing cron configuration"))
	}
	if _, err := cron.ParseStandard(c.Expression); err != nil {
		return NewValidationError("input.cron", "expression", fmt.Errorf("invalid cron expression %q: %w", c.Expression, err))
	}
	if c.Count < 1 {
		return NewValidationError("input.cron", "count", fmt.Errorf("count must be at least 1, got %d", c.Count))
	}
	if c.End.IsNever() {
		return nil // live-only; validated further once the run mode is known
	}
	return nil
}

func (v *Validator) validateLinspace(l *LinspaceProducerSpec) error {
	if l == nil {
		return NewValidationError("input.linspace", "", fmt.Errorf("missing linspace configuration"))
	}
	if l.End.IsNever() {
		return NewValidationError("input.linspace", "end", fmt.Errorf("end must not be \"never\""))
	}
	if l.Count < 1 {
		return NewValidationError("input.linspace", "count", fmt.Errorf("count must be at least 1, got %d", l.Count))
	}
	return nil
}

func (v *Validator) validateStatic(s *StaticProducerSpec) error {
	if s == nil {
		return NewValidationError("input.static", "", fmt.Errorf("missing static configuration"))
	}
	if s.Count < 1 {
		return NewValidationError("input.static", "count", fmt.Errorf("count must be at least 1, got %d", s.Count))
	}
	return nil
}

func (v *Validator) validateTimer(t *TimerProducerSpec) error {
	if t == nil {
		return NewValidationError("input.timer", "", fmt.Errorf("missing timer configuration"))
	}
	if t.Seconds < 0.1 {
		return NewValidationError("input.timer", "seconds", fmt.Errorf("seconds must be at least 0.1, got %v", t.Seconds))
	}
	if t.Count < 1 {
		return NewValidationError("input.timer", "count", fmt.Errorf("count must be at least 1, got %d", t.Count))
	}
	if t.Repeat != nil && *t.Repeat < 1 {
		return NewValidationError("input.timer", "repeat", fmt.Errorf("repeat must be at least 1 when set, got %d", *t.Repeat))
	}
	return nil
}

func (v *Validator) validateTimestamps(ts *TimestampsProducerSpec) error {
	if ts == nil || len(ts.Source) == 0 {
		return NewValidationError("input.timestamps", "source", fmt.Errorf("source must name at least one timestamp or a file"))
	}
	return nil
}

func (v *Validator) validateTimePatterns(tp *TimePatternsProducerSpec) error {
	if tp == nil || len(tp.Patterns) == 0 {
		return NewValidationError("input.time_patterns", "patterns", fmt.Errorf("patterns must list at least one pattern file"))
	}
	for _, p := range tp.Patterns {
		if !filepath.IsAbs(p) {
			return NewValidationError("input.time_patterns", "patterns", fmt.Errorf("pattern path %q must be absolute", p))
		}
	}
	return nil
}

func (v *Validator) validateEvent() error {
	e := v.cfg.Event
	if !e.Mode.IsValid() {
		return NewValidationError("event", "mode", fmt.Errorf("unknown picker mode %q", e.Mode))
	}
	if len(e.Templates) == 0 {
		return NewValidationError("event", "templates", fmt.Errorf("at least one template is required"))
	}

	seen := make(map[string]bool, len(e.Templates))
	initialCount := 0
	for _, tmpl := range e.Templates {
		if tmpl.Alias == "" {
			return NewValidationError("event.templates", "alias", fmt.Errorf("template alias must not be empty"))
		}
		if seen[tmpl.Alias] {
			return NewValidationError("event.templates", "alias", fmt.Errorf("duplicate template alias %q", tmpl.Alias))
		}
		seen[tmpl.Alias] = true

		if e.Mode == PickerChance && tmpl.Chance == nil {
			return NewValidationError("event.templates", "chance", fmt.Errorf("template %q: chance is required in chance mode", tmpl.Alias))
		}
		if tmpl.Initial {
			initialCount++
		}
	}

	if e.Mode == PickerFSM && initialCount != 1 {
		return NewValidationError("event.templates", "initial", fmt.Errorf("exactly one template must be marked initial in fsm mode, found %d", initialCount))
	}

	for name, s := range e.Samples {
		if !s.Type.IsValid() {
			return NewValidationError("event.samples", name, fmt.Errorf("unknown sample kind %q", s.Type))
		}
		if s.Type != SampleItems && s.Source == "" {
			return NewValidationError("event.samples", name, fmt.Errorf("source is required for %s samples", s.Type))
		}
	}

	return nil
}

func (v *Validator) validateOutputs() error {
	for i, o := range v.cfg.Output {
		section := fmt.Sprintf("output[%d]", i)
		if !o.Kind.IsValid() {
			return NewValidationError(section, "kind", fmt.Errorf("unknown output kind %q", o.Kind))
		}

		var err error
		switch o.Kind {
		case OutputFile:
			err = v.validateFile(section, o.File)
		case OutputStdout:
			err = v.validateStdout(section, o.Stdout)
		case OutputHTTP:
			err = v.validateHTTP(section, o.HTTP)
		case OutputOpenSearch:
			err = v.validateOpenSearch(section, o.OpenSearch)
		case OutputClickHouse:
			err = v.validateClickHouse(section, o.ClickHouse)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateFormatter(section string, f FormatterSpec) error {
	if !f.Kind.IsValid() {
		return NewValidationError(section, "formatter.kind", fmt.Errorf("unknown formatter kind %q", f.Kind))
	}
	if (f.Kind == FormatterTemplate || f.Kind == FormatterTemplateBatch) && f.Template == "" {
		return NewValidationError(section, "formatter.template", fmt.Errorf("template is required for %s formatter", f.Kind))
	}
	if f.Indent < 0 {
		return NewValidationError(section, "formatter.indent", fmt.Errorf("indent must be non-negative, got %d", f.Indent))
	}
	return nil
}

func (v *Validator) validateFile(section string, f *FileOutputSpec) error {
	if f == nil {
		return NewValidationError(section, "", fmt.Errorf("missing file configuration"))
	}
	if !filepath.IsAbs(f.Path) {
		return NewValidationError(section, "path", fmt.Errorf("path must be absolute, got %q", f.Path))
	}
	if f.WriteMode != "" && !f.WriteMode.IsValid() {
		return NewValidationError(section, "write_mode", fmt.Errorf("unknown write_mode %q", f.WriteMode))
	}
	if f.CleanupInterval.Duration() <= 0 {
		return NewValidationError(section, "cleanup_interval", fmt.Errorf("cleanup_interval must be positive"))
	}
	return v.validateFormatter(section, f.Formatter)
}

func (v *Validator) validateStdout(section string, s *StdoutOutputSpec) error {
	if s == nil {
		return NewValidationError(section, "", fmt.Errorf("missing stdout configuration"))
	}
	if s.Stream != "" && !s.Stream.IsValid() {
		return NewValidationError(section, "stream", fmt.Errorf("unknown stream %q", s.Stream))
	}
	return v.validateFormatter(section, s.Formatter)
}

func (v *Validator) validateHTTP(section string, h *HTTPOutputSpec) error {
	if h == nil {
		return NewValidationError(section, "", fmt.Errorf("missing http configuration"))
	}
	if _, err := url.ParseRequestURI(h.URL); err != nil {
		return NewValidationError(section, "url", fmt.Errorf("invalid url %q: %w", h.URL, err))
	}
	if err := v.validateTLS(section, h.TLS); err != nil {
		return err
	}
	return v.validateFormatter(section, h.Formatter)
}

func (v *Validator) validateOpenSearch(section string, o *OpenSearchOutputSpec) error {
	if o == nil {
		return NewValidationError(section, "", fmt.Errorf("missing opensearch configuration"))
	}
	if len(o.Hosts) == 0 {
		return NewValidationError(section, "hosts", fmt.Errorf("at least one host is required"))
	}
	for _, h := range o.Hosts {
		if _, err := url.ParseRequestURI(h); err != nil {
			return NewValidationError(section, "hosts", fmt.Errorf("invalid host url %q: %w", h, err))
		}
	}
	if o.Index == "" {
		return NewValidationError(section, "index", fmt.Errorf("index is required"))
	}
	if err := v.validateTLS(section, o.TLS); err != nil {
		return err
	}
	return v.validateFormatter(section, o.Formatter)
}

func (v *Validator) validateClickHouse(section string, c *ClickHouseOutputSpec) error {
	if c == nil {
		return NewValidationError(section, "", fmt.Errorf("missing clickhouse configuration"))
	}
	if c.Host == "" {
		return NewValidationError(section, "host", fmt.Errorf("host is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		return NewValidationError(section, "port", fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	if c.Database == "" || c.Table == "" {
		return NewValidationError(section, "database/table", fmt.Errorf("database and table are required"))
	}
	if c.TLS.TLSMode != "" && !c.TLS.TLSMode.IsValid() {
		return NewValidationError(section, "tls_mode", fmt.Errorf("unknown tls_mode %q", c.TLS.TLSMode))
	}
	if err := v.validateTLS(section, c.TLS); err != nil {
		return err
	}
	return v.validateFormatter(section, c.Formatter)
}

func (v *Validator) validateTLS(section string, t TLSSpec) error {
	if (t.ClientCert == "") != (t.ClientCertKey == "") {
		return NewValidationError(section, "client_cert", fmt.Errorf("client_cert and client_cert_key must be set together"))
	}
	return nil
}
