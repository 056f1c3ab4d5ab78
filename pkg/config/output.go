package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// FormatterSpec is the `formatter` field shared by every output: which
// format to apply, plus the fields only the template/template-batch and
// json/json-batch variants use.
type FormatterSpec struct {
	Kind      FormatterKind `yaml:"kind" validate:"required"`
	Indent    int           `yaml:"indent,omitempty" validate:"omitempty,min=0"`
	Template  string        `yaml:"template,omitempty"`
	Encoding  string        `yaml:"encoding,omitempty"`
	Separator string        `yaml:"separator,omitempty"`
}

// FileOutputSpec is the `file` output's validated fields.
type FileOutputSpec struct {
	Path            string        `yaml:"path" validate:"required"`
	Formatter       FormatterSpec `yaml:"formatter" validate:"required"`
	FlushInterval   Duration      `yaml:"flush_interval,omitempty"`
	CleanupInterval Duration      `yaml:"cleanup_interval" validate:"required"`
	FileMode        uint32        `yaml:"file_mode,omitempty"`
	WriteMode       WriteMode     `yaml:"write_mode,omitempty"`
	Encoding        string        `yaml:"encoding,omitempty"`
	Separator       string        `yaml:"separator,omitempty"`
}

// WriteModeOrDefault returns WriteMode, defaulting to append when unset.
func (f FileOutputSpec) WriteModeOrDefault() WriteMode {
	if f.WriteMode == "" {
		return WriteModeAppend
	}
	return f.WriteMode
}

// FileModeOrDefault returns FileMode, defaulting to 0644 when unset.
func (f FileOutputSpec) FileModeOrDefault() uint32 {
	if f.FileMode == 0 {
		return 0o644
	}
	return f.FileMode
}

// StdoutOutputSpec is the `stdout` output's validated fields.
type StdoutOutputSpec struct {
	Stream        Stream        `yaml:"stream,omitempty"`
	FlushInterval Duration      `yaml:"flush_interval,omitempty"`
	Encoding      string        `yaml:"encoding,omitempty"`
	Separator     string        `yaml:"separator,omitempty"`
	Formatter     FormatterSpec `yaml:"formatter" validate:"required"`
}

// StreamOrDefault returns Stream, defaulting to stdout when unset.
func (s StdoutOutputSpec) StreamOrDefault() Stream {
	if s.Stream == "" {
		return StreamStdout
	}
	return s.Stream
}

// HTTPOutputSpec is the `http` output's validated fields.
type HTTPOutputSpec struct {
	URL         string            `yaml:"url" validate:"required,url"`
	Method      string            `yaml:"method,omitempty"`
	SuccessCode int               `yaml:"success_code,omitempty"`
	Username    string            `yaml:"username,omitempty"`
	Password    string            `yaml:"password,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	ProxyURL    string            `yaml:"proxy_url,omitempty"`
	TLS         TLSSpec           `yaml:"tls"`
	Timeouts    TimeoutSpec       `yaml:"timeouts"`
	Formatter   FormatterSpec     `yaml:"formatter" validate:"required"`
}

// MethodOrDefault returns Method, defaulting to POST when unset.
func (h HTTPOutputSpec) MethodOrDefault() string {
	if h.Method == "" {
		return "POST"
	}
	return h.Method
}

// SuccessCodeOrDefault returns SuccessCode, defaulting to 200 when unset.
func (h HTTPOutputSpec) SuccessCodeOrDefault() int {
	if h.SuccessCode == 0 {
		return 200
	}
	return h.SuccessCode
}

// OpenSearchOutputSpec is the `opensearch` output's validated fields.
type OpenSearchOutputSpec struct {
	Hosts     []string      `yaml:"hosts" validate:"required,min=1"`
	Username  string        `yaml:"username,omitempty"`
	Password  string        `yaml:"password,omitempty"`
	Index     string        `yaml:"index" validate:"required"`
	ProxyURL  string        `yaml:"proxy_url,omitempty"`
	TLS       TLSSpec       `yaml:"tls"`
	Timeouts  TimeoutSpec   `yaml:"timeouts"`
	Formatter FormatterSpec `yaml:"formatter" validate:"required"`
}

// ClickHouseOutputSpec is the `clickhouse` output's validated fields.
type ClickHouseOutputSpec struct {
	Host     string        `yaml:"host" validate:"required"`
	Port     int           `yaml:"port" validate:"required,min=1,max=65535"`
	Protocol string        `yaml:"protocol,omitempty"`
	Database string        `yaml:"database" validate:"required"`
	Table    string        `yaml:"table" validate:"required"`
	Username string        `yaml:"username,omitempty"`
	Password string        `yaml:"password,omitempty"`
	DSN      string        `yaml:"dsn,omitempty"`
	TLS      TLSSpec       `yaml:"tls"`
	Timeouts TimeoutSpec   `yaml:"timeouts"`

	Formatter FormatterSpec `yaml:"formatter" validate:"required"`
}

// ProtocolOrDefault returns Protocol, defaulting to "native" when unset.
func (c ClickHouseOutputSpec) ProtocolOrDefault() string {
	if c.Protocol == "" {
		return "native"
	}
	return c.Protocol
}

// OutputSpec is the tagged union of spec.md §3 OutputSpec, one entry of the
// top-level `output:` list. Decoded the same way as ProducerSpec.
type OutputSpec struct {
	Kind OutputKind

	File       *FileOutputSpec
	Stdout     *StdoutOutputSpec
	HTTP       *HTTPOutputSpec
	OpenSearch *OpenSearchOutputSpec
	ClickHouse *ClickHouseOutputSpec
}

// UnmarshalYAML decodes a single-key map `{<kind>: {...fields...}}` into the
// matching variant.
func (o *OutputSpec) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("output: %w, got %d keys", ErrAmbiguousUnion, len(raw))
	}

	for kind, node := range raw {
		o.Kind = OutputKind(kind)
		if !o.Kind.IsValid() {
			return fmt.Errorf("output: unknown kind %q", kind)
		}
		switch o.Kind {
		case OutputFile:
			o.File = &FileOutputSpec{CleanupInterval: Duration(30 * time.Second)}
			return node.Decode(o.File)
		case OutputStdout:
			o.Stdout = &StdoutOutputSpec{}
			return node.Decode(o.Stdout)
		case OutputHTTP:
			o.HTTP = &HTTPOutputSpec{Timeouts: DefaultTimeouts()}
			return node.Decode(o.HTTP)
		case OutputOpenSearch:
			o.OpenSearch = &OpenSearchOutputSpec{Timeouts: DefaultTimeouts()}
			return node.Decode(o.OpenSearch)
		case OutputClickHouse:
			o.ClickHouse = &ClickHouseOutputSpec{Timeouts: DefaultTimeouts()}
			return node.Decode(o.ClickHouse)
		}
	}
	return nil
}
