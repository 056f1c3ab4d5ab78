package config

import (
	"fmt"

	"github.com/eventum-project/eventum-core/pkg/condition"
	"gopkg.in/yaml.v3"
)

// TransitionSpec is an fsm template's `transition` field: the alias to
// advance to once `when` evaluates true against shared state.
type TransitionSpec struct {
	To   string              `yaml:"to" validate:"required"`
	When condition.Condition `yaml:"when" validate:"required"`
}

// TemplateSpec is one entry of spec.md §3 TemplateSpec, keyed by alias in
// YAML (`{<alias>: {source, chance?, transition?, initial?}}`). `chance` is
// required iff the event mode is `chance`; `transition`/`initial` are
// meaningful iff the mode is `fsm`.
type TemplateSpec struct {
	Alias      string          `yaml:"-"`
	Source     StringList      `yaml:"source" validate:"required,min=1"`
	Chance     *float64        `yaml:"chance,omitempty" validate:"omitempty,min=0"`
	Transition *TransitionSpec `yaml:"transition,omitempty"`
	Initial    bool            `yaml:"initial,omitempty"`
}

// StringList accepts either a single scalar string or a YAML sequence of
// strings, used wherever the schema allows `<path|[paths]>`.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler, accepting a scalar or a
// sequence node.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var str string
		if err := value.Decode(&str); err != nil {
			return err
		}
		*s = StringList{str}
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*s = StringList(list)
	default:
		return fmt.Errorf("expected a string or a list of strings, got %v", value.Kind)
	}
	return nil
}

// UnmarshalYAML decodes a single-key map `{<alias>: {...}}` into Alias plus
// the template's own fields.
func (t *TemplateSpec) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("template: %w, got %d keys", ErrAmbiguousUnion, len(raw))
	}
	for alias, node := range raw {
		t.Alias = alias
		type plain TemplateSpec
		var p plain
		if err := node.Decode(&p); err != nil {
			return fmt.Errorf("template %q: %w", alias, err)
		}
		p.Alias = alias
		*t = TemplateSpec(p)
	}
	return nil
}

// ComposedStateSpec locates the cross-process shared-memory block backing
// the `composed` state scope (spec.md §3 "Composed"). Omitted entirely when
// a run has no need for cross-process state sharing.
type ComposedStateSpec struct {
	Path     string `yaml:"path" validate:"required"`
	MaxBytes int    `yaml:"max_bytes" validate:"required,min=1"`
}

// EventSpec is the `event:` top-level section: picker mode, static
// template params, sample sets, the ordered list of templates, and an
// optional composed-state location.
type EventSpec struct {
	Mode      PickerMode            `yaml:"mode" validate:"required"`
	Params    map[string]any        `yaml:"params,omitempty"`
	Samples   map[string]SampleSpec `yaml:"samples,omitempty"`
	Templates []TemplateSpec        `yaml:"templates" validate:"required,min=1"`
	Composed  *ComposedStateSpec    `yaml:"composed,omitempty"`
}
