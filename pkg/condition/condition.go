// Package condition implements the FSM guard condition sum type of
// spec.md §3 ("Condition (FSM guard)") and its evaluator, used by the fsm
// template picker to decide when to advance state.
package condition

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldCondition is a single-entry map naming the state field being tested
// and the value it is compared against, e.g. `eq: {counter: 5}`.
type FieldCondition map[string]any

// Field returns the sole field name and comparison value. ok is false if
// the map does not have exactly one entry.
func (f FieldCondition) Field() (name string, value any, ok bool) {
	if len(f) != 1 {
		return "", nil, false
	}
	for k, v := range f {
		return k, v, true
	}
	return "", nil, false
}

// TemporalCondition is the `before`/`after` guard struct: each non-nil
// component overrides that field of the event timestamp before the
// comparison, per spec.md §4.4 ("normalise the event timestamp's target
// components with replace() and compare the whole datetimes").
type TemporalCondition struct {
	Year        *int `yaml:"year,omitempty"`
	Month       *int `yaml:"month,omitempty"`
	Day         *int `yaml:"day,omitempty"`
	Hour        *int `yaml:"hour,omitempty"`
	Minute      *int `yaml:"minute,omitempty"`
	Second      *int `yaml:"second,omitempty"`
	Microsecond *int `yaml:"microsecond,omitempty"`
}

// TagSet accepts either a single tag string or a list of tags in YAML.
type TagSet []string

// UnmarshalYAML implements yaml.Unmarshaler, accepting a scalar or a
// sequence node.
func (t *TagSet) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*t = TagSet{s}
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*t = TagSet(list)
	default:
		return fmt.Errorf("condition: has_tags expects a string or a list, got %v", value.Kind)
	}
	return nil
}

// Condition is the recursive sum type described in spec.md §3. Exactly one
// field is expected to be set on any given node; Eval treats an all-nil
// Condition as never satisfied.
type Condition struct {
	Eq      FieldCondition `yaml:"eq,omitempty"`
	Gt      FieldCondition `yaml:"gt,omitempty"`
	Ge      FieldCondition `yaml:"ge,omitempty"`
	Lt      FieldCondition `yaml:"lt,omitempty"`
	Le      FieldCondition `yaml:"le,omitempty"`
	Matches FieldCondition `yaml:"matches,omitempty"`
	In      FieldCondition `yaml:"in,omitempty"`
	LenEq   FieldCondition `yaml:"len_eq,omitempty"`
	LenGt   FieldCondition `yaml:"len_gt,omitempty"`
	LenGe   FieldCondition `yaml:"len_ge,omitempty"`
	LenLt   FieldCondition `yaml:"len_lt,omitempty"`
	LenLe   FieldCondition `yaml:"len_le,omitempty"`

	Before *TemporalCondition `yaml:"before,omitempty"`
	After  *TemporalCondition `yaml:"after,omitempty"`

	HasTags *TagSet `yaml:"has_tags,omitempty"`
	Defined *string `yaml:"defined,omitempty"`

	And []Condition `yaml:"and,omitempty"`
	Or  []Condition `yaml:"or,omitempty"`
	Not *Condition  `yaml:"not,omitempty"`
}
