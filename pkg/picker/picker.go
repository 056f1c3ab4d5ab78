// Package picker implements the five template-picking strategies of
// spec.md §4.4: all, any, chance, spin, fsm. Each picker is constructed
// from the ordered list of template aliases declared in
// config.EventSpec.Templates and returns the tuple of aliases to render
// for a given event context.
package picker

import (
	"fmt"
	"time"

	"github.com/eventum-project/eventum-core/pkg/condition"
	"github.com/eventum-project/eventum-core/pkg/config"
)

// Context is the per-event information a Picker decides against.
type Context struct {
	Timestamp time.Time
	Tags      []string
	Shared    map[string]any
}

// Picker returns the alias(es) to render for one event.
type Picker interface {
	Pick(ctx Context) ([]string, error)
}

// New constructs the Picker for a validated config.EventSpec, mirroring
// tarsy's kind-keyed constructor switches (e.g. pkg/agent/factory.go).
func New(spec config.EventSpec, evaluator *condition.Evaluator) (Picker, error) {
	aliases := make([]string, len(spec.Templates))
	for i, t := range spec.Templates {
		aliases[i] = t.Alias
	}

	switch spec.Mode {
	case config.PickerAll:
		return &allPicker{aliases: aliases}, nil
	case config.PickerAny:
		return newAnyPicker(aliases), nil
	case config.PickerChance:
		return newChancePicker(spec.Templates)
	case config.PickerSpin:
		return newSpinPicker(aliases), nil
	case config.PickerFSM:
		return newFSMPicker(spec.Templates, evaluator)
	default:
		return nil, fmt.Errorf("picker: unknown mode %q", spec.Mode)
	}
}
