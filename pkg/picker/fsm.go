package picker

import (
	"fmt"
	"sync"

	"github.com/eventum-project/eventum-core/pkg/condition"
	"github.com/eventum-project/eventum-core/pkg/config"
)

// fsmPicker walks a finite state machine of templates: it stays on the
// current alias until that template's transition condition evaluates true
// against the event context, then advances (spec.md §4.4 "fsm").
type fsmPicker struct {
	transitions map[string]*config.TransitionSpec
	evaluator   *condition.Evaluator

	mu      sync.Mutex
	current string
}

func newFSMPicker(templates []config.TemplateSpec, evaluator *condition.Evaluator) (*fsmPicker, error) {
	transitions := make(map[string]*config.TransitionSpec, len(templates))
	var initial string
	found := 0
	for _, t := range templates {
		transitions[t.Alias] = t.Transition
		if t.Initial {
			initial = t.Alias
			found++
		}
	}
	if found != 1 {
		return nil, fmt.Errorf("picker: fsm mode requires exactly one initial template, found %d", found)
	}
	return &fsmPicker{transitions: transitions, evaluator: evaluator, current: initial}, nil
}

func (p *fsmPicker) Pick(ctx Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	transition := p.transitions[p.current]
	if transition != nil {
		evalCtx := condition.Context{Shared: ctx.Shared, Tags: ctx.Tags, Timestamp: ctx.Timestamp}
		if p.evaluator.Eval(transition.When, evalCtx) {
			p.current = transition.To
		}
	}
	return []string{p.current}, nil
}
