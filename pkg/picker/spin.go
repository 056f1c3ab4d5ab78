package picker

import "sync"

// spinPicker returns the next alias in round-robin order, wrapping back to
// the first after the last (spec.md §4.4 "spin").
type spinPicker struct {
	aliases []string

	mu   sync.Mutex
	next int
}

func newSpinPicker(aliases []string) *spinPicker {
	return &spinPicker{aliases: aliases}
}

func (p *spinPicker) Pick(ctx Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	alias := p.aliases[p.next]
	p.next = (p.next + 1) % len(p.aliases)
	return []string{alias}, nil
}
