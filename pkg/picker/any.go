package picker

import (
	"math/rand"
	"sync"
)

// anyPicker returns one uniformly random alias per pick (spec.md §4.4
// "any").
type anyPicker struct {
	aliases []string

	mu  sync.Mutex
	rng *rand.Rand
}

func newAnyPicker(aliases []string) *anyPicker {
	return &anyPicker{aliases: aliases, rng: rand.New(rand.NewSource(rand.Int63()))}
}

func (p *anyPicker) Pick(ctx Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return []string{p.aliases[p.rng.Intn(len(p.aliases))]}, nil
}
