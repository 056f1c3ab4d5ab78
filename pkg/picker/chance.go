package picker

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/eventum-project/eventum-core/pkg/config"
)

// chancePicker returns one alias per pick, weighted by each template's
// configured chance (spec.md §4.4 "chance").
type chancePicker struct {
	aliases []string
	weights []float64
	total   float64

	mu  sync.Mutex
	rng *rand.Rand
}

func newChancePicker(templates []config.TemplateSpec) (*chancePicker, error) {
	aliases := make([]string, len(templates))
	weights := make([]float64, len(templates))
	var total float64
	for i, t := range templates {
		if t.Chance == nil {
			return nil, fmt.Errorf("picker: template %q has no chance configured", t.Alias)
		}
		aliases[i] = t.Alias
		weights[i] = *t.Chance
		total += *t.Chance
	}
	if total <= 0 {
		return nil, fmt.Errorf("picker: template chances must sum to a positive value")
	}
	return &chancePicker{aliases: aliases, weights: weights, total: total, rng: rand.New(rand.NewSource(rand.Int63()))}, nil
}

func (p *chancePicker) Pick(ctx Context) ([]string, error) {
	p.mu.Lock()
	r := p.rng.Float64() * p.total
	p.mu.Unlock()

	for i, w := range p.weights {
		if r < w {
			return []string{p.aliases[i]}, nil
		}
		r -= w
	}
	return []string{p.aliases[len(p.aliases)-1]}, nil
}
