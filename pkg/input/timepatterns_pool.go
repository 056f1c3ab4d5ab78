package input

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/merger"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
	"gopkg.in/yaml.v3"
)

// timePatternsPoolProducer loads N time-pattern files and, per spec.md
// §4.1 "Time-Patterns pool", either concatenates and sorts their sample
// output or plugs each pattern into the live merger with a short target
// delay.
type timePatternsPoolProducer struct {
	base
	patterns       []*timePatternProducer
	orderedMerging bool
}

func newTimePatternsProducer(b base, spec *config.TimePatternsProducerSpec, now NowFunc) (Producer, error) {
	patterns := make([]*timePatternProducer, 0, len(spec.Patterns))
	for i, path := range spec.Patterns {
		patternSpec, err := loadTimePatternFile(path)
		if err != nil {
			return nil, fmt.Errorf("input: loading time pattern %q: %w", path, err)
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
		sub, err := newTimePatternProducer(base{id: b.id, tags: b.tags}, patternSpec, now, rng)
		if err != nil {
			return nil, fmt.Errorf("input: pattern %q: %w", path, err)
		}
		patterns = append(patterns, sub.(*timePatternProducer))
	}
	return &timePatternsPoolProducer{base: b, patterns: patterns, orderedMerging: spec.OrderedMerging}, nil
}

func loadTimePatternFile(path string) (config.TimePatternSpec, error) {
	var spec config.TimePatternSpec
	data, err := os.ReadFile(path)
	if err != nil {
		return spec, err
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, err
	}
	return spec, nil
}

func (p *timePatternsPoolProducer) SupportsSample() bool {
	for _, sub := range p.patterns {
		if !sub.SupportsSample() {
			return false
		}
	}
	return true
}

func (p *timePatternsPoolProducer) SupportsLive() bool { return true }

// GenerateSample concatenates every pattern's sample output then sorts,
// per spec.md §4.1 ("in sample mode concatenate-then-sort").
func (p *timePatternsPoolProducer) GenerateSample(ctx context.Context, emit Emit) error {
	var all []timestamp.Timestamp
	for _, sub := range p.patterns {
		if err := sub.GenerateSample(ctx, func(b timestamp.Batch) error {
			all = append(all, b.Timestamps...)
			return nil
		}); err != nil {
			return err
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	if len(all) == 0 {
		return nil
	}
	return emit(timestamp.Batch{Timestamps: all})
}

// patternSource adapts one sub-producer's GenerateLive to merger.Source.
type patternSource struct {
	id int32
	p  *timePatternProducer
}

func (s patternSource) ID() int32 { return s.id }

func (s patternSource) Run(ctx context.Context, emit func(timestamp.Batch) error) error {
	return s.p.GenerateLive(ctx, emit)
}

// GenerateLive plugs each pattern into the live merger with a short target
// delay, per spec.md §4.1 ("in live mode plug each into the live merger
// with a short target delay, ≥ MIN_BATCH_DELAY").
func (p *timePatternsPoolProducer) GenerateLive(ctx context.Context, emit Emit) error {
	sources := make([]merger.Source, len(p.patterns))
	for i, sub := range p.patterns {
		sources[i] = patternSource{id: int32(i), p: sub}
	}

	delay := timestamp.MinBatchDelay
	m := merger.New(sources, delay, 0, p.orderedMerging, nil)
	return m.Run(ctx, func(b timestamp.Batch) error {
		return emit(timestamp.Batch{Timestamps: b.Timestamps})
	})
}
