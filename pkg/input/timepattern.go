package input

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
	"gonum.org/v1/gonum/stat/distuv"
)

var unitDurations = map[config.TimeUnit]time.Duration{
	config.UnitSeconds: time.Second,
	config.UnitMinutes: time.Minute,
	config.UnitHours:   time.Hour,
	config.UnitDays:     24 * time.Hour,
}

// timePatternProducer implements spec.md §4.1's "Time-Pattern": for each
// oscillator interval, draws an interval size from a multiplier/randomizer
// pair and spreads that many points inside the interval using a configured
// distribution.
type timePatternProducer struct {
	base
	spec   config.TimePatternSpec
	period time.Duration
	start  time.Time
	end    time.Time
	never  bool
	now    NowFunc
	rng    *rand.Rand

	factors    []float64
	factorNext int
}

func newTimePatternProducer(b base, spec config.TimePatternSpec, now NowFunc, rng *rand.Rand) (Producer, error) {
	period, ok := unitDurations[spec.Oscillator.Unit]
	if !ok {
		return nil, fmt.Errorf("input: unknown oscillator unit %q", spec.Oscillator.Unit)
	}
	period *= time.Duration(spec.Oscillator.Period)

	refNow := now().Time()
	start, err := resolveStart(spec.Oscillator.Start, refNow, true)
	if err != nil {
		return nil, err
	}
	end, never, err := resolveEnd(spec.Oscillator.End, refNow)
	if err != nil {
		return nil, err
	}
	if err := checkRange(start, end, never); err != nil {
		return nil, err
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	p := &timePatternProducer{base: b, spec: spec, period: period, start: start, end: end, never: never, now: now, rng: rng}
	p.refillFactors()
	return p, nil
}

func (p *timePatternProducer) SupportsSample() bool { return !p.never }
func (p *timePatternProducer) SupportsLive() bool   { return true }

// refillFactors draws the stream of size Sampling once, at construction, from
// the direction-appropriate uniform range; nextFactor reshuffles it when it
// is exhausted, per spec.md §4.1: "Randomizer factor
// stream is drawn once per run of size sampling ... reshuffled when
// exhausted."
func (p *timePatternProducer) refillFactors() {
	dev := p.spec.Randomizer.Deviation
	lo, hi := 1-dev, 1+dev
	switch p.spec.Randomizer.Direction {
	case config.DirectionDecrease:
		hi = 1
	case config.DirectionIncrease:
		lo = 1
	}

	n := p.spec.Randomizer.Sampling
	if n <= 0 {
		n = 256
	}
	factors := make([]float64, n)
	for i := range factors {
		factors[i] = lo + p.rng.Float64()*(hi-lo)
	}
	p.factors = factors
	p.factorNext = 0
}

func (p *timePatternProducer) nextFactor() float64 {
	if p.factorNext >= len(p.factors) {
		p.rng.Shuffle(len(p.factors), func(i, j int) {
			p.factors[i], p.factors[j] = p.factors[j], p.factors[i]
		})
		p.factorNext = 0
	}
	f := p.factors[p.factorNext]
	p.factorNext++
	return f
}

// intervalPoints draws n = ratio*factor points inside [intervalStart,
// intervalStart+period) using the configured spreader distribution.
func (p *timePatternProducer) intervalPoints(intervalStart time.Time) []timestamp.Timestamp {
	factor := p.nextFactor()
	n := int(p.spec.Multiplier.Ratio * factor)
	if n <= 0 {
		return nil
	}

	dist := p.spreaderDistribution()
	offsets := make([]float64, n)
	for i := range offsets {
		offsets[i] = dist.Rand()
	}
	sort.Float64s(offsets)

	points := make([]timestamp.Timestamp, n)
	for i, off := range offsets {
		points[i] = toTimestamp(intervalStart.Add(time.Duration(off * float64(p.period))))
	}
	return points
}

func (p *timePatternProducer) spreaderDistribution() distuv.Rander {
	s := p.spec.Spreader
	switch s.Distribution {
	case config.DistributionTriangular:
		mode := paramOr(s.Parameters, "mode", 0.5)
		return distuv.Triangular{Min: 0, Max: 1, Mode: mode, Src: p.rng}
	case config.DistributionBeta:
		alpha := paramOr(s.Parameters, "alpha", 2)
		beta := paramOr(s.Parameters, "beta", 2)
		return distuv.Beta{Alpha: alpha, Beta: beta, Src: p.rng}
	default:
		return distuv.Uniform{Min: 0, Max: 1, Src: p.rng}
	}
}

func paramOr(params map[string]any, key string, fallback float64) float64 {
	if v, ok := params[key]; ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return fallback
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func (p *timePatternProducer) GenerateSample(ctx context.Context, emit Emit) error {
	for cursor := p.start; cursor.Before(p.end); cursor = cursor.Add(p.period) {
		intervalEnd := cursor.Add(p.period)
		pts := p.intervalPoints(cursor)
		clipped := pts[:0:0]
		for _, pt := range pts {
			if pt.Time().Before(intervalEnd) && pt.Time().Before(p.end) {
				clipped = append(clipped, pt)
			}
		}
		if len(clipped) == 0 {
			continue
		}
		if err := emit(timestamp.Batch{Timestamps: clipped}); err != nil {
			return err
		}
	}
	return nil
}

func (p *timePatternProducer) GenerateLive(ctx context.Context, emit Emit) error {
	now := p.now()
	cursor := p.start
	// Skip entirely past intervals.
	for !p.never && toTimestamp(cursor.Add(p.period)) < now {
		cursor = cursor.Add(p.period)
		p.nextFactor()
	}

	for p.never || cursor.Before(p.end) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pts := p.intervalPoints(cursor)
		future := pts[:0:0]
		nowTS := p.now()
		for _, pt := range pts {
			if pt >= nowTS {
				future = append(future, pt)
			}
		}
		if len(future) > 0 {
			if err := emit(timestamp.Batch{Timestamps: future}); err != nil {
				return err
			}
		}
		cursor = cursor.Add(p.period)
	}
	return nil
}
