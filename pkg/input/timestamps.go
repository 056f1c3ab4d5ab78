package input

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/eventum-project/eventum-core/pkg/config"
	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// timestampsProducer replays an explicit, sorted list of timestamps read
// either inline from config or from a newline-delimited file of ISO-8601
// values (spec.md §4.1 "Timestamps (explicit list)").
type timestampsProducer struct {
	base
	points []timestamp.Timestamp
	now    NowFunc
}

func newTimestampsProducer(b base, spec *config.TimestampsProducerSpec, now NowFunc) (Producer, error) {
	var raw []string
	if spec.IsFileSource() {
		lines, err := readLines(spec.Source[0])
		if err != nil {
			return nil, fmt.Errorf("input: reading timestamps file %q: %w", spec.Source[0], err)
		}
		raw = lines
	} else {
		raw = spec.Source
	}

	points := make([]timestamp.Timestamp, 0, len(raw))
	for _, s := range raw {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("input: invalid ISO-8601 timestamp %q: %w", s, err)
		}
		points = append(points, toTimestamp(t))
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	return &timestampsProducer{base: b, points: points, now: now}, nil
}

func (p *timestampsProducer) SupportsSample() bool { return true }
func (p *timestampsProducer) SupportsLive() bool   { return true }

func (p *timestampsProducer) GenerateSample(ctx context.Context, emit Emit) error {
	if len(p.points) == 0 {
		return nil
	}
	return emit(timestamp.Batch{Timestamps: p.points})
}

func (p *timestampsProducer) GenerateLive(ctx context.Context, emit Emit) error {
	now := p.now()
	future := p.points[:0:0]
	for _, pt := range p.points {
		if pt >= now {
			future = append(future, pt)
		}
	}
	if len(future) == 0 {
		return nil
	}
	return emit(timestamp.Batch{Timestamps: future})
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
