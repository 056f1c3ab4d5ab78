// Package merger implements the live k-way ordered merge of spec.md §4.3:
// one goroutine per producer feeding a shared channel, a drain loop
// batching arrivals within a bounded look-ahead delay L and merging them,
// with sentinel-counting shutdown mirroring tarsy's WorkerPool.Stop
// (signal + sync.WaitGroup.Wait).
package merger

import (
	"container/heap"
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// Source is anything the merger can drain live timestamps from: a single
// input.Producer's GenerateLive, adapted by the caller into this smaller
// shape so pkg/merger does not need to import pkg/input.
type Source interface {
	ID() int32
	Run(ctx context.Context, emit func(timestamp.Batch) error) error
}

// item is one timestamp arrival tagged with its source.
type item struct {
	ts timestamp.Timestamp
	id int32
}

// Merger merges ≥1 concurrent live Sources into a single ascending stream
// of (timestamp, producer id) pairs, re-batched to size Chunk (0 means
// unbounded — one emission per drain cycle), with a bounded look-ahead
// delay Delay.
type Merger struct {
	sources []Source
	delay   time.Duration
	chunk   int
	ordered bool
	log     *slog.Logger
}

// New creates a Merger over sources. delay is the look-ahead window L
// (≥ pkg/timestamp.MinBatchDelay); chunk is the output re-batch size B (0
// for unbounded). ordered selects which per-window merge strategy Run uses
// (spec.md §9 Open Question 1 / input.TimePatternsProducerSpec's
// ordered_merging flag):
//
//   - true: each Source's own stream is assumed already ascending (the
//     common case — every producer emits its own timestamps in order), so
//     each tick's arrivals are merged with a container/heap k-way merge
//     across per-source queues, never re-sorting a source's own run.
//   - false: a Source's sub-stream cannot be trusted to arrive in order
//     within the look-ahead window (e.g. several randomized spreaders
//     sharing one producer id), so the whole window is buffered flat and
//     sorted before emitting — more robust, more latency.
func New(sources []Source, delay time.Duration, chunk int, ordered bool, log *slog.Logger) *Merger {
	if log == nil {
		log = slog.Default()
	}
	return &Merger{sources: sources, delay: delay, chunk: chunk, ordered: ordered, log: log}
}

// itemHeap is a min-heap of items ordered by timestamp, used by the
// ordered (container/heap) merge path to interleave per-source queues that
// are each already ascending without re-sorting any of them.
type itemHeap []item

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].ts < h[j].ts }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) { *h = append(*h, x.(item)) }
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Run drains every source concurrently and calls emit with ascending
// batches until ctx is cancelled or every source has finished.
//
// Ordering guarantee: items arriving within Delay of each other are merged
// in timestamp order; an item arriving more than Delay after its younger
// neighbours may be emitted out of order, per spec.md §5.
func (m *Merger) Run(ctx context.Context, emit func(timestamp.Batch) error) error {
	arrivals := make(chan item, 1024)
	errCh := make(chan error, len(m.sources))

	var wg sync.WaitGroup
	for _, src := range m.sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			err := s.Run(ctx, func(b timestamp.Batch) error {
				for _, ts := range b.Timestamps {
					select {
					case arrivals <- item{ts: ts, id: s.ID()}:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				return nil
			})
			if err != nil {
				select {
				case errCh <- err:
				default:
					m.log.Error("merger source failed", "producer_id", s.ID(), "error", err)
				}
			}
		}(src)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	ticker := time.NewTicker(m.delay)
	defer ticker.Stop()

	// queues holds this window's arrivals keyed by source id, in arrival
	// order (ascending, per the ordered-mode assumption above); pending is
	// the flat fallback the unordered mode sorts wholesale.
	queues := make(map[int32][]timestamp.Timestamp)
	var pending []item

	drainArrivals := func(a item) {
		if m.ordered {
			queues[a.id] = append(queues[a.id], a.ts)
		} else {
			pending = append(pending, a)
		}
	}

	flush := func() error {
		var merged []item
		if m.ordered {
			merged = heapMerge(queues)
			for id := range queues {
				queues[id] = queues[id][:0]
			}
		} else {
			if len(pending) == 0 {
				return nil
			}
			sort.Slice(pending, func(i, j int) bool { return pending[i].ts < pending[j].ts })
			merged = pending
			pending = nil
		}
		if len(merged) == 0 {
			return nil
		}
		return m.emitChunks(merged, emit)
	}

	for {
		select {
		case a := <-arrivals:
			drainArrivals(a)
		case <-ticker.C:
			if err := flush(); err != nil {
				return err
			}
		case <-done:
			// Drain whatever arrived after the last tick, plus anything
			// still buffered in the channel.
			for {
				select {
				case a := <-arrivals:
					drainArrivals(a)
					continue
				default:
				}
				break
			}
			if err := flush(); err != nil {
				return err
			}
			select {
			case err := <-errCh:
				return err
			default:
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// heapMerge k-way merges queues — one already-ascending slice per source —
// via container/heap, without re-sorting any individual source's run: the
// plain k-way heap merge spec.md §4.3 calls for ("sort-merge on already-
// sorted inputs").
func heapMerge(queues map[int32][]timestamp.Timestamp) []item {
	total := 0
	for _, q := range queues {
		total += len(q)
	}
	if total == 0 {
		return nil
	}

	h := make(itemHeap, 0, len(queues))
	next := make(map[int32]int, len(queues))
	for id, q := range queues {
		if len(q) == 0 {
			continue
		}
		h = append(h, item{ts: q[0], id: id})
		next[id] = 1
	}
	heap.Init(&h)

	merged := make([]item, 0, total)
	for h.Len() > 0 {
		top := heap.Pop(&h).(item)
		merged = append(merged, top)
		q := queues[top.id]
		i := next[top.id]
		if i < len(q) {
			heap.Push(&h, item{ts: q[i], id: top.id})
			next[top.id] = i + 1
		}
	}
	return merged
}

func (m *Merger) emitChunks(items []item, emit func(timestamp.Batch) error) error {
	size := m.chunk
	if size <= 0 {
		size = len(items)
	}
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]
		batch := timestamp.Batch{
			Timestamps:  make([]timestamp.Timestamp, len(chunk)),
			ProducerIDs: make([]int32, len(chunk)),
		}
		for i, it := range chunk {
			batch.Timestamps[i] = it.ts
			batch.ProducerIDs[i] = it.id
		}
		if err := emit(batch); err != nil {
			return err
		}
	}
	return nil
}
