// Package timestamp defines the Timestamp and Batch data model (spec.md §3)
// and the bounded, size/delay-bounded, optionally wall-clock-scheduled
// Batcher that sits between producers and the rest of the pipeline
// (spec.md §4.2).
package timestamp

import "time"

// Timestamp is a point in time at microsecond resolution, naive in the
// pipeline's configured timezone (no per-value offset is carried).
type Timestamp int64

// FromTime converts a time.Time to a Timestamp, truncating to microseconds.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

// Time converts a Timestamp back to a time.Time in UTC. Callers that need
// the pipeline's configured timezone should call .In(loc) on the result.
func (t Timestamp) Time() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

// Batch is a finite, immutable, ordered sequence of Timestamps. ProducerIDs,
// when non-nil, is a parallel slice naming which producer emitted each
// timestamp — populated by the live merger so the event stage can route tag
// sets per producer.
type Batch struct {
	Timestamps  []Timestamp
	ProducerIDs []int32
}

// Len returns the number of timestamps in the batch.
func (b Batch) Len() int { return len(b.Timestamps) }

// Empty reports whether the batch carries no timestamps.
func (b Batch) Empty() bool { return len(b.Timestamps) == 0 }

// First returns the earliest timestamp in the batch. Panics if empty.
func (b Batch) First() Timestamp { return b.Timestamps[0] }

// Last returns the latest timestamp in the batch. Panics if empty.
func (b Batch) Last() Timestamp { return b.Timestamps[len(b.Timestamps)-1] }
