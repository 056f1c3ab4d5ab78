// Package testsupport holds fixtures shared across this module's test
// files: a settable fake clock for producers that clamp against "now", and
// an in-memory output.Plugin for asserting exactly what the pipeline wrote
// without touching a filesystem or network.
package testsupport

import (
	"context"
	"sync"
	"time"

	"github.com/eventum-project/eventum-core/pkg/timestamp"
)

// FakeClock is a settable time source for tests that need deterministic
// "now" values, mirroring the NowFunc producers accept in place of
// time.Now.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a FakeClock fixed at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NowTimestamp adapts Now to pkg/input's NowFunc/pkg/timestamp.Timestamp shape.
func (c *FakeClock) NowTimestamp() timestamp.Timestamp {
	return timestamp.FromTime(c.Now())
}

// Advance moves the fake clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set pins the fake clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// MemorySink is an in-memory output.Plugin: it records every batch it's
// given in order, for tests that want to assert exactly what the pipeline
// delivered rather than parsing a file or standing up a server.
type MemorySink struct {
	mu      sync.Mutex
	opened  bool
	closed  bool
	batches [][]string
}

// Open implements output.Plugin.
func (s *MemorySink) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = true
	return nil
}

// Close implements output.Plugin.
func (s *MemorySink) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Write implements output.Plugin, recording events and reporting every one
// as delivered.
func (s *MemorySink) Write(ctx context.Context, events []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := append([]string(nil), events...)
	s.batches = append(s.batches, batch)
	return len(events), nil
}

// Events flattens every batch written so far, in arrival order.
func (s *MemorySink) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

// Opened reports whether Open has been called.
func (s *MemorySink) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

// Closed reports whether Close has been called.
func (s *MemorySink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
