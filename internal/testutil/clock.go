// Package testutil provides deterministic helpers for reproducible
// harness runs: a logical clock for history sequence numbers and a
// fixed run-ID generator for byte-identical stored histories.
package testutil

import "sync"

// DeterministicClock is a resettable monotonic logical clock.
//
// The history store sequences result rows with it so the same suite run
// twice produces identical rows regardless of wall-clock resolution.
//
// Thread-safety: all methods are safe for concurrent use via an
// internal mutex, though the harness itself is single-threaded.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock starting at 0; the first Next
// returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock so a scenario can run again with identical
// sequence values.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
