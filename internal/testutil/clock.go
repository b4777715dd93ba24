package testutil

import "sync/atomic"

// DeterministicClock issues render versions 1, 2, 3, ... for tests.
//
// A fresh clock per scenario makes the versions in a trace reproducible
// across runs. Safe for concurrent use.
type DeterministicClock struct {
	last atomic.Int64
}

// NewDeterministicClock returns a clock whose first Next is 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next returns the next version.
func (c *DeterministicClock) Next() int64 {
	return c.last.Add(1)
}

// Current returns the last version issued, or 0.
func (c *DeterministicClock) Current() int64 {
	return c.last.Load()
}

// Reset rewinds the clock so the scenario can run again.
func (c *DeterministicClock) Reset() {
	c.last.Store(0)
}
