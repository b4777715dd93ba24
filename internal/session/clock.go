package session

import "sync/atomic"

// Clock stamps configuration mutations.
// Implemented by logicalClock (production) and testutil.DeterministicClock (tests).
type Clock interface {
	Next() int64
}

// logicalClock is a monotonic counter. Versions order renders by mutation,
// never by wall time or fetch completion.
type logicalClock struct {
	seq atomic.Int64
}

// Next returns the next version. Calls are linearizable.
func (c *logicalClock) Next() int64 {
	return c.seq.Add(1)
}
