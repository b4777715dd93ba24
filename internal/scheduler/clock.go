package scheduler

import "sync/atomic"

// clock stamps registrations with a strictly increasing generation.
//
// Generations order pending slots for deterministic scans and tell a
// completion whether the slot it was issued for is still the same
// registration.
type clock struct {
	seq atomic.Int64
}

func (c *clock) Next() int64 {
	return c.seq.Add(1)
}
