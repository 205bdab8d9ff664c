package engine

import "sync/atomic"

// Clock is a monotonic logical clock stamping processed input events.
//
// Capture hooks deliver events on non-deterministic timing; the seq number
// assigned on the loop records the exact processing order, which is also
// the recording and trigger-check order. Wall clocks play no part in
// ordering.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though the controller's single-writer design means only the loop
// goroutine normally calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
