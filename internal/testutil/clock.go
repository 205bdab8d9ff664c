// Package testutil provides deterministic fakes for engine and replay
// tests: a stepping wall clock, a scripted capture source, and a
// recording synthetic-input sink.
package testutil

import (
	"sync"
	"time"
)

// SteppingClock produces deterministic wall-clock readings: each call to
// Now advances by a fixed step. Identical scenarios produce identical
// timestamps, which keeps golden traces byte-stable.
//
// Thread-safe.
type SteppingClock struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

// NewSteppingClock creates a clock starting at start, advancing by step on
// every reading.
func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{at: start, step: step}
}

// Now returns the current reading and advances the clock.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.at
	c.at = c.at.Add(c.step)
	return t
}

// Reset rewinds the clock to start so a scenario can run again with
// identical timestamps.
func (c *SteppingClock) Reset(start time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = start
}
