// Package testutil holds shared test doubles.
package testutil

import (
	"sync"
	"time"
)

// Clock is a deterministic time source for tests: every Now() call
// returns the base time advanced by one more fixed step, so records
// written through it carry distinct, reproducible timestamps.
//
// Thread-safety: all methods are safe for concurrent use via an internal
// mutex.
type Clock struct {
	mu    sync.Mutex
	base  time.Time
	step  time.Duration
	calls int
}

// NewClock creates a clock that starts at base and advances by step per
// Now() call. The first call returns base itself.
func NewClock(base time.Time, step time.Duration) *Clock {
	return &Clock{base: base, step: step}
}

// Now returns the next timestamp in the sequence.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Last returns the most recently handed-out timestamp. Calling it before
// any Now() returns the zero time.
func (c *Clock) Last() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == 0 {
		return time.Time{}
	}
	return c.base.Add(time.Duration(c.calls-1) * c.step)
}

// Reset rewinds the clock so the next Now() returns base again.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
