package testutil

import (
	"sync"
	"time"
)

// FakeClock is a manually advanced clock for expiry and elapsed-time tests.
type FakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewFakeClock starts a FakeClock at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time, then moves it forward by the auto step.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

// Advance moves the fake time forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// AutoAdvance makes every Now call move the clock forward by step.
func (c *FakeClock) AutoAdvance(step time.Duration) *FakeClock {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = step
	return c
}
