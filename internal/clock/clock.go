// Package clock supplies version timestamps.
package clock

import (
	"sync"
	"time"
)

// Clock is the source of the timestamps recorded on versions.
type Clock interface {
	// Now returns the current time in UTC.
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

// Now returns the current system time in UTC, truncated to milliseconds so
// that timestamps survive a JSON or SQLite round trip unchanged.
func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FakeClock is a manually driven clock for tests. It is safe for concurrent use.
//
// With a non-zero step, every call to Now moves the clock forward by step
// after reading it, so consecutive versions get distinct timestamps.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewFakeClock creates a FakeClock stopped at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// NewSteppingClock creates a FakeClock at t that advances by step on every read.
func NewSteppingClock(t time.Time, step time.Duration) *FakeClock {
	return &FakeClock{current: t, step: step}
}

// Now returns the clock's time, then applies the step.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance moves the clock by d, which may be negative.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}
