package demo

import "time"

// TimeSource returns a monotonic time in milliseconds.
type TimeSource func() int64

// WallTime is a TimeSource backed by the system monotonic clock.
func WallTime() TimeSource {
	epoch := time.Now()
	return func() int64 { return time.Since(epoch).Milliseconds() }
}

// ManualTime is a TimeSource advanced by hand, for headless runs and tests.
type ManualTime struct {
	ms int64
}

// Now returns the current manual time.
func (m *ManualTime) Now() int64 { return m.ms }

// Advance moves time forward by ms.
func (m *ManualTime) Advance(ms int64) { m.ms += ms }

// Clock measures elapsed milliseconds against a parent clock, or against a
// TimeSource for the root. A child reads its parent's elapsed time, so
// pausing a parent freezes every clock below it.
type Clock struct {
	parent *Clock
	source TimeSource

	running     bool
	start       int64
	paused      bool
	pausedAt    int64
	pausedTotal int64
}

// NewClock returns a stopped root clock reading src.
func NewClock(src TimeSource) *Clock {
	return &Clock{source: src}
}

// Child returns a running clock that starts at the parent's current time.
func (c *Clock) Child() *Clock {
	return c.ChildFrom(c.Elapsed())
}

// ChildFrom returns a running clock whose zero is at parent time start.
func (c *Clock) ChildFrom(start int64) *Clock {
	return &Clock{parent: c, running: true, start: start}
}

func (c *Clock) reference() int64 {
	if c.parent != nil {
		return c.parent.Elapsed()
	}
	return c.source()
}

// Start (re)starts the clock from zero and clears any pause.
func (c *Clock) Start() {
	c.start = c.reference()
	c.running = true
	c.paused = false
	c.pausedTotal = 0
}

// Stop halts the clock. Elapsed reads zero until the next Start.
func (c *Clock) Stop() {
	c.running = false
	c.paused = false
}

// Pause freezes the clock.
func (c *Clock) Pause() {
	if !c.running || c.paused {
		return
	}
	c.pausedAt = c.reference()
	c.paused = true
}

// Resume continues a paused clock without counting the paused span.
func (c *Clock) Resume() {
	if !c.running || !c.paused {
		return
	}
	c.pausedTotal += c.reference() - c.pausedAt
	c.paused = false
}

// Paused reports whether the clock itself is paused. A running child of a
// paused parent reports false but does not advance.
func (c *Clock) Paused() bool { return c.paused }

// Running reports whether the clock has been started.
func (c *Clock) Running() bool { return c.running }

// Elapsed returns the milliseconds since Start, less paused time.
func (c *Clock) Elapsed() int64 {
	if !c.running {
		return 0
	}
	now := c.reference()
	if c.paused {
		now = c.pausedAt
	}
	return now - c.start - c.pausedTotal
}
