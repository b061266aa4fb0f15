package engine

import "sync/atomic"

// Clock is a monotonic logical clock. Outcomes are stamped with
// Clock.Next() when their entity is submitted, so report order never
// depends on wall-clock time or goroutine scheduling.
//
// Safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
