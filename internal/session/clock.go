package session

import "sync/atomic"

// Sequencer hands out strictly increasing run seq numbers.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock for run ordering.
//
// Runs are stamped with strictly increasing seq numbers instead of wall
// time, so listing order is reproducible across machines.
//
// Safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used to resume after the highest seq already in a store.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
