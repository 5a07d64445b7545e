package engine

import "sync/atomic"

// Clock hands out query sequence numbers.
//
// Every query an Engine runs is stamped with a strictly increasing seq, so
// log lines and results from one process can be ordered without wall-clock
// timestamps. Clock is safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock positioned at start; the next seq is start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last seq handed out, or the start position.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
