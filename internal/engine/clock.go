package engine

import "sync/atomic"

// Clock stamps every processed drop with a strictly increasing seq.
//
// The drop log is ordered by seq, never by wall time, so two drops that land
// in the same millisecond still have a defined order.
//
// Thread-safety: Clock is safe for concurrent use. In practice only the
// engine's writer calls Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after start.
// Used at startup with the last seq found in the drop log.
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
