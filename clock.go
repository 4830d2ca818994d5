package tilequest

import "time"

// maxFrameDelta caps the delta handed to a tick after a stall.
const maxFrameDelta = 250 * time.Millisecond

// frameClock throttles ticks to a target rate and measures the time
// between accepted ticks.
type frameClock struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func newFrameClock(targetFPS int) *frameClock {
	c := &frameClock{now: time.Now}
	if targetFPS > 0 {
		c.interval = time.Second / time.Duration(targetFPS)
	}
	return c
}

// tick reports whether a frame is due and, if so, the seconds elapsed since
// the previous one. The first tick is always due and reports one interval.
func (c *frameClock) tick() (delta float64, ok bool) {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return c.interval.Seconds(), true
	}
	elapsed := now.Sub(c.last)
	if elapsed < c.interval {
		return 0, false
	}
	c.last = now
	if elapsed > maxFrameDelta {
		elapsed = maxFrameDelta
	}
	return elapsed.Seconds(), true
}
