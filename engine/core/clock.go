package core

import "time"

// Clock tracks total elapsed time and the delta between consecutive ticks,
// both in seconds.
type Clock struct {
	startTime time.Time
	elapsed   float64
	lastTick  float64
}

func NewClock() *Clock {
	return &Clock{}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = time.Now()
	c.elapsed = 0
	c.lastTick = 0
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if !c.startTime.IsZero() {
		c.elapsed = time.Since(c.startTime).Seconds()
	}
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = time.Time{}
}

func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// Tick returns the time passed since the previous Tick and advances the
// tick mark. Update must be called first.
func (c *Clock) Tick() float64 {
	delta := c.elapsed - c.lastTick
	c.lastTick = c.elapsed
	return delta
}
