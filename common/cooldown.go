package common

import "math/rand/v2"

// Cooldown is a countdown in seconds. The zero value is always ready.
type Cooldown struct {
	duration  float64
	remaining float64
}

// Set configures the duration. When readyInitially is false the full duration
// must elapse before the first Claim succeeds.
func (c *Cooldown) Set(duration float64, readyInitially bool) {
	if c == nil {
		return
	}
	c.duration = duration
	if readyInitially {
		c.remaining = 0
	} else {
		c.remaining = duration
	}
}

// SetSpread configures the duration and starts at a random point within it, so
// many cooldowns created on the same frame do not fire together.
func (c *Cooldown) SetSpread(duration float64) {
	if c == nil {
		return
	}
	c.duration = duration
	if duration <= 0 {
		c.remaining = 0
		return
	}
	c.remaining = rand.Float64() * duration
}

// Reset restarts the countdown, or makes it ready immediately.
func (c *Cooldown) Reset(ready bool) {
	if c == nil {
		return
	}
	if ready {
		c.remaining = 0
	} else {
		c.remaining = c.duration
	}
}

// Tick advances the countdown by dt seconds.
func (c *Cooldown) Tick(dt float64) {
	if c == nil {
		return
	}
	if c.remaining > 0 {
		c.remaining -= dt
	}
}

func (c *Cooldown) IsReady() bool {
	return c == nil || c.remaining <= 0
}

func (c *Cooldown) Remaining() float64 {
	if c == nil || c.remaining < 0 {
		return 0
	}
	return c.remaining
}

func (c *Cooldown) Duration() float64 {
	if c == nil {
		return 0
	}
	return c.duration
}

// Claim consumes the cooldown if it is ready and restarts it.
func (c *Cooldown) Claim() bool {
	if c == nil || c.remaining > 0 {
		return false
	}
	c.remaining = c.duration
	return true
}
