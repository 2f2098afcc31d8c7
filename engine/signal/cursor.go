package signal

import (
	"math/rand"
	"time"

	"glitch/engine/sched"
)

// Cursor is the custom pointer: a core that follows quickly and a trail
// that lags.
type Cursor struct {
	Mouse Point
	Core  Point
	Trail Point

	sched *sched.Scheduler
	rng   *rand.Rand
	tok   *sched.Token
	saved Point
}

// Point is a position in window pixels.
type Point struct {
	X, Y float64
}

const (
	coreLerp  = 0.15
	trailLerp = 0.05
	jitterPx  = 10
)

// NewCursor creates a cursor whose glitch windows run on sc.
func NewCursor(sc *sched.Scheduler, rng *rand.Rand) *Cursor {
	return &Cursor{sched: sc, rng: rng}
}

// Move records the latest pointer position.
func (c *Cursor) Move(x, y float64) { c.Mouse = Point{x, y} }

// Glitching reports whether a glitch window is open.
func (c *Cursor) Glitching() bool { return c.tok.Pending() }

// Tick eases core and trail toward the mouse and, while glitching, shakes
// the core.
func (c *Cursor) Tick() {
	c.Core.X = lerp(c.Core.X, c.Mouse.X, coreLerp)
	c.Core.Y = lerp(c.Core.Y, c.Mouse.Y, coreLerp)
	c.Trail.X = lerp(c.Trail.X, c.Mouse.X, trailLerp)
	c.Trail.Y = lerp(c.Trail.Y, c.Mouse.Y, trailLerp)
	if c.Glitching() {
		c.Core.X += (c.rng.Float64()*2 - 1) * jitterPx
		c.Core.Y += (c.rng.Float64()*2 - 1) * jitterPx
	}
}

// Glitch shakes the core for d and then snaps it back to where it was when
// the glitch started. A glitch started during another one keeps the first
// saved position.
func (c *Cursor) Glitch(d time.Duration) {
	if c.Glitching() {
		c.tok.Cancel()
	} else {
		c.saved = c.Core
	}
	c.tok = c.sched.After(d, func() {
		c.Core = c.saved
	})
}
