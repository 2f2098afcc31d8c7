package frame

import "time"

// Clock is the scene clock. It can be stopped and restarted from zero
// independently of the host clock that drives the scheduler.
type Clock struct {
	running bool
	start   time.Duration
	last    time.Duration
	elapsed time.Duration
}

// NewClock starts a clock at host time now.
func NewClock(now time.Duration) *Clock {
	return &Clock{running: true, start: now, last: now}
}

// Running reports whether the clock advances.
func (c *Clock) Running() bool { return c.running }

// Stop freezes elapsed time.
func (c *Clock) Stop(now time.Duration) {
	if c.running {
		c.elapsed = now - c.start
	}
	c.running = false
}

// Start restarts elapsed time from zero.
func (c *Clock) Start(now time.Duration) {
	c.running = true
	c.start = now
	c.last = now
	c.elapsed = 0
}

// Tick returns the time since the previous tick and the elapsed scene time.
// A stopped clock reports zero delta and frozen elapsed time.
func (c *Clock) Tick(now time.Duration) (delta, elapsed time.Duration) {
	if !c.running {
		return 0, c.elapsed
	}
	delta = now - c.last
	c.last = now
	c.elapsed = now - c.start
	return delta, c.elapsed
}

// FPS counts frames and refreshes its estimate at most once per second.
type FPS struct {
	last   time.Duration
	frames int
	fps    int
}

// NewFPS starts counting at now. The estimate starts at 60.
func NewFPS(now time.Duration) *FPS { return &FPS{last: now, fps: 60} }

// Frame counts one frame and returns the current estimate.
func (f *FPS) Frame(now time.Duration) int {
	f.frames++
	if el := now - f.last; el >= time.Second {
		ms := float64(el) / float64(time.Millisecond)
		f.fps = int(float64(f.frames)*1000/ms + 0.5)
		f.frames = 0
		f.last = now
	}
	return f.fps
}

// Value returns the current estimate.
func (f *FPS) Value() int { return f.fps }
