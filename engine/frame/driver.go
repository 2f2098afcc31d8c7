// Package frame is the per-tick orchestrator. It owns no state of its own
// beyond counters; every component is built by the caller and injected.
package frame

import (
	"fmt"
	"image"
	"math"
	"time"

	"glitch/engine/fx"
	"glitch/engine/hud"
	"glitch/engine/observe"
	"glitch/engine/params"
	"glitch/engine/quarkgl"
	"glitch/engine/scene"
	"glitch/engine/sched"
	"glitch/engine/signal"
)

// Logger receives diagnostic lines.
type Logger interface {
	WriteLineString(s string)
}

// Nav maps a click to a scene index, or -1.
type Nav interface {
	NavAt(x, y int) int
}

// Tuning constants for input reactions.
const (
	DoubleShiftWindow = 300 * time.Millisecond
	ChaosDuration     = 2000 * time.Millisecond
	ClockPause        = 100 * time.Millisecond

	switchBurst      = 0.3
	switchBurstFor   = 150 * time.Millisecond
	touchBurst       = 0.2
	touchBurstFor    = 100 * time.Millisecond
	bassThreshold    = 0.7
	bassGlitch       = 0.15
	restingGlitch    = 0.05
	glitchDecay      = 0.1
	cameraFollow     = 0.05
	cameraRestZ      = 5
	hudRefreshFrames = 10
)

// Deps are the collaborators a Driver ticks.
type Deps struct {
	Sched    *sched.Scheduler
	Store    *params.Store
	Pipeline *fx.Pipeline
	Scenes   *scene.Registry
	Audio    signal.Reactor
	Gyro     *signal.Gyroscope
	Cursor   *signal.Cursor
	Camera   *quarkgl.Camera
	HUD      hud.Surface
	Nav      Nav
	Log      Logger

	// ChaosFor overrides ChaosDuration when positive.
	ChaosFor time.Duration

	// OnResize is called after the pipeline has been resized.
	OnResize func(w, h int)
}

// Driver runs one frame per Tick and dispatches input.
type Driver struct {
	Deps

	clock     *Clock
	fps       *FPS
	frame     uint64
	lastShift time.Duration
	shifted   bool
	now       time.Duration
	chaos     int

	subs []*observe.Subscription
}

// New wires the driver to d, starting both clocks at host time now.
func New(d Deps, now time.Duration) *Driver {
	dr := &Driver{
		Deps:  d,
		clock: NewClock(now),
		fps:   NewFPS(now),
		now:   now,
	}
	if d.Gyro != nil {
		dr.subs = append(dr.subs, d.Gyro.Subscribe(dr.followGyro))
	}
	if d.Scenes != nil && d.HUD != nil {
		dr.subs = append(dr.subs, d.Scenes.Subscribe(func(c scene.Change) {
			d.HUD.SetActiveNav(c.Index)
		}))
	}
	return dr
}

// Close detaches the driver's subscriptions.
func (d *Driver) Close() {
	for _, s := range d.subs {
		s.Unsubscribe()
	}
	d.subs = nil
}

func (d *Driver) logf(format string, args ...any) {
	if d.Log == nil {
		return
	}
	d.Log.WriteLineString(fmt.Sprintf(format, args...))
}

// Frames is the number of completed ticks.
func (d *Driver) Frames() uint64 { return d.frame }

// Clock exposes the scene clock.
func (d *Driver) Clock() *Clock { return d.clock }

// Chaos returns how many times chaos mode was triggered.
func (d *Driver) Chaos() int { return d.chaos }

// Tick runs one frame at host time now.
func (d *Driver) Tick(now time.Duration) {
	d.now = now
	d.Sched.Advance(now)

	_, el := d.clock.Tick(now)
	t := el.Seconds()

	d.Scenes.Update(t)
	d.Audio.Update(t)
	env := d.Audio.Envelope()

	if env.Bass > bassThreshold {
		d.Store.Set(fx.ParamGlitch, bassGlitch)
	} else {
		d.Store.DecayToward(fx.ParamGlitch, restingGlitch, glitchDecay)
	}
	if c := d.Camera; c != nil {
		c.Position.Z = float32(cameraRestZ + math.Sin(t*2)*env.Volume*0.1)
		c.Target = quarkgl.V3(c.Position.X, c.Position.Y, c.Position.Z-1)
	}

	d.Pipeline.Update(t)
	d.Pipeline.Render()

	if d.Cursor != nil {
		d.Cursor.Tick()
		if o, ok := d.HUD.(interface{ SetCursor(core, trail image.Point) }); ok {
			o.SetCursor(pt(d.Cursor.Core), pt(d.Cursor.Trail))
		}
	}

	d.frame++
	fps := d.fps.Frame(now)
	if d.frame%hudRefreshFrames == 0 && d.HUD != nil {
		d.HUD.SetFPS(fps)
		d.HUD.SetPassCount(d.Pipeline.ActivePasses())
	}
}

func pt(p signal.Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Handle dispatches one input event received at host time now.
func (d *Driver) Handle(now time.Duration, ev Event) {
	if now > d.now {
		d.now = now
	}
	switch ev.Kind {
	case EvKeyDown:
		d.key(ev.Key)
	case EvPointerMove:
		d.pointer(ev)
	case EvPointerDown:
		if d.Nav == nil {
			return
		}
		if i := d.Nav.NavAt(ev.X, ev.Y); i >= 0 {
			d.switchTo(i)
		}
	case EvTouchStart:
		d.Pipeline.Burst(touchBurst, touchBurstFor)
	case EvResize:
		d.Pipeline.Resize(ev.W, ev.H)
		if d.OnResize != nil {
			d.OnResize(ev.W, ev.H)
		}
	case EvOrientation:
		if d.Gyro != nil {
			d.Gyro.Handle(ev.Orientation)
		}
	}
}

func (d *Driver) key(k Key) {
	switch k {
	case KeyShift:
		if d.shifted && d.now-d.lastShift < DoubleShiftWindow {
			d.logf("frame: chaos mode")
			d.chaos++
			dur := ChaosDuration
			if d.ChaosFor > 0 {
				dur = d.ChaosFor
			}
			d.Pipeline.ChaosMode(dur)
			if d.Cursor != nil {
				d.Cursor.Glitch(dur)
			}
		}
		d.shifted = true
		d.lastShift = d.now
	case KeySpace:
		d.clock.Stop(d.now)
		d.Sched.After(ClockPause, func() { d.clock.Start(d.Sched.Now()) })
	case KeyDigit1, KeyDigit2, KeyDigit3, KeyDigit4:
		d.switchTo(int(k - KeyDigit1))
	}
}

// switchTo changes scene with a short glitch burst. The burst fires even if
// the registry refuses the switch.
func (d *Driver) switchTo(i int) {
	d.Scenes.Switch(i, false)
	d.Pipeline.Burst(switchBurst, switchBurstFor)
}

func (d *Driver) pointer(ev Event) {
	p := signal.PointerFromPixels(ev.X, ev.Y, ev.W, ev.H)
	if d.Camera != nil {
		tx, ty := p.CameraTarget()
		d.follow(tx, ty)
	}
	d.Store.Set(fx.ParamRGBShift, p.RGBShift())
	if d.Cursor != nil {
		d.Cursor.Move(float64(ev.X), float64(ev.Y))
	}
}

func (d *Driver) followGyro(v signal.Vec) {
	if d.Camera == nil {
		return
	}
	d.follow(v.X*0.5, v.Y*0.3)
}

func (d *Driver) follow(tx, ty float64) {
	c := d.Camera
	c.Position.X = quarkgl.Lerp(c.Position.X, float32(tx), cameraFollow)
	c.Position.Y = quarkgl.Lerp(c.Position.Y, float32(ty), cameraFollow)
}
