package signal

import (
	"context"
	"errors"

	"glitch/engine/observe"
)

// GyroStatus is shown on the HUD.
type GyroStatus string

const (
	GyroUnavailable GyroStatus = "UNAVAILABLE"
	GyroDenied      GyroStatus = "DENIED"
	GyroError       GyroStatus = "ERROR"
	GyroActive      GyroStatus = "ACTIVE"
)

// Orientation is one device orientation reading in degrees.
type Orientation struct {
	Alpha, Beta, Gamma float64
}

// Permission errors a sensor source may report.
var (
	ErrSensorUnavailable = errors.New("orientation sensor unavailable")
	ErrSensorDenied      = errors.New("orientation permission denied")
)

// OrientationSource negotiates access to a device orientation sensor.
type OrientationSource interface {
	RequestPermission(ctx context.Context) error
}

// Gyroscope normalizes and smooths orientation readings and fans the
// smoothed vector out to subscribers.
type Gyroscope struct {
	status   GyroStatus
	raw      Orientation
	smoother Smoother
	changes  observe.Hub[Vec]
}

// NewGyroscope starts in the UNAVAILABLE state.
func NewGyroscope() *Gyroscope {
	return &Gyroscope{status: GyroUnavailable, smoother: Smoother{Rate: 0.1}}
}

// Init asks src for permission once. Failure leaves the gyroscope neutral
// for the rest of the session.
func (g *Gyroscope) Init(ctx context.Context, src OrientationSource) GyroStatus {
	if src == nil {
		g.status = GyroUnavailable
		return g.status
	}
	switch err := src.RequestPermission(ctx); {
	case err == nil:
		g.status = GyroActive
	case errors.Is(err, ErrSensorDenied):
		g.status = GyroDenied
	case errors.Is(err, ErrSensorUnavailable):
		g.status = GyroUnavailable
	default:
		g.status = GyroError
	}
	return g.status
}

// Status returns the negotiation outcome.
func (g *Gyroscope) Status() GyroStatus { return g.status }

// Enabled reports whether readings are being accepted.
func (g *Gyroscope) Enabled() bool { return g.status == GyroActive }

// Handle folds in one reading and publishes the smoothed vector. Readings
// are dropped unless the gyroscope is active.
func (g *Gyroscope) Handle(o Orientation) {
	if !g.Enabled() {
		return
	}
	g.raw = o
	v := g.smoother.Update(Normalize(o))
	g.changes.Publish(v)
}

// Normalize maps an orientation reading to roughly [-1, 1] per axis.
func Normalize(o Orientation) Vec {
	return Vec{
		X: clamp(o.Gamma/90, -1, 1),
		Y: clamp(o.Beta/90, -1, 1),
		Z: o.Alpha / 360,
	}
}

// Values returns the smoothed vector.
func (g *Gyroscope) Values() Vec { return g.smoother.Value }

// Subscribe registers fn for smoothed updates.
func (g *Gyroscope) Subscribe(fn func(Vec)) *observe.Subscription {
	return g.changes.Subscribe(fn)
}
