package signal

import "math"

// Envelope is the audio-derived drive, every band in [0, 1].
type Envelope struct {
	Bass, Mid, Treble, Volume float64
}

// Reactor produces an envelope once per frame.
type Reactor interface {
	Update(t float64)
	Envelope() Envelope
}

// Per-band smoothing rates shared by the synthetic and analyzed reactors.
const (
	bassLerp   = 0.3
	midLerp    = 0.2
	trebleLerp = 0.4
)

func (e *Envelope) fold(bass, mid, treble float64) {
	e.Bass = lerp(e.Bass, bass, bassLerp)
	e.Mid = lerp(e.Mid, mid, midLerp)
	e.Treble = lerp(e.Treble, treble, trebleLerp)
	e.Volume = (e.Bass + e.Mid + e.Treble) / 3
}

// Synthetic fakes a beat when no audio input is available.
type Synthetic struct {
	phase float64
	env   Envelope
}

const syntheticSpeed = 0.5

// Update advances one frame. The time argument is ignored; the phase moves
// a fixed step per call.
func (s *Synthetic) Update(float64) {
	s.phase += syntheticSpeed * 0.016
	kick := 0.0
	if math.Sin(s.phase*2) > 0.7 {
		kick = 1
	}
	mid := (math.Sin(s.phase*4) + 1) / 2 * 0.5
	treble := Noise(s.phase*10) * 0.3
	s.env.fold(kick, mid, treble)
}

func (s *Synthetic) Envelope() Envelope { return s.env }

// Noise is a cheap hash-based pseudo noise in [0, 1).
func Noise(x float64) float64 {
	v := math.Sin(x*12.9898) * 43758.5453
	return v - math.Floor(v)
}
