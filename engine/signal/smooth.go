// Package signal turns raw input (pointer, orientation, audio) into the
// smoothed values the frame driver reacts to.
package signal

// Vec is a three component signal.
type Vec struct {
	X, Y, Z float64
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Map linearly maps v from [inLo, inHi] to [outLo, outHi] without clamping.
func Map(v, inLo, inHi, outLo, outHi float64) float64 {
	return (v-inLo)*(outHi-outLo)/(inHi-inLo) + outLo
}

// Smoother moves a value a fixed fraction of the way toward each sample.
type Smoother struct {
	Rate  float64
	Value Vec
}

// Update folds one raw sample in and returns the new value.
func (s *Smoother) Update(raw Vec) Vec {
	s.Value = Vec{
		X: lerp(s.Value.X, raw.X, s.Rate),
		Y: lerp(s.Value.Y, raw.Y, s.Rate),
		Z: lerp(s.Value.Z, raw.Z, s.Rate),
	}
	return s.Value
}
