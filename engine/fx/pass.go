package fx

import "glitch/engine/params"

// PassID names one stage of the chain.
type PassID uint8

const (
	PassRender PassID = iota
	PassGlitch
	PassRGBShift
	PassDatamosh
	PassCopy
)

var passNames = [...]string{"render", "glitch", "rgbShift", "datamosh", "copy"}

func (id PassID) String() string {
	if int(id) < len(passNames) {
		return passNames[id]
	}
	return "unknown"
}

// Order returns the fixed chain order.
func Order() []PassID {
	return []PassID{PassRender, PassGlitch, PassRGBShift, PassDatamosh, PassCopy}
}

// Uniforms are the named scalar inputs of a pass.
type Uniforms map[string]float32

// Pass is one stage of the chain.
type Pass struct {
	ID       PassID
	Order    int
	Enabled  bool
	Uniforms Uniforms

	kernel Kernel
	target Target
}

// Intensity parameter names.
const (
	ParamGlitch   = "glitch"
	ParamRGBShift = "rgbShift"
	ParamDatamosh = "datamosh"
)

// Intensities are the starting values of the three effect parameters.
type Intensities struct {
	Glitch   float64
	RGBShift float64
	Datamosh float64
}

// DefaultIntensities returns the starting profile. Mobile runs calmer.
func DefaultIntensities(mobile bool) Intensities {
	if mobile {
		return Intensities{Glitch: 0.03, RGBShift: 0.003}
	}
	return Intensities{Glitch: 0.05, RGBShift: 0.005}
}

// Define registers the effect parameters on s, each bounded to [0, 1].
func (in Intensities) Define(s *params.Store) {
	s.Define(ParamGlitch, in.Glitch, 0, 1)
	s.Define(ParamRGBShift, in.RGBShift, 0, 1)
	s.Define(ParamDatamosh, in.Datamosh, 0, 1)
}

// Chaos values forced by ChaosMode.
var chaosIntensities = Intensities{Glitch: 0.8, RGBShift: 0.03, Datamosh: 0.7}

func defaultUniforms(id PassID, seed float32) Uniforms {
	switch id {
	case PassGlitch:
		return Uniforms{
			"time":        0,
			"amount":      0,
			"distortion":  0.1,
			"distortion2": 0.1,
			"speed":       0.3,
			"rollSpeed":   0.1,
			"seed":        seed,
		}
	case PassRGBShift:
		return Uniforms{"amount": 0, "angle": 0}
	case PassDatamosh:
		return Uniforms{"time": 0, "amount": 0}
	default:
		return Uniforms{}
	}
}
