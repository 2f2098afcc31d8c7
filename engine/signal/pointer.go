package signal

import "math"

// Pointer tracks the pointer in normalized device coordinates, x right and
// y up, both in [-1, 1].
type Pointer struct {
	X, Y float64
}

// PointerFromPixels normalizes a window position.
func PointerFromPixels(px, py, w, h int) Pointer {
	if w <= 0 || h <= 0 {
		return Pointer{}
	}
	return Pointer{
		X: float64(px)/float64(w)*2 - 1,
		Y: -float64(py)/float64(h)*2 + 1,
	}
}

// CameraTarget is where the camera drifts toward for this pointer.
func (p Pointer) CameraTarget() (x, y float64) { return p.X * 0.5, p.Y * 0.3 }

// RGBShift is the chromatic split intensity for this pointer: wider toward
// the corners.
func (p Pointer) RGBShift() float64 {
	d := math.Hypot(p.X, p.Y)
	return Map(d, 0, 1.4, 0.002, 0.01)
}
