package soft

import (
	"image"
	"math"
)

// Image is a CPU render target.
type Image struct {
	RGBA *image.RGBA
}

// NewImage allocates a w*h target.
func NewImage(w, h int) *Image {
	return &Image{RGBA: image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))}
}

func (m *Image) Size() (w, h int) {
	b := m.RGBA.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the buffer when the size changes. Contents are lost.
func (m *Image) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if cw, ch := m.Size(); cw == w && ch == h {
		return
	}
	m.RGBA = image.NewRGBA(image.Rect(0, 0, w, h))
}

type rgb struct{ r, g, b float64 }

// sample reads the texel under a GL-style uv (origin bottom left), clamping
// to the edge.
func (m *Image) sample(u, v float64) rgb {
	w, h := m.Size()
	x := int(math.Floor(u * float64(w)))
	y := int(math.Floor((1 - v) * float64(h)))
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)
	off := y*m.RGBA.Stride + x*4
	p := m.RGBA.Pix[off : off+3 : off+3]
	return rgb{float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255}
}

func (m *Image) set(x, y int, c rgb) {
	off := y*m.RGBA.Stride + x*4
	p := m.RGBA.Pix[off : off+4 : off+4]
	p[0] = unit8(c.r)
	p[1] = unit8(c.g)
	p[2] = unit8(c.b)
	p[3] = 0xFF
}

func unit8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 0xFF
	}
	return uint8(v*255 + 0.5)
}

func fract(v float64) float64 { return v - math.Floor(v) }

func random(x, y float64) float64 {
	return fract(math.Sin(x*12.9898+y*78.233) * 43758.5453)
}

func noise(px, py float64) float64 {
	ix, iy := math.Floor(px), math.Floor(py)
	fx, fy := fract(px), fract(py)
	fx = fx * fx * (3 - 2*fx)
	fy = fy * fy * (3 - 2*fy)
	n := ix + iy*57
	a := mix(random(n, n), random(n+1, n), fx)
	b := mix(random(n+57, n+57), random(n+58, n+57), fx)
	return mix(a, b, fy)
}

func mix(a, b, t float64) float64 { return a*(1-t) + b*t }

func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}
