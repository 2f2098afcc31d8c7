package hud

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

// rgbaDisplay lets tinyfont and tinyterm draw into an *image.RGBA.
type rgbaDisplay struct {
	img *image.RGBA
}

func (d *rgbaDisplay) Size() (x, y int16) {
	if d.img == nil {
		return 0, 0
	}
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d *rgbaDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.img == nil {
		return
	}
	p := image.Pt(int(x), int(y)).Add(d.img.Rect.Min)
	if !p.In(d.img.Rect) {
		return
	}
	d.img.SetRGBA(p.X, p.Y, c)
}

func (d *rgbaDisplay) Display() error { return nil }

func (d *rgbaDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.img == nil {
		return nil
	}
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)).
		Add(d.img.Rect.Min).
		Intersect(d.img.Rect)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			d.img.SetRGBA(px, py, c)
		}
	}
	return nil
}

// ScrollUp shifts the image up by lines rows and clears the exposed band.
func (d *rgbaDisplay) ScrollUp(lines int16, bg color.RGBA) error {
	if d.img == nil || lines <= 0 {
		return nil
	}
	w, h := d.Size()
	n := int(lines)
	if n >= int(h) {
		return d.FillRectangle(0, 0, w, h, bg)
	}
	stride := d.img.Stride
	copy(d.img.Pix, d.img.Pix[n*stride:int(h)*stride])
	return d.FillRectangle(0, h-lines, w, lines, bg)
}

func (d *rgbaDisplay) SetScroll(line int16) {}

func (d *rgbaDisplay) SetRotation(rotation drivers.Rotation) error { return nil }

func (d *rgbaDisplay) clear() {
	clear(d.img.Pix)
}
