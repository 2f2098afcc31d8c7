// Package hud draws the heads-up layer over the scene: scene navigation,
// FPS and pass counters, gyroscope status, the custom cursor and the boot
// loading console.
package hud

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// Surface is what the frame driver and boot sequence update.
type Surface interface {
	SetLoading(pct int, text string)
	HideLoading()
	SetFPS(n int)
	SetPassCount(n int)
	SetActiveNav(i int)
	SetGyroStatus(s string)
}

var (
	colCyan    = color.RGBA{0x00, 0xff, 0xf9, 0xff}
	colMagenta = color.RGBA{0xff, 0x00, 0xea, 0xff}
	colRed     = color.RGBA{0xff, 0x00, 0x40, 0xff}
	colSteel   = color.RGBA{0x70, 0x80, 0x90, 0xff}
	colShade   = color.RGBA{0x00, 0x00, 0x00, 0xc0}
)

const (
	fontHeight = 10
	fontOffset = 6
	margin     = 8
	navGap     = 14

	consoleCols = 34
	consoleRows = 6
)

// Overlay is the HUD, rendered into a transparent RGBA image the size of
// the window.
type Overlay struct {
	img  *image.RGBA
	disp *rgbaDisplay
	font tinyfont.Fonter

	nav     []string
	navRect []image.Rectangle
	active  int
	fps     int
	passes  int
	gyro    string

	loading     bool
	loadingPct  int
	loadingText string
	consoleImg  *image.RGBA
	console     *tinyterm.Terminal

	core, trail image.Point
	showCursor  bool
}

// NewOverlay creates a w*h HUD with one nav item per scene name.
func NewOverlay(w, h int, nav []string) *Overlay {
	o := &Overlay{
		font:    &proggy.TinySZ8pt7b,
		nav:     append([]string(nil), nav...),
		active:  -1,
		gyro:    "UNAVAILABLE",
		loading: true,
	}
	o.Resize(w, h)

	_, cw := tinyfont.LineWidth(o.font, "0")
	o.consoleImg = image.NewRGBA(image.Rect(0, 0, consoleCols*int(cw), consoleRows*fontHeight))
	o.console = tinyterm.NewTerminal(&rgbaDisplay{img: o.consoleImg})
	o.console.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: fontHeight,
		FontOffset: fontOffset,
	})
	return o
}

// Resize reallocates the layer.
func (o *Overlay) Resize(w, h int) {
	o.img = image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	o.disp = &rgbaDisplay{img: o.img}
	o.layoutNav()
}

func (o *Overlay) layoutNav() {
	o.navRect = o.navRect[:0]
	x := margin
	for i, name := range o.nav {
		label := navLabel(i, name)
		_, w := tinyfont.LineWidth(o.font, label)
		r := image.Rect(x-2, margin-2, x+int(w)+2, margin+fontHeight+2)
		o.navRect = append(o.navRect, r)
		x = r.Max.X + navGap
	}
}

func navLabel(i int, name string) string { return fmt.Sprintf("%02d %s", i+1, name) }

func (o *Overlay) SetLoading(pct int, text string) {
	pct = min(max(pct, 0), 100)
	o.loading = true
	o.loadingPct = pct
	o.loadingText = text
	fmt.Fprintf(o.console, "[%3d%%] %s\r\n", pct, text)
}

func (o *Overlay) HideLoading()           { o.loading = false }
func (o *Overlay) SetFPS(n int)           { o.fps = n }
func (o *Overlay) SetPassCount(n int)     { o.passes = n }
func (o *Overlay) SetActiveNav(i int)     { o.active = i }
func (o *Overlay) SetGyroStatus(s string) { o.gyro = s }

// Loading reports whether the loading screen is up, and its progress.
func (o *Overlay) Loading() (visible bool, pct int, text string) {
	return o.loading, o.loadingPct, o.loadingText
}

// Counters returns the last FPS and pass count shown.
func (o *Overlay) Counters() (fps, passes int) { return o.fps, o.passes }

// ActiveNav returns the highlighted nav index.
func (o *Overlay) ActiveNav() int { return o.active }

// GyroStatus returns the shown status text.
func (o *Overlay) GyroStatus() string { return o.gyro }

// SetCursor places the custom cursor. Both points are window pixels.
func (o *Overlay) SetCursor(core, trail image.Point) {
	o.core, o.trail = core, trail
	o.showCursor = true
}

// NavAt returns the nav item under a window position, or -1.
func (o *Overlay) NavAt(x, y int) int {
	p := image.Pt(x, y)
	for i, r := range o.navRect {
		if p.In(r) {
			return i
		}
	}
	return -1
}

// Image renders the layer and returns it. The image is reused across calls.
func (o *Overlay) Image() *image.RGBA {
	o.disp.clear()
	w, h := o.disp.Size()

	for i, name := range o.nav {
		r := o.navRect[i]
		c := colSteel
		if i == o.active {
			_ = o.disp.FillRectangle(int16(r.Min.X), int16(r.Min.Y), int16(r.Dx()), int16(r.Dy()), colCyan)
			c = color.RGBA{A: 0xff}
		}
		o.text(r.Min.X+2, r.Min.Y+2, navLabel(i, name), c)
	}

	o.text(margin, int(h)-margin-fontHeight, fmt.Sprintf("FPS %02d  PASSES %02d", o.fps, o.passes), colCyan)

	status := "GYRO " + o.gyro
	_, sw := tinyfont.LineWidth(o.font, status)
	o.text(int(w)-margin-int(sw), int(h)-margin-fontHeight, status, gyroColor(o.gyro))

	if o.loading {
		o.drawLoading(int(w), int(h))
	}
	if o.showCursor {
		o.drawCursor()
	}
	return o.img
}

// Composite draws the layer over dst.
func (o *Overlay) Composite(dst *image.RGBA) {
	src := o.Image()
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Over)
}

func gyroColor(s string) color.RGBA {
	switch s {
	case "ACTIVE":
		return colCyan
	case "DENIED", "ERROR":
		return colRed
	default:
		return colSteel
	}
}

func (o *Overlay) text(x, y int, s string, c color.RGBA) {
	tinyfont.WriteLine(o.disp, o.font, int16(x), int16(y+fontOffset+2), s, c)
}

func (o *Overlay) drawLoading(w, h int) {
	_ = o.disp.FillRectangle(0, 0, int16(w), int16(h), colShade)

	cb := o.consoleImg.Bounds()
	x0 := (w - cb.Dx()) / 2
	y0 := (h-cb.Dy())/2 - fontHeight
	draw.Draw(o.img, cb.Add(image.Pt(x0, y0)), o.consoleImg, image.Point{}, draw.Over)

	barY := y0 + cb.Dy() + 4
	_ = o.disp.FillRectangle(int16(x0), int16(barY), int16(cb.Dx()), 3, colSteel)
	_ = o.disp.FillRectangle(int16(x0), int16(barY), int16(cb.Dx()*o.loadingPct/100), 3, colMagenta)
}

func (o *Overlay) drawCursor() {
	ring := func(p image.Point, r int, c color.RGBA) {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				d := dx*dx + dy*dy
				if d <= r*r && d >= (r-1)*(r-1) {
					o.disp.SetPixel(int16(p.X+dx), int16(p.Y+dy), c)
				}
			}
		}
	}
	ring(o.trail, 10, colMagenta)
	_ = o.disp.FillRectangle(int16(o.core.X-2), int16(o.core.Y-2), 4, 4, colCyan)
}

var _ Surface = (*Overlay)(nil)
