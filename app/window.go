package app

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// window holds the ebiten images used to paint the screen.
type window struct {
	frame *ebiten.Image
	hud   *ebiten.Image
}

func newWindow() *window { return &window{} }

func (w *window) close() {
	for _, img := range []*ebiten.Image{w.frame, w.hud} {
		if img != nil {
			img.Deallocate()
		}
	}
}

// sized reuses img when it already has the requested size.
func sized(img *ebiten.Image, wd, ht int) *ebiten.Image {
	if img != nil && img.Bounds().Dx() == wd && img.Bounds().Dy() == ht {
		return img
	}
	if img != nil {
		img.Deallocate()
	}
	return ebiten.NewImage(max(wd, 1), max(ht, 1))
}

func drawScaled(screen, src *ebiten.Image) {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	dw, dh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dw)/float64(sw), float64(dh)/float64(sh))
	screen.DrawImage(src, op)
}

// Draw paints the presented frame and the HUD.
func (a *App) Draw(screen *ebiten.Image) {
	if a.win == nil {
		return
	}
	switch {
	case a.gpu != nil:
		drawScaled(screen, a.gpu.Output())
	case a.cpu != nil:
		src := a.cpu.Frame()
		a.win.frame = sized(a.win.frame, src.Bounds().Dx(), src.Bounds().Dy())
		a.win.frame.WritePixels(src.Pix)
		drawScaled(screen, a.win.frame)
	}

	img := a.hud.Image()
	a.win.hud = sized(a.win.hud, img.Bounds().Dx(), img.Bounds().Dy())
	a.win.hud.WritePixels(img.Pix)
	drawScaled(screen, a.win.hud)
}
