package hal

import (
	"github.com/hajimehoshi/ebiten/v2"

	"glitch/internal/buildinfo"
)

// Drawer is implemented by loops that paint the window.
type Drawer interface {
	Draw(screen *ebiten.Image)
}

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Width, Height int
	Hz            int
}

// RunWindow opens a resizable desktop window, forwards input to the loop and
// steps it once per tick. It blocks until the window closes.
func RunWindow(cfg WindowConfig, newApp func(HAL) (Loop, error)) error {
	h := New().(*hostHAL)
	loop, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, loop: loop, in: &poller{in: h.in}}
	if d, ok := loop.(Drawer); ok {
		g.draw = d
	}
	ebiten.SetWindowTitle("glitch (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	if cfg.Hz > 0 {
		ebiten.SetTPS(cfg.Hz)
	}
	return ebiten.RunGame(g)
}

type hostGame struct {
	h    *hostHAL
	loop Loop
	draw Drawer
	in   *poller
}

func (g *hostGame) Update() error {
	g.in.poll()
	return g.loop.Step()
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.draw != nil {
		g.draw.Draw(screen)
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.in.layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
