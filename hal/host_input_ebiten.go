package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"glitch/engine/frame"
)

var keyMap = []struct {
	ebiten ebiten.Key
	key    frame.Key
}{
	{ebiten.KeyDigit1, frame.KeyDigit1},
	{ebiten.KeyDigit2, frame.KeyDigit2},
	{ebiten.KeyDigit3, frame.KeyDigit3},
	{ebiten.KeyDigit4, frame.KeyDigit4},
	{ebiten.KeyShiftLeft, frame.KeyShift},
	{ebiten.KeyShiftRight, frame.KeyShift},
	{ebiten.KeySpace, frame.KeySpace},
}

// poller turns ebiten's polled input state into edge events.
type poller struct {
	in     *hostInput
	cx, cy int
	w, h   int
	moved  bool
}

func (p *poller) poll() {
	for _, k := range keyMap {
		if inpututil.IsKeyJustPressed(k.ebiten) {
			p.in.emit(frame.Event{Kind: frame.EvKeyDown, Key: k.key})
		}
	}

	x, y := ebiten.CursorPosition()
	if !p.moved || x != p.cx || y != p.cy {
		p.moved = true
		p.cx, p.cy = x, y
		p.in.emit(frame.Event{Kind: frame.EvPointerMove, X: x, Y: y, W: p.w, H: p.h})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		p.in.emit(frame.Event{Kind: frame.EvPointerDown, X: x, Y: y, W: p.w, H: p.h})
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		p.in.emit(frame.Event{Kind: frame.EvTouchStart, X: tx, Y: ty, W: p.w, H: p.h})
	}
}

// layout reports a window size change once.
func (p *poller) layout(w, h int) {
	if w == p.w && h == p.h {
		return
	}
	p.w, p.h = w, h
	p.in.emit(frame.Event{Kind: frame.EvResize, W: w, H: h})
}
