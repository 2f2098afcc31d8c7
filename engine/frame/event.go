package frame

import "glitch/engine/signal"

// Key is a key the driver reacts to.
type Key uint8

const (
	KeyNone Key = iota
	KeyDigit1
	KeyDigit2
	KeyDigit3
	KeyDigit4
	KeyShift
	KeySpace
)

// EventKind tags an Event.
type EventKind uint8

const (
	EvKeyDown EventKind = iota + 1
	EvPointerMove
	EvPointerDown
	EvTouchStart
	EvResize
	EvOrientation
)

// Event is one input from the host. X and Y are window pixels; W and H
// carry the window size for pointer and resize events.
type Event struct {
	Kind        EventKind
	Key         Key
	X, Y        int
	W, H        int
	Orientation signal.Orientation
}
