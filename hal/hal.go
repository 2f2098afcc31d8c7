// Package hal is the only contact point between the engine and the host:
// log output, the host clock, input, audio and the orientation sensor.
package hal

import (
	"context"
	"errors"
	"time"

	"glitch/engine/frame"
	"glitch/engine/signal"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// Time is the host monotonic clock. It never goes backwards.
type Time interface {
	Now() time.Duration
}

// Input delivers host events translated for the frame driver.
type Input interface {
	Events() <-chan frame.Event
}

// AudioSource is a running PCM feed the analyzer can read.
type AudioSource interface {
	signal.Samples
	Close() error
}

// Audio opens reactive audio sources.
type Audio interface {
	Open(path string) (AudioSource, error)
}

// Orientation negotiates the device orientation sensor. Readings arrive
// as EvOrientation events on Input.
type Orientation interface {
	RequestPermission(ctx context.Context) error
}

// HAL bundles the host services.
type HAL interface {
	Logger() Logger
	Time() Time
	Input() Input
	Audio() Audio
	Orientation() Orientation
}

// Loop is one application instance driven by a runner.
type Loop interface {
	Step() error
}
