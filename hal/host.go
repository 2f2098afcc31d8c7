package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"glitch/engine/frame"
	"glitch/engine/signal"
)

type hostHAL struct {
	logger *hostLogger
	t      *hostTime
	in     *hostInput
	aud    *hostAudio
	orient hostOrientation
}

func newHost(w io.Writer, t *hostTime, playback bool) *hostHAL {
	logger := newHostLogger(w)
	return &hostHAL{
		logger: logger,
		t:      t,
		in:     newHostInput(),
		aud:    newHostAudio(logger, playback),
	}
}

// New returns a host HAL on the wall clock with audio playback.
func New() HAL { return newHost(os.Stdout, newWallTime(), true) }

func (h *hostHAL) Logger() Logger           { return h.logger }
func (h *hostHAL) Time() Time               { return h.t }
func (h *hostHAL) Input() Input             { return h.in }
func (h *hostHAL) Audio() Audio             { return h.aud }
func (h *hostHAL) Orientation() Orientation { return h.orient }

// hostLogger writes each line as one console log event.
type hostLogger struct {
	mu sync.Mutex
	zl zerolog.Logger
}

func newHostLogger(w io.Writer) *hostLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: w != os.Stdout}
	return &hostLogger{zl: zerolog.New(cw).With().Timestamp().Logger()}
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl.Info().Msg(s)
}

func (l *hostLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

type hostInput struct {
	ch chan frame.Event
}

func newHostInput() *hostInput { return &hostInput{ch: make(chan frame.Event, 64)} }

func (in *hostInput) Events() <-chan frame.Event { return in.ch }

// emit drops the event when nobody drains the queue.
func (in *hostInput) emit(ev frame.Event) bool {
	select {
	case in.ch <- ev:
		return true
	default:
		return false
	}
}

// Desktops have no orientation sensor.
type hostOrientation struct{}

func (hostOrientation) RequestPermission(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("hal: %w: %w", signal.ErrSensorUnavailable, ErrNotImplemented)
}
