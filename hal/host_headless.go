package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64 // 0 runs until ctx is done

	// Unthrottled steps as fast as possible instead of waiting for a real
	// ticker. The host clock still advances one period per tick.
	Unthrottled bool

	// Log receives the host log. Nil means stdout.
	Log io.Writer
}

// RunHeadless steps the loop on a fixed-period clock without opening a
// window. Audio tracks are pumped at tick pace.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, newApp func(HAL) (Loop, error)) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	w := cfg.Log
	if w == nil {
		w = os.Stdout
	}

	h := newHost(w, newSteppedTime(), false)
	loop, err := newApp(h)
	if err != nil {
		return err
	}

	var tick <-chan time.Time
	if !cfg.Unthrottled {
		t := time.NewTicker(d)
		defer t.Stop()
		tick = t.C
	}

	for n := uint64(0); cfg.Ticks == 0 || n < cfg.Ticks; n++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		h.t.step(d)
		h.aud.pump(d)
		if err := loop.Step(); err != nil {
			return err
		}
	}
	return nil
}
