package hal

import (
	"sync"
	"time"
)

// hostTime reads the wall clock, or a stepped clock in headless runs so that
// every tick is exactly one period long.
type hostTime struct {
	mu      sync.Mutex
	start   time.Time
	stepped bool
	now     time.Duration
}

func newWallTime() *hostTime { return &hostTime{start: time.Now()} }

func newSteppedTime() *hostTime { return &hostTime{stepped: true} }

func (t *hostTime) Now() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stepped {
		return t.now
	}
	return time.Since(t.start)
}

func (t *hostTime) step(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d > 0 {
		t.now += d
	}
}
