package hal

import (
	"io"
	"sync"
)

// pcmRing keeps the most recent mono samples of a feed. Writers run on the
// audio goroutine, readers on the tick.
type pcmRing struct {
	mu   sync.Mutex
	rate int
	buf  []float64
	w    int
	n    int
}

func newPCMRing(rate, size int) *pcmRing {
	if size < 1 {
		size = 1
	}
	return &pcmRing{rate: rate, buf: make([]float64, size)}
}

func (r *pcmRing) SampleRate() int { return r.rate }

func (r *pcmRing) push(s float64) {
	r.buf[r.w] = s
	r.w++
	if r.w == len(r.buf) {
		r.w = 0
	}
	if r.n < len(r.buf) {
		r.n++
	}
}

// writeStereo16 mixes whole 16-bit little-endian stereo frames down to mono
// and returns how many bytes it consumed.
func (r *pcmRing) writeStereo16(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(p) &^ 3
	for i := 0; i < n; i += 4 {
		left := int16(uint16(p[i]) | uint16(p[i+1])<<8)
		right := int16(uint16(p[i+2]) | uint16(p[i+3])<<8)
		r.push((float64(left) + float64(right)) / 65536)
	}
	return n
}

// Latest copies up to len(dst) of the newest samples, oldest first, into
// the front of dst.
func (r *pcmRing) Latest(dst []float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := min(len(dst), r.n)
	start := r.w - k
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < k; i++ {
		dst[i] = r.buf[(start+i)%len(r.buf)]
	}
	return k
}

// tap feeds everything read through it into a ring.
type tap struct {
	r     io.Reader
	ring  *pcmRing
	carry []byte
}

func (t *tap) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n > 0 {
		t.carry = append(t.carry, p[:n]...)
		used := t.ring.writeStereo16(t.carry)
		t.carry = append(t.carry[:0], t.carry[used:]...)
	}
	return n, err
}
