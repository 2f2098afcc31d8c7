package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const (
	audioSampleRate = 44100
	audioRing       = audioSampleRate / 2
)

// hostAudio plays a looping WAV track and taps the decoded PCM. Without
// playback the track is pumped at tick pace instead, which keeps headless
// runs deterministic and needs no audio device.
type hostAudio struct {
	log      Logger
	playback bool

	mu    sync.Mutex
	ctx   *audio.Context
	feeds []*pumpSource
}

func newHostAudio(log Logger, playback bool) *hostAudio {
	return &hostAudio{log: log, playback: playback}
}

func (a *hostAudio) context() *audio.Context {
	if a.ctx == nil {
		a.ctx = audio.NewContext(audioSampleRate)
	}
	return a.ctx
}

func (a *hostAudio) Open(path string) (AudioSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hal: audio: %w", err)
	}
	stream, err := wav.DecodeWithSampleRate(audioSampleRate, f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("hal: audio: decode %s: %w", path, err)
	}
	ring := newPCMRing(audioSampleRate, audioRing)
	t := &tap{r: audio.NewInfiniteLoop(stream, stream.Length()), ring: ring}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.playback {
		src := &pumpSource{pcmRing: ring, log: a.log, r: t, f: f}
		a.feeds = append(a.feeds, src)
		return src, nil
	}

	p, err := a.context().NewPlayer(t)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("hal: audio: %w", err)
	}
	p.SetBufferSize(100 * time.Millisecond)
	p.Play()
	a.log.WriteLineString("audio: playing " + path)
	return &playerSource{pcmRing: ring, p: p, f: f}, nil
}

// pump advances every headless feed by d of audio.
func (a *hostAudio) pump(d time.Duration) {
	a.mu.Lock()
	feeds := a.feeds
	a.mu.Unlock()
	for _, s := range feeds {
		s.pump(d)
	}
}

type playerSource struct {
	*pcmRing
	p *audio.Player
	f *os.File
}

func (s *playerSource) Close() error {
	err := s.p.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

type pumpSource struct {
	*pcmRing
	mu     sync.Mutex
	log    Logger
	r      io.Reader
	f      *os.File
	buf    []byte
	closed bool
}

func (s *pumpSource) pump(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	n := int(d.Seconds()*float64(s.rate)) * 4
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	if _, err := io.ReadFull(s.r, s.buf[:n]); err != nil {
		if s.log != nil {
			s.log.WriteLineString(fmt.Sprintf("audio: feed stopped: %v", err))
		}
		s.close()
	}
}

func (s *pumpSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.close()
}

func (s *pumpSource) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}
