package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-dsp/dsp/window"
)

// Samples is a live mono PCM feed in [-1, 1].
type Samples interface {
	SampleRate() int
	// Latest copies the most recent len(dst) samples into dst and returns
	// how many were available.
	Latest(dst []float64) int
}

// Band probe frequencies in Hz.
var (
	bassFreqs   = []float64{50, 80, 120, 160}
	midFreqs    = []float64{400, 800, 1200, 2000}
	trebleFreqs = []float64{4000, 6000, 8000, 10000}
)

// DefaultBlock is the analysis window length in samples.
const DefaultBlock = 1024

// Analyzer derives an envelope from live samples with a Hann window and a
// bank of Goertzel filters per band.
type Analyzer struct {
	src   Samples
	win   []float64
	buf   []float64
	bands [3]*spectrum.MultiGoertzel
	gain  float64
	env   Envelope
}

// NewAnalyzer builds the filter banks for src's sample rate.
func NewAnalyzer(src Samples, block int) (*Analyzer, error) {
	if src == nil {
		return nil, fmt.Errorf("signal: nil sample source")
	}
	if block <= 0 {
		block = DefaultBlock
	}
	sr := float64(src.SampleRate())
	a := &Analyzer{
		src: src,
		win: window.Generate(window.TypeHann, block, window.WithPeriodic()),
		buf: make([]float64, block),
	}
	for i, freqs := range [][]float64{bassFreqs, midFreqs, trebleFreqs} {
		usable := make([]float64, 0, len(freqs))
		for _, f := range freqs {
			if f < sr/2 {
				usable = append(usable, f)
			}
		}
		mg, err := spectrum.NewMultiGoertzel(usable, sr)
		if err != nil {
			return nil, fmt.Errorf("signal: band %d: %w", i, err)
		}
		a.bands[i] = mg
	}
	var sum float64
	for _, w := range a.win {
		sum += w
	}
	// A full scale sine on a probe frequency lands at magnitude sum/2.
	a.gain = 2 / sum
	return a, nil
}

// Update analyzes the latest block. With too few samples it decays toward
// silence.
func (a *Analyzer) Update(float64) {
	n := a.src.Latest(a.buf)
	if n < len(a.buf) {
		a.env.fold(0, 0, 0)
		return
	}
	for i := range a.buf {
		a.buf[i] *= a.win[i]
	}
	var lvl [3]float64
	for i, mg := range a.bands {
		mg.Reset()
		mg.ProcessBlock(a.buf)
		lvl[i] = a.level(mg.Powers())
	}
	a.env.fold(lvl[0], lvl[1], lvl[2])
}

func (a *Analyzer) level(powers []float64) float64 {
	if len(powers) == 0 {
		return 0
	}
	var peak float64
	for _, p := range powers {
		peak = math.Max(peak, math.Sqrt(math.Max(p, 0))*a.gain)
	}
	return clamp(peak, 0, 1)
}

func (a *Analyzer) Envelope() Envelope { return a.env }
