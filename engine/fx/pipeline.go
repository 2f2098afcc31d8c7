// Package fx is the post-processing chain: scene render, glitch
// displacement, RGB split, datamosh and a final copy to the screen.
//
// The chain is backend-agnostic. A backend that cannot composite, or that
// fails to build any pass, puts the pipeline into a permanent fallback where
// the scene is drawn directly with no effects.
package fx

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"glitch/engine/params"
	"glitch/engine/sched"
)

// Logger receives diagnostic lines.
type Logger interface {
	WriteLineString(s string)
}

// Pipeline owns the pass chain and the datamosh history frame.
type Pipeline struct {
	backend Backend
	store   *params.Store
	sched   *sched.Scheduler
	log     Logger

	passes  []*Pass
	history Target
	w, h    int

	fallback bool
	reason   error

	chaosTok  *sched.Token
	chaosSnap params.Snapshot
}

// Option configures a Pipeline.
type Option func(*config)

type config struct {
	log  Logger
	seed float32
	rnd  bool
	w, h int
}

// WithLogger routes pipeline diagnostics to l.
func WithLogger(l Logger) Option { return func(c *config) { c.log = l } }

// WithSeed fixes the glitch seed instead of drawing a random one.
func WithSeed(seed float32) Option {
	return func(c *config) {
		c.seed = seed
		c.rnd = false
	}
}

// WithSize sets the initial target size.
func WithSize(w, h int) Option {
	return func(c *config) {
		c.w, c.h = w, h
	}
}

// New builds the chain on b. The effect parameters must already be defined
// on store (see Intensities.Define).
func New(b Backend, store *params.Store, sc *sched.Scheduler, opts ...Option) *Pipeline {
	cfg := config{rnd: true, w: 1, h: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rnd {
		cfg.seed = rand.Float32()
	}
	if cfg.w < 1 {
		cfg.w = 1
	}
	if cfg.h < 1 {
		cfg.h = 1
	}

	p := &Pipeline{
		backend: b,
		store:   store,
		sched:   sc,
		log:     cfg.log,
		w:       cfg.w,
		h:       cfg.h,
	}
	for i, id := range Order() {
		p.passes = append(p.passes, &Pass{
			ID:       id,
			Order:    i,
			Enabled:  id != PassDatamosh,
			Uniforms: defaultUniforms(id, cfg.seed),
		})
	}

	if b == nil || !b.Composite() {
		p.enterFallback(ErrNoComposite)
		return p
	}
	for _, ps := range p.passes {
		switch ps.ID {
		case PassGlitch, PassRGBShift, PassDatamosh:
			k, err := b.Kernel(ps.ID)
			if err != nil {
				p.enterFallback(fmt.Errorf("fx: build %s pass: %w", ps.ID, err))
				return p
			}
			ps.kernel = k
		}
		if ps.ID != PassCopy {
			ps.target = b.NewTarget(p.w, p.h)
		}
	}
	p.history = b.NewTarget(p.w, p.h)
	p.logf("fx: pipeline ready with %d passes", len(p.passes))
	return p
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.log == nil {
		return
	}
	p.log.WriteLineString(fmt.Sprintf(format, args...))
}

func (p *Pipeline) enterFallback(err error) {
	if p.fallback {
		return
	}
	p.fallback = true
	p.reason = err
	for _, ps := range p.passes {
		ps.kernel = nil
		ps.target = nil
	}
	p.history = nil
	p.logf("%v; rendering directly", err)
}

// Fallback reports whether effects are permanently off, and why.
func (p *Pipeline) Fallback() (bool, error) { return p.fallback, p.reason }

func (p *Pipeline) pass(id PassID) *Pass { return p.passes[id] }

// Passes returns copies of the pass descriptors in chain order.
func (p *Pipeline) Passes() []Pass {
	out := make([]Pass, len(p.passes))
	for i, ps := range p.passes {
		cp := *ps
		cp.Uniforms = make(Uniforms, len(ps.Uniforms))
		for k, v := range ps.Uniforms {
			cp.Uniforms[k] = v
		}
		cp.kernel, cp.target = nil, nil
		out[i] = cp
	}
	return out
}

// PassCount is the number of constructed passes, 0 in fallback.
func (p *Pipeline) PassCount() int {
	if p.fallback {
		return 0
	}
	return len(p.passes)
}

// ActivePasses is the number of enabled passes, 0 in fallback.
func (p *Pipeline) ActivePasses() int {
	if p.fallback {
		return 0
	}
	n := 0
	for _, ps := range p.passes {
		if ps.Enabled {
			n++
		}
	}
	return n
}

// Datamosh reports whether the datamosh pass is enabled.
func (p *Pipeline) Datamosh() bool { return p.pass(PassDatamosh).Enabled }

// SetDatamosh toggles the datamosh pass. It is the only pass that toggles.
func (p *Pipeline) SetDatamosh(on bool) { p.pass(PassDatamosh).Enabled = on }

// Update pushes time and the current intensities into the enabled passes.
func (p *Pipeline) Update(t float64) {
	if p.fallback {
		return
	}
	if g := p.pass(PassGlitch); g.Enabled {
		g.Uniforms["time"] = float32(t)
		g.Uniforms["amount"] = float32(p.store.Get(ParamGlitch))
	}
	if r := p.pass(PassRGBShift); r.Enabled {
		r.Uniforms["amount"] = float32(p.store.Get(ParamRGBShift))
		r.Uniforms["angle"] = float32(math.Sin(t*0.5) * math.Pi)
	}
	if d := p.pass(PassDatamosh); d.Enabled {
		d.Uniforms["time"] = float32(t)
		d.Uniforms["amount"] = float32(p.store.Get(ParamDatamosh))
	}
}

// Render runs the enabled chain and presents the result. While datamosh is
// on, the freshly rendered scene is kept as next frame's history.
func (p *Pipeline) Render() {
	if p.fallback {
		if p.backend == nil {
			return
		}
		if err := p.backend.RenderDirect(); err != nil {
			p.logf("fx: direct render: %v", err)
		}
		return
	}

	scene := p.pass(PassRender).target
	if err := p.backend.RenderScene(scene); err != nil {
		p.logf("fx: render pass: %v", err)
	}
	src := scene
	for _, ps := range p.passes {
		if !ps.Enabled || ps.kernel == nil {
			continue
		}
		if err := ps.kernel.Apply(ps.target, src, p.history, ps.Uniforms); err != nil {
			p.enterFallback(fmt.Errorf("fx: %s pass: %w", ps.ID, err))
			if err := p.backend.RenderDirect(); err != nil {
				p.logf("fx: direct render: %v", err)
			}
			return
		}
		src = ps.target
	}
	p.backend.Present(src)

	if p.Datamosh() {
		p.backend.Copy(p.history, scene)
	}
}

// Size returns the current target size.
func (p *Pipeline) Size() (w, h int) { return p.w, p.h }

// Resize resizes the output and every target, history included.
func (p *Pipeline) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	p.w, p.h = w, h
	if p.backend != nil {
		p.backend.Resize(w, h)
	}
	if p.fallback {
		return
	}
	for _, ps := range p.passes {
		if ps.target != nil {
			ps.target.Resize(w, h)
		}
	}
	p.history.Resize(w, h)
}

// Burst forces the glitch intensity to v for d.
func (p *Pipeline) Burst(v float64, d time.Duration) bool {
	_, ok := p.store.Override(ParamGlitch, v, d)
	return ok
}

// ChaosMode maxes out every effect and enables datamosh for d, then puts
// the intensities back and disables datamosh.
//
// Under params.OverlapReplace a chaos window that starts while another is
// pending cancels it and restores the earlier snapshot instead, and a
// parameter with a pending override is snapshotted at its saved value.
func (p *Pipeline) ChaosMode(d time.Duration) {
	snap := p.intensitySnapshot()
	if p.store.Policy() == params.OverlapReplace && p.chaosTok.Pending() {
		p.chaosTok.Cancel()
		snap = p.chaosSnap
	}

	p.store.Set(ParamGlitch, chaosIntensities.Glitch)
	p.store.Set(ParamRGBShift, chaosIntensities.RGBShift)
	p.store.Set(ParamDatamosh, chaosIntensities.Datamosh)
	p.SetDatamosh(true)

	p.chaosSnap = snap
	p.chaosTok = p.sched.After(d, func() {
		p.store.Restore(snap)
		p.SetDatamosh(false)
	})
}

func (p *Pipeline) intensitySnapshot() params.Snapshot {
	snap := make(params.Snapshot, 3)
	replace := p.store.Policy() == params.OverlapReplace
	for _, name := range []string{ParamGlitch, ParamRGBShift, ParamDatamosh} {
		if v, ok := p.store.PendingSaved(name); replace && ok {
			snap[name] = v
			continue
		}
		if v, ok := p.store.Lookup(name); ok {
			snap[name] = v
		}
	}
	return snap
}
