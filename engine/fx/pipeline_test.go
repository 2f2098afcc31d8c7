package fx

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glitch/engine/params"
	"glitch/engine/sched"
)

type lineLog struct{ lines []string }

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }

type fakeTarget struct {
	name string
	w, h int
}

func (t *fakeTarget) Size() (int, int) { return t.w, t.h }
func (t *fakeTarget) Resize(w, h int)  { t.w, t.h = w, h }
func (t *fakeTarget) String() string   { return t.name }

type fakeKernel struct {
	b   *fakeBackend
	id  PassID
	err error
}

func (k *fakeKernel) Apply(dst, src, prev Target, u Uniforms) error {
	k.b.calls = append(k.b.calls, "apply:"+k.id.String())
	return k.err
}

type fakeBackend struct {
	composite bool
	kernelErr map[PassID]error
	applyErr  map[PassID]error

	targets []*fakeTarget
	calls   []string
	w, h    int
	present Target
	copies  [][2]Target
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{composite: true, kernelErr: map[PassID]error{}, applyErr: map[PassID]error{}}
}

func (b *fakeBackend) Composite() bool { return b.composite }

func (b *fakeBackend) NewTarget(w, h int) Target {
	t := &fakeTarget{w: w, h: h}
	b.targets = append(b.targets, t)
	return t
}

func (b *fakeBackend) Kernel(id PassID) (Kernel, error) {
	if err := b.kernelErr[id]; err != nil {
		return nil, err
	}
	return &fakeKernel{b: b, id: id, err: b.applyErr[id]}, nil
}

func (b *fakeBackend) RenderScene(dst Target) error {
	b.calls = append(b.calls, "scene")
	return nil
}

func (b *fakeBackend) RenderDirect() error {
	b.calls = append(b.calls, "direct")
	return nil
}

func (b *fakeBackend) Present(src Target) {
	b.calls = append(b.calls, "present")
	b.present = src
}

func (b *fakeBackend) Copy(dst, src Target) {
	b.calls = append(b.calls, "copy")
	b.copies = append(b.copies, [2]Target{dst, src})
}

func (b *fakeBackend) Resize(w, h int) { b.w, b.h = w, h }

func newPipeline(t *testing.T, b Backend, opts ...params.Option) (*Pipeline, *params.Store, *sched.Scheduler, *lineLog) {
	t.Helper()
	sc := sched.New(0)
	store := params.New(sc, opts...)
	DefaultIntensities(false).Define(store)
	log := &lineLog{}
	p := New(b, store, sc, WithLogger(log), WithSeed(0.5), WithSize(64, 32))
	return p, store, sc, log
}

func TestPassOrderFixed(t *testing.T) {
	p, _, _, _ := newPipeline(t, newFakeBackend())
	passes := p.Passes()
	require.Len(t, passes, 5)
	for i, id := range []PassID{PassRender, PassGlitch, PassRGBShift, PassDatamosh, PassCopy} {
		assert.Equal(t, id, passes[i].ID)
		assert.Equal(t, i, passes[i].Order)
	}
	assert.False(t, passes[PassDatamosh].Enabled)
	assert.Equal(t, 5, p.PassCount())
	assert.Equal(t, 4, p.ActivePasses())
}

func TestUpdatePushesEnabledPassesOnly(t *testing.T) {
	p, store, _, _ := newPipeline(t, newFakeBackend())
	store.Set(ParamDatamosh, 0.4)
	p.Update(2)

	passes := p.Passes()
	g := passes[PassGlitch].Uniforms
	assert.Equal(t, float32(2), g["time"])
	assert.InDelta(t, 0.05, g["amount"], 1e-6)
	assert.Equal(t, float32(0.1), g["distortion"])
	assert.Equal(t, float32(0.1), g["distortion2"])
	assert.Equal(t, float32(0.3), g["speed"])
	assert.Equal(t, float32(0.1), g["rollSpeed"])
	assert.Equal(t, float32(0.5), g["seed"])

	r := passes[PassRGBShift].Uniforms
	assert.InDelta(t, 0.005, r["amount"], 1e-6)
	assert.InDelta(t, math.Sin(1)*math.Pi, r["angle"], 1e-5)

	d := passes[PassDatamosh].Uniforms
	assert.Equal(t, float32(0), d["time"], "disabled pass must not receive uniforms")
	assert.Equal(t, float32(0), d["amount"])

	p.SetDatamosh(true)
	p.Update(3)
	d = p.Passes()[PassDatamosh].Uniforms
	assert.Equal(t, float32(3), d["time"])
	assert.InDelta(t, 0.4, d["amount"], 1e-6)
}

func TestRenderChain(t *testing.T) {
	b := newFakeBackend()
	p, _, _, _ := newPipeline(t, b)
	p.Render()
	assert.Equal(t, []string{"scene", "apply:glitch", "apply:rgbShift", "present"}, b.calls)
	assert.Empty(t, b.copies)

	b.calls = nil
	p.SetDatamosh(true)
	p.Render()
	assert.Equal(t, []string{"scene", "apply:glitch", "apply:rgbShift", "apply:datamosh", "present", "copy"}, b.calls)
	require.Len(t, b.copies, 1)
	assert.Same(t, p.history, b.copies[0][0])
	assert.Same(t, p.pass(PassRender).target, b.copies[0][1])
}

func TestNoCompositeFallsBack(t *testing.T) {
	b := newFakeBackend()
	b.composite = false
	p, _, _, log := newPipeline(t, b)

	fb, err := p.Fallback()
	assert.True(t, fb)
	assert.ErrorIs(t, err, ErrNoComposite)
	assert.Equal(t, 0, p.PassCount())
	assert.Equal(t, 0, p.ActivePasses())
	assert.Empty(t, b.targets)

	p.Render()
	p.Render()
	assert.Equal(t, []string{"direct", "direct"}, b.calls)
	require.Len(t, log.lines, 1)
	assert.Contains(t, log.lines[0], "compositing unavailable")
}

func TestKernelBuildFailureFallsBack(t *testing.T) {
	b := newFakeBackend()
	boom := errors.New("compile error")
	b.kernelErr[PassRGBShift] = boom
	p, _, _, log := newPipeline(t, b)

	fb, err := p.Fallback()
	require.True(t, fb)
	assert.ErrorIs(t, err, boom)
	require.Len(t, log.lines, 1)
	assert.True(t, strings.Contains(log.lines[0], "rgbShift"))

	p.Update(1)
	p.Render()
	assert.Equal(t, []string{"direct"}, b.calls)
}

func TestApplyFailureFallsBackOnce(t *testing.T) {
	b := newFakeBackend()
	b.applyErr[PassGlitch] = errors.New("lost context")
	p, _, _, log := newPipeline(t, b)
	logged := len(log.lines)

	p.Render()
	p.Render()
	fb, _ := p.Fallback()
	assert.True(t, fb)
	assert.Equal(t, []string{"scene", "apply:glitch", "direct", "direct"}, b.calls)
	assert.Len(t, log.lines, logged+1)
}

func TestResizeReachesEveryTarget(t *testing.T) {
	b := newFakeBackend()
	p, _, _, _ := newPipeline(t, b)
	require.Len(t, b.targets, 5) // render, glitch, rgbShift, datamosh, history

	p.Resize(320, 200)
	assert.Equal(t, 320, b.w)
	assert.Equal(t, 200, b.h)
	for _, tg := range b.targets {
		w, h := tg.Size()
		assert.Equal(t, 320, w)
		assert.Equal(t, 200, h)
	}
	w, h := p.Size()
	assert.Equal(t, [2]int{320, 200}, [2]int{w, h})
}

func TestBurstRestores(t *testing.T) {
	p, store, sc, _ := newPipeline(t, newFakeBackend())
	require.True(t, p.Burst(0.3, 150*time.Millisecond))
	assert.Equal(t, 0.3, store.Get(ParamGlitch))
	sc.Advance(149 * time.Millisecond)
	assert.Equal(t, 0.3, store.Get(ParamGlitch))
	sc.Advance(150 * time.Millisecond)
	assert.Equal(t, 0.05, store.Get(ParamGlitch))
}

func TestChaosModeRestores(t *testing.T) {
	p, store, sc, _ := newPipeline(t, newFakeBackend())
	p.ChaosMode(2 * time.Second)

	assert.Equal(t, 0.8, store.Get(ParamGlitch))
	assert.Equal(t, 0.03, store.Get(ParamRGBShift))
	assert.Equal(t, 0.7, store.Get(ParamDatamosh))
	assert.True(t, p.Datamosh())
	assert.Equal(t, 5, p.ActivePasses())

	sc.Advance(2 * time.Second)
	assert.Equal(t, 0.05, store.Get(ParamGlitch))
	assert.Equal(t, 0.005, store.Get(ParamRGBShift))
	assert.Equal(t, 0.0, store.Get(ParamDatamosh))
	assert.False(t, p.Datamosh())
}

func TestChaosOverlapCoexist(t *testing.T) {
	p, store, sc, _ := newPipeline(t, newFakeBackend())
	p.ChaosMode(2 * time.Second)
	sc.Advance(time.Second)
	p.ChaosMode(2 * time.Second)

	sc.Advance(2 * time.Second)
	// First window restores the saved values and turns datamosh off
	// while the second window is still open.
	assert.Equal(t, 0.05, store.Get(ParamGlitch))
	assert.False(t, p.Datamosh())

	sc.Advance(3 * time.Second)
	// Second window restores what it saw: the chaos values.
	assert.Equal(t, 0.8, store.Get(ParamGlitch))
	assert.False(t, p.Datamosh())
}

func TestChaosOverlapReplace(t *testing.T) {
	p, store, sc, _ := newPipeline(t, newFakeBackend(), params.WithPolicy(params.OverlapReplace))
	p.ChaosMode(2 * time.Second)
	sc.Advance(time.Second)
	p.ChaosMode(2 * time.Second)

	sc.Advance(2 * time.Second)
	assert.Equal(t, 0.8, store.Get(ParamGlitch))
	assert.True(t, p.Datamosh())

	sc.Advance(3 * time.Second)
	assert.Equal(t, 0.05, store.Get(ParamGlitch))
	assert.Equal(t, 0.005, store.Get(ParamRGBShift))
	assert.False(t, p.Datamosh())
}

func TestChaosOverBurstReplaceRestoresBase(t *testing.T) {
	p, store, sc, _ := newPipeline(t, newFakeBackend(), params.WithPolicy(params.OverlapReplace))
	require.True(t, p.Burst(0.3, time.Second))
	sc.Advance(500 * time.Millisecond)
	p.ChaosMode(2 * time.Second)

	sc.Advance(time.Second)
	assert.Equal(t, 0.05, store.Get(ParamGlitch), "burst restore still fires")

	sc.Advance(2500 * time.Millisecond)
	assert.Equal(t, 0.05, store.Get(ParamGlitch))
	assert.Equal(t, 0.005, store.Get(ParamRGBShift))
	assert.False(t, p.Datamosh())
}
