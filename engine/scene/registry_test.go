package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glitch/engine/sched"
)

type obj struct {
	name    string
	visible bool
}

func (o *obj) Visible() bool     { return o.visible }
func (o *obj) SetVisible(v bool) { o.visible = v }

type graph struct{ nodes map[Object]bool }

func (g *graph) Add(o Object)    { g.nodes[o] = true }
func (g *graph) Remove(o Object) { delete(g.nodes, o) }

type lineLog struct{ lines []string }

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }

type fixture struct {
	g     *graph
	sc    *sched.Scheduler
	r     *Registry
	log   *lineLog
	objs  [][]*obj
	ticks []float64
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{g: &graph{nodes: map[Object]bool{}}, sc: sched.New(0), log: &lineLog{}}
	var ds []Descriptor
	for i, name := range []string{"INIT", "WORK", "INFO", "CONTACT"} {
		objs := []*obj{{name: name + "-a", visible: true}, {name: name + "-b", visible: true}}
		f.objs = append(f.objs, objs)
		ds = append(ds, Descriptor{
			Index:   99, // overwritten by construction order
			Name:    name,
			Objects: []Object{objs[0], objs[1]},
			Update:  func(tm float64) { f.ticks = append(f.ticks, float64(i)*1000+tm) },
		})
	}
	f.r = NewRegistry(f.g, f.sc, ds, append([]Option{WithLogger(f.log)}, opts...)...)
	return f
}

func (f *fixture) present(i int) bool {
	for _, o := range f.objs[i] {
		if !f.g.nodes[o] {
			return false
		}
	}
	return true
}

func (f *fixture) absent(i int) bool {
	for _, o := range f.objs[i] {
		if f.g.nodes[o] {
			return false
		}
	}
	return true
}

func (f *fixture) visible(i int) bool {
	for _, o := range f.objs[i] {
		if !o.visible {
			return false
		}
	}
	return true
}

func (f *fixture) hidden(i int) bool {
	for _, o := range f.objs[i] {
		if o.visible {
			return false
		}
	}
	return true
}

func TestStartActivatesFirstScene(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, -1, f.r.Current())
	assert.Equal(t, "", f.r.CurrentName())

	require.True(t, f.r.Start())
	assert.Equal(t, 0, f.r.Current())
	assert.Equal(t, "INIT", f.r.CurrentName())
	assert.True(t, f.present(0))
	assert.True(t, f.visible(0))
	assert.Equal(t, Idle, f.r.State().Phase)
	assert.Equal(t, []string{"INIT", "WORK", "INFO", "CONTACT"}, f.r.Names())
}

func TestImmediateSwitchIsSynchronous(t *testing.T) {
	f := newFixture(t)
	f.r.Start()
	require.True(t, f.r.Switch(2, true))
	assert.Equal(t, 2, f.r.Current())
	assert.True(t, f.absent(0))
	assert.True(t, f.present(2))
	assert.True(t, f.visible(2))
	assert.Equal(t, Idle, f.r.State().Phase)
}

func TestDeferredSwitchSettles(t *testing.T) {
	f := newFixture(t)
	f.r.Start()
	f.sc.Advance(time.Second)

	require.True(t, f.r.Switch(1, false))
	assert.Equal(t, 1, f.r.Current())
	assert.True(t, f.absent(0))
	assert.True(t, f.present(1))
	assert.True(t, f.hidden(1))

	st := f.r.State()
	assert.Equal(t, TransitionState{Phase: Pending, From: 0, To: 1, Start: time.Second}, st)

	f.sc.Advance(time.Second + 299*time.Millisecond)
	assert.True(t, f.hidden(1))
	assert.Equal(t, Pending, f.r.State().Phase)

	f.sc.Advance(time.Second + 300*time.Millisecond)
	assert.True(t, f.visible(1))
	assert.Equal(t, Idle, f.r.State().Phase)
}

func TestSwitchNoOps(t *testing.T) {
	f := newFixture(t)
	f.r.Start()
	require.True(t, f.r.Switch(1, false))
	before := len(f.log.lines)

	assert.False(t, f.r.Switch(1, true), "current index")
	assert.False(t, f.r.Switch(2, true), "pending transition")
	assert.Equal(t, 1, f.r.Current())
	assert.True(t, f.absent(2))
	assert.Equal(t, Pending, f.r.State().Phase)

	f.sc.Advance(DefaultSettle)
	assert.False(t, f.r.Switch(-1, true))
	assert.False(t, f.r.Switch(4, true))
	assert.Equal(t, 1, f.r.Current())
	assert.True(t, f.present(1))
	assert.True(t, f.visible(1))
	assert.Len(t, f.log.lines, before+4)
}

func TestCustomSettle(t *testing.T) {
	f := newFixture(t, WithSettle(50*time.Millisecond))
	f.r.Start()
	f.r.Switch(3, false)
	f.sc.Advance(50 * time.Millisecond)
	assert.True(t, f.visible(3))
}

func TestChangesPublished(t *testing.T) {
	f := newFixture(t)
	var got []Change
	sub := f.r.Subscribe(func(c Change) { got = append(got, c) })
	f.r.Start()
	f.r.Switch(2, true)
	f.r.Switch(2, true)
	sub.Unsubscribe()
	f.r.Switch(3, true)
	assert.Equal(t, []Change{{0, "INIT"}, {2, "INFO"}}, got)
}

func TestUpdateRunsActiveSceneOnly(t *testing.T) {
	f := newFixture(t)
	f.r.Update(1)
	assert.Empty(t, f.ticks)
	f.r.Start()
	f.r.Update(1)
	f.r.Switch(3, true)
	f.r.Update(2)
	assert.Equal(t, []float64{1, 3002}, f.ticks)
}
