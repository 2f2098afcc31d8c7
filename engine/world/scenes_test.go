package world

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glitch/engine/quarkgl"
	"glitch/engine/scene"
	"glitch/engine/sched"
)

func TestBuildCounts(t *testing.T) {
	for _, tc := range []struct {
		mobile bool
		counts []int
	}{
		{false, []int{2, 3, 51, 50}},
		{true, []int{2, 3, 26, 25}},
	} {
		ds := Build(Profile{Mobile: tc.mobile}, rand.New(rand.NewSource(1)))
		require.Len(t, ds, 4)
		for i, d := range ds {
			assert.Len(t, d.Objects, tc.counts[i], "%s mobile=%v", d.Name, tc.mobile)
			assert.NotNil(t, d.Update)
		}
		assert.Equal(t, []string{NameInit, NameWork, NameInfo, NameContact},
			[]string{ds[0].Name, ds[1].Name, ds[2].Name, ds[3].Name})
	}
}

func TestParticlesStayNearBox(t *testing.T) {
	d := initScene(Profile{}, rand.New(rand.NewSource(7)))
	pts := d.Objects[0].(*quarkgl.Node)
	links := d.Objects[1].(*quarkgl.Node)
	for frame := 0; frame < 2000; frame++ {
		d.Update(float64(frame))
	}
	for _, v := range pts.Mesh.Vertices {
		assert.LessOrEqual(t, math.Abs(float64(v.Pos.X)), boxX+0.05)
		assert.LessOrEqual(t, math.Abs(float64(v.Pos.Y)), boxY+0.05)
		assert.LessOrEqual(t, math.Abs(float64(v.Pos.Z)), boxZ+0.05)
	}
	m := links.Mesh
	require.Equal(t, len(m.Vertices), len(m.Indices))
	for i := 0; i+1 < len(m.Indices); i += 2 {
		a := m.Vertices[m.Indices[i]].Pos
		b := m.Vertices[m.Indices[i+1]].Pos
		assert.Less(t, float64(a.Sub(b).Len()), float64(linkDist))
	}
}

func TestLinkParticles(t *testing.T) {
	vs := []quarkgl.Vertex{
		{Pos: quarkgl.V3(0, 0, 0)},
		{Pos: quarkgl.V3(1, 0, 0)},
		{Pos: quarkgl.V3(5, 0, 0)},
	}
	var m quarkgl.Mesh
	linkParticles(&m, vs)
	assert.Equal(t, []uint16{0, 1}, m.Indices)
	linkParticles(&m, vs[1:])
	assert.Empty(t, m.Indices)
}

func TestWorkSceneMotion(t *testing.T) {
	d := workScene(Profile{})
	d.Update(2)
	for i, o := range d.Objects {
		n := o.(*quarkgl.Node)
		fi := float64(i)
		assert.InDelta(t, 2*0.3+fi, n.Rotation.X, 1e-5)
		assert.InDelta(t, 2*0.5+fi, n.Rotation.Y, 1e-5)
		assert.InDelta(t, math.Sin(2+fi)*0.5, n.Position.Y, 1e-5)
		assert.InDelta(t, (fi-1)*2, n.Position.X, 1e-6)
	}
}

func TestInfoCubesPulse(t *testing.T) {
	d := infoScene(Profile{}, rand.New(rand.NewSource(3)))
	for _, tm := range []float64{0, 0.7, 3.1, 10} {
		d.Update(tm)
		for _, o := range d.Objects[1:] {
			n := o.(*quarkgl.Node)
			assert.GreaterOrEqual(t, n.Scale.X, float32(0.5))
			assert.LessOrEqual(t, n.Scale.X, float32(1.5))
			assert.InDelta(t, tm*0.5, n.Rotation.Y, 1e-5)
			assert.LessOrEqual(t, math.Abs(float64(n.Position.X)), 10.0)
		}
	}
}

func TestRegistryOverQuarkScene(t *testing.T) {
	qs := quarkgl.CreateScene(64)
	sc := sched.New(0)
	ds := Build(Profile{Mobile: true}, rand.New(rand.NewSource(1)))
	r := scene.NewRegistry(Graph{Scene: qs}, sc, ds)
	require.True(t, r.Start())
	assert.Equal(t, 2, qs.Len())

	require.True(t, r.Switch(3, false))
	assert.Equal(t, 25, qs.Len())
	for _, n := range qs.Nodes() {
		assert.False(t, n.Visible())
	}
	sc.Advance(scene.DefaultSettle + time.Millisecond)
	for _, n := range qs.Nodes() {
		assert.True(t, n.Visible())
	}
}
