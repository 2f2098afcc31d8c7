package soft

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glitch/engine/fx"
	"glitch/engine/params"
	"glitch/engine/quarkgl"
	"glitch/engine/sched"
)

func fill(m *Image, c color.RGBA) {
	w, h := m.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.RGBA.SetRGBA(x, y, c)
		}
	}
}

func TestRGBShiftZeroAmountIsIdentity(t *testing.T) {
	b := New(quarkgl.CreateScene(0), 16, 16)
	k, err := b.Kernel(fx.PassRGBShift)
	require.NoError(t, err)

	src := NewImage(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.RGBA.SetRGBA(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 99, 255})
		}
	}
	dst := NewImage(16, 16)
	require.NoError(t, k.Apply(dst, src, nil, fx.Uniforms{"amount": 0, "angle": 1}))
	assert.Equal(t, src.RGBA.Pix, dst.RGBA.Pix)
}

func TestRGBShiftSplitsChannels(t *testing.T) {
	b := New(quarkgl.CreateScene(0), 16, 1)
	k, err := b.Kernel(fx.PassRGBShift)
	require.NoError(t, err)

	src := NewImage(16, 1)
	src.RGBA.SetRGBA(8, 0, color.RGBA{255, 255, 255, 255})
	dst := NewImage(16, 1)
	// One texel to the right along +x.
	require.NoError(t, k.Apply(dst, src, nil, fx.Uniforms{"amount": 1.0 / 16, "angle": 0}))

	assert.Equal(t, uint8(255), dst.RGBA.RGBAAt(7, 0).R)
	assert.Equal(t, uint8(255), dst.RGBA.RGBAAt(8, 0).G)
	assert.Equal(t, uint8(255), dst.RGBA.RGBAAt(9, 0).B)
	assert.Equal(t, uint8(0), dst.RGBA.RGBAAt(8, 0).R)
}

func TestDatamoshZeroAmountWithSameHistoryIsIdentity(t *testing.T) {
	b := New(quarkgl.CreateScene(0), 32, 32)
	k, err := b.Kernel(fx.PassDatamosh)
	require.NoError(t, err)

	cur := NewImage(32, 32)
	fill(cur, color.RGBA{200, 200, 200, 255})
	dst := NewImage(32, 32)
	require.NoError(t, k.Apply(dst, cur, cur, fx.Uniforms{"amount": 0, "time": 1}))
	assert.Equal(t, cur.RGBA.Pix, dst.RGBA.Pix)
}

func TestKernelRejectsForeignTarget(t *testing.T) {
	b := New(quarkgl.CreateScene(0), 4, 4)
	k, err := b.Kernel(fx.PassGlitch)
	require.NoError(t, err)
	err = k.Apply(NewImage(4, 4), nil, nil, fx.Uniforms{})
	assert.ErrorIs(t, err, errForeignTarget)
}

func TestNoKernelForRenderPass(t *testing.T) {
	b := New(quarkgl.CreateScene(0), 4, 4)
	_, err := b.Kernel(fx.PassRender)
	assert.Error(t, err)
}

func TestPipelineOverSoftBackend(t *testing.T) {
	s := quarkgl.CreateScene(1)
	s.Add(quarkgl.NewNode("line", quarkgl.Mesh{
		Primitive: quarkgl.PrimLines,
		Vertices:  []quarkgl.Vertex{{Pos: quarkgl.V3(-1, 0, 0)}, {Pos: quarkgl.V3(1, 0, 0)}},
		Indices:   []uint16{0, 1},
		Material:  quarkgl.Material{BaseColor: quarkgl.RGB(0, 255, 0)},
	}))
	b := New(s, 32, 32)

	sc := sched.New(0)
	store := params.New(sc)
	fx.Intensities{}.Define(store)
	p := fx.New(b, store, sc, fx.WithSeed(0), fx.WithSize(32, 32))
	p.Update(0)
	p.Render()
	// Scanlines darken the glitch output slightly.
	c := b.Frame().RGBAAt(16, 16)
	assert.Greater(t, c.G, uint8(200))
	assert.Less(t, c.R, uint8(40))

	p.ChaosMode(time.Second)
	p.Update(1)
	p.Render()
	p.Resize(40, 20)
	p.Render()
	assert.Equal(t, 40, b.Frame().Bounds().Dx())
	assert.Equal(t, 20, b.Frame().Bounds().Dy())
}

func TestDirectRenderWithoutComposite(t *testing.T) {
	s := quarkgl.CreateScene(0)
	s.Add(quarkgl.NewNode("pt", quarkgl.Mesh{
		Primitive: quarkgl.PrimPoints,
		Vertices:  []quarkgl.Vertex{{}},
		Material:  quarkgl.Material{BaseColor: quarkgl.RGB(255, 0, 0), PointSize: 2},
	}))
	b := New(s, 16, 16, WithoutComposite())
	sc := sched.New(0)
	store := params.New(sc)
	fx.DefaultIntensities(false).Define(store)
	p := fx.New(b, store, sc)
	fb, _ := p.Fallback()
	require.True(t, fb)
	p.Render()
	assert.Equal(t, uint8(255), b.Frame().RGBAAt(8, 8).R)
}
