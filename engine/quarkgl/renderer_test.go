package quarkgl

import (
	"image"
	"testing"
)

func newTestTarget(w, h int) *RGBATarget {
	return &RGBATarget{Img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func lineNode() *Node {
	return NewNode("line", Mesh{
		Primitive: PrimLines,
		Vertices:  []Vertex{{Pos: V3(-1, 0, 0)}, {Pos: V3(1, 0, 0)}},
		Indices:   []uint16{0, 1},
		Material:  Material{BaseColor: RGB(0, 255, 0)},
	})
}

func TestRenderLineThroughCenter(t *testing.T) {
	s := CreateScene(1)
	s.Add(lineNode())
	tgt := newTestTarget(32, 32)
	NewRenderer(32, 32, false).Render(tgt, s)

	if got := tgt.At(16, 16); got.G != 255 {
		t.Fatalf("center pixel = %+v, want lit green", got)
	}
	if got := tgt.At(16, 2); got.G != 0 {
		t.Fatalf("pixel off the line = %+v, want black", got)
	}
}

func TestRenderSkipsHiddenNodes(t *testing.T) {
	s := CreateScene(1)
	n := lineNode()
	s.Add(n)
	n.SetVisible(false)
	tgt := newTestTarget(32, 32)
	NewRenderer(32, 32, false).Render(tgt, s)
	if got := tgt.At(16, 16); got.G != 0 {
		t.Fatalf("hidden node drew %+v", got)
	}
	if !s.Contains(n) {
		t.Fatalf("hiding must not detach the node")
	}
}

func TestRenderPoints(t *testing.T) {
	s := CreateScene(1)
	s.Add(NewNode("pts", Mesh{
		Primitive: PrimPoints,
		Vertices:  []Vertex{{Pos: V3(0, 0, 0)}},
		Material:  Material{BaseColor: RGB(255, 0, 0), PointSize: 3},
	}))
	tgt := newTestTarget(32, 32)
	NewRenderer(32, 32, false).Render(tgt, s)
	for _, p := range [][2]int{{15, 15}, {16, 16}, {17, 17}} {
		if got := tgt.At(p[0], p[1]); got.R != 255 {
			t.Fatalf("point pixel %v = %+v, want red", p, got)
		}
	}
}

func TestRenderFogFadesFarGeometry(t *testing.T) {
	s := CreateScene(1)
	s.Add(lineNode())
	s.Fog = Fog{Near: 1, Far: 2}
	tgt := newTestTarget(32, 32)
	NewRenderer(32, 32, false).Render(tgt, s)
	if got := tgt.At(16, 16); got.G != 0 {
		t.Fatalf("geometry beyond fog far = %+v, want black", got)
	}

	s.Fog = Fog{Near: 5, Far: 15}
	NewRenderer(32, 32, false).Render(tgt, s)
	if got := tgt.At(16, 16); got.G != 255 {
		t.Fatalf("geometry before fog near = %+v, want full green", got)
	}
}

func TestRenderDropsGeometryBehindCamera(t *testing.T) {
	s := CreateScene(1)
	n := lineNode()
	n.Position = V3(0, 0, 10)
	s.Add(n)
	tgt := newTestTarget(32, 32)
	NewRenderer(32, 32, false).Render(tgt, s)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if got := tgt.At(x, y); got.G != 0 {
				t.Fatalf("pixel (%d,%d) = %+v, want nothing drawn", x, y, got)
			}
		}
	}
}

func TestSceneAddRemove(t *testing.T) {
	a := CreateScene(2)
	b := CreateScene(2)
	n := lineNode()

	a.Add(n)
	a.Add(n)
	if a.Len() != 1 {
		t.Fatalf("double add: len = %d, want 1", a.Len())
	}
	b.Add(n)
	if a.Contains(n) || !b.Contains(n) {
		t.Fatalf("adding to another scene should move the node")
	}
	if a.Remove(n) {
		t.Fatalf("remove from wrong scene reported true")
	}
	if !b.Remove(n) || b.Len() != 0 || n.Attached() {
		t.Fatalf("remove failed")
	}
}

func triangleNode() *Node {
	red := RGB(255, 0, 0)
	return NewNode("tri", Mesh{
		Vertices: []Vertex{
			{Pos: V3(-1, -1, 0), Color: red},
			{Pos: V3(1, -1, 0), Color: red},
			{Pos: V3(0, 1, 0), Color: red},
		},
		Indices: []uint16{0, 1, 2},
	})
}

func TestRenderVertexColorTriangleTakesFog(t *testing.T) {
	s := CreateScene(1)
	s.Add(triangleNode())
	r := NewRenderer(32, 32, true)
	r.SetRenderMode(RenderSolidVertexColor)
	tgt := newTestTarget(32, 32)

	r.Render(tgt, s)
	if got := tgt.At(16, 16); got.R < 250 || got.G != 0 {
		t.Fatalf("triangle centre = %+v, want red", got)
	}

	s.Fog = Fog{Near: 1, Far: 2}
	r.Render(tgt, s)
	if got := tgt.At(16, 16); got.R != 0 {
		t.Fatalf("fogged triangle centre = %+v, want black", got)
	}
}

func TestRenderFlatTriangleLit(t *testing.T) {
	s := CreateScene(1)
	s.Light = Light{Mode: LightAmbientDirectional, Ambient: 0.5}
	s.Add(triangleNode())
	tgt := newTestTarget(32, 32)
	NewRenderer(32, 32, true).Render(tgt, s)
	if got := tgt.At(16, 16); got.R == 0 || got.R == 255 || got.R != got.G {
		t.Fatalf("ambient-only grey centre = %+v", got)
	}
}
