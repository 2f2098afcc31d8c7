package quarkgl

// Renderer rasterizes a Scene into a Target in software.
//
// Create it once and reuse it; the depth buffer survives between frames.
type Renderer struct {
	Mode       RenderMode
	Depth      bool
	ClearColor Color

	depth []float32
}

// NewRenderer creates a renderer sized for a w*h target.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{Mode: RenderSolidFlat, ClearColor: RGB(0, 0, 0)}
	r.EnableDepth(enableDepth, w, h)
	return r
}

func (r *Renderer) SetRenderMode(m RenderMode) { r.Mode = m }

// EnableDepth toggles depth testing and sizes the buffer for a w*h target.
func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on || w <= 0 || h <= 0 {
		r.depth = nil
		return
	}
	if n := w * h; cap(r.depth) < n {
		r.depth = make([]float32, n)
	} else {
		r.depth = r.depth[:n]
	}
}

// Render clears t and draws the visible nodes of s.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)
	if r.Depth {
		r.EnableDepth(true, w, h)
		for i := range r.depth {
			r.depth[i] = farDepth
		}
	}

	f := frame{t: t, w: w, h: h, fog: s.Fog, light: s.Light}
	viewProj := s.Camera.Projection(Scalar(w) / Scalar(h)).Mul(s.Camera.View())
	s.eachVisible(func(n *Node) {
		f.mvp = viewProj.Mul(n.Transform())
		switch n.Mesh.Primitive {
		case PrimLines:
			f.lines(&n.Mesh)
		case PrimPoints:
			f.points(&n.Mesh)
		default:
			r.triangles(&f, &n.Mesh)
		}
	})
}

const (
	// Vertices this far outside NDC are dropped rather than clipped.
	ndcLimit = 8
	// Clip w at or below this is treated as behind the near plane.
	minClipW = 1e-4
	// Cleared depth; stored depths are clamped to [0, 1].
	farDepth = 2
)

// frame is the per-render state shared by every primitive of one node.
type frame struct {
	t     Target
	w, h  int
	mvp   Mat4
	fog   Fog
	light Light
}

// vertex is a projected vertex: pixel position, NDC depth, clip w (the view
// distance fog reads) and colour.
type vertex struct {
	x, y int
	z, w float32
	c    Color
}

func (f *frame) project(p Vec3) (vertex, bool) {
	c := f.mvp.Apply(p)
	if c.W <= minClipW {
		return vertex{}, false
	}
	inv := 1 / c.W
	nx, ny := c.X*inv, c.Y*inv
	if nx < -ndcLimit || nx > ndcLimit || ny < -ndcLimit || ny > ndcLimit {
		return vertex{}, false
	}
	return vertex{
		x: int((nx*0.5+0.5)*float32(f.w-1) + 0.5),
		y: int((0.5-ny*0.5)*float32(f.h-1) + 0.5),
		z: c.Z * inv,
		w: c.W,
	}, true
}

func (f *frame) vertexAt(m *Mesh, idx uint16) (vertex, bool) {
	if int(idx) >= len(m.Vertices) {
		return vertex{}, false
	}
	v := m.Vertices[idx]
	p, ok := f.project(v.Pos)
	p.c = v.Color
	return p, ok
}

// tint applies material opacity over black, then fog at view depth d.
func (f *frame) tint(c Color, opacity uint8, d float32) Color {
	if opacity != 0 && opacity != 0xFF {
		c = c.WithAlpha(opacity).Premultiplied()
	}
	if k := f.fog.factor(d); k < 1 {
		c = c.MulScalar(k)
	}
	return c
}

func (f *frame) lines(m *Mesh) {
	for i := 0; i+1 < len(m.Indices); i += 2 {
		a, okA := f.vertexAt(m, m.Indices[i])
		b, okB := f.vertexAt(m, m.Indices[i+1])
		if !okA || !okB {
			continue
		}
		line(f.t, a, b, f.tint(m.Material.BaseColor, m.Material.Opacity, (a.w+b.w)/2))
	}
}

func (f *frame) points(m *Mesh) {
	size := max(m.Material.PointSize, 1)
	for _, v := range m.Vertices {
		p, ok := f.project(v.Pos)
		if !ok {
			continue
		}
		base := m.Material.BaseColor
		if v.Color != (Color{}) {
			base = v.Color
		}
		c := f.tint(base, m.Material.Opacity, p.w)
		x0, y0 := p.x-size/2, p.y-size/2
		for y := y0; y < y0+size; y++ {
			for x := x0; x < x0+size; x++ {
				f.t.SetPixel(x, y, c)
			}
		}
	}
}

// triangles draws every index triple through one path: project, light, tint
// at the mean view depth, then outline or fill.
func (r *Renderer) triangles(f *frame, m *Mesh) {
	mode := r.Mode
	if m.Material.Wireframe {
		mode = RenderWireframe
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		var tri [3]vertex
		ok := true
		for k := 0; k < 3 && ok; k++ {
			tri[k], ok = f.vertexAt(m, m.Indices[i+k])
		}
		if !ok {
			continue
		}
		depth := (tri[0].w + tri[1].w + tri[2].w) / 3

		if mode == RenderSolidVertexColor {
			for k := range tri {
				tri[k].c = f.tint(tri[k].c, m.Material.Opacity, depth)
			}
			r.fill(f, tri, true)
			continue
		}

		base := m.Material.BaseColor
		if mode != RenderWireframe && f.light.Mode == LightAmbientDirectional {
			a := m.Vertices[m.Indices[i]].Pos
			b := m.Vertices[m.Indices[i+1]].Pos
			c := m.Vertices[m.Indices[i+2]].Pos
			base = base.MulScalar(f.light.intensity(b.Sub(a).Cross(c.Sub(a)).Unit()))
		}
		base = f.tint(base, m.Material.Opacity, depth)

		if mode == RenderWireframe {
			for k := range tri {
				line(f.t, tri[k], tri[(k+1)%3], base)
			}
			continue
		}
		for k := range tri {
			tri[k].c = base
		}
		r.fill(f, tri, false)
	}
}

// intensity is the ambient term plus the directional term for normal n.
func (l Light) intensity(n Vec3) Scalar {
	amb := clamp01(l.Ambient)
	ld := l.Dir.Unit()
	if ld == (Vec3{}) {
		return amb
	}
	return clamp01(amb + max(-n.Dot(ld), 0)*clamp01(l.DirAmount))
}

// fill rasterizes tri over its clipped bounding box with edge functions,
// depth-testing each covered pixel. With smooth set the vertex colours are
// interpolated; otherwise the first vertex colour is used.
func (r *Renderer) fill(f *frame, tri [3]vertex, smooth bool) {
	a, b, c := tri[0], tri[1], tri[2]
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	minX, maxX := max(min(a.x, b.x, c.x), 0), min(max(a.x, b.x, c.x), f.w-1)
	minY, maxY := max(min(a.y, b.y, c.y), 0), min(max(a.y, b.y, c.y), f.h-1)
	inv := 1 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			e0, e1, e2 := edge(b, c, x, y), edge(c, a, x, y), edge(a, b, x, y)
			if e0|e1|e2 < 0 {
				continue
			}
			l0, l1, l2 := float32(e0)*inv, float32(e1)*inv, float32(e2)*inv
			if !r.depthTest(f.w, x, y, l0*a.z+l1*b.z+l2*c.z) {
				continue
			}
			col := a.c
			if smooth {
				col = blend(a.c, b.c, c.c, l0, l1, l2)
			}
			f.t.SetPixel(x, y, col)
		}
	}
}

// depthTest maps NDC z to [0, 1] and keeps the nearest value per pixel.
func (r *Renderer) depthTest(w, x, y int, z float32) bool {
	if !r.Depth || r.depth == nil {
		return true
	}
	i := y*w + x
	if x < 0 || x >= w || i < 0 || i >= len(r.depth) {
		return false
	}
	d := clamp01(z*0.5 + 0.5)
	if d >= r.depth[i] {
		return false
	}
	r.depth[i] = d
	return true
}

// line draws a Bresenham segment between two projected vertices.
func line(t Target, a, b vertex, c Color) {
	x, y := a.x, a.y
	dx, dy := abs(b.x-x), -abs(b.y-y)
	sx, sy := 1, 1
	if b.x < x {
		sx = -1
	}
	if b.y < y {
		sy = -1
	}
	err := dx + dy
	for {
		t.SetPixel(x, y, c)
		if x == b.x && y == b.y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func edge(p, q vertex, x, y int) int {
	return (x-p.x)*(q.y-p.y) - (y-p.y)*(q.x-p.x)
}

func blend(a, b, c Color, l0, l1, l2 float32) Color {
	ch := func(x, y, z uint8) uint8 {
		return uint8(min(max(l0*float32(x)+l1*float32(y)+l2*float32(z), 0), 255))
	}
	return Color{R: ch(a.R, b.R, c.R), G: ch(a.G, b.G, c.G), B: ch(a.B, b.B, c.B), A: 0xFF}
}

func clamp01(v Scalar) Scalar { return min(max(v, 0), 1) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
