package quarkgl

// Material is a minimal surface description.
type Material struct {
	BaseColor Color
	Opacity   uint8 // 0..255. 255 means opaque.
	Wireframe bool
	PointSize int // points only; 0 means 1px.
}

// LightMode defines minimal lighting options.
type LightMode uint8

const (
	LightOff LightMode = iota
	LightAmbientDirectional
)

// Light is a minimal light setup. It only affects solid triangles.
type Light struct {
	Mode      LightMode
	Ambient   Scalar // 0..1
	Dir       Vec3   // direction *towards* the scene
	DirAmount Scalar // 0..1
}

// Fog fades primitives linearly to black between Near and Far view depth.
// A zero Far disables fog.
type Fog struct {
	Near Scalar
	Far  Scalar
}

func (f Fog) factor(depth Scalar) Scalar {
	if f.Far <= f.Near || f.Far == 0 {
		return 1
	}
	if depth <= f.Near {
		return 1
	}
	if depth >= f.Far {
		return 0
	}
	return (f.Far - depth) / (f.Far - f.Near)
}

// CameraType selects camera projection.
type CameraType uint8

const (
	CameraPerspective CameraType = iota
	CameraOrtho
)

// Camera describes the viewing transform.
type Camera struct {
	Type CameraType

	Position Vec3
	Target   Vec3
	Up       Vec3

	// Perspective.
	FOVYRad Scalar

	// Orthographic (half-height).
	OrthoSize Scalar

	Near Scalar
	Far  Scalar
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect Scalar) Mat4 {
	switch c.Type {
	case CameraOrtho:
		size := c.OrthoSize
		if size == 0 {
			size = 1
		}
		top := size
		bottom := -size
		right := size * aspect
		left := -right
		return Ortho(left, right, bottom, top, c.Near, c.Far)
	default:
		fov := c.FOVYRad
		if fov == 0 {
			fov = Scalar(1.0)
		}
		return Perspective(fov, aspect, c.Near, c.Far)
	}
}

// Vertex is a mesh vertex.
type Vertex struct {
	Pos    Vec3
	Normal Vec3
	Color  Color
}

// Primitive selects how a mesh's indices are read.
type Primitive uint8

const (
	// PrimTriangles reads Indices as triangle triples.
	PrimTriangles Primitive = iota
	// PrimLines reads Indices as segment pairs.
	PrimLines
	// PrimPoints draws every vertex; Indices are ignored.
	PrimPoints
)

// Mesh is geometry in object space.
type Mesh struct {
	Primitive Primitive
	Vertices  []Vertex
	Indices   []uint16
	Material  Material
}

// Node is a renderable object: geometry plus transform plus visibility.
//
// Position, Rotation (XYZ Euler, radians) and Scale are read on every render.
type Node struct {
	Name string
	Mesh Mesh

	Position Vec3
	Rotation Vec3
	Scale    Vec3

	hidden bool
	scene  *Scene
}

// NewNode wraps a mesh in a visible node with unit scale.
func NewNode(name string, m Mesh) *Node {
	if m.Material.Opacity == 0 {
		m.Material.Opacity = 0xFF
	}
	if m.Material.BaseColor == (Color{}) {
		m.Material.BaseColor = RGB(0xCC, 0xCC, 0xCC)
	}
	return &Node{Name: name, Mesh: m, Scale: V3(1, 1, 1)}
}

// Visible reports whether the node is drawn while attached.
func (n *Node) Visible() bool { return n != nil && !n.hidden }

// SetVisible shows or hides the node without detaching it.
func (n *Node) SetVisible(v bool) {
	if n == nil {
		return
	}
	n.hidden = !v
}

// Attached reports whether the node is currently part of a scene.
func (n *Node) Attached() bool { return n != nil && n.scene != nil }

// Transform returns the object-to-world matrix.
func (n *Node) Transform() Mat4 {
	s := n.Scale
	if s == (Vec3{}) {
		s = V3(1, 1, 1)
	}
	return Compose(n.Position, n.Rotation, s)
}

// Scene is the active render graph.
type Scene struct {
	Camera Camera
	Light  Light
	Fog    Fog

	nodes []*Node
}

// CreateScene allocates a scene with room for capacity nodes.
func CreateScene(capacity int) *Scene {
	if capacity < 0 {
		capacity = 0
	}
	return &Scene{
		Camera: Camera{
			Type:      CameraPerspective,
			Position:  V3(0, 0, 3),
			Target:    V3(0, 0, 0),
			Up:        V3(0, 1, 0),
			FOVYRad:   Scalar(1.0),
			Near:      Scalar(0.05),
			Far:       Scalar(100),
			OrthoSize: Scalar(1),
		},
		Light: Light{
			Mode:      LightAmbientDirectional,
			Ambient:   Scalar(0.25),
			Dir:       V3(1, 1, 1).Unit(),
			DirAmount: Scalar(0.75),
		},
		nodes: make([]*Node, 0, capacity),
	}
}

// Add attaches n. A node already attached to this scene is left in place; a
// node attached elsewhere is moved.
func (s *Scene) Add(n *Node) {
	if s == nil || n == nil {
		return
	}
	if n.scene == s {
		return
	}
	if n.scene != nil {
		n.scene.Remove(n)
	}
	n.scene = s
	s.nodes = append(s.nodes, n)
}

// Remove detaches n and reports whether it was attached to s.
func (s *Scene) Remove(n *Node) bool {
	if s == nil || n == nil || n.scene != s {
		return false
	}
	for i, cur := range s.nodes {
		if cur == n {
			copy(s.nodes[i:], s.nodes[i+1:])
			s.nodes[len(s.nodes)-1] = nil
			s.nodes = s.nodes[:len(s.nodes)-1]
			break
		}
	}
	n.scene = nil
	return true
}

// Contains reports whether n is attached to s.
func (s *Scene) Contains(n *Node) bool { return s != nil && n != nil && n.scene == s }

// Len returns the number of attached nodes.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

func (s *Scene) eachVisible(fn func(n *Node)) {
	for _, n := range s.nodes {
		if n == nil || n.hidden {
			continue
		}
		fn(n)
	}
}

// Nodes returns a copy of the attached nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	if s == nil {
		return nil
	}
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}
