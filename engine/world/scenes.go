// Package world builds the four built-in scenes on top of quarkgl nodes.
package world

import (
	"math"
	"math/rand"

	"glitch/engine/quarkgl"
	"glitch/engine/scene"
)

// Scene names by index.
const (
	NameInit    = "INIT"
	NameWork    = "WORK"
	NameInfo    = "INFO"
	NameContact = "CONTACT"
)

// Profile scales geometry for the device class.
type Profile struct {
	Mobile bool
}

func (p Profile) pick(desktop, mobile int) int {
	if p.Mobile {
		return mobile
	}
	return desktop
}

// Fog is the distance fade applied to every scene.
var Fog = quarkgl.Fog{Near: 5, Far: 15}

// Build returns the descriptors in index order. rng seeds particle and cube
// placement.
func Build(p Profile, rng *rand.Rand) []scene.Descriptor {
	return []scene.Descriptor{
		initScene(p, rng),
		workScene(p),
		infoScene(p, rng),
		contactScene(p),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float32 {
	return float32(lo + rng.Float64()*(hi-lo))
}

func objects(nodes []*quarkgl.Node) []scene.Object {
	out := make([]scene.Object, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

// Particle box half extents and link distance.
const (
	boxX     = 5
	boxY     = 3
	boxZ     = 5
	linkDist = 2
)

func initScene(p Profile, rng *rand.Rand) scene.Descriptor {
	count := p.pick(100, 50)
	cyan := quarkgl.Hex(0x00fff9)

	pts := quarkgl.NewNode("particles", quarkgl.Mesh{
		Primitive: quarkgl.PrimPoints,
		Vertices:  make([]quarkgl.Vertex, count),
		Material:  quarkgl.Material{BaseColor: cyan, Opacity: 204, PointSize: 2},
	})
	vel := make([]quarkgl.Vec3, count)
	for i := range pts.Mesh.Vertices {
		pts.Mesh.Vertices[i].Pos = quarkgl.V3(
			uniform(rng, -boxX, boxX),
			uniform(rng, -boxY, boxY),
			uniform(rng, -boxZ, boxZ),
		)
		vel[i] = quarkgl.V3(
			uniform(rng, -0.02, 0.02),
			uniform(rng, -0.02, 0.02),
			uniform(rng, -0.02, 0.02),
		)
	}
	links := quarkgl.NewNode("links", lineMesh(cyan, 0.2))

	return scene.Descriptor{
		Name:    NameInit,
		Objects: objects([]*quarkgl.Node{pts, links}),
		Update: func(float64) {
			stepParticles(pts.Mesh.Vertices, vel)
			linkParticles(&links.Mesh, pts.Mesh.Vertices)
		},
	}
}

// stepParticles advances every particle and reflects its velocity once it
// has left the box.
func stepParticles(vs []quarkgl.Vertex, vel []quarkgl.Vec3) {
	for i := range vs {
		p := vs[i].Pos.Add(vel[i])
		vs[i].Pos = p
		if abs32(p.X) > boxX {
			vel[i].X = -vel[i].X
		}
		if abs32(p.Y) > boxY {
			vel[i].Y = -vel[i].Y
		}
		if abs32(p.Z) > boxZ {
			vel[i].Z = -vel[i].Z
		}
	}
}

// linkParticles rebuilds m as one segment per particle pair closer than
// linkDist.
func linkParticles(m *quarkgl.Mesh, vs []quarkgl.Vertex) {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
	for i := range vs {
		for j := i + 1; j < len(vs); j++ {
			if vs[i].Pos.Sub(vs[j].Pos).Len() < linkDist {
				addSeg(m, vs[i].Pos, vs[j].Pos)
			}
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func workScene(p Profile) scene.Descriptor {
	blue := quarkgl.Hex(0x00d9ff)
	nodes := []*quarkgl.Node{
		quarkgl.NewNode("box", boxMesh(1, blue, 0.8)),
		quarkgl.NewNode("sphere", sphereMesh(1, p.pick(32, 16), blue, 0.8)),
		quarkgl.NewNode("torus", torusMesh(1, 0.4, p.pick(16, 8), p.pick(100, 50), blue, 0.8)),
	}
	for i, n := range nodes {
		n.Position = quarkgl.V3(float32(i-1)*2, 0, 0)
	}
	return scene.Descriptor{
		Name:    NameWork,
		Objects: objects(nodes),
		Update: func(t float64) {
			for i, n := range nodes {
				fi := float64(i)
				n.Rotation.X = float32(t*0.3 + fi)
				n.Rotation.Y = float32(t*0.5 + fi)
				n.Position.Y = float32(math.Sin(t+fi) * 0.5)
			}
		},
	}
}

type pulse struct {
	node         *quarkgl.Node
	phase, speed float64
}

func infoScene(p Profile, rng *rand.Rand) scene.Descriptor {
	const gridSize = 20
	magenta := quarkgl.Hex(0xff00ea)

	nodes := []*quarkgl.Node{quarkgl.NewNode("grid", gridMesh(gridSize, gridSize, magenta, 0.3))}
	cubes := make([]pulse, p.pick(50, 25))
	for i := range cubes {
		n := quarkgl.NewNode("cube", boxMesh(0.5, magenta, 0.6))
		n.Position = quarkgl.V3(
			uniform(rng, -gridSize/2, gridSize/2),
			0.25,
			uniform(rng, -gridSize/2, gridSize/2),
		)
		cubes[i] = pulse{
			node:  n,
			phase: float64(uniform(rng, 0, 2*math.Pi)),
			speed: float64(uniform(rng, 1, 3)),
		}
		nodes = append(nodes, n)
	}
	return scene.Descriptor{
		Name:    NameInfo,
		Objects: objects(nodes),
		Update: func(t float64) {
			for _, c := range cubes {
				s := float32(1 + math.Sin(t*c.speed+c.phase)*0.5)
				c.node.Scale = quarkgl.V3(s, s, s)
				c.node.Rotation.Y = float32(t * 0.5)
			}
		},
	}
}

func contactScene(p Profile) scene.Descriptor {
	const radius = 3
	count := p.pick(50, 25)
	yellow := quarkgl.Hex(0xfff700)

	nodes := make([]*quarkgl.Node, count)
	for i := range nodes {
		t := float64(i) / float64(count)
		angle := t * math.Pi * 4
		r := radius * t
		y := float32(t*5 - 2.5)
		m := lineMesh(yellow, 0.7)
		addSeg(&m,
			quarkgl.V3(float32(math.Cos(angle)*r), y, float32(math.Sin(angle)*r)),
			quarkgl.V3(float32(math.Cos(angle+0.1)*(r+0.1)), y, float32(math.Sin(angle+0.1)*(r+0.1))),
		)
		m.Material.Wireframe = false
		nodes[i] = quarkgl.NewNode("spiral", m)
	}
	return scene.Descriptor{
		Name:    NameContact,
		Objects: objects(nodes),
		Update: func(t float64) {
			for i, n := range nodes {
				fi := float64(i)
				n.Rotation.Y = float32(t*0.5 + fi*0.1)
				n.Position.Y = float32(math.Sin(t+fi*0.1) * 0.5)
			}
		},
	}
}
