package world

import (
	"math"

	"glitch/engine/quarkgl"
)

// Wireframe meshes are emitted as line lists; the renderer draws them
// without lighting.

func lineMesh(c quarkgl.Color, opacity float64) quarkgl.Mesh {
	return quarkgl.Mesh{
		Primitive: quarkgl.PrimLines,
		Material: quarkgl.Material{
			BaseColor: c,
			Opacity:   uint8(math.Round(opacity * 255)),
			Wireframe: true,
		},
	}
}

func addSeg(m *quarkgl.Mesh, a, b quarkgl.Vec3) {
	i := uint16(len(m.Vertices))
	m.Vertices = append(m.Vertices, quarkgl.Vertex{Pos: a}, quarkgl.Vertex{Pos: b})
	m.Indices = append(m.Indices, i, i+1)
}

// boxMesh is the 12 edges of an axis-aligned cube of the given edge length.
func boxMesh(size float32, c quarkgl.Color, opacity float64) quarkgl.Mesh {
	m := lineMesh(c, opacity)
	h := size / 2
	v := func(x, y, z float32) quarkgl.Vec3 { return quarkgl.V3(x*h, y*h, z*h) }
	for _, s := range []float32{-1, 1} {
		for _, t := range []float32{-1, 1} {
			addSeg(&m, v(-1, s, t), v(1, s, t))
			addSeg(&m, v(s, -1, t), v(s, 1, t))
			addSeg(&m, v(s, t, -1), v(s, t, 1))
		}
	}
	return m
}

// sphereMesh draws latitude and longitude lines of a UV sphere.
func sphereMesh(r float32, segments int, c quarkgl.Color, opacity float64) quarkgl.Mesh {
	m := lineMesh(c, opacity)
	at := func(lat, lon int) quarkgl.Vec3 {
		theta := math.Pi * float64(lat) / float64(segments)
		phi := 2 * math.Pi * float64(lon) / float64(segments)
		return quarkgl.V3(
			r*float32(math.Sin(theta)*math.Cos(phi)),
			r*float32(math.Cos(theta)),
			r*float32(math.Sin(theta)*math.Sin(phi)),
		)
	}
	for lat := 0; lat < segments; lat++ {
		for lon := 0; lon < segments; lon++ {
			addSeg(&m, at(lat, lon), at(lat+1, lon))
			if lat > 0 {
				addSeg(&m, at(lat, lon), at(lat, lon+1))
			}
		}
	}
	return m
}

// torusMesh draws the tube rings and the radial lines of a torus lying in
// the XY plane.
func torusMesh(radius, tube float32, tubeSeg, radialSeg int, c quarkgl.Color, opacity float64) quarkgl.Mesh {
	m := lineMesh(c, opacity)
	at := func(i, j int) quarkgl.Vec3 {
		u := 2 * math.Pi * float64(i) / float64(radialSeg)
		v := 2 * math.Pi * float64(j) / float64(tubeSeg)
		k := float64(radius) + float64(tube)*math.Cos(v)
		return quarkgl.V3(
			float32(k*math.Cos(u)),
			float32(k*math.Sin(u)),
			tube*float32(math.Sin(v)),
		)
	}
	for i := 0; i < radialSeg; i++ {
		for j := 0; j < tubeSeg; j++ {
			addSeg(&m, at(i, j), at(i, j+1))
			addSeg(&m, at(i, j), at(i+1, j))
		}
	}
	return m
}

// gridMesh is a flat grid on the XZ plane centered at the origin.
func gridMesh(size float32, divisions int, c quarkgl.Color, opacity float64) quarkgl.Mesh {
	m := lineMesh(c, opacity)
	h := size / 2
	step := size / float32(divisions)
	for i := 0; i <= divisions; i++ {
		k := -h + float32(i)*step
		addSeg(&m, quarkgl.V3(-h, 0, k), quarkgl.V3(h, 0, k))
		addSeg(&m, quarkgl.V3(k, 0, -h), quarkgl.V3(k, 0, h))
	}
	return m
}
