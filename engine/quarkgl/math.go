package quarkgl

import "math"

// Scalar is the numeric type used by the math helpers.
type Scalar = float32

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z Scalar
}

// Vec4 is a homogeneous clip-space point.
type Vec4 struct {
	X, Y, Z, W Scalar
}

func V3(x, y, z Scalar) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3     { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3     { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s Scalar) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) Scalar   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

func (v Vec3) Len() Scalar { return sqrt(v.Dot(v)) }

// Unit returns v scaled to length one. The zero vector stays zero.
func (v Vec3) Unit() Vec3 {
	if l := v.Len(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// Lerp moves each component of v toward o by t.
func (v Vec3) Lerp(o Vec3, t Scalar) Vec3 {
	return Vec3{Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t), Lerp(v.Z, o.Z, t)}
}

// Lerp interpolates a toward b by t.
func Lerp(a, b, t Scalar) Scalar { return a + (b-a)*t }

func sqrt(v Scalar) Scalar { return Scalar(math.Sqrt(float64(v))) }

func sincos(rad Scalar) (s, c Scalar) {
	fs, fc := math.Sincos(float64(rad))
	return Scalar(fs), Scalar(fc)
}

// Mat4 is a column-major 4x4 matrix: element (row, col) lives at
// m[col*4+row], the OpenGL layout.
type Mat4 [16]Scalar

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m[i*5] = 1
	}
	return m
}

// Mul returns m*o, so o is applied first.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum Scalar
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Apply transforms the point p (w = 1).
func (m Mat4) Apply(p Vec3) Vec4 {
	return Vec4{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
		W: m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15],
	}
}

// Compose builds translate * rotate * scale, with r as XYZ Euler angles in
// radians (X applied last).
func Compose(t, r, s Vec3) Mat4 {
	sx, cx := sincos(r.X)
	sy, cy := sincos(r.Y)
	sz, cz := sincos(r.Z)

	// Rx * Ry * Rz written out by column, then each column scaled.
	m := Mat4{
		cy * cz, cx*sz + sx*sy*cz, sx*sz - cx*sy*cz, 0,
		-cy * sz, cx*cz - sx*sy*sz, sx*cz + cx*sy*sz, 0,
		sy, -sx * cy, cx * cy, 0,
		t.X, t.Y, t.Z, 1,
	}
	for row := 0; row < 3; row++ {
		m[row] *= s.X
		m[4+row] *= s.Y
		m[8+row] *= s.Z
	}
	return m
}

// LookAt returns the view matrix of an eye at eye facing target.
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Unit()
	s := f.Cross(up).Unit()
	u := s.Cross(f)
	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective returns a right-handed projection mapping view depth
// [near, far] to NDC z [-1, 1].
func Perspective(fovY, aspect, near, far Scalar) Mat4 {
	if aspect == 0 {
		aspect = 1
	}
	f := 1 / Scalar(math.Tan(float64(fovY)/2))
	inv := 1 / (near - far)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * inv
	m[11] = -1
	m[14] = 2 * far * near * inv
	return m
}

// Ortho returns an orthographic projection of the given box. Degenerate
// extents are treated as one unit.
func Ortho(left, right, bottom, top, near, far Scalar) Mat4 {
	span := func(lo, hi Scalar) Scalar {
		if hi == lo {
			return 1
		}
		return hi - lo
	}
	w, h, d := span(left, right), span(bottom, top), span(near, far)
	m := Identity()
	m[0] = 2 / w
	m[5] = 2 / h
	m[10] = -2 / d
	m[12] = -(right + left) / w
	m[13] = -(top + bottom) / h
	m[14] = -(far + near) / d
	return m
}
