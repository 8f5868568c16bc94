package g2d

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float32) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float32) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float32) Matrix {
	sin, cos := math32.Sincos(angle)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// RotateDegrees creates a rotation matrix from an angle in degrees.
func RotateDegrees(deg float32) Matrix {
	return Rotate(deg * math32.Pi / 180)
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Aff3 returns the matrix in the layout of f32.Aff3.
func (m Matrix) Aff3() f32.Aff3 {
	return f32.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}

// Mat4 embeds the 2D transform in a 4x4 row-major matrix.
func (m Matrix) Mat4() f32.Mat4 {
	return f32.Mat4{
		m.A, m.B, 0, m.C,
		m.D, m.E, 0, m.F,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Identity returns the 4x4 identity matrix.
func Mat4Identity() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns an orthographic projection for a w x h target with the
// origin at the top-left corner and y pointing down. Depth -1..1 maps to
// the 0..1 clip range, nearer values drawn on top.
func Ortho(w, h uint32) f32.Mat4 {
	fw, fh := float32(w), float32(h)
	return f32.Mat4{
		2 / fw, 0, 0, -1,
		0, -2 / fh, 0, 1,
		0, 0, -0.5, 0.5,
		0, 0, 0, 1,
	}
}

// MulMat4 returns a * b.
func MulMat4(a, b f32.Mat4) f32.Mat4 {
	var out f32.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var s float32
			for k := 0; k < 4; k++ {
				s += a[4*r+k] * b[4*k+c]
			}
			out[4*r+c] = s
		}
	}
	return out
}

// Mat4Size is the byte size of a 4x4 float32 matrix.
const Mat4Size = 64

// AppendMat4 appends m to buf in the column-major layout WGSL expects for
// mat4x4<f32>.
func AppendMat4(buf []byte, m f32.Mat4) []byte {
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(m[4*r+c]))
		}
	}
	return buf
}
