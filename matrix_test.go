package g2d

import (
	"encoding/binary"
	"math"
	"testing"

	"golang.org/x/image/math/f32"
)

const eps = 1e-5

func near(a, b float32) bool {
	d := a - b
	return d < eps && d > -eps
}

func TestMatrixTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		in   Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -2), Pt(1, 1), Pt(11, -1)},
		{"scale", Scale(2, 3), Pt(1, 1), Pt(2, 3)},
		{"rotate 90", RotateDegrees(90), Pt(1, 0), Pt(0, 1)},
		{"translate after scale", Translate(5, 5).Multiply(Scale(2, 2)), Pt(1, 1), Pt(7, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.in)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOrthoCorners(t *testing.T) {
	m := Ortho(200, 100)
	apply := func(x, y, z float32) (float32, float32, float32) {
		return m[0]*x + m[1]*y + m[2]*z + m[3],
			m[4]*x + m[5]*y + m[6]*z + m[7],
			m[8]*x + m[9]*y + m[10]*z + m[11]
	}

	x, y, _ := apply(0, 0, 0)
	if x != -1 || y != 1 {
		t.Errorf("top-left maps to (%v, %v), want (-1, 1)", x, y)
	}
	x, y, _ = apply(200, 100, 0)
	if !near(x, 1) || !near(y, -1) {
		t.Errorf("bottom-right maps to (%v, %v), want (1, -1)", x, y)
	}
	if _, _, z := apply(0, 0, -1); z != 1 {
		t.Errorf("depth -1 maps to %v, want 1", z)
	}
	if _, _, z := apply(0, 0, 1); z != 0 {
		t.Errorf("depth 1 maps to %v, want 0", z)
	}
}

func TestMulMat4Identity(t *testing.T) {
	o := Ortho(64, 32)
	if got := MulMat4(Mat4Identity(), o); got != o {
		t.Errorf("I*O = %v, want %v", got, o)
	}
	if got := MulMat4(o, Mat4Identity()); got != o {
		t.Errorf("O*I = %v, want %v", got, o)
	}
}

func TestAppendMat4ColumnMajor(t *testing.T) {
	var m f32.Mat4
	for i := range m {
		m[i] = float32(i)
	}
	buf := AppendMat4(nil, m)
	if len(buf) != Mat4Size {
		t.Fatalf("len = %d, want %d", len(buf), Mat4Size)
	}
	// Second float written is row 1, column 0.
	got := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	if got != 4 {
		t.Errorf("buf[1] = %v, want 4", got)
	}
}
