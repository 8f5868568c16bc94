package g2d

import (
	"github.com/chewxy/math32"
)

// Point represents a 2D point or vector.
type Point struct {
	X, Y float32
}

// Pt is a convenience function to create a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Length returns the length of the vector.
func (p Point) Length() float32 {
	return math32.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged.
func (p Point) Normalize() Point {
	l := p.Length()
	if l == 0 {
		return p
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Rect is an axis-aligned rectangle spanning (X1, Y1) to (X2, Y2).
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// NewRect creates a rectangle from two corners.
func NewRect(x1, y1, x2, y2 float32) Rect {
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// RectOrigin returns the rectangle (0, 0) to (w, h).
func RectOrigin(w, h float32) Rect {
	return Rect{X2: w, Y2: h}
}

// Width returns the horizontal extent. Negative for flipped rectangles.
func (r Rect) Width() float32 { return r.X2 - r.X1 }

// Height returns the vertical extent. Negative for flipped rectangles.
func (r Rect) Height() float32 { return r.Y2 - r.Y1 }

// Min returns the (X1, Y1) corner.
func (r Rect) Min() Point { return Point{X: r.X1, Y: r.Y1} }

// Max returns the (X2, Y2) corner.
func (r Rect) Max() Point { return Point{X: r.X2, Y: r.Y2} }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	return Rect{X1: r.X1 + dx, Y1: r.Y1 + dy, X2: r.X2 + dx, Y2: r.Y2 + dy}
}

// Inset returns r shrunk by d on every side.
func (r Rect) Inset(d float32) Rect {
	return Rect{X1: r.X1 + d, Y1: r.Y1 + d, X2: r.X2 - d, Y2: r.Y2 - d}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.X2 <= r.X1 || r.Y2 <= r.Y1
}
