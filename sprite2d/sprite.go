package sprite2d

import (
	"github.com/gogpu/g2d"
)

// Transform places a sprite: it is scaled to Size, rotated by Rotation
// degrees around the Origin pivot, and the pivot is moved to Position.
type Transform struct {
	Position g2d.Point
	Rotation float32
	Size     g2d.Point
	Origin   g2d.Origin
}

// Matrix returns translate(Position) · rotate(Rotation) · translate(-pivot)
// · scale(Size). It maps the unit quad onto the sprite's destination.
func (t Transform) Matrix() g2d.Matrix {
	pivot := t.Origin.Pivot(t.Size.X, t.Size.Y)
	return g2d.Translate(t.Position.X, t.Position.Y).
		Multiply(g2d.RotateDegrees(t.Rotation)).
		Multiply(g2d.Translate(-pivot.X, -pivot.Y)).
		Multiply(g2d.Scale(t.Size.X, t.Size.Y))
}

// Sprite is one textured quad of a Batch.
//
// Src is the crop of the batch texture in texels. Tint multiplies the
// sampled color and Opacity multiplies its alpha. A zero Repeat samples
// the texture once.
type Sprite struct {
	Src       g2d.Rect
	Transform Transform
	Depth     g2d.ZDepth
	Tint      g2d.Rgba
	Opacity   float32
	Repeat    g2d.Repeat
}

// FromRect returns an untinted, opaque sprite drawing src into the
// axis-aligned rectangle dst.
func FromRect(src, dst g2d.Rect) Sprite {
	return Sprite{
		Src: src,
		Transform: Transform{
			Position: dst.Min(),
			Size:     g2d.Pt(dst.Width(), dst.Height()),
			Origin:   g2d.OriginTopLeft,
		},
		Tint:    g2d.White,
		Opacity: 1,
		Repeat:  g2d.DefaultRepeat,
	}
}

// Offset returns s moved by (dx, dy).
func (s Sprite) Offset(dx, dy float32) Sprite {
	s.Transform.Position = s.Transform.Position.Add(g2d.Pt(dx, dy))
	return s
}

// unitQuad lists the unit square corners in triangle-list order.
var unitQuad = [6]g2d.Point{
	{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1},
	{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// appendVertices appends the six vertices of s for a tw x th texture.
func (s Sprite) appendVertices(dst []Vertex, tw, th float32) []Vertex {
	rep := s.Repeat
	if rep == (g2d.Repeat{}) {
		rep = g2d.DefaultRepeat
	}
	u1, v1 := s.Src.X1/tw*rep.X, s.Src.Y1/th*rep.Y
	u2, v2 := s.Src.X2/tw*rep.X, s.Src.Y2/th*rep.Y

	m := s.Transform.Matrix()
	c := s.Tint.Rgba8()
	z := float32(s.Depth)
	for _, q := range unitQuad {
		p := m.TransformPoint(q)
		u, v := u1, v1
		if q.X == 1 {
			u = u2
		}
		if q.Y == 1 {
			v = v2
		}
		dst = append(dst, vertex(p.X, p.Y, z, u, v, c, s.Opacity))
	}
	return dst
}
