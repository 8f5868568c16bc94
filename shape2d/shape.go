package shape2d

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gogpu/g2d"
)

// Stroke is the outline of a shape. A zero width draws no outline;
// tessellating a shape with a negative width panics.
type Stroke struct {
	Width float32
	Color g2d.Rgba
}

func (s Stroke) check() {
	if !(s.Width >= 0) {
		panic(fmt.Sprintf("shape2d: invalid stroke width %v", s.Width))
	}
}

// NoStroke draws no outline.
var NoStroke = Stroke{}

// NewStroke returns a stroke of the given width and color.
func NewStroke(width float32, color g2d.Rgba) Stroke {
	return Stroke{Width: width, Color: color}
}

// FillKind is the kind of a Fill.
type FillKind uint8

const (
	// FillEmpty leaves the interior transparent.
	FillEmpty FillKind = iota
	// FillSolid paints the interior with one color.
	FillSolid
	// FillGradient blends between two colors. It is not supported by the
	// tessellator and panics.
	FillGradient
)

// String returns the fill kind name.
func (k FillKind) String() string {
	switch k {
	case FillEmpty:
		return "Empty"
	case FillSolid:
		return "Solid"
	case FillGradient:
		return "Gradient"
	default:
		return fmt.Sprintf("FillKind(%d)", k)
	}
}

// Fill is the interior coloring of a shape.
type Fill struct {
	Kind FillKind
	From g2d.Rgba
	To   g2d.Rgba
}

// Empty returns a transparent fill.
func Empty() Fill { return Fill{Kind: FillEmpty} }

// Solid returns a single-color fill.
func Solid(c g2d.Rgba) Fill { return Fill{Kind: FillSolid, From: c} }

// Gradient returns a two-color fill. Tessellating a shape with a gradient
// fill panics.
func Gradient(from, to g2d.Rgba) Fill { return Fill{Kind: FillGradient, From: from, To: to} }

// solid reports whether f paints anything, and with which color.
func (f Fill) solid() (g2d.Rgba8, bool) {
	switch f.Kind {
	case FillEmpty:
		return g2d.Rgba8{}, false
	case FillSolid:
		return f.From.Rgba8(), true
	case FillGradient:
		panic("shape2d: gradient fill is not supported")
	default:
		panic(fmt.Sprintf("shape2d: unknown fill kind %v", f.Kind))
	}
}

// Shape is a tessellatable primitive: Line, Rectangle or Circle.
//
// Shapes are immutable values; tessellation never modifies them.
type Shape interface {
	// AppendVertices appends the shape's triangles to dst.
	AppendVertices(dst []Vertex) []Vertex

	// VertexCount returns the number of vertices AppendVertices appends.
	VertexCount() int
}

// Tessellate returns the triangles of s.
func Tessellate(s Shape) []Vertex {
	return s.AppendVertices(make([]Vertex, 0, s.VertexCount()))
}

// Line is a straight stroked segment. Lines have no interior.
type Line struct {
	P1, P2 g2d.Point
	Stroke Stroke
}

// NewLine returns a line from (x1, y1) to (x2, y2).
func NewLine(x1, y1, x2, y2 float32, stroke Stroke) Line {
	return Line{P1: g2d.Pt(x1, y1), P2: g2d.Pt(x2, y2), Stroke: stroke}
}

// VertexCount returns 6, or 0 for a zero-length line.
func (l Line) VertexCount() int {
	l.Stroke.check()
	if l.P1 == l.P2 {
		return 0
	}
	return 6
}

// AppendVertices appends the two triangles of a rectangle Stroke.Width
// wide centered on the segment. A zero-length line has no direction and
// appends nothing.
func (l Line) AppendVertices(dst []Vertex) []Vertex {
	l.Stroke.check()
	return appendSegment(dst, l.P1, l.P2, l.Stroke.Width, l.Stroke.Color.Rgba8())
}

func appendSegment(dst []Vertex, p1, p2 g2d.Point, width float32, c g2d.Rgba8) []Vertex {
	if p1 == p2 {
		return dst
	}
	v := p2.Sub(p1).Normalize()
	wx := width / 2 * v.Y
	wy := width / 2 * v.X

	return append(dst,
		vertex(p1.X-wx, p1.Y+wy, c),
		vertex(p1.X+wx, p1.Y-wy, c),
		vertex(p2.X-wx, p2.Y+wy, c),
		vertex(p2.X-wx, p2.Y+wy, c),
		vertex(p1.X+wx, p1.Y-wy, c),
		vertex(p2.X+wx, p2.Y-wy, c),
	)
}

// Rectangle is an axis-aligned rectangle.
//
// The stroke is drawn inside Bounds as four independent segments; corners
// are not mitered. The fill covers Bounds inset by the stroke width.
type Rectangle struct {
	Bounds g2d.Rect
	Stroke Stroke
	Fill   Fill
}

// NewRectangle returns a rectangle with corners (x1, y1) and (x2, y2).
func NewRectangle(x1, y1, x2, y2 float32, stroke Stroke, fill Fill) Rectangle {
	return Rectangle{Bounds: g2d.NewRect(x1, y1, x2, y2), Stroke: stroke, Fill: fill}
}

// strokeSegments returns the left, right, top and bottom stroke segments.
func (r Rectangle) strokeSegments() [4][2]g2d.Point {
	b, w := r.Bounds, r.Stroke.Width
	h := w / 2
	return [4][2]g2d.Point{
		{g2d.Pt(b.X1+h, b.Y1+w), g2d.Pt(b.X1+h, b.Y2)},
		{g2d.Pt(b.X2-h, b.Y1), g2d.Pt(b.X2-h, b.Y2-w)},
		{g2d.Pt(b.X1+w, b.Y2-h), g2d.Pt(b.X2, b.Y2-h)},
		{g2d.Pt(b.X1, b.Y1+h), g2d.Pt(b.X2-w, b.Y1+h)},
	}
}

// VertexCount returns 6 per non-degenerate stroke segment plus 6 for a
// solid fill.
func (r Rectangle) VertexCount() int {
	r.Stroke.check()
	n := 0
	if r.Stroke.Width > 0 {
		for _, s := range r.strokeSegments() {
			if s[0] != s[1] {
				n += 6
			}
		}
	}
	if _, ok := r.Fill.solid(); ok {
		n += 6
	}
	return n
}

// AppendVertices appends the stroke segments, then the fill quad.
func (r Rectangle) AppendVertices(dst []Vertex) []Vertex {
	r.Stroke.check()
	fill, filled := r.Fill.solid()

	if w := r.Stroke.Width; w > 0 {
		c := r.Stroke.Color.Rgba8()
		for _, s := range r.strokeSegments() {
			dst = appendSegment(dst, s[0], s[1], w, c)
		}
	}
	if filled {
		dst = appendQuad(dst, r.Bounds.Inset(r.Stroke.Width), fill)
	}
	return dst
}

func appendQuad(dst []Vertex, q g2d.Rect, c g2d.Rgba8) []Vertex {
	return append(dst,
		vertex(q.X1, q.Y1, c),
		vertex(q.X2, q.Y1, c),
		vertex(q.X2, q.Y2, c),
		vertex(q.X1, q.Y1, c),
		vertex(q.X1, q.Y2, c),
		vertex(q.X2, q.Y2, c),
	)
}

// Circle is a regular polygon with Sides sides approximating a circle.
// Sides must be at least 3.
type Circle struct {
	Center g2d.Point
	Radius float32
	Sides  uint32
	Stroke Stroke
	Fill   Fill
}

// NewCircle returns a circle centered at (x, y).
func NewCircle(x, y, radius float32, sides uint32, stroke Stroke, fill Fill) Circle {
	return Circle{Center: g2d.Pt(x, y), Radius: radius, Sides: sides, Stroke: stroke, Fill: fill}
}

func (c Circle) check() {
	if c.Sides < 3 {
		panic(fmt.Sprintf("shape2d: circle needs at least 3 sides, got %d", c.Sides))
	}
	c.Stroke.check()
}

// VertexCount returns 6 per side for the stroke band and 3 per side plus
// 3 for the fan closing triangle for a solid fill.
func (c Circle) VertexCount() int {
	c.check()
	n := 0
	if c.Stroke.Width > 0 {
		n += 6 * int(c.Sides)
	}
	if _, ok := c.Fill.solid(); ok {
		n += 3*int(c.Sides) + 3
	}
	return n
}

// rings returns the outer and inner rings of Sides+1 points each, the last
// point repeating the first. Without a stroke both rings are the same.
func (c Circle) rings() (outer, inner []g2d.Point) {
	c.check()
	outer = ring(c.Center, c.Radius, c.Sides)
	if c.Stroke.Width == 0 {
		return outer, outer
	}
	return outer, ring(c.Center, c.Radius-c.Stroke.Width, c.Sides)
}

func ring(center g2d.Point, r float32, sides uint32) []g2d.Point {
	pts := make([]g2d.Point, sides+1)
	step := 2 * math32.Pi / float32(sides)
	for i := uint32(0); i < sides; i++ {
		s, c := math32.Sincos(float32(i) * step)
		pts[i] = g2d.Pt(center.X+r*c, center.Y+r*s)
	}
	pts[sides] = pts[0]
	return pts
}

// AppendVertices appends the stroke band, then the fill fan.
func (c Circle) AppendVertices(dst []Vertex) []Vertex {
	fill, filled := c.Fill.solid()
	outer, inner := c.rings()
	n := int(c.Sides)

	if c.Stroke.Width > 0 {
		sc := c.Stroke.Color.Rgba8()
		for i := 0; i < n; i++ {
			o0, o1 := outer[i], outer[i+1]
			i0, i1 := inner[i], inner[i+1]
			dst = append(dst,
				vertex(o0.X, o0.Y, sc),
				vertex(o1.X, o1.Y, sc),
				vertex(i1.X, i1.Y, sc),
				vertex(o0.X, o0.Y, sc),
				vertex(i1.X, i1.Y, sc),
				vertex(i0.X, i0.Y, sc),
			)
		}
	}

	if filled {
		ctr := c.Center
		for i := 0; i < n; i++ {
			a, b := inner[i], inner[i+1]
			dst = append(dst,
				vertex(ctr.X, ctr.Y, fill),
				vertex(a.X, a.Y, fill),
				vertex(b.X, b.Y, fill),
			)
		}
		// Close the fan back onto the first ring point.
		last, first := inner[n], inner[0]
		dst = append(dst,
			vertex(ctr.X, ctr.Y, fill),
			vertex(last.X, last.Y, fill),
			vertex(first.X, first.Y, fill),
		)
	}
	return dst
}

var (
	_ Shape = Line{}
	_ Shape = Rectangle{}
	_ Shape = Circle{}
)
