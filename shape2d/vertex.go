package shape2d

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/render"
	"golang.org/x/image/math/f32"
)

// Vertex is one corner of a tessellated triangle, in pixel coordinates.
type Vertex struct {
	Position f32.Vec2
	Color    g2d.Rgba8
}

func vertex(x, y float32, c g2d.Rgba8) Vertex {
	return Vertex{Position: f32.Vec2{x, y}, Color: c}
}

// VertexLayout is the attribute layout of Vertex.
var VertexLayout = []render.VertexFormat{render.Float2, render.UByte4Normalized}

// VertexStride is the byte size of an encoded Vertex.
const VertexStride = 12

// AppendBytes appends the GPU encoding of vs to dst.
func AppendBytes(dst []byte, vs []Vertex) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Position[0]))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Position[1]))
		dst = append(dst, v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	}
	return dst
}
