package sprite2d

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/render"
	"golang.org/x/image/math/f32"
)

// Vertex is one corner of a sprite quad. Position.Z is the sprite depth.
type Vertex struct {
	Position f32.Vec3
	UV       f32.Vec2
	Color    g2d.Rgba8
	Opacity  float32
}

func vertex(x, y, z, u, v float32, c g2d.Rgba8, opacity float32) Vertex {
	return Vertex{Position: f32.Vec3{x, y, z}, UV: f32.Vec2{u, v}, Color: c, Opacity: opacity}
}

// VertexLayout is the attribute layout of Vertex.
var VertexLayout = []render.VertexFormat{render.Float3, render.Float2, render.UByte4Normalized, render.Float}

// VertexStride is the byte size of an encoded Vertex.
const VertexStride = 28

func appendFloat(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}

// AppendBytes appends the GPU encoding of vs to dst.
func AppendBytes(dst []byte, vs []Vertex) []byte {
	for _, v := range vs {
		dst = appendFloat(dst, v.Position[0])
		dst = appendFloat(dst, v.Position[1])
		dst = appendFloat(dst, v.Position[2])
		dst = appendFloat(dst, v.UV[0])
		dst = appendFloat(dst, v.UV[1])
		dst = append(dst, v.Color.R, v.Color.G, v.Color.B, v.Color.A)
		dst = appendFloat(dst, v.Opacity)
	}
	return dst
}
