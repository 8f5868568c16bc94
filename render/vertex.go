package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// VertexFormat is the format of one vertex attribute.
type VertexFormat uint8

const (
	// Float is a single float32.
	Float VertexFormat = iota
	// Float2 is two float32 values.
	Float2
	// Float3 is three float32 values.
	Float3
	// Float4 is four float32 values.
	Float4
	// UByte4Normalized is four uint8 values read as [0, 1] floats.
	UByte4Normalized
)

// Size returns the byte size of the attribute.
func (f VertexFormat) Size() uint64 {
	switch f {
	case Float:
		return 4
	case Float2:
		return 8
	case Float3:
		return 12
	case Float4:
		return 16
	case UByte4Normalized:
		return 4
	default:
		panic(fmt.Sprintf("render: unknown vertex format %d", f))
	}
}

// String returns the format name.
func (f VertexFormat) String() string {
	switch f {
	case Float:
		return "Float"
	case Float2:
		return "Float2"
	case Float3:
		return "Float3"
	case Float4:
		return "Float4"
	case UByte4Normalized:
		return "UByte4Normalized"
	default:
		return fmt.Sprintf("VertexFormat(%d)", f)
	}
}

func (f VertexFormat) gpuFormat() gputypes.VertexFormat {
	switch f {
	case Float:
		return gputypes.VertexFormatFloat32
	case Float2:
		return gputypes.VertexFormatFloat32x2
	case Float3:
		return gputypes.VertexFormatFloat32x3
	case Float4:
		return gputypes.VertexFormatFloat32x4
	case UByte4Normalized:
		return gputypes.VertexFormatUnorm8x4
	default:
		panic(fmt.Sprintf("render: unknown vertex format %d", f))
	}
}

// VertexLayout describes the attributes of one interleaved vertex buffer.
// Attribute i is bound to shader location i; the list must match the
// vertex shader inputs in count, order and format.
type VertexLayout struct {
	Formats []VertexFormat
	Offsets []uint64
	Stride  uint64
}

// NewVertexLayout computes offsets and stride for the given attributes.
// The stride is the sum of the attribute sizes.
func NewVertexLayout(formats ...VertexFormat) VertexLayout {
	l := VertexLayout{
		Formats: append([]VertexFormat(nil), formats...),
		Offsets: make([]uint64, len(formats)),
	}
	for i, f := range formats {
		l.Offsets[i] = l.Stride
		l.Stride += f.Size()
	}
	return l
}

func (l VertexLayout) gpuLayout() gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, len(l.Formats))
	for i, f := range l.Formats {
		attrs[i] = gputypes.VertexAttribute{
			Format:         f.gpuFormat(),
			Offset:         l.Offsets[i],
			ShaderLocation: uint32(i), //nolint:gosec // attribute count is tiny
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: l.Stride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}
}
