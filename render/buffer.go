package render

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// VertexBuffer holds interleaved vertices for non-indexed drawing.
type VertexBuffer struct {
	device *Device
	buf    hal.Buffer
	size   uint64
	stride uint64
	count  uint32
}

// Size returns the buffer size in bytes.
func (b *VertexBuffer) Size() uint64 { return b.size }

// Stride returns the size of one vertex in bytes.
func (b *VertexBuffer) Stride() uint64 { return b.stride }

// Count returns the number of vertices in the buffer.
func (b *VertexBuffer) Count() uint32 { return b.count }

// Destroy releases the buffer.
func (b *VertexBuffer) Destroy() {
	b.device.destroyBuffer(&b.buf)
}

// CreateVertexBuffer uploads interleaved vertex data of the given stride.
// It panics if len(data) is not a multiple of stride.
func (d *Device) CreateVertexBuffer(data []byte, stride uint64) (*VertexBuffer, error) {
	if stride == 0 || uint64(len(data))%stride != 0 {
		panic(fmt.Sprintf("render: vertex data of %d bytes is not a multiple of stride %d", len(data), stride))
	}

	d.lock()
	defer d.mu.Unlock()
	buf, err := d.createBufferWithData("vertex", data, gputypes.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	count := uint64(len(data)) / stride
	g2d.Logger().Debug("render: vertex buffer created", "vertices", count, "bytes", len(data))
	return &VertexBuffer{device: d, buf: buf, size: uint64(len(data)), stride: stride, count: uint32(count)}, nil //nolint:gosec // vertex counts fit uint32
}

// IndexBuffer holds 16-bit vertex indices.
type IndexBuffer struct {
	device *Device
	buf    hal.Buffer
	count  uint32
}

// Count returns the number of indices.
func (b *IndexBuffer) Count() uint32 { return b.count }

// Destroy releases the buffer.
func (b *IndexBuffer) Destroy() {
	b.device.destroyBuffer(&b.buf)
}

// CreateIndexBuffer uploads 16-bit indices.
func (d *Device) CreateIndexBuffer(indices []uint16) (*IndexBuffer, error) {
	data := make([]byte, 0, len(indices)*2)
	for _, i := range indices {
		data = binary.LittleEndian.AppendUint16(data, i)
	}

	d.lock()
	defer d.mu.Unlock()
	buf, err := d.createBufferWithData("index", data, gputypes.BufferUsageIndex)
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{device: d, buf: buf, count: uint32(len(indices))}, nil //nolint:gosec // index counts fit uint32
}

// UniformBuffer holds uniform values read by shaders. Its contents are
// replaced per frame with Frame.Update.
type UniformBuffer struct {
	device *Device
	buf    hal.Buffer
	size   uint64
}

// Size returns the buffer size in bytes.
func (b *UniformBuffer) Size() uint64 { return b.size }

// Destroy releases the buffer.
func (b *UniformBuffer) Destroy() {
	b.device.destroyBuffer(&b.buf)
}

// CreateUniformBuffer creates a uniform buffer with initial contents.
// The size is fixed to len(data) rounded up to 16 bytes.
func (d *Device) CreateUniformBuffer(data []byte) (*UniformBuffer, error) {
	size := (uint64(len(data)) + 15) &^ 15
	padded := make([]byte, size)
	copy(padded, data)

	d.lock()
	defer d.mu.Unlock()
	buf, err := d.createBufferWithData("uniform", padded, gputypes.BufferUsageUniform)
	if err != nil {
		return nil, err
	}
	return &UniformBuffer{device: d, buf: buf, size: size}, nil
}

func (b *UniformBuffer) bindingType() BindingType { return BindingUniformBuffer }

func (b *UniformBuffer) bindGroupEntry(binding uint32) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  binding,
		Resource: gputypes.BufferBinding{Buffer: b.buf.NativeHandle(), Offset: 0, Size: b.size},
	}
}

func (d *Device) destroyBuffer(buf *hal.Buffer) {
	if *buf == nil {
		return
	}
	d.lock()
	defer d.mu.Unlock()
	d.device.DestroyBuffer(*buf)
	*buf = nil
}
