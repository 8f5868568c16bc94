package render

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestBindingGroupSlots(t *testing.T) {
	d := newTestDevice(t)

	layout, err := d.CreateBindingGroupLayout(1, Set{
		{Type: BindingSampledTexture, Stage: StageFragment},
		{Type: BindingSampler, Stage: StageFragment},
	})
	if err != nil {
		t.Fatalf("CreateBindingGroupLayout: %v", err)
	}
	defer layout.Destroy()
	if layout.Index() != 1 || layout.Size() != 2 {
		t.Errorf("layout index %d size %d, want 1 and 2", layout.Index(), layout.Size())
	}

	tex, err := d.CreateTexture(4, 4)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer tex.Destroy()
	sampler, err := d.CreateSampler(Linear, Nearest)
	if err != nil {
		t.Fatalf("CreateSampler: %v", err)
	}
	defer sampler.Destroy()
	ub, err := d.CreateUniformBuffer(make([]byte, 64))
	if err != nil {
		t.Fatalf("CreateUniformBuffer: %v", err)
	}
	defer ub.Destroy()

	group, err := d.CreateBindingGroup(layout, tex, sampler)
	if err != nil {
		t.Fatalf("CreateBindingGroup: %v", err)
	}
	if group.Index() != 1 {
		t.Errorf("group index = %d, want 1", group.Index())
	}
	group.Destroy()
	group.Destroy()

	mustPanic(t, "too few", func() { _, _ = d.CreateBindingGroup(layout, tex) })
	mustPanic(t, "too many", func() { _, _ = d.CreateBindingGroup(layout, tex, sampler, ub) })
	mustPanic(t, "wrong type", func() { _, _ = d.CreateBindingGroup(layout, sampler, tex) })
	mustPanic(t, "uniform for texture", func() { _, _ = d.CreateBindingGroup(layout, ub, sampler) })
}

func TestBindingTypeString(t *testing.T) {
	tests := []struct {
		b    BindingType
		want string
	}{
		{BindingUniformBuffer, "UniformBuffer"},
		{BindingSampledTexture, "SampledTexture"},
		{BindingSampler, "Sampler"},
		{BindingType(9), "BindingType(9)"},
	}
	for _, tt := range tests {
		if got := tt.b.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestVertexLayout(t *testing.T) {
	tests := []struct {
		name    string
		formats []VertexFormat
		stride  uint64
		offsets []uint64
	}{
		{"shape", []VertexFormat{Float2, UByte4Normalized}, 12, []uint64{0, 8}},
		{"sprite", []VertexFormat{Float3, Float2, UByte4Normalized, Float}, 28, []uint64{0, 12, 20, 24}},
		{"single", []VertexFormat{Float4}, 16, []uint64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewVertexLayout(tt.formats...)
			if l.Stride != tt.stride {
				t.Errorf("Stride = %d, want %d", l.Stride, tt.stride)
			}
			for i, o := range tt.offsets {
				if l.Offsets[i] != o {
					t.Errorf("Offsets[%d] = %d, want %d", i, l.Offsets[i], o)
				}
			}
			gl := l.gpuLayout()
			if gl.ArrayStride != tt.stride || len(gl.Attributes) != len(tt.formats) {
				t.Errorf("gpuLayout stride %d attrs %d", gl.ArrayStride, len(gl.Attributes))
			}
			if gl.Attributes[len(tt.formats)-1].ShaderLocation != uint32(len(tt.formats)-1) {
				t.Error("shader locations should follow attribute order")
			}
		})
	}
}

func TestBuffers(t *testing.T) {
	d := newTestDevice(t)

	vb, err := d.CreateVertexBuffer(make([]byte, 36), 12)
	if err != nil {
		t.Fatalf("CreateVertexBuffer: %v", err)
	}
	if vb.Count() != 3 || vb.Size() != 36 || vb.Stride() != 12 {
		t.Errorf("Count %d Size %d Stride %d, want 3, 36 and 12", vb.Count(), vb.Size(), vb.Stride())
	}
	vb.Destroy()
	vb.Destroy()

	mustPanic(t, "stride mismatch", func() { _, _ = d.CreateVertexBuffer(make([]byte, 13), 12) })
	mustPanic(t, "zero stride", func() { _, _ = d.CreateVertexBuffer(make([]byte, 12), 0) })

	ib, err := d.CreateIndexBuffer([]uint16{0, 1, 2, 2, 3, 0})
	if err != nil {
		t.Fatalf("CreateIndexBuffer: %v", err)
	}
	if ib.Count() != 6 {
		t.Errorf("index Count = %d, want 6", ib.Count())
	}
	ib.Destroy()
}

func TestTextures(t *testing.T) {
	d := newTestDevice(t)

	tex, err := d.CreateTextureFrom(make([]byte, 3*2*4), 3, 2)
	if err != nil {
		t.Fatalf("CreateTextureFrom: %v", err)
	}
	defer tex.Destroy()
	if tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", tex.Format())
	}
	if w, h := tex.Size(); w != 3 || h != 2 {
		t.Errorf("Size = %dx%d, want 3x2", w, h)
	}
	if r := tex.Rect(); r.Width() != 3 || r.Height() != 2 {
		t.Errorf("Rect = %v", r)
	}
	if tex.restUsage() != gputypes.TextureUsageTextureBinding {
		t.Error("sampled-only textures rest as TextureBinding")
	}

	mustPanic(t, "texel length", func() { _, _ = d.CreateTextureFrom(make([]byte, 7), 1, 2) })
	mustPanic(t, "zero size", func() { _, _ = d.CreateTexture(0, 4) })

	fb, err := d.CreateFramebuffer(4, 4)
	if err != nil {
		t.Fatalf("CreateFramebuffer: %v", err)
	}
	if fb.restUsage() != gputypes.TextureUsageRenderAttachment {
		t.Error("framebuffers rest as RenderAttachment")
	}
	fb.Destroy()
	mustPanic(t, "destroyed framebuffer", func() { fb.colorView() })
}
