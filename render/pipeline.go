package render

import (
	"fmt"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Shader is compiled bytecode for one shader stage. The bytecode is
// backend-specific SPIR-V and is passed to the backend untouched.
type Shader struct {
	Label      string
	Bytecode   []byte
	EntryPoint string
}

// PipelineDescription declares everything a render pipeline is built from:
// vertex layout, binding group layouts and the compiled stages.
type PipelineDescription struct {
	Label string

	// VertexLayout lists the vertex attributes in shader location order.
	VertexLayout []VertexFormat

	// Layout lists the binding groups; entry i is bound at group i.
	Layout []Set

	Vertex   Shader
	Fragment Shader

	// Opaque disables blending. By default the fragment output is treated
	// as premultiplied alpha and blended over the target.
	Opaque bool
}

// RenderPipeline is a compiled pipeline with its binding group layouts.
// Concrete pipelines wrap it and bind it into passes.
type RenderPipeline struct {
	device   *Device
	label    string
	pipeline hal.RenderPipeline
	layout   hal.PipelineLayout
	modules  []hal.ShaderModule
	sets     []*BindingGroupLayout
	vertex   VertexLayout
	format   gputypes.TextureFormat
}

// Label returns the pipeline debug label.
func (p *RenderPipeline) Label() string { return p.label }

// Set returns the layout of binding group i.
func (p *RenderPipeline) Set(i int) *BindingGroupLayout { return p.sets[i] }

// Sets returns the number of binding groups.
func (p *RenderPipeline) Sets() int { return len(p.sets) }

// VertexLayout returns the vertex layout the pipeline reads.
func (p *RenderPipeline) VertexLayout() VertexLayout { return p.vertex }

// Format returns the color format the pipeline renders to.
func (p *RenderPipeline) Format() gputypes.TextureFormat { return p.format }

// Destroy releases the pipeline, its layouts and shader modules.
func (p *RenderPipeline) Destroy() {
	if p.pipeline == nil {
		return
	}
	p.device.lock()
	p.device.device.DestroyRenderPipeline(p.pipeline)
	p.device.device.DestroyPipelineLayout(p.layout)
	for _, m := range p.modules {
		p.device.device.DestroyShaderModule(m)
	}
	p.pipeline, p.layout, p.modules = nil, nil, nil
	p.device.mu.Unlock()

	for _, s := range p.sets {
		s.Destroy()
	}
	p.sets = nil
}

// CreatePipeline compiles desc into a pipeline rendering to format.
func (d *Device) CreatePipeline(desc PipelineDescription, format gputypes.TextureFormat) (*RenderPipeline, error) {
	p := &RenderPipeline{
		device: d,
		label:  desc.Label,
		vertex: NewVertexLayout(desc.VertexLayout...),
		format: format,
	}

	for i, set := range desc.Layout {
		l, err := d.CreateBindingGroupLayout(uint32(i), set) //nolint:gosec // group counts are tiny
		if err != nil {
			p.destroySets()
			return nil, fmt.Errorf("pipeline %s: %w", desc.Label, err)
		}
		p.sets = append(p.sets, l)
	}

	vsCode, err := spirvWords(desc.Vertex.Bytecode)
	if err != nil {
		p.destroySets()
		return nil, fmt.Errorf("pipeline %s vertex stage: %w", desc.Label, err)
	}
	fsCode, err := spirvWords(desc.Fragment.Bytecode)
	if err != nil {
		p.destroySets()
		return nil, fmt.Errorf("pipeline %s fragment stage: %w", desc.Label, err)
	}

	d.lock()
	err = p.build(desc, vsCode, fsCode)
	d.mu.Unlock()
	if err != nil {
		p.destroySets()
		return nil, fmt.Errorf("pipeline %s: %w", desc.Label, err)
	}

	g2d.Logger().Debug("render: pipeline created",
		"label", desc.Label, "stride", p.vertex.Stride, "groups", len(p.sets))
	return p, nil
}

// build creates the HAL objects. Caller must hold the device lock.
func (p *RenderPipeline) build(desc PipelineDescription, vsCode, fsCode []uint32) error {
	dev := p.device.device

	vs, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.device.label(desc.Vertex.Label),
		Source: hal.ShaderSource{SPIRV: vsCode},
	})
	if err != nil {
		return fmt.Errorf("create vertex shader: %w", err)
	}
	p.modules = append(p.modules, vs)

	fs, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.device.label(desc.Fragment.Label),
		Source: hal.ShaderSource{SPIRV: fsCode},
	})
	if err != nil {
		p.destroyModules()
		return fmt.Errorf("create fragment shader: %w", err)
	}
	p.modules = append(p.modules, fs)

	groups := make([]hal.BindGroupLayout, len(p.sets))
	for i, s := range p.sets {
		groups[i] = s.layout
	}
	layout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.device.label(desc.Label + "_layout"),
		BindGroupLayouts: groups,
	})
	if err != nil {
		p.destroyModules()
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	target := gputypes.ColorTargetState{
		Format:    p.format,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if !desc.Opaque {
		blend := gputypes.BlendStatePremultiplied()
		target.Blend = &blend
	}

	pipeline, err := dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.device.label(desc.Label),
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     vs,
			EntryPoint: entryPoint(desc.Vertex),
			Buffers:    []gputypes.VertexBufferLayout{p.vertex.gpuLayout()},
		},
		Fragment: &hal.FragmentState{
			Module:     fs,
			EntryPoint: entryPoint(desc.Fragment),
			Targets:    []gputypes.ColorTargetState{target},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		dev.DestroyPipelineLayout(layout)
		p.destroyModules()
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.layout = layout
	p.pipeline = pipeline
	return nil
}

func (p *RenderPipeline) destroyModules() {
	for _, m := range p.modules {
		p.device.device.DestroyShaderModule(m)
	}
	p.modules = nil
}

func (p *RenderPipeline) destroySets() {
	for _, s := range p.sets {
		s.Destroy()
	}
	p.sets = nil
}

func entryPoint(s Shader) string {
	if s.EntryPoint == "" {
		return "main"
	}
	return s.EntryPoint
}

// spirvWords converts little-endian SPIR-V bytes to 32-bit words.
func spirvWords(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidShader, len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}

// Pipeline is the contract every concrete pipeline implements.
//
// A concrete pipeline is built once by its Setup function from a compiled
// RenderPipeline, binds itself and its persistent binding groups into a
// Pass with Apply, and releases its resources with Destroy.
type Pipeline interface {
	// Apply binds the pipeline and its persistent binding groups.
	Apply(p *Pass)

	// Resize informs the pipeline that the output target changed size.
	Resize(w, h uint32)

	// Destroy releases the pipeline's resources. It is safe to call more
	// than once.
	Destroy()
}

// Setup constructs pipeline-specific persistent state, such as a default
// transform uniform buffer, around a compiled pipeline.
type Setup[P Pipeline] func(core *RenderPipeline, dev *Device, w, h uint32) (P, error)

// NewPipeline compiles desc for the renderer's color format and hands the
// result to setup. The renderer resizes the pipeline on Resize and
// destroys it on Close.
func NewPipeline[P Pipeline](r *Renderer, desc PipelineDescription, setup Setup[P]) (P, error) {
	var zero P
	core, err := r.device.CreatePipeline(desc, r.Format())
	if err != nil {
		return zero, err
	}
	w, h := r.Size()
	p, err := setup(core, r.device, w, h)
	if err != nil {
		core.Destroy()
		return zero, fmt.Errorf("setup pipeline %s: %w", desc.Label, err)
	}
	r.track(p)
	return p, nil
}

// UniformUpdate is new content for a uniform buffer, produced by a
// pipeline's Prepare and encoded by Frame.Update.
type UniformUpdate struct {
	Buffer *UniformBuffer
	Data   []byte

	// OnSubmit, if set, runs once the frame carrying the update was
	// submitted. It does not run for discarded frames. It runs with the
	// device locked and must not call back into the device.
	OnSubmit func()
}

// Preparer is implemented by pipelines whose uniforms depend on per-frame
// context C, such as a projection or transform matrix. Prepare returns
// false when nothing changed.
type Preparer[C any] interface {
	Prepare(ctx C) (UniformUpdate, bool)
}

// Prepare computes p's uniforms for ctx and schedules the upload on f.
// It must be called before the pass that draws with p.
func Prepare[C any](f *Frame, p Preparer[C], ctx C) {
	if u, ok := p.Prepare(ctx); ok {
		f.Update(u)
	}
}
