// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package post draws the contents of a render.Framebuffer over a whole
// render target, the second half of render-to-texture effects:
//
//	fb, _ := r.Framebuffer(w, h)
//	// ... passes drawing into fb ...
//	render.Prepare(frame, pipeline, g2d.White)
//	pass := frame.Pass(tex, render.ClearTo(g2d.Black))
//	pass.Apply(pipeline)
//	pipeline.Draw(pass, fbBinding)
//	pass.End()
//
// The framebuffer already holds premultiplied color, so it is drawn with
// premultiplied blending and scaled by a tint uniform.
package post

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/render"
	"github.com/gogpu/g2d/shader"
	"golang.org/x/image/math/f32"
)

// Vertex is a corner of the full-target quad in normalized device
// coordinates.
type Vertex struct {
	Position f32.Vec2
	UV       f32.Vec2
}

// VertexLayout is the attribute layout of Vertex.
var VertexLayout = []render.VertexFormat{render.Float2, render.Float2}

// VertexStride is the byte size of an encoded Vertex.
const VertexStride = 16

// quad covers the target; v grows downwards like texel rows.
var quad = [6]Vertex{
	{f32.Vec2{-1, 1}, f32.Vec2{0, 0}},
	{f32.Vec2{1, 1}, f32.Vec2{1, 0}},
	{f32.Vec2{1, -1}, f32.Vec2{1, 1}},
	{f32.Vec2{-1, 1}, f32.Vec2{0, 0}},
	{f32.Vec2{-1, -1}, f32.Vec2{0, 1}},
	{f32.Vec2{1, -1}, f32.Vec2{1, 1}},
}

func appendFloats(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// Quad uploads the six vertices of the full-target quad.
func Quad(d *render.Device) (*render.VertexBuffer, error) {
	buf := make([]byte, 0, len(quad)*VertexStride)
	for _, v := range quad {
		buf = appendFloats(buf, v.Position[0], v.Position[1], v.UV[0], v.UV[1])
	}
	return d.CreateVertexBuffer(buf, VertexStride)
}

// Pipeline draws a framebuffer texture as a full-target quad. Group 0
// holds the tint; group 1, created with Binding, holds the framebuffer
// and its sampler.
type Pipeline struct {
	core   *render.RenderPipeline
	device *render.Device
	params *render.UniformBuffer
	group  *render.BindingGroup
	quad   *render.VertexBuffer
	tint   g2d.Rgba
}

// Description returns the pipeline description with compiled shaders.
func Description() (render.PipelineDescription, error) {
	vs, fs, err := shader.Compile(shader.Post)
	if err != nil {
		return render.PipelineDescription{}, err
	}
	return render.PipelineDescription{
		Label:        "post",
		VertexLayout: VertexLayout,
		Layout: []render.Set{
			{{Type: render.BindingUniformBuffer, Stage: render.StageFragment}},
			{
				{Type: render.BindingSampledTexture, Stage: render.StageFragment},
				{Type: render.BindingSampler, Stage: render.StageFragment},
			},
		},
		Vertex:   vs,
		Fragment: fs,
	}, nil
}

// NewPipeline compiles the post pipeline for r.
func NewPipeline(r *render.Renderer) (*Pipeline, error) {
	desc, err := Description()
	if err != nil {
		return nil, err
	}
	return render.NewPipeline[*Pipeline](r, desc, Setup)
}

// Setup is the render.Setup of the post pipeline. The initial tint is
// opaque white, which draws the framebuffer unchanged.
func Setup(core *render.RenderPipeline, dev *render.Device, _, _ uint32) (*Pipeline, error) {
	params, err := dev.CreateUniformBuffer(tintBytes(g2d.White))
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	group, err := dev.CreateBindingGroup(core.Set(0), params)
	if err != nil {
		params.Destroy()
		return nil, fmt.Errorf("post: %w", err)
	}
	vb, err := Quad(dev)
	if err != nil {
		group.Destroy()
		params.Destroy()
		return nil, fmt.Errorf("post: %w", err)
	}
	return &Pipeline{core: core, device: dev, params: params, group: group, quad: vb, tint: g2d.White}, nil
}

// tintBytes encodes c premultiplied.
func tintBytes(c g2d.Rgba) []byte {
	return appendFloats(make([]byte, 0, 16), c.R*c.A, c.G*c.A, c.B*c.A, c.A)
}

// Binding creates the source binding group for fb.
func (p *Pipeline) Binding(fb *render.Framebuffer, sampler *render.Sampler) (*render.BindingGroup, error) {
	return p.device.CreateBindingGroup(p.core.Set(1), fb, sampler)
}

// Tint returns the tint of the last submitted frame that changed it.
func (p *Pipeline) Tint() g2d.Rgba { return p.tint }

// Apply binds the pipeline and its tint.
func (p *Pipeline) Apply(pass *render.Pass) {
	pass.SetPipeline(p.core)
	pass.SetBinding(p.group)
}

// Draw draws the quad sampling the framebuffer bound by source.
func (p *Pipeline) Draw(pass *render.Pass, source *render.BindingGroup) {
	pass.Draw(p.quad, source)
}

// Resize is a no-op: the quad is in device coordinates.
func (p *Pipeline) Resize(_, _ uint32) {}

// Prepare returns the tint upload, or false when tint is already on the
// GPU. The cached tint changes when the frame carrying the upload is
// submitted.
func (p *Pipeline) Prepare(tint g2d.Rgba) (render.UniformUpdate, bool) {
	if tint == p.tint {
		return render.UniformUpdate{}, false
	}
	return render.UniformUpdate{
		Buffer:   p.params,
		Data:     tintBytes(tint),
		OnSubmit: func() { p.tint = tint },
	}, true
}

// Destroy releases the pipeline and its quad.
func (p *Pipeline) Destroy() {
	if p.core == nil {
		return
	}
	p.quad.Destroy()
	p.group.Destroy()
	p.params.Destroy()
	p.core.Destroy()
	p.core = nil
}

var (
	_ render.Pipeline           = (*Pipeline)(nil)
	_ render.Preparer[g2d.Rgba] = (*Pipeline)(nil)
)
