package sprite2d

import (
	"fmt"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/render"
	"github.com/gogpu/g2d/shader"
	"golang.org/x/image/math/f32"
)

const uniformSize = 2 * g2d.Mat4Size

// Pipeline draws sprite batches. Group 0 holds the projection and a
// transform; group 1, created per texture with Binding, holds the texture
// and its sampler.
type Pipeline struct {
	core    *render.RenderPipeline
	device  *render.Device
	globals *render.UniformBuffer
	binding *render.BindingGroup
	ortho   f32.Mat4
}

// Description returns the pipeline description with compiled shaders.
func Description() (render.PipelineDescription, error) {
	vs, fs, err := shader.Compile(shader.Sprite)
	if err != nil {
		return render.PipelineDescription{}, err
	}
	return render.PipelineDescription{
		Label:        "sprite2d",
		VertexLayout: VertexLayout,
		Layout: []render.Set{
			{{Type: render.BindingUniformBuffer, Stage: render.StageVertex}},
			{
				{Type: render.BindingSampledTexture, Stage: render.StageFragment},
				{Type: render.BindingSampler, Stage: render.StageFragment},
			},
		},
		Vertex:   vs,
		Fragment: fs,
	}, nil
}

// NewPipeline compiles the sprite pipeline for r.
func NewPipeline(r *render.Renderer) (*Pipeline, error) {
	desc, err := Description()
	if err != nil {
		return nil, err
	}
	return render.NewPipeline[*Pipeline](r, desc, Setup)
}

// Setup is the render.Setup of the sprite pipeline.
func Setup(core *render.RenderPipeline, dev *render.Device, w, h uint32) (*Pipeline, error) {
	ortho := g2d.Ortho(w, h)
	globals, err := dev.CreateUniformBuffer(uniforms(ortho, g2d.Mat4Identity()))
	if err != nil {
		return nil, fmt.Errorf("sprite2d: %w", err)
	}
	binding, err := dev.CreateBindingGroup(core.Set(0), globals)
	if err != nil {
		globals.Destroy()
		return nil, fmt.Errorf("sprite2d: %w", err)
	}
	return &Pipeline{core: core, device: dev, globals: globals, binding: binding, ortho: ortho}, nil
}

func uniforms(ortho, transform f32.Mat4) []byte {
	return g2d.AppendMat4(g2d.AppendMat4(make([]byte, 0, uniformSize), ortho), transform)
}

// Binding creates the texture binding group for batches sampling tex.
// Pass it to render.Pass.Draw together with the batch.
func (p *Pipeline) Binding(tex *render.Texture, sampler *render.Sampler) (*render.BindingGroup, error) {
	return p.device.CreateBindingGroup(p.core.Set(1), tex, sampler)
}

// Apply binds the pipeline and its uniforms.
func (p *Pipeline) Apply(pass *render.Pass) {
	pass.SetPipeline(p.core)
	pass.SetBinding(p.binding)
}

// Resize updates the projection for a w x h target.
func (p *Pipeline) Resize(w, h uint32) { p.ortho = g2d.Ortho(w, h) }

// Prepare returns the uniform upload for transform.
func (p *Pipeline) Prepare(transform f32.Mat4) (render.UniformUpdate, bool) {
	return render.UniformUpdate{Buffer: p.globals, Data: uniforms(p.ortho, transform)}, true
}

// Destroy releases the pipeline. Binding groups returned by Binding are
// owned by the caller.
func (p *Pipeline) Destroy() {
	if p.core == nil {
		return
	}
	p.binding.Destroy()
	p.globals.Destroy()
	p.core.Destroy()
	p.core = nil
}

var (
	_ render.Pipeline           = (*Pipeline)(nil)
	_ render.Preparer[f32.Mat4] = (*Pipeline)(nil)
)
