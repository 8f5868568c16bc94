package shape2d

import (
	"fmt"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/render"
	"github.com/gogpu/g2d/shader"
	"golang.org/x/image/math/f32"
)

// uniformSize holds the projection and the transform matrices.
const uniformSize = 2 * g2d.Mat4Size

// Pipeline draws shape batches. Its single binding group holds the
// projection for the current target size and a per-frame transform.
type Pipeline struct {
	core    *render.RenderPipeline
	globals *render.UniformBuffer
	binding *render.BindingGroup
	ortho   f32.Mat4
}

// Description returns the pipeline description with compiled shaders.
func Description() (render.PipelineDescription, error) {
	vs, fs, err := shader.Compile(shader.Shape)
	if err != nil {
		return render.PipelineDescription{}, err
	}
	return render.PipelineDescription{
		Label:        "shape2d",
		VertexLayout: VertexLayout,
		Layout: []render.Set{
			{{Type: render.BindingUniformBuffer, Stage: render.StageVertex}},
		},
		Vertex:   vs,
		Fragment: fs,
	}, nil
}

// NewPipeline compiles the shape pipeline for r.
func NewPipeline(r *render.Renderer) (*Pipeline, error) {
	desc, err := Description()
	if err != nil {
		return nil, err
	}
	return render.NewPipeline[*Pipeline](r, desc, Setup)
}

// Setup creates the uniform buffer with an identity transform and binds
// it. It is the render.Setup of the shape pipeline.
func Setup(core *render.RenderPipeline, dev *render.Device, w, h uint32) (*Pipeline, error) {
	ortho := g2d.Ortho(w, h)
	globals, err := dev.CreateUniformBuffer(uniforms(ortho, g2d.Mat4Identity()))
	if err != nil {
		return nil, fmt.Errorf("shape2d: %w", err)
	}
	binding, err := dev.CreateBindingGroup(core.Set(0), globals)
	if err != nil {
		globals.Destroy()
		return nil, fmt.Errorf("shape2d: %w", err)
	}
	return &Pipeline{core: core, globals: globals, binding: binding, ortho: ortho}, nil
}

func uniforms(ortho, transform f32.Mat4) []byte {
	buf := make([]byte, 0, uniformSize)
	buf = g2d.AppendMat4(buf, ortho)
	return g2d.AppendMat4(buf, transform)
}

// Apply binds the pipeline and its uniforms.
func (p *Pipeline) Apply(pass *render.Pass) {
	pass.SetPipeline(p.core)
	pass.SetBinding(p.binding)
}

// Resize updates the projection for a w x h target. It takes effect with
// the next Prepare.
func (p *Pipeline) Resize(w, h uint32) {
	p.ortho = g2d.Ortho(w, h)
}

// Prepare returns the uniform upload for transform.
func (p *Pipeline) Prepare(transform f32.Mat4) (render.UniformUpdate, bool) {
	return render.UniformUpdate{Buffer: p.globals, Data: uniforms(p.ortho, transform)}, true
}

// Destroy releases the pipeline and its uniforms.
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
