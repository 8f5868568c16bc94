package render

import (
	"fmt"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// LoadOp decides what a pass does with the target's previous contents.
type LoadOp struct {
	clear bool
	color g2d.Rgba
}

// Load keeps the previous contents of the target.
var Load = LoadOp{}

// ClearTo clears the target to c before drawing.
func ClearTo(c g2d.Rgba) LoadOp {
	return LoadOp{clear: true, color: c}
}

// IsClear reports whether the pass clears its target, and to which color.
func (l LoadOp) IsClear() (g2d.Rgba, bool) { return l.color, l.clear }

// Pass records draw commands into one render target. It is obtained from
// Frame.Pass and must be ended with End before the frame continues.
type Pass struct {
	frame  *Frame
	rp     hal.RenderPassEncoder
	target   RenderTarget
	pipeline *RenderPipeline
	ended    bool
}

// Target returns the render target the pass draws into.
func (p *Pass) Target() RenderTarget { return p.target }

func (p *Pass) live() {
	if p.ended {
		panic("render: command recorded on an ended pass")
	}
}

// SetPipeline binds a compiled pipeline. Concrete pipelines call it from
// Apply.
func (p *Pass) SetPipeline(rp *RenderPipeline) {
	p.live()
	if rp == nil || rp.pipeline == nil {
		panic("render: binding a destroyed pipeline")
	}
	if tf := p.target.Format(); tf != rp.format {
		panic(fmt.Sprintf("render: pipeline format %v does not match target format %v", rp.format, tf))
	}
	p.rp.SetPipeline(rp.pipeline)
	p.pipeline = rp
}

// bound returns the pipeline set on the pass. It panics if there is none.
func (p *Pass) bound() *RenderPipeline {
	if p.pipeline == nil {
		panic("render: draw without a pipeline")
	}
	return p.pipeline
}

// checkVertices panics unless vb was built for the bound pipeline's
// vertex layout.
func (p *Pass) checkVertices(vb *VertexBuffer) {
	rp := p.bound()
	if vb != nil && vb.stride != rp.vertex.Stride {
		panic(fmt.Sprintf("render: vertex stride %d does not match pipeline %s stride %d",
			vb.stride, rp.label, rp.vertex.Stride))
	}
}

// SetBinding binds g at its group index.
func (p *Pass) SetBinding(g *BindingGroup) {
	p.live()
	if g == nil || g.group == nil {
		panic("render: binding a destroyed binding group")
	}
	p.rp.SetBindGroup(g.index, g.group, nil)
}

// SetVertexBuffer binds vertex data at slot 0.
func (p *Pass) SetVertexBuffer(vb *VertexBuffer) {
	p.live()
	if vb == nil || vb.buf == nil {
		panic("render: drawing a destroyed vertex buffer")
	}
	p.rp.SetVertexBuffer(0, vb.buf, 0)
}

// SetIndexBuffer binds 16-bit indices.
func (p *Pass) SetIndexBuffer(ib *IndexBuffer) {
	p.live()
	if ib == nil || ib.buf == nil {
		panic("render: drawing a destroyed index buffer")
	}
	p.rp.SetIndexBuffer(ib.buf, gputypes.IndexFormatUint16, 0)
}

// Apply binds pl and its persistent binding groups.
func (p *Pass) Apply(pl Pipeline) {
	p.live()
	pl.Apply(p)
}

// Draw draws every vertex of vb. If bindings are given they are bound
// first, typically a per-batch texture group. It panics if no pipeline
// is bound or if vb's stride differs from the pipeline's vertex layout.
func (p *Pass) Draw(vb *VertexBuffer, bindings ...*BindingGroup) {
	p.live()
	p.checkVertices(vb)
	for _, g := range bindings {
		p.SetBinding(g)
	}
	p.SetVertexBuffer(vb)
	if vb.count == 0 {
		return
	}
	p.rp.Draw(vb.count, 1, 0, 0)
}

// DrawBuffer draws count vertices of the bound vertex buffer starting at
// first.
func (p *Pass) DrawBuffer(first, count uint32) {
	p.live()
	p.bound()
	p.rp.Draw(count, 1, first, 0)
}

// DrawIndexed draws ib over vb.
func (p *Pass) DrawIndexed(vb *VertexBuffer, ib *IndexBuffer) {
	p.live()
	p.checkVertices(vb)
	p.SetVertexBuffer(vb)
	p.SetIndexBuffer(ib)
	p.rp.DrawIndexed(ib.count, 1, 0, 0, 0)
}

// End closes the pass. Further commands on it panic.
func (p *Pass) End() {
	p.live()
	p.ended = true
	p.frame.endPass(p)
}
