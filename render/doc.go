// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is a thin resource and command layer over the gogpu HAL.
//
// # Resources
//
// A Device opens a graphics adapter, or adopts one owned by the host
// application, and mints every resource: textures, samplers, vertex,
// index and uniform buffers, binding group layouts and groups, pipelines,
// framebuffers and swap chains. Creation is synchronous; resources are
// released with Destroy.
//
// # Pipelines
//
// A PipelineDescription names the vertex layout, the binding groups and
// the compiled shader stages. Concrete pipelines wrap the compiled
// RenderPipeline and implement the Pipeline interface:
//
//	type myPipeline struct{ core *render.RenderPipeline; globals *render.BindingGroup }
//
//	func (p *myPipeline) Apply(pass *render.Pass) {
//		pass.SetPipeline(p.core)
//		pass.SetBinding(p.globals)
//	}
//
// # Frames
//
// Work is recorded into a Frame and executes in call order:
//
//	f, _ := r.Frame()
//	render.Prepare(f, pipeline, transform) // uniform uploads
//	f.Op(render.Clear{Target: tex, Color: g2d.White.Rgba8()})
//	pass := f.Pass(fb, render.ClearTo(g2d.Black))
//	pass.Apply(pipeline)
//	pass.Draw(vertices, textureGroup)
//	pass.End()
//	rb := f.Readback(fb)
//	_ = f.Submit()
//	pixels, err := rb.Wait(ctx)
//
// Submit does not block. Readbacks resolve on a background goroutine once
// the GPU has finished the frame.
//
// Contract violations, such as recording into a submitted frame, drawing
// into a stale swap chain texture or binding a resource of the wrong type,
// panic. Environment failures are returned as errors wrapping the
// sentinels in errors.go.
package render
