// Package g2d is a 2D rendering core on top of the pure Go WebGPU HAL.
//
// # Overview
//
// g2d turns declarative shapes (lines, rectangles, circles) and sprite
// placements into GPU vertex data and draws them through a small,
// explicit object model: a Device mints resources, pipelines bind them
// into passes, a Frame records passes and submits them, and a SwapChain
// presents the result. Higher layers never touch the native API.
//
// # Packages
//
//   - g2d: colors, points, rectangles, matrices, sprite placement kit,
//     Animation and the package logger
//   - render: Device, resources, binding groups, Frame, Pass, Op,
//     SwapChain, Framebuffer, Readback, TextureRegistry and Renderer
//   - shader: the built-in WGSL programs compiled to SPIR-V
//   - shape2d: the shape tessellator, shape batches and shape pipeline
//   - sprite2d: sprite batches and the sprite pipeline
//   - post: draws a framebuffer over a target
//
// # Quick Start
//
//	dev, err := render.NewDevice()
//	r, err := render.NewRenderer(dev, surface, 800, 600)
//	pipeline, err := shape2d.NewPipeline(r)
//
//	b := shape2d.NewBatch()
//	b.Add(shape2d.NewCircle(400, 300, 100, 64, shape2d.NewStroke(4, g2d.White), shape2d.Solid(g2d.Blue)))
//	vb, err := b.Finish(dev)
//
//	frame, err := r.Frame()
//	render.Prepare(frame, pipeline, g2d.Mat4Identity())
//	img, err := r.SwapChain().Next()
//	pass := frame.Pass(img, render.ClearTo(g2d.Black))
//	pass.Apply(pipeline)
//	pass.Draw(vb)
//	pass.End()
//	err = frame.Submit()
//	err = img.Present()
//
// # Coordinates
//
// Positions are in pixels with the origin at the top-left corner and y
// growing downwards. Colors are straight alpha on input; shaders output
// premultiplied color and blend with premultiplied alpha.
//
// # Logging
//
// The library is silent by default. Pass a *slog.Logger to SetLogger to
// see device, pipeline and frame diagnostics.
package g2d
