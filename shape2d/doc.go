// Package shape2d tessellates lines, rectangles and circles into colored
// triangles and draws them.
//
// Tessellation is pure: Tessellate and Shape.AppendVertices only read the
// shape value. A Batch collects shapes, tessellates them (concurrently for
// large batches) and uploads one vertex buffer:
//
//	b := shape2d.NewBatch()
//	b.Add(
//		shape2d.NewLine(0, 0, 100, 100, shape2d.NewStroke(2, g2d.Red)),
//		shape2d.NewCircle(50, 50, 20, 32, shape2d.NoStroke, shape2d.Solid(g2d.Blue)),
//	)
//	vb, err := b.Finish(r.Device())
//
//	pipeline, err := shape2d.NewPipeline(r)
//	render.Prepare(frame, pipeline, g2d.Mat4Identity())
//	pass := frame.Pass(target, render.ClearTo(g2d.White))
//	pass.Apply(pipeline)
//	pass.Draw(vb)
//	pass.End()
//
// Gradient fills are not supported and panic.
package shape2d
