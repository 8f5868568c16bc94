// Package sprite2d draws textured quads cut from a single texture.
//
// A Batch is created for the size of the texture it samples. Each Sprite
// names a texel crop of that texture and a Transform placing it on the
// target:
//
//	b := sprite2d.New(tex.Width(), tex.Height())
//	b.Add(sprite2d.FromRect(g2d.NewRect(0, 0, 16, 16), g2d.NewRect(100, 100, 132, 132)))
//	vb, err := b.Finish(r.Device())
//
//	pipeline, err := sprite2d.NewPipeline(r)
//	texBinding, err := pipeline.Binding(tex, sampler)
//	pass.Apply(pipeline)
//	pass.Draw(vb, texBinding)
//
// There is no depth buffer: sprites are drawn in Add order and Depth only
// sets the clip-space z of the vertices.
package sprite2d
