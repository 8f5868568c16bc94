package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // texture files
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp" // texture files

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/post"
	"github.com/gogpu/g2d/render"
	"github.com/gogpu/g2d/shape2d"
	"github.com/gogpu/g2d/sprite2d"
)

// shot renders scenes through one renderer. Shapes and sprites are drawn
// into an offscreen framebuffer, which is read back and also shown on the
// renderer's swap chain through the post pipeline.
type shot struct {
	r        *render.Renderer
	shapes   *shape2d.Pipeline
	sprites  *sprite2d.Pipeline
	post     *post.Pipeline
	sampler  *render.Sampler
	resident []*render.BindingGroup
	buffers  []*render.VertexBuffer
}

func newShot(r *render.Renderer) (*shot, error) {
	s := &shot{r: r}
	var err error
	if s.shapes, err = shape2d.NewPipeline(r); err != nil {
		return nil, err
	}
	if s.sprites, err = sprite2d.NewPipeline(r); err != nil {
		return nil, err
	}
	if s.post, err = post.NewPipeline(r); err != nil {
		return nil, err
	}
	if s.sampler, err = r.Sampler(render.Nearest, render.Nearest); err != nil {
		return nil, err
	}
	return s, nil
}

// release frees per-scene resources. Pipelines belong to the renderer.
func (s *shot) release() {
	for _, g := range s.resident {
		g.Destroy()
	}
	for _, vb := range s.buffers {
		vb.Destroy()
	}
	s.resident, s.buffers = nil, nil
}

func (s *shot) close() {
	s.release()
	s.sampler.Destroy()
}

// loadTextures registers every scene texture under its name.
func (s *shot) loadTextures(sc *Scene, dir string) error {
	reg := s.r.Textures()
	for name, file := range sc.Textures {
		if _, ok := reg.Lookup(name); ok {
			continue
		}
		img, err := decodeImage(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("texture %s: %w", name, err)
		}
		tex, err := s.r.TextureFromImage(img)
		if err != nil {
			return fmt.Errorf("texture %s: %w", name, err)
		}
		reg.Register(name, tex)
		g2d.Logger().Debug("g2dshot: texture loaded", "name", name, "file", file, "size", img.Bounds().Size())
	}
	return nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from the scene file
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// spriteRun is a batch of consecutive sprites sharing a texture.
type spriteRun struct {
	vb      *render.VertexBuffer
	binding *render.BindingGroup
}

func (s *shot) spriteRuns(sc *Scene) ([]spriteRun, error) {
	var (
		runs  []spriteRun
		batch *sprite2d.Batch
		tex   *render.Texture
	)
	flush := func() error {
		if batch == nil || batch.IsEmpty() {
			return nil
		}
		vb, err := batch.Finish(s.r.Device())
		if err != nil {
			return err
		}
		s.buffers = append(s.buffers, vb)
		binding, err := s.sprites.Binding(tex, s.sampler)
		if err != nil {
			return err
		}
		s.resident = append(s.resident, binding)
		runs = append(runs, spriteRun{vb: vb, binding: binding})
		return nil
	}

	reg := s.r.Textures()
	for i, spec := range sc.Sprites {
		id, ok := reg.Lookup(spec.Texture)
		if !ok {
			return nil, fmt.Errorf("sprite %d: unknown texture %q", i, spec.Texture)
		}
		t, _ := reg.Get(id)
		sp, err := spec.sprite(sc.Time)
		if err != nil {
			return nil, fmt.Errorf("sprite %d: %w", i, err)
		}
		if t != tex {
			if err := flush(); err != nil {
				return nil, err
			}
			tex = t
			batch = sprite2d.New(t.Width(), t.Height())
		}
		if !sp.Repeat.IsDefault() && sp.Src != g2d.RectOrigin(float32(t.Width()), float32(t.Height())) {
			return nil, fmt.Errorf("sprite %d: repeat needs the whole %dx%d texture as src", i, t.Width(), t.Height())
		}
		batch.Add(sp)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return runs, nil
}

// render draws sc and returns the framebuffer contents.
func (s *shot) render(ctx context.Context, sc *Scene, dir string) (*image.RGBA, error) {
	defer s.release()

	bg, err := sc.BackgroundColor()
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	shapes, err := sc.Build()
	if err != nil {
		return nil, err
	}
	if err := s.loadTextures(sc, dir); err != nil {
		return nil, err
	}
	runs, err := s.spriteRuns(sc)
	if err != nil {
		return nil, err
	}

	var shapeVB *render.VertexBuffer
	if len(shapes) > 0 {
		b := shape2d.NewBatch()
		b.Add(shapes...)
		if shapeVB, err = b.Finish(s.r.Device()); err != nil {
			return nil, err
		}
		s.buffers = append(s.buffers, shapeVB)
	}

	w, h := s.r.Size()
	fb, err := s.r.Framebuffer(w, h)
	if err != nil {
		return nil, err
	}
	defer fb.Destroy()
	source, err := s.post.Binding(fb, s.sampler)
	if err != nil {
		return nil, err
	}
	s.resident = append(s.resident, source)

	f, err := s.r.Frame()
	if err != nil {
		return nil, err
	}
	identity := g2d.Mat4Identity()
	render.Prepare(f, s.shapes, identity)
	render.Prepare(f, s.sprites, identity)
	render.Prepare(f, s.post, g2d.White)

	pass := f.Pass(fb, render.ClearTo(bg))
	if shapeVB != nil {
		pass.Apply(s.shapes)
		pass.Draw(shapeVB)
	}
	if len(runs) > 0 {
		pass.Apply(s.sprites)
		for _, run := range runs {
			pass.Draw(run.vb, run.binding)
		}
	}
	pass.End()

	var present *render.SwapChainTexture
	if chain := s.r.SwapChain(); chain != nil {
		if present, err = chain.Next(); err != nil {
			f.Discard()
			return nil, err
		}
		pass := f.Pass(present, render.ClearTo(g2d.Black))
		pass.Apply(s.post)
		s.post.Draw(pass, source)
		pass.End()
	}

	rb := f.Readback(fb)
	if err := f.Submit(); err != nil {
		return nil, err
	}
	if present != nil {
		if err := present.Present(); err != nil {
			g2d.Logger().Warn("g2dshot: present failed", "err", err)
		}
	}

	px, err := rb.Wait(ctx)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	if copy(img.Pix, g2d.Rgba8sToBytes(px)) != len(img.Pix) {
		return nil, errors.New("short readback")
	}
	g2d.Logger().Info("g2dshot: scene rendered",
		"width", w, "height", h, "shapes", len(shapes), "sprite batches", len(runs))
	return img, nil
}
