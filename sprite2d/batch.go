package sprite2d

import (
	"fmt"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/render"
)

// Batch accumulates sprites cut from one w x h texture and uploads them as
// one vertex buffer.
//
// A Batch is not safe for concurrent use. After Finish it is frozen until
// Clear.
type Batch struct {
	w, h     uint32
	sprites  []Sprite
	finished bool
}

// New returns an empty batch for a w x h texture.
func New(w, h uint32) *Batch {
	if w == 0 || h == 0 {
		panic(fmt.Sprintf("sprite2d: invalid texture size %dx%d", w, h))
	}
	return &Batch{w: w, h: h}
}

// Singleton returns a batch holding only s.
func Singleton(w, h uint32, s Sprite) *Batch {
	b := New(w, h)
	b.Add(s)
	return b
}

// TextureSize returns the size of the texture the batch samples.
func (b *Batch) TextureSize() (uint32, uint32) { return b.w, b.h }

func (b *Batch) mutable(what string) {
	if b.finished {
		panic("sprite2d: " + what + " on a finished batch")
	}
}

// Add appends a sprite. A non-default repeat is only valid when s.Src
// covers the whole texture; Add panics otherwise, and after Finish.
func (b *Batch) Add(s Sprite) {
	b.mutable("Add")
	if !s.Repeat.IsDefault() {
		if full := g2d.RectOrigin(float32(b.w), float32(b.h)); s.Src != full {
			panic(fmt.Sprintf("sprite2d: texture repeat is only valid when using the entire %dx%d texture", b.w, b.h))
		}
	}
	b.sprites = append(b.sprites, s)
}

// Len returns the number of sprites.
func (b *Batch) Len() int { return len(b.sprites) }

// IsEmpty reports whether the batch holds no sprites.
func (b *Batch) IsEmpty() bool { return len(b.sprites) == 0 }

// Sprites returns the sprites in Add order. The slice must not be modified.
func (b *Batch) Sprites() []Sprite { return b.sprites }

// Offset moves every sprite added so far by (dx, dy). It panics after
// Finish.
func (b *Batch) Offset(dx, dy float32) {
	b.mutable("Offset")
	for i := range b.sprites {
		b.sprites[i] = b.sprites[i].Offset(dx, dy)
	}
}

// Vertices returns six vertices per sprite, in Add order.
func (b *Batch) Vertices() []Vertex {
	tw, th := float32(b.w), float32(b.h)
	vs := make([]Vertex, 0, 6*len(b.sprites))
	for _, s := range b.sprites {
		vs = s.appendVertices(vs, tw, th)
	}
	return vs
}

// Finish uploads the batch as a vertex buffer. It panics if called twice
// without Clear in between.
func (b *Batch) Finish(d *render.Device) (*render.VertexBuffer, error) {
	if b.finished {
		panic("sprite2d: batch finished twice")
	}
	vs := b.Vertices()
	vb, err := d.CreateVertexBuffer(AppendBytes(make([]byte, 0, len(vs)*VertexStride), vs), VertexStride)
	if err != nil {
		return nil, fmt.Errorf("sprite2d: upload batch: %w", err)
	}
	b.finished = true
	return vb, nil
}

// Clear removes every sprite and makes the batch reusable.
func (b *Batch) Clear() {
	b.sprites = b.sprites[:0]
	b.finished = false
}
