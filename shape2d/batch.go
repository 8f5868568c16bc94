package shape2d

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/render"
)

// parallelThreshold is the shape count above which Vertices tessellates
// on several goroutines.
const parallelThreshold = 512

// Batch accumulates shapes and uploads their triangles as one vertex
// buffer.
//
// A Batch is not safe for concurrent use. After Finish it is frozen until
// Clear.
type Batch struct {
	shapes   []Shape
	verts    []Vertex
	dirty    bool
	finished bool
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Add appends shapes. It panics after Finish.
func (b *Batch) Add(shapes ...Shape) {
	if b.finished {
		panic("shape2d: Add on a finished batch")
	}
	b.shapes = append(b.shapes, shapes...)
	b.dirty = true
}

// Len returns the number of shapes.
func (b *Batch) Len() int { return len(b.shapes) }

// IsEmpty reports whether the batch holds no shapes.
func (b *Batch) IsEmpty() bool { return len(b.shapes) == 0 }

// Vertices returns the triangles of every shape, in Add order. The result
// is cached until the next Add or Clear.
func (b *Batch) Vertices() []Vertex {
	if !b.dirty && b.verts != nil {
		return b.verts
	}
	if len(b.shapes) > parallelThreshold {
		b.verts = tessellateParallel(b.shapes)
	} else {
		b.verts = tessellate(nil, b.shapes)
	}
	b.dirty = false
	return b.verts
}

func tessellate(dst []Vertex, shapes []Shape) []Vertex {
	if dst == nil {
		n := 0
		for _, s := range shapes {
			n += s.VertexCount()
		}
		dst = make([]Vertex, 0, n)
	}
	for _, s := range shapes {
		dst = s.AppendVertices(dst)
	}
	return dst
}

// shapePanic carries a panic out of a tessellation worker.
type shapePanic struct{ value any }

func (p shapePanic) Error() string { return fmt.Sprint(p.value) }

// tessellateParallel splits shapes into contiguous chunks, tessellates
// them concurrently and concatenates the results in order. A panic in a
// worker is re-raised on the calling goroutine.
func tessellateParallel(shapes []Shape) []Vertex {
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(shapes) + workers - 1) / workers
	parts := make([][]Vertex, 0, workers)
	for start := 0; start < len(shapes); start += chunk {
		parts = append(parts, nil)
	}

	var g errgroup.Group
	for i := range parts {
		start := i * chunk
		end := min(start+chunk, len(shapes))
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = shapePanic{r}
				}
			}()
			parts[i] = tessellate(nil, shapes[start:end])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if p, ok := err.(shapePanic); ok {
			panic(p.value)
		}
		panic(err)
	}

	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Vertex, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	g2d.Logger().Debug("shape2d: parallel tessellation", "shapes", len(shapes), "workers", len(parts), "vertices", n)
	return out
}

// Finish uploads the batch as a vertex buffer. It panics if called twice
// without Clear in between.
func (b *Batch) Finish(d *render.Device) (*render.VertexBuffer, error) {
	if b.finished {
		panic("shape2d: batch finished twice")
	}
	data := AppendBytes(make([]byte, 0, len(b.Vertices())*VertexStride), b.Vertices())
	vb, err := d.CreateVertexBuffer(data, VertexStride)
	if err != nil {
		return nil, fmt.Errorf("shape2d: upload batch: %w", err)
	}
	b.finished = true
	return vb, nil
}

// Clear removes every shape and makes the batch reusable.
func (b *Batch) Clear() {
	b.shapes = b.shapes[:0]
	b.verts = nil
	b.dirty = false
	b.finished = false
}
