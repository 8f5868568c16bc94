package shape2d

import (
	"testing"

	"github.com/gogpu/g2d"
)

func manyShapes(n int) []Shape {
	shapes := make([]Shape, 0, n)
	for i := range n {
		x := float32(i % 97)
		y := float32(i / 97)
		switch i % 3 {
		case 0:
			shapes = append(shapes, NewLine(x, y, x+5, y+3, NewStroke(1, g2d.Red)))
		case 1:
			shapes = append(shapes, NewRectangle(x, y, x+8, y+6, NewStroke(1, g2d.Green), Solid(g2d.Blue)))
		default:
			shapes = append(shapes, NewCircle(x, y, 4, uint32(3+i%13), NewStroke(0.5, g2d.White), Solid(g2d.Black)))
		}
	}
	return shapes
}

func TestBatchParallelMatchesSerial(t *testing.T) {
	for _, n := range []int{1, parallelThreshold, parallelThreshold + 1, 3000} {
		shapes := manyShapes(n)
		b := NewBatch()
		b.Add(shapes...)

		got := b.Vertices()
		want := tessellate(nil, shapes)
		if len(got) != len(want) {
			t.Fatalf("n=%d: %d vertices, want %d", n, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("n=%d: vertex %d = %+v, want %+v", n, i, got[i], want[i])
			}
		}
	}
}

func TestBatchWorkerPanicPropagates(t *testing.T) {
	shapes := manyShapes(parallelThreshold * 2)
	shapes[len(shapes)-1] = NewCircle(0, 0, 1, 1, NoStroke, Solid(g2d.Red))
	b := NewBatch()
	b.Add(shapes...)
	mustPanic(t, "invalid circle in parallel batch", func() { b.Vertices() })
}

func TestBatchVerticesCached(t *testing.T) {
	b := NewBatch()
	b.Add(NewLine(0, 0, 1, 1, NewStroke(1, g2d.Red)))
	a := b.Vertices()
	if c := b.Vertices(); &a[0] != &c[0] {
		t.Error("Vertices recomputed without changes")
	}
	b.Add(NewLine(0, 0, 2, 2, NewStroke(1, g2d.Red)))
	if got := len(b.Vertices()); got != 12 {
		t.Errorf("after Add: %d vertices, want 12", got)
	}
}

func TestBatchLifecycle(t *testing.T) {
	d := newTestDevice(t)

	b := NewBatch()
	if !b.IsEmpty() {
		t.Fatal("new batch is not empty")
	}
	b.Add(
		NewLine(0, 0, 10, 0, NewStroke(2, g2d.Red)),
		NewRectangle(0, 0, 10, 10, NewStroke(2, g2d.Red), Solid(g2d.Blue)),
	)
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}

	vb, err := b.Finish(d)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	defer vb.Destroy()
	if vb.Count() != 36 {
		t.Errorf("vertex buffer holds %d vertices, want 36", vb.Count())
	}
	if vb.Size() != 36*VertexStride {
		t.Errorf("vertex buffer is %d bytes, want %d", vb.Size(), 36*VertexStride)
	}

	mustPanic(t, "Finish twice", func() { _, _ = b.Finish(d) })
	mustPanic(t, "Add after Finish", func() { b.Add(NewLine(0, 0, 1, 1, NoStroke)) })

	b.Clear()
	if !b.IsEmpty() || len(b.Vertices()) != 0 {
		t.Error("Clear left shapes behind")
	}
	b.Add(NewLine(0, 0, 1, 1, NewStroke(1, g2d.Red)))
	vb2, err := b.Finish(d)
	if err != nil {
		t.Fatalf("Finish after Clear: %v", err)
	}
	vb2.Destroy()
}
