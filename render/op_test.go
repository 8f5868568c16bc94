package render

import (
	"image"
	"testing"

	"github.com/gogpu/g2d"
)

func TestOpsEncode(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	tex, err := r.Texture(8, 8)
	if err != nil {
		t.Fatalf("Texture: %v", err)
	}
	defer tex.Destroy()

	px := make([]g2d.Rgba8, 64)
	for i := range px {
		px[i] = g2d.Rgba8{R: uint8(i), A: 255}
	}
	err = r.Prepare(
		Clear{Target: tex, Color: g2d.White.Rgba8()},
		Fill{Target: tex, Pixels: px},
		Transfer{Target: tex, Pixels: px[:6], Width: 3, Height: 2, Dst: image.Rect(4, 4, 7, 6)},
		Blit{Target: tex, Src: image.Rect(0, 0, 4, 4), Dst: image.Rect(4, 4, 8, 8)},
	)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	r.Wait()
}

func TestOpsValidation(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	tex, err := r.Texture(8, 8)
	if err != nil {
		t.Fatalf("Texture: %v", err)
	}
	defer tex.Destroy()

	tests := []struct {
		name string
		op   Op
	}{
		{"fill short", Fill{Target: tex, Pixels: make([]g2d.Rgba8, 63)}},
		{"fill long", Fill{Target: tex, Pixels: make([]g2d.Rgba8, 65)}},
		{"transfer length", Transfer{Target: tex, Pixels: make([]g2d.Rgba8, 5), Width: 3, Height: 2, Dst: image.Rect(0, 0, 3, 2)}},
		{"transfer rect size", Transfer{Target: tex, Pixels: make([]g2d.Rgba8, 6), Width: 3, Height: 2, Dst: image.Rect(0, 0, 2, 3)}},
		{"transfer outside", Transfer{Target: tex, Pixels: make([]g2d.Rgba8, 6), Width: 3, Height: 2, Dst: image.Rect(6, 0, 9, 2)}},
		{"blit size mismatch", Blit{Target: tex, Src: image.Rect(0, 0, 2, 2), Dst: image.Rect(0, 0, 3, 3)}},
		{"blit outside", Blit{Target: tex, Src: image.Rect(0, 0, 2, 2), Dst: image.Rect(7, 7, 9, 9)}},
		{"blit empty", Blit{Target: tex}},
		{"no target", Clear{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := r.Frame()
			if err != nil {
				t.Fatalf("Frame: %v", err)
			}
			defer f.Discard()
			mustPanic(t, tt.name, func() { _ = f.Op(tt.op) })
		})
	}
}

func TestOpOnDestroyedTexture(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	tex, err := r.Texture(4, 4)
	if err != nil {
		t.Fatalf("Texture: %v", err)
	}
	tex.Destroy()
	tex.Destroy() // idempotent

	f, err := r.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	defer f.Discard()
	mustPanic(t, "destroyed", func() { _ = f.Op(Clear{Target: tex}) })
}

func TestPackUnpackRows(t *testing.T) {
	px := []g2d.Rgba8{
		{R: 1, G: 2, B: 3, A: 4}, {R: 5, G: 6, B: 7, A: 8},
		{R: 9, G: 10, B: 11, A: 12}, {R: 13, G: 14, B: 15, A: 16},
	}
	for _, bgra := range []bool{false, true} {
		pitch := alignedPitch(2)
		if pitch != 256 {
			t.Fatalf("alignedPitch(2) = %d, want 256", pitch)
		}
		data := packRows(px, 2, 2, pitch, bgra)
		if len(data) != 512 {
			t.Fatalf("packed length = %d, want 512", len(data))
		}
		if bgra && data[0] != 3 {
			t.Errorf("bgra first byte = %d, want blue 3", data[0])
		}
		if !bgra && data[256] != 9 {
			t.Errorf("second row first byte = %d, want 9", data[256])
		}
		got := unpackRows(data, 2, 2, pitch, bgra)
		for i := range px {
			if got[i] != px[i] {
				t.Errorf("bgra=%v pixel %d = %v, want %v", bgra, i, got[i], px[i])
			}
		}
	}
}

func TestAlignedPitch(t *testing.T) {
	tests := []struct{ w, want uint32 }{
		{1, 256},
		{64, 256},
		{65, 512},
		{128, 512},
	}
	for _, tt := range tests {
		if got := alignedPitch(tt.w); got != tt.want {
			t.Errorf("alignedPitch(%d) = %d, want %d", tt.w, got, tt.want)
		}
	}
}
