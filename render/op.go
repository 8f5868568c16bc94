package render

import (
	"fmt"
	"image"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row pitch alignment required for copies
// between buffers and textures.
const copyPitchAlignment = 256

// Op is a texture mutation recorded into a Frame outside any pass:
// Clear, Fill, Transfer or Blit.
type Op interface {
	validate()
	encode(f *Frame) error
}

// Clear sets every texel of Target to Color.
type Clear struct {
	Target OpTarget
	Color  g2d.Rgba8
}

// Fill replaces the whole content of Target. Pixels must hold exactly
// width*height texels in row-major order.
type Fill struct {
	Target OpTarget
	Pixels []g2d.Rgba8
}

// Transfer copies a Width x Height pixel buffer into the Dst rectangle of
// Target. Dst must have the buffer's size and lie inside the target.
type Transfer struct {
	Target OpTarget
	Pixels []g2d.Rgba8
	Width  uint32
	Height uint32
	Dst    image.Rectangle
}

// Blit copies the Src rectangle of Target onto its Dst rectangle. Both
// rectangles must lie inside the target and have equal sizes.
type Blit struct {
	Target OpTarget
	Src    image.Rectangle
	Dst    image.Rectangle
}

func opTexture(t OpTarget) *Texture {
	if t == nil {
		panic("render: op without target")
	}
	tex := t.texture()
	if tex.tex == nil {
		panic("render: op on destroyed texture")
	}
	return tex
}

func (o Clear) validate() { opTexture(o.Target) }

func (o Clear) encode(f *Frame) error {
	t := o.Target.texture()
	px := make([]g2d.Rgba8, int(t.w)*int(t.h))
	for i := range px {
		px[i] = o.Color
	}
	return f.upload(t, px, t.w, t.h, image.Point{})
}

func (o Fill) validate() {
	t := opTexture(o.Target)
	if want := int(t.w) * int(t.h); len(o.Pixels) != want {
		panic(fmt.Sprintf("render: fill of %dx%d texture with %d pixels, want %d", t.w, t.h, len(o.Pixels), want))
	}
}

func (o Fill) encode(f *Frame) error {
	t := o.Target.texture()
	return f.upload(t, o.Pixels, t.w, t.h, image.Point{})
}

func (o Transfer) validate() {
	t := opTexture(o.Target)
	if want := int(o.Width) * int(o.Height); len(o.Pixels) != want || want == 0 {
		panic(fmt.Sprintf("render: transfer of %dx%d pixels with %d pixels", o.Width, o.Height, len(o.Pixels)))
	}
	if o.Dst.Dx() != int(o.Width) || o.Dst.Dy() != int(o.Height) {
		panic(fmt.Sprintf("render: transfer destination %v does not match %dx%d", o.Dst, o.Width, o.Height))
	}
	if !o.Dst.In(t.Bounds()) {
		panic(fmt.Sprintf("render: transfer destination %v outside texture %v", o.Dst, t.Bounds()))
	}
}

func (o Transfer) encode(f *Frame) error {
	return f.upload(o.Target.texture(), o.Pixels, o.Width, o.Height, o.Dst.Min)
}

func (o Blit) validate() {
	t := opTexture(o.Target)
	if o.Src.Empty() || o.Src.Size() != o.Dst.Size() {
		panic(fmt.Sprintf("render: blit from %v to %v: sizes differ or are empty", o.Src, o.Dst))
	}
	if !o.Src.In(t.Bounds()) || !o.Dst.In(t.Bounds()) {
		panic(fmt.Sprintf("render: blit %v -> %v outside texture %v", o.Src, o.Dst, t.Bounds()))
	}
}

func (o Blit) encode(f *Frame) error {
	t := o.Target.texture()
	w, h := uint32(o.Src.Dx()), uint32(o.Src.Dy()) //nolint:gosec // validated non-empty
	pitch := alignedPitch(w)

	staging, err := f.stagingBuffer("blit_staging", uint64(pitch)*uint64(h),
		gputypes.BufferUsageCopySrc|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	layout := hal.ImageDataLayout{Offset: 0, BytesPerRow: pitch, RowsPerImage: h}
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	rest := t.restUsage()

	f.transition(t, rest, gputypes.TextureUsageCopySrc)
	f.encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: layout,
		TextureBase:  imageCopy(t, o.Src.Min),
		Size:         size,
	}})
	f.transition(t, gputypes.TextureUsageCopySrc, gputypes.TextureUsageCopyDst)
	f.encoder.CopyBufferToTexture(staging, t.tex, []hal.BufferTextureCopy{{
		BufferLayout: layout,
		TextureBase:  imageCopy(t, o.Dst.Min),
		Size:         size,
	}})
	f.transition(t, gputypes.TextureUsageCopyDst, rest)
	return nil
}

// upload stages a w x h pixel block and copies it into t at origin.
func (f *Frame) upload(t *Texture, px []g2d.Rgba8, w, h uint32, at image.Point) error {
	pitch := alignedPitch(w)
	data := packRows(px, w, h, pitch, isBGRA(t.format))

	staging, err := f.stagingData("upload_staging", data)
	if err != nil {
		return err
	}

	rest := t.restUsage()
	f.transition(t, rest, gputypes.TextureUsageCopyDst)
	f.encoder.CopyBufferToTexture(staging, t.tex, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: pitch, RowsPerImage: h},
		TextureBase:  imageCopy(t, at),
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	f.transition(t, gputypes.TextureUsageCopyDst, rest)
	return nil
}

func imageCopy(t *Texture, at image.Point) hal.ImageCopyTexture {
	return hal.ImageCopyTexture{
		Texture:  t.tex,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: uint32(at.X), Y: uint32(at.Y), Z: 0}, //nolint:gosec // validated inside bounds
		Aspect:   gputypes.TextureAspectAll,
	}
}

// alignedPitch returns the padded byte length of a row of w RGBA8 texels.
func alignedPitch(w uint32) uint32 {
	return (w*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// packRows lays pixels out with the given row pitch, swizzling to BGRA
// when the destination stores texels that way.
func packRows(px []g2d.Rgba8, w, h, pitch uint32, bgra bool) []byte {
	data := make([]byte, int(pitch)*int(h))
	for y := uint32(0); y < h; y++ {
		row := data[y*pitch:]
		for x := uint32(0); x < w; x++ {
			c := px[y*w+x]
			o := x * 4
			if bgra {
				row[o], row[o+1], row[o+2], row[o+3] = c.B, c.G, c.R, c.A
			} else {
				row[o], row[o+1], row[o+2], row[o+3] = c.R, c.G, c.B, c.A
			}
		}
	}
	return data
}

// unpackRows strips row padding and returns RGBA pixels.
func unpackRows(data []byte, w, h, pitch uint32, bgra bool) []g2d.Rgba8 {
	px := make([]g2d.Rgba8, 0, int(w)*int(h))
	for y := uint32(0); y < h; y++ {
		row := data[y*pitch:]
		for x := uint32(0); x < w; x++ {
			o := x * 4
			if bgra {
				px = append(px, g2d.Rgba8{R: row[o+2], G: row[o+1], B: row[o], A: row[o+3]})
			} else {
				px = append(px, g2d.Rgba8{R: row[o], G: row[o+1], B: row[o+2], A: row[o+3]})
			}
		}
	}
	return px
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}
