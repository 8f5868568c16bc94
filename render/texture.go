package render

import (
	"fmt"
	"image"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is a 2D GPU texture together with its default view.
// It can be bound as a sampled texture and mutated with Ops.
type Texture struct {
	device *Device
	tex    hal.Texture
	view   hal.TextureView
	format gputypes.TextureFormat
	usage  gputypes.TextureUsage
	w, h   uint32
}

// Width returns the texture width in texels.
func (t *Texture) Width() uint32 { return t.w }

// Height returns the texture height in texels.
func (t *Texture) Height() uint32 { return t.h }

// Size returns the texture dimensions.
func (t *Texture) Size() (uint32, uint32) { return t.w, t.h }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Bounds returns the texel rectangle covered by the texture.
func (t *Texture) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(t.w), int(t.h))
}

// Rect returns the texture bounds as a float rectangle, as used for sprite
// source rectangles.
func (t *Texture) Rect() g2d.Rect {
	return g2d.RectOrigin(float32(t.w), float32(t.h))
}

// Destroy releases the texture and its view.
func (t *Texture) Destroy() {
	if t.tex == nil {
		return
	}
	t.device.lock()
	defer t.device.mu.Unlock()
	t.device.device.DestroyTextureView(t.view)
	t.device.device.DestroyTexture(t.tex)
	t.view, t.tex = nil, nil
}

func (t *Texture) texture() *Texture { return t }

// restUsage is the usage a texture returns to between copies.
func (t *Texture) restUsage() gputypes.TextureUsage {
	if t.usage&gputypes.TextureUsageRenderAttachment != 0 {
		return gputypes.TextureUsageRenderAttachment
	}
	return gputypes.TextureUsageTextureBinding
}

func (t *Texture) bindingType() BindingType { return BindingSampledTexture }

func (t *Texture) bindGroupEntry(binding uint32) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  binding,
		Resource: gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()},
	}
}

// CreateTexture creates an empty w x h texture in the device color format
// that can be sampled, rendered to, and copied in both directions.
func (d *Device) CreateTexture(w, h uint32) (*Texture, error) {
	return d.createTexture("texture", w, h, d.cfg.Format,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageRenderAttachment|
			gputypes.TextureUsageCopySrc|gputypes.TextureUsageCopyDst)
}

// CreateTextureFrom creates a w x h RGBA8 texture and uploads texels.
// It panics unless len(texels) == w*h*4.
func (d *Device) CreateTextureFrom(texels []byte, w, h uint32) (*Texture, error) {
	if uint64(len(texels)) != uint64(w)*uint64(h)*4 {
		panic(fmt.Sprintf("render: texel buffer has %d bytes, want %dx%dx4 = %d",
			len(texels), w, h, uint64(w)*uint64(h)*4))
	}
	t, err := d.createTexture("texture", w, h, gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}

	d.lock()
	defer d.mu.Unlock()
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		texels,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return t, nil
}

func (d *Device) createTexture(label string, w, h uint32, format gputypes.TextureFormat, usage gputypes.TextureUsage) (*Texture, error) {
	if w == 0 || h == 0 {
		panic(fmt.Sprintf("render: invalid texture size %dx%d", w, h))
	}

	d.lock()
	defer d.mu.Unlock()

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         d.label(label),
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         d.label(label + "_view"),
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}

	g2d.Logger().Debug("render: texture created", "label", label, "width", w, "height", h)
	return &Texture{device: d, tex: tex, view: view, format: format, usage: usage, w: w, h: h}, nil
}

// Filter selects texel filtering for a sampler.
type Filter uint8

const (
	// Nearest picks the closest texel.
	Nearest Filter = iota
	// Linear interpolates between texels.
	Linear
)

// String returns the filter name.
func (f Filter) String() string {
	if f == Linear {
		return "Linear"
	}
	return "Nearest"
}

func (f Filter) gpuFilter() gputypes.FilterMode {
	if f == Linear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// Sampler describes how textures are sampled. Samplers repeat on every
// axis so that sprite repeat factors tile the texture.
type Sampler struct {
	device *Device
	s      hal.Sampler
}

// CreateSampler creates a repeating sampler with the given filters.
func (d *Device) CreateSampler(minFilter, magFilter Filter) (*Sampler, error) {
	d.lock()
	defer d.mu.Unlock()

	s, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        d.label("sampler"),
		AddressModeU: gputypes.AddressModeRepeat,
		AddressModeV: gputypes.AddressModeRepeat,
		AddressModeW: gputypes.AddressModeRepeat,
		MagFilter:    magFilter.gpuFilter(),
		MinFilter:    minFilter.gpuFilter(),
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	return &Sampler{device: d, s: s}, nil
}

// Destroy releases the sampler.
func (s *Sampler) Destroy() {
	if s.s == nil {
		return
	}
	s.device.lock()
	defer s.device.mu.Unlock()
	s.device.device.DestroySampler(s.s)
	s.s = nil
}

func (s *Sampler) bindingType() BindingType { return BindingSampler }

func (s *Sampler) bindGroupEntry(binding uint32) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  binding,
		Resource: gputypes.SamplerBinding{Sampler: s.s.NativeHandle()},
	}
}
