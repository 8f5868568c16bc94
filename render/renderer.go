// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gputypes"
)

// Renderer is the entry point for drawing: it owns a Device reference, an
// optional SwapChain, the texture registry and the pipelines created
// through NewPipeline, and hands out one Frame at a time.
//
// A Renderer without a Surface is headless: it draws only into
// Framebuffers and its Size is the size it was created with.
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	device    *Device
	surface   Surface
	chain     *SwapChain
	textures  *TextureRegistry
	pipelines []Pipeline
	frame     *Frame
	w, h      uint32
}

// NewRenderer creates a renderer of size w x h. If surface is non-nil a
// swap chain is configured on it with the device's present mode.
func NewRenderer(d *Device, surface Surface, w, h uint32) (*Renderer, error) {
	r := &Renderer{
		device:   d,
		surface:  surface,
		textures: NewTextureRegistry(),
		w:        w,
		h:        h,
	}
	if surface != nil {
		chain, err := d.CreateSwapChain(surface, w, h, d.cfg.PresentMode)
		if err != nil {
			return nil, err
		}
		r.chain = chain
	}
	g2d.Logger().Info("render: renderer created",
		"width", w, "height", h, "headless", surface == nil, "format", d.cfg.Format)
	return r, nil
}

// Device returns the device the renderer draws with.
func (r *Renderer) Device() *Device { return r.device }

// Textures returns the renderer's texture registry.
func (r *Renderer) Textures() *TextureRegistry { return r.textures }

// SwapChain returns the current swap chain, or nil when headless.
func (r *Renderer) SwapChain() *SwapChain { return r.chain }

// Size returns the output size.
func (r *Renderer) Size() (uint32, uint32) { return r.w, r.h }

// Format returns the color format of the output and of pipelines built
// with NewPipeline.
func (r *Renderer) Format() gputypes.TextureFormat { return r.device.cfg.Format }

// Texture creates an empty texture in the output format.
func (r *Renderer) Texture(w, h uint32) (*Texture, error) {
	return r.device.CreateTexture(w, h)
}

// TextureFromImage uploads img as an RGBA texture.
func (r *Renderer) TextureFromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return r.device.CreateTextureFrom(rgba.Pix, uint32(b.Dx()), uint32(b.Dy())) //nolint:gosec // image sizes are non-negative
}

// Sampler creates a repeating sampler.
func (r *Renderer) Sampler(minFilter, magFilter Filter) (*Sampler, error) {
	return r.device.CreateSampler(minFilter, magFilter)
}

// Framebuffer creates an offscreen render target in the output format.
func (r *Renderer) Framebuffer(w, h uint32) (*Framebuffer, error) {
	return r.device.CreateFramebuffer(w, h)
}

// Frame starts a new frame. Only one frame may be open at a time; Frame
// panics if the previous one was neither submitted nor discarded.
func (r *Renderer) Frame() (*Frame, error) {
	if r.frame != nil {
		panic("render: previous frame was not submitted")
	}
	f, err := r.device.NewFrame()
	if err != nil {
		return nil, err
	}
	f.onClose = func() { r.frame = nil }
	r.frame = f
	return f, nil
}

// Prepare records ops into a frame of their own and submits it.
func (r *Renderer) Prepare(ops ...Op) error {
	f, err := r.Frame()
	if err != nil {
		return err
	}
	if err := f.Op(ops...); err != nil {
		f.Discard()
		return err
	}
	return f.Submit()
}

// Resize recreates the swap chain for the new size and resizes every
// pipeline created through NewPipeline. Swap chain textures acquired
// before the call become stale. If the new swap chain cannot be created
// the renderer keeps the old one and its size.
func (r *Renderer) Resize(w, h uint32) error {
	if w == r.w && h == r.h {
		return nil
	}
	if r.chain != nil {
		chain, err := r.device.CreateSwapChain(r.surface, w, h, r.chain.PresentMode())
		if err != nil {
			return fmt.Errorf("resize to %dx%d: %w", w, h, err)
		}
		r.chain.invalidate()
		r.chain = chain
	}
	r.w, r.h = w, h
	for _, p := range r.pipelines {
		p.Resize(w, h)
	}
	g2d.Logger().Debug("render: resized", "width", w, "height", h)
	return nil
}

// Wait blocks until every submitted frame has retired.
func (r *Renderer) Wait() { r.device.WaitIdle() }

// Close waits for submitted frames, then destroys registered textures,
// tracked pipelines and the swap chain. The device stays open.
func (r *Renderer) Close() {
	if r.frame != nil {
		r.frame.Discard()
	}
	r.device.WaitIdle()
	r.textures.Destroy()
	for _, p := range r.pipelines {
		p.Destroy()
	}
	r.pipelines = nil
	if r.chain != nil {
		r.chain.Destroy()
		r.chain = nil
	}
}

func (r *Renderer) track(p Pipeline) { r.pipelines = append(r.pipelines, p) }
