// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RenderTarget is a color attachment a Pass can draw into: a Framebuffer
// or a SwapChainTexture.
type RenderTarget interface {
	// Size returns the target dimensions in pixels.
	Size() (uint32, uint32)

	// Format returns the target color format.
	Format() gputypes.TextureFormat

	// colorView returns the view to attach. It panics if the target is
	// no longer valid.
	colorView() hal.TextureView
}

// OpTarget is a texture Ops can mutate: a *Texture or a *Framebuffer.
type OpTarget interface {
	texture() *Texture
}

var (
	_ RenderTarget = (*Framebuffer)(nil)
	_ RenderTarget = (*SwapChainTexture)(nil)
	_ OpTarget     = (*Texture)(nil)
	_ OpTarget     = (*Framebuffer)(nil)
	_ Bindable     = (*Texture)(nil)
	_ Bindable     = (*Framebuffer)(nil)
	_ Bindable     = (*Sampler)(nil)
	_ Bindable     = (*UniformBuffer)(nil)
)
