// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// SurfaceConfig is the presentation configuration handed to a Surface.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	PresentMode PresentMode
}

// Surface is a presentable image source, usually a window. A windowing
// integration implements it on top of its platform surface; the package
// ships OffscreenSurface for headless rendering.
type Surface interface {
	// Configure (re)creates the presentable images.
	Configure(device hal.Device, cfg SurfaceConfig) error

	// Acquire returns the view of the next image to draw into. An error
	// wrapping ErrSurfaceLost asks the caller to resize and retry.
	Acquire() (hal.TextureView, error)

	// Present shows the acquired image.
	Present() error

	// Unconfigure releases the presentable images.
	Unconfigure()
}

// SwapChain presents frames to a Surface. It is recreated by
// Renderer.Resize; textures acquired from a replaced swap chain are stale
// and panic when used.
type SwapChain struct {
	device  *Device
	surface Surface
	cfg     SurfaceConfig
	stale   bool
	current *SwapChainTexture
}

// CreateSwapChain configures surface for w x h images in the device color
// format.
func (d *Device) CreateSwapChain(surface Surface, w, h uint32, mode PresentMode) (*SwapChain, error) {
	if w == 0 || h == 0 {
		panic(fmt.Sprintf("render: invalid swap chain size %dx%d", w, h))
	}
	cfg := SurfaceConfig{Width: w, Height: h, Format: d.cfg.Format, PresentMode: mode}

	d.lock()
	defer d.mu.Unlock()
	if err := surface.Configure(d.device, cfg); err != nil {
		return nil, fmt.Errorf("configure surface: %w", err)
	}
	g2d.Logger().Debug("render: swap chain created", "width", w, "height", h, "present", mode)
	return &SwapChain{device: d, surface: surface, cfg: cfg}, nil
}

// Size returns the image dimensions.
func (sc *SwapChain) Size() (uint32, uint32) { return sc.cfg.Width, sc.cfg.Height }

// Format returns the image color format.
func (sc *SwapChain) Format() gputypes.TextureFormat { return sc.cfg.Format }

// PresentMode returns the presentation mode.
func (sc *SwapChain) PresentMode() PresentMode { return sc.cfg.PresentMode }

// Stale reports whether the swap chain was replaced or destroyed.
func (sc *SwapChain) Stale() bool { return sc.stale }

// Next acquires the next image to draw into.
func (sc *SwapChain) Next() (*SwapChainTexture, error) {
	if sc.stale {
		panic("render: Next on a stale swap chain")
	}
	sc.device.lock()
	defer sc.device.mu.Unlock()
	view, err := sc.surface.Acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	sc.current = &SwapChainTexture{chain: sc, view: view}
	return sc.current, nil
}

// Destroy unconfigures the surface and marks the swap chain stale.
func (sc *SwapChain) Destroy() {
	if sc.stale {
		return
	}
	sc.invalidate()
	sc.device.lock()
	defer sc.device.mu.Unlock()
	sc.surface.Unconfigure()
}

// invalidate marks the swap chain stale without touching the surface,
// which a replacement swap chain may already have reconfigured.
func (sc *SwapChain) invalidate() {
	sc.stale = true
	sc.current = nil
}

// SwapChainTexture is one acquired swap chain image. It is a render target
// until presented.
type SwapChainTexture struct {
	chain     *SwapChain
	view      hal.TextureView
	presented bool
}

// Size returns the image dimensions.
func (t *SwapChainTexture) Size() (uint32, uint32) { return t.chain.Size() }

// Format returns the image color format.
func (t *SwapChainTexture) Format() gputypes.TextureFormat { return t.chain.cfg.Format }

func (t *SwapChainTexture) check() {
	if t.chain.stale {
		panic("render: swap chain texture used after resize")
	}
	if t.presented {
		panic("render: swap chain texture used after Present")
	}
}

func (t *SwapChainTexture) colorView() hal.TextureView {
	t.check()
	return t.view
}

// Present shows the image. Submit the frame that drew into it first.
func (t *SwapChainTexture) Present() error {
	t.check()
	t.presented = true
	sc := t.chain
	sc.device.lock()
	defer sc.device.mu.Unlock()
	if err := sc.surface.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}
