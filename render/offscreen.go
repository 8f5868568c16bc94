package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// OffscreenSurface is a Surface backed by a single texture. It renders
// without a window: Present only counts presented images.
type OffscreenSurface struct {
	device    hal.Device
	tex       hal.Texture
	view      hal.TextureView
	cfg       SurfaceConfig
	presented int
}

// NewOffscreenSurface returns an unconfigured offscreen surface.
func NewOffscreenSurface() *OffscreenSurface {
	return &OffscreenSurface{}
}

// Configure creates the backing texture, replacing any previous one.
func (s *OffscreenSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	s.Unconfigure()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_surface",
		Size:          hal.Extent3D{Width: cfg.Width, Height: cfg.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        cfg.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create surface texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "offscreen_surface_view",
		Format:        cfg.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("create surface view: %w", err)
	}
	s.device, s.tex, s.view, s.cfg = device, tex, view, cfg
	return nil
}

// Acquire returns the backing view.
func (s *OffscreenSurface) Acquire() (hal.TextureView, error) {
	if s.view == nil {
		return nil, fmt.Errorf("%w: surface not configured", ErrSurfaceLost)
	}
	return s.view, nil
}

// Present counts the image as shown.
func (s *OffscreenSurface) Present() error {
	if s.view == nil {
		return fmt.Errorf("%w: surface not configured", ErrSurfaceLost)
	}
	s.presented++
	return nil
}

// Unconfigure destroys the backing texture.
func (s *OffscreenSurface) Unconfigure() {
	if s.tex == nil {
		return
	}
	s.device.DestroyTextureView(s.view)
	s.device.DestroyTexture(s.tex)
	s.tex, s.view = nil, nil
}

// Config returns the last applied configuration.
func (s *OffscreenSurface) Config() SurfaceConfig { return s.cfg }

// Presented returns how many images were presented.
func (s *OffscreenSurface) Presented() int { return s.presented }
