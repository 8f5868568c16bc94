package render

import (
	"time"

	"github.com/gogpu/gputypes"
)

// PresentMode selects how swap chain images are presented.
// It is fixed at swap chain creation; changing it requires a new swap chain.
type PresentMode uint8

const (
	// Vsync waits for the vertical blank. This is the default.
	Vsync PresentMode = iota
	// NoVsync presents immediately and may tear.
	NoVsync
)

// String returns the mode name.
func (m PresentMode) String() string {
	switch m {
	case Vsync:
		return "Vsync"
	case NoVsync:
		return "NoVsync"
	default:
		return "Unknown"
	}
}

// Config holds device and renderer settings.
type Config struct {
	// Backend is the HAL backend NewDevice opens.
	Backend gputypes.Backend

	// Format is the color format of the swap chain and framebuffers.
	Format gputypes.TextureFormat

	// PresentMode is used for swap chains created by the Renderer.
	PresentMode PresentMode

	// FenceTimeout bounds how long frame retirement waits for the GPU.
	FenceTimeout time.Duration

	// Label prefixes debug labels of created resources.
	Label string
}

// DefaultConfig returns the default settings: Vulkan backend, BGRA8
// surfaces, vsync, and a five second fence timeout.
func DefaultConfig() Config {
	return Config{
		Backend:      gputypes.BackendVulkan,
		Format:       gputypes.TextureFormatBGRA8Unorm,
		PresentMode:  Vsync,
		FenceTimeout: 5 * time.Second,
		Label:        "g2d",
	}
}

// Option configures a Device or Renderer.
//
// Example:
//
//	dev, err := render.NewDevice(render.WithPresentMode(render.NoVsync))
type Option func(*Config)

// WithBackend selects the HAL backend.
func WithBackend(b gputypes.Backend) Option {
	return func(c *Config) { c.Backend = b }
}

// WithFormat sets the surface and framebuffer color format.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(c *Config) { c.Format = f }
}

// WithPresentMode sets the present mode of renderer swap chains.
func WithPresentMode(m PresentMode) Option {
	return func(c *Config) { c.PresentMode = m }
}

// WithFenceTimeout sets the frame retirement timeout.
func WithFenceTimeout(d time.Duration) Option {
	return func(c *Config) { c.FenceTimeout = d }
}

// WithLabel sets the debug label prefix.
func WithLabel(label string) Option {
	return func(c *Config) { c.Label = label }
}

func buildConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}
