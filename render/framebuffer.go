package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Framebuffer is an offscreen render target that can afterwards be sampled
// like a texture, copied from, or read back to host memory.
type Framebuffer struct {
	*Texture
}

// CreateFramebuffer creates a w x h offscreen target in the device color
// format.
func (d *Device) CreateFramebuffer(w, h uint32) (*Framebuffer, error) {
	t, err := d.createTexture("framebuffer", w, h, d.cfg.Format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding|
			gputypes.TextureUsageCopySrc|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	return &Framebuffer{Texture: t}, nil
}

func (fb *Framebuffer) colorView() hal.TextureView {
	if fb.view == nil {
		panic("render: framebuffer used after Destroy")
	}
	return fb.view
}
