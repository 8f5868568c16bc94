package render

import (
	"context"
	"sync"

	"github.com/gogpu/g2d"
	"github.com/gogpu/wgpu/hal"
)

// Readback is the future result of copying a texture to host memory.
// It resolves once the frame that recorded it has retired on the GPU.
type Readback struct {
	w, h  uint32
	pitch uint32
	bgra  bool
	buf   hal.Buffer

	once   sync.Once
	done   chan struct{}
	mu     sync.Mutex
	pixels []g2d.Rgba8
	err    error
	subs   []func([]g2d.Rgba8, error)
}

func newReadback(w, h uint32, bgra bool) *Readback {
	return &Readback{w: w, h: h, pitch: alignedPitch(w), bgra: bgra, done: make(chan struct{})}
}

// Size returns the dimensions of the read region.
func (r *Readback) Size() (uint32, uint32) { return r.w, r.h }

// Done is closed when the readback has resolved.
func (r *Readback) Done() <-chan struct{} { return r.done }

// Wait blocks until the pixels are available or ctx is done. Pixels are
// RGBA in row-major order with no padding.
func (r *Readback) Wait(ctx context.Context) ([]g2d.Rgba8, error) {
	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.pixels, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OnComplete registers fn to run once with the result. If the readback
// already resolved, fn runs immediately on the calling goroutine;
// otherwise it runs on the goroutine that retires the frame.
func (r *Readback) OnComplete(fn func([]g2d.Rgba8, error)) {
	r.mu.Lock()
	select {
	case <-r.done:
		px, err := r.pixels, r.err
		r.mu.Unlock()
		fn(px, err)
		return
	default:
	}
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}

func (r *Readback) resolve(px []g2d.Rgba8, err error) {
	r.once.Do(func() {
		r.mu.Lock()
		r.pixels, r.err = px, err
		subs := r.subs
		r.subs = nil
		close(r.done)
		r.mu.Unlock()

		for _, fn := range subs {
			fn(px, err)
		}
	})
}
