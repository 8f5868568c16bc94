package render

import (
	"errors"
	"testing"

	"github.com/gogpu/g2d"
	"github.com/gogpu/wgpu/hal"
)

func TestSwapChainPresent(t *testing.T) {
	d := newTestDevice(t)
	surface := NewOffscreenSurface()
	r, err := NewRenderer(d, surface, 32, 16)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	defer r.Close()

	sc := r.SwapChain()
	if w, h := sc.Size(); w != 32 || h != 16 {
		t.Errorf("Size = %dx%d, want 32x16", w, h)
	}
	if sc.PresentMode() != Vsync {
		t.Errorf("PresentMode = %v, want Vsync", sc.PresentMode())
	}
	if surface.Config().Format != d.Config().Format {
		t.Errorf("surface format = %v, want %v", surface.Config().Format, d.Config().Format)
	}

	img, err := sc.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	f, err := r.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	f.Pass(img, ClearTo(g2d.Black)).End()
	if err := f.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := img.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if surface.Presented() != 1 {
		t.Errorf("Presented = %d, want 1", surface.Presented())
	}
	mustPanic(t, "present twice", func() { _ = img.Present() })
}

func TestSwapChainStaleAfterResize(t *testing.T) {
	d := newTestDevice(t)
	surface := NewOffscreenSurface()
	r, err := NewRenderer(d, surface, 16, 16)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	defer r.Close()

	old := r.SwapChain()
	img, err := old.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	if err := r.Resize(24, 8); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if !old.Stale() {
		t.Error("old swap chain should be stale")
	}
	if w, h := r.Size(); w != 24 || h != 8 {
		t.Errorf("Size = %dx%d, want 24x8", w, h)
	}
	if cfg := surface.Config(); cfg.Width != 24 || cfg.Height != 8 {
		t.Errorf("surface reconfigured to %dx%d, want 24x8", cfg.Width, cfg.Height)
	}

	f, err := r.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	defer f.Discard()
	mustPanic(t, "stale texture pass", func() { f.Pass(img, Load) })
	mustPanic(t, "stale next", func() { _, _ = old.Next() })

	fresh, err := r.SwapChain().Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if w, h := fresh.Size(); w != 24 || h != 8 {
		t.Errorf("fresh texture %dx%d, want 24x8", w, h)
	}
}

// failingSurface is an OffscreenSurface whose Configure can be made to
// fail.
type failingSurface struct {
	*OffscreenSurface
	fail bool
}

var errConfigure = errors.New("configure refused")

func (s *failingSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	if s.fail {
		return errConfigure
	}
	return s.OffscreenSurface.Configure(device, cfg)
}

func TestResizeKeepsSwapChainOnFailure(t *testing.T) {
	d := newTestDevice(t)
	surface := &failingSurface{OffscreenSurface: NewOffscreenSurface()}
	r, err := NewRenderer(d, surface, 16, 16)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	defer r.Close()
	old := r.SwapChain()

	surface.fail = true
	if err := r.Resize(32, 32); !errors.Is(err, errConfigure) {
		t.Fatalf("Resize err = %v, want %v", err, errConfigure)
	}
	if r.SwapChain() != old || old.Stale() {
		t.Error("failed resize replaced or invalidated the swap chain")
	}
	if w, h := r.Size(); w != 16 || h != 16 {
		t.Errorf("Size = %dx%d after failed resize, want 16x16", w, h)
	}
	if _, err := old.Next(); err != nil {
		t.Errorf("Next after failed resize: %v", err)
	}

	surface.fail = false
	if err := r.Resize(32, 32); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if !old.Stale() {
		t.Error("old swap chain should be stale after a successful resize")
	}
	if _, err := r.SwapChain().Next(); err != nil {
		t.Errorf("Next on the new swap chain: %v", err)
	}
}

func TestOffscreenSurfaceUnconfigured(t *testing.T) {
	s := NewOffscreenSurface()
	if _, err := s.Acquire(); !errors.Is(err, ErrSurfaceLost) {
		t.Errorf("Acquire err = %v, want ErrSurfaceLost", err)
	}
	if err := s.Present(); !errors.Is(err, ErrSurfaceLost) {
		t.Errorf("Present err = %v, want ErrSurfaceLost", err)
	}
	s.Unconfigure()
}

// resizeCounter records Resize calls.
type resizeCounter struct {
	w, h      uint32
	destroyed int
}

func (p *resizeCounter) Apply(*Pass)        {}
func (p *resizeCounter) Resize(w, h uint32) { p.w, p.h = w, h }
func (p *resizeCounter) Destroy()           { p.destroyed++ }

func TestRendererResizesTrackedPipelines(t *testing.T) {
	r := newTestRenderer(t, 10, 10)
	p := &resizeCounter{}
	r.track(p)

	if err := r.Resize(10, 10); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if p.w != 0 {
		t.Error("same size resize should be a no-op")
	}
	if err := r.Resize(20, 30); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if p.w != 20 || p.h != 30 {
		t.Errorf("pipeline resized to %dx%d, want 20x30", p.w, p.h)
	}
	r.Close()
	if p.destroyed != 1 {
		t.Errorf("destroyed = %d, want 1", p.destroyed)
	}
}
