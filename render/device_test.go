// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newTestDevice wraps a noop device rendering to RGBA8.
func newTestDevice(t *testing.T) *Device {
	t.Helper()
	hd, q, cleanup := createNoopDevice(t)
	t.Cleanup(cleanup)
	d := NewDeviceFromHAL(hd, q, WithFormat(gputypes.TextureFormatRGBA8Unorm), WithLabel("test"))
	t.Cleanup(d.Close)
	return d
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Backend != gputypes.BackendVulkan {
		t.Errorf("Backend = %v, want Vulkan", cfg.Backend)
	}
	if cfg.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v, want BGRA8Unorm", cfg.Format)
	}
	if cfg.PresentMode != Vsync {
		t.Errorf("PresentMode = %v, want Vsync", cfg.PresentMode)
	}
	if cfg.FenceTimeout != 5*time.Second {
		t.Errorf("FenceTimeout = %v, want 5s", cfg.FenceTimeout)
	}
}

func TestOptions(t *testing.T) {
	cfg := buildConfig([]Option{
		WithBackend(gputypes.Backend(42)),
		WithFormat(gputypes.TextureFormatRGBA8Unorm),
		WithPresentMode(NoVsync),
		WithFenceTimeout(time.Second),
		WithLabel("x"),
	})
	if cfg.Backend != gputypes.Backend(42) ||
		cfg.Format != gputypes.TextureFormatRGBA8Unorm ||
		cfg.PresentMode != NoVsync ||
		cfg.FenceTimeout != time.Second ||
		cfg.Label != "x" {
		t.Errorf("buildConfig = %+v", cfg)
	}
}

func TestPresentModeString(t *testing.T) {
	tests := []struct {
		mode PresentMode
		want string
	}{
		{Vsync, "Vsync"},
		{NoVsync, "NoVsync"},
		{PresentMode(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestNewDeviceUnavailableBackend(t *testing.T) {
	_, err := NewDevice(WithBackend(gputypes.Backend(200)))
	if !errors.Is(err, ErrNoAdapter) {
		t.Fatalf("NewDevice error = %v, want ErrNoAdapter", err)
	}
}

func TestDeviceFromHAL(t *testing.T) {
	d := newTestDevice(t)
	if d.Adapter() != "external" {
		t.Errorf("Adapter() = %q, want external", d.Adapter())
	}
	if d.HalDevice() == nil || d.HalQueue() == nil {
		t.Error("HAL handles should be exposed")
	}
	if got := d.label("frame"); got != "test_frame" {
		t.Errorf("label = %q, want test_frame", got)
	}
}

func TestDeviceUseAfterClose(t *testing.T) {
	hd, q, cleanup := createNoopDevice(t)
	defer cleanup()
	d := NewDeviceFromHAL(hd, q)
	d.Close()
	d.Close() // second close is a no-op

	defer func() {
		r := recover()
		if err, ok := r.(error); !ok || !errors.Is(err, ErrDeviceClosed) {
			t.Errorf("recover() = %v, want ErrDeviceClosed", r)
		}
	}()
	_, _ = d.CreateSampler(Nearest, Nearest)
}

// fakeProvider is a gpucontext.DeviceProvider with HAL handles.
type fakeProvider struct {
	dev    hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

func (p fakeProvider) Device() gpucontext.Device             { return nil }
func (p fakeProvider) Queue() gpucontext.Queue               { return nil }
func (p fakeProvider) Adapter() gpucontext.Adapter           { return nil }
func (p fakeProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p fakeProvider) HalDevice() any                        { return p.dev }
func (p fakeProvider) HalQueue() any                         { return p.queue }

func TestNewDeviceFromProvider(t *testing.T) {
	hd, q, cleanup := createNoopDevice(t)
	defer cleanup()

	d, err := NewDeviceFromProvider(fakeProvider{dev: hd, queue: q, format: gputypes.TextureFormatRGBA8Unorm})
	if err != nil {
		t.Fatalf("NewDeviceFromProvider: %v", err)
	}
	defer d.Close()
	if d.Config().Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want provider format RGBA8Unorm", d.Config().Format)
	}

	// Explicit options win over the provider's format.
	d2, err := NewDeviceFromProvider(fakeProvider{dev: hd, queue: q, format: gputypes.TextureFormatRGBA8Unorm},
		WithFormat(gputypes.TextureFormatBGRA8Unorm))
	if err != nil {
		t.Fatalf("NewDeviceFromProvider: %v", err)
	}
	defer d2.Close()
	if d2.Config().Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v, want BGRA8Unorm", d2.Config().Format)
	}
}

func TestNewDeviceFromProviderUnsupported(t *testing.T) {
	_, err := NewDeviceFromProvider(fakeProvider{})
	if !errors.Is(err, ErrProviderUnsupported) {
		t.Errorf("nil HAL handles: err = %v, want ErrProviderUnsupported", err)
	}
}

func TestSpirvWords(t *testing.T) {
	words, err := spirvWords([]byte{0x03, 0x02, 0x23, 0x07, 1, 0, 0, 0})
	if err != nil {
		t.Fatalf("spirvWords: %v", err)
	}
	if len(words) != 2 || words[0] != 0x07230203 || words[1] != 1 {
		t.Errorf("words = %#x", words)
	}

	for _, n := range []int{0, 3, 5} {
		if _, err := spirvWords(make([]byte, n)); !errors.Is(err, ErrInvalidShader) {
			t.Errorf("%d bytes: err = %v, want ErrInvalidShader", n, err)
		}
	}
}
