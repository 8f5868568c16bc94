// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device owns the connection to the graphics backend and mints every GPU
// resource: textures, samplers, buffers, binding groups, pipelines, swap
// chains and framebuffers.
//
// Creation calls are synchronous and return owned handles; callers release
// them with Destroy. All access to the HAL device and queue is serialized
// by the device mutex, so only one goroutine creates resources or submits
// work at a time. A Frame's command encoder is owned by that Frame alone
// and is not covered by the mutex.
//
// A Device is created once at startup and must outlive all resources it
// created.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// external is true when the HAL device belongs to someone else
	// (NewDeviceFromHAL, NewDeviceFromProvider) and must not be destroyed.
	external bool
	adapter  string
	cfg      Config
	closed   bool

	// inflight tracks retire goroutines of submitted frames.
	inflight sync.WaitGroup

	// stalled holds the transient resources of frames whose fence wait
	// failed. The GPU may still use them, so they are freed on Close.
	stalled []stalledFrame
}

type stalledFrame struct {
	buffers []hal.Buffer
	fence   hal.Fence
	cmd     hal.CommandBuffer
}

// NewDevice opens the best adapter of the configured backend.
//
// Discrete and integrated GPUs are preferred over software adapters. If the
// backend is unavailable or exposes no adapter, the returned error wraps
// ErrNoAdapter. Adapter errors are never retried.
func NewDevice(opts ...Option) (*Device, error) {
	cfg := buildConfig(opts)

	backend, ok := hal.GetBackend(cfg.Backend)
	if !ok {
		return nil, fmt.Errorf("%w: backend %v not available", ErrNoAdapter, cfg.Backend)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoAdapter, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrDeviceOpen, err)
	}

	g2d.Logger().Info("render: adapter selected", "adapter", selected.Info.Name, "backend", cfg.Backend)

	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		adapter:  selected.Info.Name,
		cfg:      cfg,
	}, nil
}

// NewDeviceFromHAL wraps a HAL device and queue owned by the caller.
// Close does not destroy them.
func NewDeviceFromHAL(device hal.Device, queue hal.Queue, opts ...Option) *Device {
	return &Device{
		device:   device,
		queue:    queue,
		external: true,
		adapter:  "external",
		cfg:      buildConfig(opts),
	}
}

// DeviceHandle is the host application's device provider, as passed to
// NewDeviceFromProvider.
type DeviceHandle = gpucontext.DeviceProvider

// NewDeviceFromProvider adopts the device of a host application that
// implements gpucontext.DeviceProvider and also exposes its HAL handles.
// The provider's surface format becomes the default color format.
func NewDeviceFromProvider(provider DeviceHandle, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrProviderUnsupported
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrProviderUnsupported)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProviderUnsupported)
	}

	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithFormat(f)}, opts...)
	}
	return NewDeviceFromHAL(device, queue, opts...), nil
}

// Adapter returns the name of the adapter the device was opened on.
func (d *Device) Adapter() string { return d.adapter }

// Config returns the settings the device was created with.
func (d *Device) Config() Config { return d.cfg }

// HalDevice returns the underlying HAL device.
// It lets a Device act as a provider for other gogpu libraries.
func (d *Device) HalDevice() any { return d.device }

// HalQueue returns the underlying HAL queue.
func (d *Device) HalQueue() any { return d.queue }

// WaitIdle blocks until every submitted frame has retired.
func (d *Device) WaitIdle() { d.inflight.Wait() }

// Close waits for in-flight frames to retire, then releases the device if
// it owns it. Resources created from the device must be destroyed first.
func (d *Device) Close() {
	d.inflight.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.releaseStalled()
	if d.external {
		return
	}
	if d.device != nil {
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
	g2d.Logger().Debug("render: device closed", "adapter", d.adapter)
}

// releaseStalled frees the resources of stalled frames whose fence has
// signaled by now and leaks the rest. Caller must hold d.mu.
func (d *Device) releaseStalled() {
	for _, s := range d.stalled {
		ok, err := d.device.Wait(s.fence, 1, d.cfg.FenceTimeout)
		if err != nil || !ok {
			g2d.Logger().Warn("render: leaking resources of a stalled frame",
				"buffers", len(s.buffers), "err", err)
			continue
		}
		for _, b := range s.buffers {
			d.device.DestroyBuffer(b)
		}
		d.device.DestroyFence(s.fence)
		d.device.FreeCommandBuffer(s.cmd)
	}
	d.stalled = nil
}

// lock acquires exclusive access to the HAL device and queue.
// It panics if the device is closed: using a closed device is a
// programming error.
func (d *Device) lock() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		panic(ErrDeviceClosed)
	}
}

func (d *Device) label(name string) string {
	if d.cfg.Label == "" {
		return name
	}
	return d.cfg.Label + "_" + name
}

// createBufferWithData creates a buffer of the given usage and uploads data
// through the queue. Caller must hold d.mu.
func (d *Device) createBufferWithData(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := uint64(len(data))
	if size == 0 {
		size = 4
	}
	// WriteBuffer requires 4-byte aligned sizes.
	size = (size + 3) &^ 3
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: d.label(label),
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	if len(data) > 0 {
		padded := data
		if uint64(len(data)) != size {
			padded = make([]byte, size)
			copy(padded, data)
		}
		d.queue.WriteBuffer(buf, 0, padded)
	}
	return buf, nil
}
