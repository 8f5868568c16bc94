// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// FrameState is the lifecycle position of a Frame.
type FrameState uint8

const (
	// FrameRecording accepts updates, ops, passes and readbacks.
	FrameRecording FrameState = iota
	// FramePassOpen has a Pass that has not ended yet.
	FramePassOpen
	// FrameSubmitted has been handed to the GPU.
	FrameSubmitted
	// FrameDiscarded was dropped without submission.
	FrameDiscarded
)

// String returns the state name.
func (s FrameState) String() string {
	switch s {
	case FrameRecording:
		return "Recording"
	case FramePassOpen:
		return "PassOpen"
	case FrameSubmitted:
		return "Submitted"
	case FrameDiscarded:
		return "Discarded"
	default:
		return fmt.Sprintf("FrameState(%d)", s)
	}
}

// errFrameDiscarded resolves readbacks of frames that never reached the GPU.
var errFrameDiscarded = errors.New("frame discarded")

// Frame records one unit of GPU work: uniform updates, texture ops, render
// passes and readbacks, in call order. Submit hands the work to the GPU
// without waiting for it; readbacks resolve when the GPU has finished.
//
// A Frame is used from a single goroutine. Misuse of its state machine,
// such as recording after Submit or opening a second pass, panics.
type Frame struct {
	device  *Device
	encoder hal.CommandEncoder
	state   FrameState
	pass    *Pass

	staging   []hal.Buffer
	readbacks []*Readback
	committed []func()

	// onClose runs once the frame was submitted or discarded.
	onClose func()
}

// NewFrame begins recording a frame.
func (d *Device) NewFrame() (*Frame, error) {
	d.lock()
	defer d.mu.Unlock()

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: d.label("frame"),
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(d.label("frame")); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	return &Frame{device: d, encoder: encoder, state: FrameRecording}, nil
}

// State returns the frame's lifecycle state.
func (f *Frame) State() FrameState { return f.state }

func (f *Frame) mustRecord(what string) {
	switch f.state {
	case FrameRecording:
	case FramePassOpen:
		panic(fmt.Sprintf("render: %s while a pass is open", what))
	default:
		panic(fmt.Sprintf("render: %s on %s frame", what, f.state))
	}
}

// Update replaces the contents of a uniform buffer. The new contents are
// visible to every pass recorded after the call.
func (f *Frame) Update(u UniformUpdate) {
	f.mustRecord("uniform update")
	if u.Buffer == nil || u.Buffer.buf == nil {
		panic("render: uniform update of destroyed buffer")
	}
	if uint64(len(u.Data)) > u.Buffer.size {
		panic(fmt.Sprintf("render: uniform update of %d bytes exceeds buffer size %d", len(u.Data), u.Buffer.size))
	}
	if u.OnSubmit != nil {
		f.committed = append(f.committed, u.OnSubmit)
	}
	if len(u.Data) == 0 {
		return
	}

	staging, err := f.stagingData("uniform_staging", u.Data)
	if err != nil {
		// Staging allocation failures are out-of-memory conditions.
		panic(err)
	}
	f.encoder.CopyBufferToBuffer(staging, u.Buffer.buf, []hal.BufferCopy{{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      (uint64(len(u.Data)) + 3) &^ 3,
	}})
}

// Op records texture mutations, in order. Each op is validated before any
// is encoded; an invalid op panics.
func (f *Frame) Op(ops ...Op) error {
	f.mustRecord("op")
	for _, op := range ops {
		op.validate()
	}
	for _, op := range ops {
		if err := op.encode(f); err != nil {
			return fmt.Errorf("encode %T: %w", op, err)
		}
	}
	return nil
}

// Pass opens a render pass drawing into target. The pass must be ended
// before the frame records anything else.
func (f *Frame) Pass(target RenderTarget, load LoadOp) *Pass {
	f.mustRecord("pass")
	view := target.colorView()

	att := hal.RenderPassColorAttachment{
		View:    view,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if load.clear {
		att.LoadOp = gputypes.LoadOpClear
		att.ClearValue = gputypes.Color{
			R: float64(load.color.R),
			G: float64(load.color.G),
			B: float64(load.color.B),
			A: float64(load.color.A),
		}
	}
	rp := f.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            f.device.label("pass"),
		ColorAttachments: []hal.RenderPassColorAttachment{att},
	})

	f.state = FramePassOpen
	f.pass = &Pass{frame: f, rp: rp, target: target}
	return f.pass
}

func (f *Frame) endPass(p *Pass) {
	if f.pass != p {
		panic("render: ending a pass that is not the frame's open pass")
	}
	p.rp.End()
	f.pass = nil
	f.state = FrameRecording
}

// Readback schedules a copy of src to host memory. The result resolves
// after Submit, once the GPU has finished the frame.
func (f *Frame) Readback(src OpTarget) *Readback {
	t := opTexture(src)
	return f.ReadbackRect(src, t.Bounds())
}

// ReadbackRect is Readback restricted to rect, which must lie inside src.
func (f *Frame) ReadbackRect(src OpTarget, rect image.Rectangle) *Readback {
	f.mustRecord("readback")
	t := opTexture(src)
	if rect.Empty() || !rect.In(t.Bounds()) {
		panic(fmt.Sprintf("render: readback rect %v outside texture %v", rect, t.Bounds()))
	}

	w, h := uint32(rect.Dx()), uint32(rect.Dy()) //nolint:gosec // validated non-empty
	rb := newReadback(w, h, isBGRA(t.format))

	buf, err := f.stagingBuffer("readback_staging", uint64(rb.pitch)*uint64(h),
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		rb.resolve(nil, fmt.Errorf("%w: %w", ErrReadbackFailed, err))
		return rb
	}
	rb.buf = buf

	rest := t.restUsage()
	f.transition(t, rest, gputypes.TextureUsageCopySrc)
	f.encoder.CopyTextureToBuffer(t.tex, buf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: rb.pitch, RowsPerImage: h},
		TextureBase:  imageCopy(t, rect.Min),
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	f.transition(t, gputypes.TextureUsageCopySrc, rest)

	f.readbacks = append(f.readbacks, rb)
	return rb
}

// Submit hands the recorded work to the GPU and returns without waiting.
// Readbacks resolve on a background goroutine once the GPU signals
// completion. Submit panics if a pass is still open or the frame was
// already submitted.
func (f *Frame) Submit() error {
	f.mustRecord("submit")
	f.state = FrameSubmitted
	defer f.close()

	d := f.device
	d.lock()
	defer d.mu.Unlock()

	cmd, err := f.encoder.EndEncoding()
	if err != nil {
		f.release()
		return fmt.Errorf("%w: end encoding: %w", ErrSubmitFailed, err)
	}
	fence, err := d.device.CreateFence()
	if err != nil {
		d.device.FreeCommandBuffer(cmd)
		f.release()
		return fmt.Errorf("%w: create fence: %w", ErrSubmitFailed, err)
	}
	if err := d.queue.Submit([]hal.CommandBuffer{cmd}, fence, 1); err != nil {
		d.device.DestroyFence(fence)
		d.device.FreeCommandBuffer(cmd)
		f.release()
		return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	d.inflight.Add(1)
	go f.retire(cmd, fence)

	for _, fn := range f.committed {
		fn()
	}
	f.committed = nil
	return nil
}

// Discard drops everything recorded. Pending readbacks fail.
func (f *Frame) Discard() {
	if f.state == FrameSubmitted || f.state == FrameDiscarded {
		return
	}
	if f.pass != nil {
		f.pass.rp.End()
		f.pass.ended = true
		f.pass = nil
	}
	f.state = FrameDiscarded
	defer f.close()

	f.device.lock()
	defer f.device.mu.Unlock()
	f.encoder.DiscardEncoding()
	f.release()
}

func (f *Frame) close() {
	if f.onClose != nil {
		f.onClose()
		f.onClose = nil
	}
}

// release frees staging buffers and fails readbacks of a frame that did
// not reach the GPU. Caller must hold the device lock.
func (f *Frame) release() {
	for _, b := range f.staging {
		f.device.device.DestroyBuffer(b)
	}
	f.staging = nil
	f.committed = nil
	for _, rb := range f.readbacks {
		rb.resolve(nil, fmt.Errorf("%w: %w", ErrReadbackFailed, errFrameDiscarded))
	}
	f.readbacks = nil
}

// retire waits for the GPU to finish the frame, resolves readbacks and
// frees the frame's transient resources. If the wait fails the resources
// are handed to the device, which frees them on Close.
func (f *Frame) retire(cmd hal.CommandBuffer, fence hal.Fence) {
	d := f.device
	defer d.inflight.Done()

	ok, err := d.device.Wait(fence, 1, d.cfg.FenceTimeout)
	switch {
	case err != nil:
		err = fmt.Errorf("%w: wait for fence: %w", ErrReadbackFailed, err)
	case !ok:
		err = fmt.Errorf("%w: fence timeout after %v", ErrReadbackFailed, d.cfg.FenceTimeout)
	}
	if err != nil {
		g2d.Logger().Warn("render: frame did not retire", "err", err)
	}

	type result struct {
		rb  *Readback
		px  []g2d.Rgba8
		err error
	}
	results := make([]result, 0, len(f.readbacks))

	d.mu.Lock()
	for _, rb := range f.readbacks {
		if err != nil {
			results = append(results, result{rb: rb, err: err})
			continue
		}
		raw := make([]byte, uint64(rb.pitch)*uint64(rb.h))
		if rerr := d.queue.ReadBuffer(rb.buf, 0, raw); rerr != nil {
			results = append(results, result{rb: rb, err: fmt.Errorf("%w: %w", ErrReadbackFailed, rerr)})
			continue
		}
		results = append(results, result{rb: rb, px: unpackRows(raw, rb.w, rb.h, rb.pitch, rb.bgra)})
	}
	if err != nil {
		d.stalled = append(d.stalled, stalledFrame{buffers: f.staging, fence: fence, cmd: cmd})
	} else {
		for _, b := range f.staging {
			d.device.DestroyBuffer(b)
		}
		d.device.DestroyFence(fence)
		d.device.FreeCommandBuffer(cmd)
	}
	f.staging, f.readbacks = nil, nil
	d.mu.Unlock()

	for _, r := range results {
		r.rb.resolve(r.px, r.err)
	}
}

func (f *Frame) transition(t *Texture, from, to gputypes.TextureUsage) {
	if from == to {
		return
	}
	f.encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: from,
			NewUsage: to,
		},
	}})
}

// stagingData creates a copy source holding data that lives until the
// frame retires.
func (f *Frame) stagingData(label string, data []byte) (hal.Buffer, error) {
	f.device.lock()
	defer f.device.mu.Unlock()
	buf, err := f.device.createBufferWithData(label, data, gputypes.BufferUsageCopySrc)
	if err != nil {
		return nil, err
	}
	f.staging = append(f.staging, buf)
	return buf, nil
}

// stagingBuffer creates an empty transient buffer.
func (f *Frame) stagingBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	f.device.lock()
	defer f.device.mu.Unlock()
	buf, err := f.device.device.CreateBuffer(&hal.BufferDescriptor{
		Label: f.device.label(label),
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	f.staging = append(f.staging, buf)
	return buf, nil
}
