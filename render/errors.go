// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Errors returned at the boundary where the graphics connection is
// established or where the GPU reports a failure. Contract violations
// (mismatched binding slots, bad texel lengths, out-of-order frame
// commands) panic instead.
var (
	// ErrNoAdapter is returned when no suitable graphics adapter exists.
	ErrNoAdapter = errors.New("render: a suitable graphics adapter was not found")

	// ErrDeviceOpen is returned when an adapter was found but the logical
	// device could not be opened.
	ErrDeviceOpen = errors.New("render: failed to open device")

	// ErrDeviceClosed is returned when a closed device is used.
	ErrDeviceClosed = errors.New("render: device closed")

	// ErrProviderUnsupported is returned when a gpucontext provider does
	// not expose HAL device and queue handles.
	ErrProviderUnsupported = errors.New("render: device provider does not expose HAL types")

	// ErrInvalidShader is returned for shader bytecode that is not a
	// whole number of 32-bit words.
	ErrInvalidShader = errors.New("render: shader bytecode is not word aligned")

	// ErrSubmitFailed is returned when the queue rejects a command buffer.
	ErrSubmitFailed = errors.New("render: queue submit failed")

	// ErrReadbackFailed is delivered through a Readback when copying pixels
	// back to host memory fails. It is never retried.
	ErrReadbackFailed = errors.New("render: readback failed")

	// ErrSurfaceLost is returned by a Surface whose underlying window is
	// gone. The swap chain must be recreated.
	ErrSurfaceLost = errors.New("render: surface lost")
)
