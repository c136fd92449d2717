// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu implements dynbuf stores on a wgpu HAL device.
//
// Records are encoded by a Codec and written through the queue. Preserving
// growth records a buffer-to-buffer copy and waits for the device to go
// idle; reads go through a mappable staging buffer.
//
// The public API lives in the top-level gpu package.
package gpu
