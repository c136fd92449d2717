// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dynbuf provides a growable, typed append buffer over an external
// backing store.
//
// A [Buffer] only decides when and how much to grow and keeps the size; an
// [Allocator] decides where elements live. [HostAllocator] keeps them in Go
// memory; the gpu package provides an allocator over wgpu buffers.
//
// Growth doubles the capacity. Write replaces everything, so it reallocates
// without copying; Extend and Reserve copy the existing elements over.
//
//	alloc := &dynbuf.HostAllocator[geometry.ColoredLine]{}
//	buf, _ := dynbuf.New(alloc, 0)
//	_ = buf.Extend(lines)    // capacity 8, then 16, 32, ...
//	view := buf.Get()        // read-only until the next mutation
package dynbuf
