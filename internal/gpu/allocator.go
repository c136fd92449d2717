// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/spline/dynbuf"
)

// ErrStoreReleased is returned when using a store after Release.
var ErrStoreReleased = errors.New("gpu: store has been released")

// Codec converts records to and from their byte layout in device memory.
type Codec[T any] interface {
	// Stride returns the encoded size of one record in bytes.
	// It must be a multiple of 4.
	Stride() int

	// Encode writes src into dst, which holds len(src)*Stride() bytes.
	Encode(dst []byte, src []T)

	// Decode reads len(dst) records from src.
	Decode(dst []T, src []byte)
}

// DefaultUsage is the usage of buffers created by an Allocator: bound as
// vertex input, written by the queue, and copyable in both directions so
// buffers can grow and be read back.
const DefaultUsage = gputypes.BufferUsageVertex |
	gputypes.BufferUsageCopyDst |
	gputypes.BufferUsageCopySrc

// Allocator creates device buffers holding records of type T.
//
// Allocator is safe for concurrent use to the extent the underlying hal
// device is.
type Allocator[T any] struct {
	dev      *Device
	codec    Codec[T]
	usage    gputypes.BufferUsage
	maxBytes uint64

	allocs atomic.Int64
	copies atomic.Int64
	bytes  atomic.Int64
}

var _ dynbuf.Allocator[int] = (*Allocator[int])(nil)

// NewAllocator creates an allocator on dev. A zero usage selects
// DefaultUsage; CopySrc and CopyDst are always added. maxBytes caps a
// single buffer, zero meaning unlimited.
func NewAllocator[T any](dev *Device, codec Codec[T], usage gputypes.BufferUsage, maxBytes uint64) *Allocator[T] {
	if usage == 0 {
		usage = DefaultUsage
	}
	return &Allocator[T]{
		dev:      dev,
		codec:    codec,
		usage:    usage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
		maxBytes: maxBytes,
	}
}

// Allocate implements dynbuf.Allocator.
func (a *Allocator[T]) Allocate(label string, capacity int) (dynbuf.Store[T], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: %s: negative capacity %d", dynbuf.ErrAllocation, label, capacity)
	}
	stride := a.codec.Stride()
	if capacity > math.MaxInt/stride {
		return nil, fmt.Errorf("%w: %s: %d records of %d bytes overflows", dynbuf.ErrAllocation, label, capacity, stride)
	}
	size := uint64(max(capacity, 1)) * uint64(stride)
	if a.maxBytes > 0 && size > a.maxBytes {
		return nil, fmt.Errorf("%w: %s: %d bytes exceeds limit %d", dynbuf.ErrAllocation, label, size, a.maxBytes)
	}

	buf, err := a.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: a.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", dynbuf.ErrAllocation, label, err)
	}

	a.allocs.Add(1)
	a.bytes.Add(int64(size))
	slogger().Debug("gpu: buffer created", "label", label, "capacity", capacity, "bytes", size)
	return &Store[T]{a: a, buf: buf, label: label, capacity: capacity, size: size}, nil
}

// Copy implements dynbuf.Allocator with a device-side buffer copy.
func (a *Allocator[T]) Copy(dst, src dynbuf.Store[T], n int) error {
	d, ok1 := dst.(*Store[T])
	s, ok2 := src.(*Store[T])
	if !ok1 || !ok2 || d.a != a || s.a != a {
		return fmt.Errorf("%w: gpu allocator cannot copy %T to %T", dynbuf.ErrForeignStore, src, dst)
	}
	if d.buf == nil || s.buf == nil {
		return ErrStoreReleased
	}
	if n < 0 || n > s.capacity || n > d.capacity {
		return fmt.Errorf("%w: copy %d records from %d to %d", dynbuf.ErrOutOfRange, n, s.capacity, d.capacity)
	}
	if n == 0 {
		return nil
	}

	size := uint64(n) * uint64(a.codec.Stride())
	err := a.dev.submit("dynbuf_copy", func(enc hal.CommandEncoder) {
		enc.CopyBufferToBuffer(s.buf, d.buf, []hal.BufferCopy{{SrcOffset: 0, DstOffset: 0, Size: size}})
	})
	if err != nil {
		return fmt.Errorf("gpu: copy %s to %s: %w", s.label, d.label, err)
	}
	a.copies.Add(1)
	slogger().Debug("gpu: buffer copied", "from", s.label, "to", d.label, "bytes", size)
	return nil
}

// Stats reports the number of buffers created, device copies performed,
// and bytes currently allocated.
func (a *Allocator[T]) Stats() (allocs, copies int, bytes int64) {
	return int(a.allocs.Load()), int(a.copies.Load()), a.bytes.Load()
}

// Store is a device buffer of fixed capacity.
type Store[T any] struct {
	a        *Allocator[T]
	buf      hal.Buffer
	label    string
	capacity int
	size     uint64
}

// Cap implements dynbuf.Store.
func (s *Store[T]) Cap() int { return s.capacity }

// Buffer returns the hal buffer for binding as vertex input.
// It is nil after Release.
func (s *Store[T]) Buffer() hal.Buffer { return s.buf }

// WriteAt implements dynbuf.Store by encoding data and writing it through
// the queue.
func (s *Store[T]) WriteAt(off int, data []T) error {
	if s.buf == nil {
		return ErrStoreReleased
	}
	if off < 0 || off+len(data) > s.capacity {
		return fmt.Errorf("%w: write [%d, %d) of %d", dynbuf.ErrOutOfRange, off, off+len(data), s.capacity)
	}
	if len(data) == 0 {
		return nil
	}
	stride := s.a.codec.Stride()
	raw := make([]byte, len(data)*stride)
	s.a.codec.Encode(raw, data)
	if err := s.a.dev.queue.WriteBuffer(s.buf, uint64(off*stride), raw); err != nil {
		return fmt.Errorf("gpu: write %s: %w", s.label, err)
	}
	return nil
}

// ReadAt implements dynbuf.Store by copying the range into a mappable
// staging buffer and decoding it.
func (s *Store[T]) ReadAt(off int, dst []T) error {
	if s.buf == nil {
		return ErrStoreReleased
	}
	if off < 0 || off+len(dst) > s.capacity {
		return fmt.Errorf("%w: read [%d, %d) of %d", dynbuf.ErrOutOfRange, off, off+len(dst), s.capacity)
	}
	if len(dst) == 0 {
		return nil
	}

	dev := s.a.dev
	stride := uint64(s.a.codec.Stride())
	size := uint64(len(dst)) * stride
	staging, err := dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: s.label + "_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: read %s: staging buffer: %w", s.label, err)
	}
	defer dev.device.DestroyBuffer(staging)

	err = dev.submit("dynbuf_readback", func(enc hal.CommandEncoder) {
		enc.CopyBufferToBuffer(s.buf, staging, []hal.BufferCopy{{
			SrcOffset: uint64(off) * stride,
			DstOffset: 0,
			Size:      size,
		}})
	})
	if err != nil {
		return fmt.Errorf("gpu: read %s: %w", s.label, err)
	}

	mapping, err := dev.device.MapBuffer(staging, 0, size)
	if err != nil {
		return fmt.Errorf("gpu: read %s: map: %w", s.label, err)
	}
	s.a.codec.Decode(dst, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := dev.device.UnmapBuffer(staging); err != nil {
		return fmt.Errorf("gpu: read %s: unmap: %w", s.label, err)
	}
	return nil
}

// Release implements dynbuf.Store.
func (s *Store[T]) Release() {
	if s.buf == nil {
		return
	}
	s.a.dev.device.DestroyBuffer(s.buf)
	s.a.bytes.Add(-int64(s.size))
	s.buf = nil
}
