// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu stores dynbuf buffers in wgpu device memory.
//
// A Device is either opened directly on Vulkan or borrowed from a host
// application through a gpucontext.DeviceProvider:
//
//	dev, err := gpu.FromProvider(app) // or gpu.Open()
//	alloc := gpu.NewAllocator[geometry.ColoredLine](dev, geometry.ColoredLineCodec{}, gpu.Config{})
//	lines, err := geometry.NewModelGeometry(alloc)
//
// Preserving growth copies buffers on the device; destructive growth only
// creates the new buffer.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	gpuimpl "github.com/gogpu/spline/internal/gpu"
)

// Memory limits for a single buffer.
const (
	// DefaultMaxBufferMB is the per-buffer cap used when Config leaves it
	// unset.
	DefaultMaxBufferMB = 256

	// MinBufferMB is the smallest accepted per-buffer cap.
	MinBufferMB = 1
)

// ErrNoHAL is returned by FromProvider when the provider does not expose
// hal types.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")

// Allocator creates device buffers of T. It implements dynbuf.Allocator.
type Allocator[T any] = gpuimpl.Allocator[T]

// Store is a device buffer created by an Allocator.
type Store[T any] = gpuimpl.Store[T]

// Codec converts records to and from their byte layout in device memory.
// geometry.LineRecordCodec and geometry.ColoredLineCodec implement it.
type Codec[T any] = gpuimpl.Codec[T]

// Config configures an Allocator.
type Config struct {
	// Usage is the buffer usage. Defaults to vertex input when zero.
	// Copy source and destination are always added.
	Usage gputypes.BufferUsage

	// MaxBufferMB caps the size of a single buffer in megabytes.
	// Defaults to DefaultMaxBufferMB if below MinBufferMB.
	MaxBufferMB int
}

func (c Config) maxBytes() uint64 {
	mb := c.MaxBufferMB
	if mb < MinBufferMB {
		mb = DefaultMaxBufferMB
	}
	return uint64(mb) * 1024 * 1024
}

// Device is a GPU device and queue that buffers are created on.
type Device struct {
	impl *gpuimpl.Device
}

// Open opens a Vulkan device owned by the returned Device.
func Open() (*Device, error) {
	d, err := gpuimpl.OpenDevice()
	if err != nil {
		return nil, err
	}
	return &Device{impl: d}, nil
}

// FromProvider borrows the device and queue of a host application.
//
// The provider must also implement HalDevice() any and HalQueue() any,
// returning wgpu hal.Device and hal.Queue values.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	hp, ok := provider.(interface {
		HalDevice() any
		HalQueue() any
	})
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
	}
	d, err := gpuimpl.WrapDevice(device, queue)
	if err != nil {
		return nil, err
	}
	Logger().Info("gpu: using shared device", "adapter", provider.AdapterInfo().Name)
	return &Device{impl: d}, nil
}

// Name returns the adapter name of an opened device.
func (d *Device) Name() string { return d.impl.Name() }

// Close releases an opened device. Borrowed devices are left to their
// owner. Buffers created on d must be released first.
func (d *Device) Close() { d.impl.Destroy() }

// NewAllocator creates an allocator of T on d.
func NewAllocator[T any](d *Device, codec Codec[T], cfg Config) *Allocator[T] {
	return gpuimpl.NewAllocator[T](d.impl, codec, cfg.Usage, cfg.maxBytes())
}
