// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan backend with hal.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device errors.
var (
	// ErrNoBackend is returned when the Vulkan backend is not registered.
	ErrNoBackend = errors.New("gpu: vulkan backend not available")

	// ErrNoAdapter is returned when no adapter can be enumerated.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrNilDevice is returned when wrapping a nil device or queue.
	ErrNilDevice = errors.New("gpu: nil device or queue")
)

// Device pairs a hal device with its queue. A Device created by OpenDevice
// owns the instance and device and destroys them in Destroy; a Device
// created by WrapDevice borrows them.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	name     string
	owned    bool
}

// OpenDevice opens a Vulkan device, preferring a discrete or integrated GPU
// over other adapter types.
func OpenDevice() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoBackend
	}
	return openFrom(backend)
}

// openFrom opens the preferred adapter of backend.
func openFrom(backend hal.Backend) (*Device, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	slogger().Info("gpu: device opened", "adapter", selected.Info.Name)
	return &Device{
		device:   openDev.Device,
		queue:    openDev.Queue,
		instance: instance,
		name:     selected.Info.Name,
		owned:    true,
	}, nil
}

// WrapDevice borrows a device and queue owned by someone else.
func WrapDevice(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &Device{device: device, queue: queue}, nil
}

// Name returns the adapter name, or "" for a wrapped device.
func (d *Device) Name() string { return d.name }

// Destroy waits for outstanding work and releases an owned device.
// It does nothing for a wrapped device.
func (d *Device) Destroy() {
	if !d.owned {
		return
	}
	if err := d.device.WaitIdle(); err != nil {
		slogger().Warn("gpu: wait idle before destroy", "err", err)
	}
	d.device.Destroy()
	if d.instance != nil {
		d.instance.Destroy()
	}
	d.owned = false
}

// submit encodes commands with record, submits them and blocks until the
// device is idle.
func (d *Device) submit(label string, record func(hal.CommandEncoder)) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Destroy()

	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	record(encoder)
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	if _, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := d.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle: %w", err)
	}
	return nil
}
