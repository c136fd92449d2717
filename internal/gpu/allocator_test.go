// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/gogpu/wgpu/hal/noop"
	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/spline/dynbuf"
	"github.com/gogpu/spline/geometry"
)

// noopDevice opens a device on the noop backend. Noop buffers keep their
// bytes in memory, but command-buffer copies do nothing.
func noopDevice(t *testing.T) *Device {
	t.Helper()
	dev, err := openFrom(noop.API{})
	if err != nil {
		t.Fatalf("openFrom(noop) error = %v", err)
	}
	t.Cleanup(dev.Destroy)
	return dev
}

// contents decodes the first n records of a store straight from its noop
// buffer memory.
func contents(t *testing.T, dev *Device, s dynbuf.Store[geometry.LineRecord], n int) []geometry.LineRecord {
	t.Helper()
	st, ok := s.(*Store[geometry.LineRecord])
	if !ok {
		t.Fatalf("store type = %T", s)
	}
	size := uint64(n * geometry.LineRecordStride)
	m, err := dev.device.MapBuffer(st.Buffer(), 0, size)
	if err != nil {
		t.Fatalf("MapBuffer() error = %v", err)
	}
	out := make([]geometry.LineRecord, n)
	geometry.LineRecordCodec{}.Decode(out, unsafe.Slice((*byte)(m.Ptr), size))
	return out
}

func records(n int) []geometry.LineRecord {
	out := make([]geometry.LineRecord, n)
	for i := range out {
		f := float64(i)
		out[i] = geometry.NewLine(f, 0, f, 1).Record()
	}
	return out
}

func TestOpenNoopDevice(t *testing.T) {
	dev := noopDevice(t)
	if dev.Name() != "Noop Adapter" {
		t.Errorf("Name() = %q", dev.Name())
	}
	if !dev.owned {
		t.Error("opened device is not owned")
	}
}

func TestWrapDevice(t *testing.T) {
	if _, err := WrapDevice(nil, nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("WrapDevice(nil) error = %v, want ErrNilDevice", err)
	}
	owner := noopDevice(t)
	dev, err := WrapDevice(owner.device, owner.queue)
	if err != nil {
		t.Fatalf("WrapDevice() error = %v", err)
	}
	dev.Destroy() // borrowed: must not destroy
	if dev.owned || dev.Name() != "" {
		t.Errorf("wrapped device = %+v", dev)
	}
}

func TestAllocatorWriteAt(t *testing.T) {
	dev := noopDevice(t)
	a := NewAllocator[geometry.LineRecord](dev, geometry.LineRecordCodec{}, 0, 0)

	s, err := a.Allocate("test", 4)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if s.Cap() != 4 {
		t.Errorf("Cap() = %d, want 4", s.Cap())
	}

	data := records(4)
	if err := s.WriteAt(0, data[:2]); err != nil {
		t.Fatalf("WriteAt(0) error = %v", err)
	}
	if err := s.WriteAt(2, data[2:]); err != nil {
		t.Fatalf("WriteAt(2) error = %v", err)
	}
	if diff := cmp.Diff(data, contents(t, dev, s, 4)); diff != "" {
		t.Errorf("buffer contents mismatch (-want +got):\n%s", diff)
	}

	if err := s.WriteAt(3, data[:2]); !errors.Is(err, dynbuf.ErrOutOfRange) {
		t.Errorf("WriteAt past end error = %v, want ErrOutOfRange", err)
	}
	if err := s.ReadAt(0, make([]geometry.LineRecord, 4)); err != nil {
		t.Errorf("ReadAt() error = %v", err)
	}
	if err := s.ReadAt(2, make([]geometry.LineRecord, 3)); !errors.Is(err, dynbuf.ErrOutOfRange) {
		t.Errorf("ReadAt past end error = %v, want ErrOutOfRange", err)
	}
}

func TestAllocatorLimitAndRelease(t *testing.T) {
	dev := noopDevice(t)
	a := NewAllocator[geometry.LineRecord](dev, geometry.LineRecordCodec{}, 0, 8*geometry.LineRecordStride)

	if _, err := a.Allocate("big", 9); !errors.Is(err, dynbuf.ErrAllocation) {
		t.Errorf("Allocate over limit error = %v, want ErrAllocation", err)
	}
	s, err := a.Allocate("ok", 8)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if _, _, bytes := a.Stats(); bytes != 8*geometry.LineRecordStride {
		t.Errorf("bytes = %d, want %d", bytes, 8*geometry.LineRecordStride)
	}

	s.Release()
	s.Release()
	if _, _, bytes := a.Stats(); bytes != 0 {
		t.Errorf("bytes after release = %d, want 0", bytes)
	}
	if err := s.WriteAt(0, records(1)); !errors.Is(err, ErrStoreReleased) {
		t.Errorf("WriteAt after Release error = %v, want ErrStoreReleased", err)
	}
}

func TestAllocatorByteSizeOverflow(t *testing.T) {
	dev := noopDevice(t)
	capped := NewAllocator[geometry.LineRecord](dev, geometry.LineRecordCodec{}, 0, 8*geometry.LineRecordStride)
	unlimited := NewAllocator[geometry.LineRecord](dev, geometry.LineRecordCodec{}, 0, 0)

	tests := []struct {
		name     string
		a        *Allocator[geometry.LineRecord]
		capacity int
	}{
		// 16 * (1<<60 + 1) wraps to 16 bytes, under the cap.
		{"wraps under cap", capped, 1<<60 + 1},
		{"unlimited", unlimited, 1 << 62},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.a.Allocate("huge", tt.capacity); !errors.Is(err, dynbuf.ErrAllocation) {
				t.Errorf("Allocate(%d) error = %v, want ErrAllocation", tt.capacity, err)
			}
		})
	}
	if allocs, _, _ := unlimited.Stats(); allocs != 0 {
		t.Errorf("allocs = %d, want 0", allocs)
	}

	b, err := dynbuf.New[geometry.LineRecord](capped, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()
	if _, err := b.Reserve(1<<62 + 1); !errors.Is(err, dynbuf.ErrAllocation) {
		t.Errorf("Reserve() error = %v, want ErrAllocation", err)
	}
}

func TestAllocatorCopy(t *testing.T) {
	dev := noopDevice(t)
	a := NewAllocator[geometry.LineRecord](dev, geometry.LineRecordCodec{}, 0, 0)
	other := NewAllocator[geometry.LineRecord](dev, geometry.LineRecordCodec{}, 0, 0)

	src, _ := a.Allocate("src", 2)
	dst, _ := a.Allocate("dst", 4)
	foreign, _ := other.Allocate("foreign", 4)

	if err := a.Copy(dst, src, 2); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if err := a.Copy(dst, src, 3); !errors.Is(err, dynbuf.ErrOutOfRange) {
		t.Errorf("Copy() too many error = %v, want ErrOutOfRange", err)
	}
	if err := a.Copy(foreign, src, 1); !errors.Is(err, dynbuf.ErrForeignStore) {
		t.Errorf("Copy() foreign error = %v, want ErrForeignStore", err)
	}
	host := &dynbuf.HostAllocator[geometry.LineRecord]{}
	hs, _ := host.Allocate("host", 4)
	if err := a.Copy(dst, hs, 1); !errors.Is(err, dynbuf.ErrForeignStore) {
		t.Errorf("Copy() from host store error = %v, want ErrForeignStore", err)
	}
	if allocs, copies, _ := a.Stats(); allocs != 2 || copies != 1 {
		t.Errorf("Stats() = %d allocs, %d copies; want 2, 1", allocs, copies)
	}
}

func TestBufferOnDevice(t *testing.T) {
	dev := noopDevice(t)
	a := NewAllocator[geometry.LineRecord](dev, geometry.LineRecordCodec{}, 0, 0)

	buf, err := dynbuf.New(a, 0, dynbuf.WithLabel("device_lines"))
	if err != nil {
		t.Fatalf("dynbuf.New() error = %v", err)
	}
	defer buf.Release()

	data := records(5)
	if err := buf.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.Capacity() != 8 || buf.Size() != 5 {
		t.Errorf("capacity %d size %d, want 8 and 5", buf.Capacity(), buf.Size())
	}
	if diff := cmp.Diff(data, contents(t, dev, buf.Get().Store(), 5)); diff != "" {
		t.Errorf("device contents mismatch (-want +got):\n%s", diff)
	}

	if err := buf.Write(records(12)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, copies, _ := a.Stats(); copies != 0 {
		t.Errorf("Write growth copied %d times, want 0", copies)
	}

	if err := buf.Extend(records(5)); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	if buf.Capacity() != 32 || buf.Size() != 17 {
		t.Errorf("capacity %d size %d, want 32 and 17", buf.Capacity(), buf.Size())
	}
	if _, copies, _ := a.Stats(); copies != 1 {
		t.Errorf("Extend growth copied %d times, want 1", copies)
	}

	if st := buf.Get().Store().(*Store[geometry.LineRecord]); st.Buffer() == nil {
		t.Error("Store().Buffer() = nil for a live buffer")
	}
}
