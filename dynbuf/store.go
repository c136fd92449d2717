// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dynbuf

import (
	"fmt"
	"sync/atomic"
)

// Store is a fixed-capacity backing store of elements of type T.
// Stores are created by an Allocator and never change capacity.
type Store[T any] interface {
	// Cap returns the capacity in elements.
	Cap() int

	// WriteAt copies data into the store starting at element off.
	WriteAt(off int, data []T) error

	// ReadAt copies len(dst) elements starting at element off into dst.
	ReadAt(off int, dst []T) error

	// Release frees the storage. The store must not be used afterwards.
	Release()
}

// Allocator creates stores and copies between stores it created.
// It is the only part of a Buffer that knows where the elements live.
type Allocator[T any] interface {
	// Allocate creates a store with room for capacity elements.
	// Failures wrap ErrAllocation.
	Allocate(label string, capacity int) (Store[T], error)

	// Copy copies the first n elements of src into dst.
	Copy(dst, src Store[T], n int) error
}

// Mapper is implemented by stores that can expose elements in place.
// f must not retain the slice.
type Mapper[T any] interface {
	Map(lo, hi int, f func([]T)) error
}

// HostAllocator allocates stores in Go memory.
//
// HostAllocator is safe for concurrent use.
type HostAllocator[T any] struct {
	// Limit caps the capacity of a single store in elements.
	// Zero means unlimited.
	Limit int

	allocs atomic.Int64
	copies atomic.Int64
}

var _ Allocator[int] = (*HostAllocator[int])(nil)

// Allocate implements Allocator.
func (a *HostAllocator[T]) Allocate(label string, capacity int) (Store[T], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: %s: negative capacity %d", ErrAllocation, label, capacity)
	}
	if a.Limit > 0 && capacity > a.Limit {
		return nil, fmt.Errorf("%w: %s: %d elements exceeds limit %d", ErrAllocation, label, capacity, a.Limit)
	}
	a.allocs.Add(1)
	return &hostStore[T]{data: make([]T, capacity)}, nil
}

// Copy implements Allocator.
func (a *HostAllocator[T]) Copy(dst, src Store[T], n int) error {
	d, ok1 := dst.(*hostStore[T])
	s, ok2 := src.(*hostStore[T])
	if !ok1 || !ok2 {
		return fmt.Errorf("%w: host allocator cannot copy %T to %T", ErrForeignStore, src, dst)
	}
	if n < 0 || n > len(s.data) || n > len(d.data) {
		return fmt.Errorf("%w: copy %d elements from %d to %d", ErrOutOfRange, n, len(s.data), len(d.data))
	}
	copy(d.data[:n], s.data[:n])
	a.copies.Add(1)
	return nil
}

// Allocs returns the number of stores allocated so far.
func (a *HostAllocator[T]) Allocs() int { return int(a.allocs.Load()) }

// Copies returns the number of store-to-store copies performed so far.
func (a *HostAllocator[T]) Copies() int { return int(a.copies.Load()) }

// hostStore is a Store over a Go slice.
type hostStore[T any] struct {
	data []T
}

var _ Mapper[int] = (*hostStore[int])(nil)

func (s *hostStore[T]) Cap() int { return len(s.data) }

func (s *hostStore[T]) WriteAt(off int, data []T) error {
	if off < 0 || off+len(data) > len(s.data) {
		return fmt.Errorf("%w: write [%d, %d) of %d", ErrOutOfRange, off, off+len(data), len(s.data))
	}
	copy(s.data[off:], data)
	return nil
}

func (s *hostStore[T]) ReadAt(off int, dst []T) error {
	if off < 0 || off+len(dst) > len(s.data) {
		return fmt.Errorf("%w: read [%d, %d) of %d", ErrOutOfRange, off, off+len(dst), len(s.data))
	}
	copy(dst, s.data[off:])
	return nil
}

func (s *hostStore[T]) Map(lo, hi int, f func([]T)) error {
	if lo < 0 || lo > hi || hi > len(s.data) {
		return fmt.Errorf("%w: map [%d, %d) of %d", ErrOutOfRange, lo, hi, len(s.data))
	}
	f(s.data[lo:hi:hi])
	return nil
}

func (s *hostStore[T]) Release() { s.data = nil }
