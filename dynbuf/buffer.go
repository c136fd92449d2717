// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dynbuf

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sync"

	"github.com/gogpu/spline"
)

// Buffer errors.
var (
	// ErrAllocation is returned when the backing store cannot be (re)allocated.
	// The buffer keeps its previous store and content.
	ErrAllocation = errors.New("dynbuf: allocation failed")

	// ErrReleased is returned when operating on a released buffer.
	ErrReleased = errors.New("dynbuf: buffer has been released")

	// ErrInvalidSize is returned for negative sizes and capacities.
	ErrInvalidSize = errors.New("dynbuf: invalid size")

	// ErrOutOfRange is returned when a store access is out of bounds.
	ErrOutOfRange = errors.New("dynbuf: range out of bounds")

	// ErrForeignStore is returned when an allocator is asked to copy stores
	// it did not create.
	ErrForeignStore = errors.New("dynbuf: store belongs to another allocator")

	// ErrShortSequence is returned by ExtendN when the sequence yields fewer
	// elements than announced.
	ErrShortSequence = errors.New("dynbuf: sequence shorter than count")

	// ErrStaleView is returned when reading a View after the buffer changed.
	ErrStaleView = errors.New("dynbuf: view is stale")
)

// Buffer is a growable append buffer of T over a store provided by an
// Allocator.
//
// Elements [0, Size()) are valid; the rest of the capacity is unspecified.
// Capacity grows geometrically along two separate paths:
//
//   - Write replaces the whole content, so it reallocates without copying.
//   - Extend, ExtendN, ExtendWrite and Reserve copy the existing elements
//     into the new store before appending.
//
// Thread Safety:
// Buffer is safe for concurrent use. Mutating methods take an exclusive lock;
// Size, Capacity, Get and View reads share a read lock.
type Buffer[T any] struct {
	mu sync.RWMutex

	alloc Allocator[T]
	store Store[T] // nil while capacity is 0
	size  int

	// gen increments on every mutation so views can detect staleness.
	gen uint64

	label         string
	initialGrowth int
	released      bool
}

// New creates a buffer with at least the given capacity.
// A capacity of 0 allocates nothing until the first growth.
func New[T any](alloc Allocator[T], capacity int, opts ...Option) (*Buffer[T], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidSize, capacity)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &Buffer[T]{
		alloc:         alloc,
		label:         o.label,
		initialGrowth: o.initialGrowth,
	}
	if capacity > 0 {
		store, err := alloc.Allocate(b.label, capacity)
		if err != nil {
			return nil, err
		}
		b.store = store
	}
	return b, nil
}

// Size returns the number of valid elements.
func (b *Buffer[T]) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Capacity returns the number of elements the current store can hold.
func (b *Buffer[T]) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.capacityLocked()
}

func (b *Buffer[T]) capacityLocked() int {
	if b.store == nil {
		return 0
	}
	return b.store.Cap()
}

// Label returns the debug label given with WithLabel.
func (b *Buffer[T]) Label() string { return b.label }

// Write replaces the content of the buffer with data.
//
// If data does not fit, the store is reallocated without copying the old
// content, since all of it is about to be replaced.
func (b *Buffer[T]) Write(data []T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	b.gen++

	if len(data) == 0 {
		b.size = 0
		return nil
	}
	if err := b.growDiscard(len(data)); err != nil {
		return err
	}
	if err := b.store.WriteAt(0, data); err != nil {
		return fmt.Errorf("dynbuf: write %s: %w", b.label, err)
	}
	b.size = len(data)
	return nil
}

// Extend appends data to the buffer, preserving the existing elements.
func (b *Buffer[T]) Extend(data []T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	b.gen++

	if len(data) == 0 {
		return nil
	}
	if _, err := b.growPreserve(b.size + len(data)); err != nil {
		return err
	}
	if err := b.store.WriteAt(b.size, data); err != nil {
		return fmt.Errorf("dynbuf: extend %s: %w", b.label, err)
	}
	b.size += len(data)
	return nil
}

// ExtendN appends the first count elements of seq.
// It returns ErrShortSequence, leaving Size unchanged, if seq yields fewer.
// seq is consumed under the buffer's lock and must not call methods of b.
func (b *Buffer[T]) ExtendN(count int, seq iter.Seq[T]) error {
	return b.extend(count, func(dst []T) error {
		i := 0
		for v := range seq {
			dst[i] = v
			i++
			if i == len(dst) {
				break
			}
		}
		if i < len(dst) {
			return fmt.Errorf("%w: got %d of %d", ErrShortSequence, i, len(dst))
		}
		return nil
	})
}

// ExtendWrite grows the buffer by count elements and lets fill write them
// directly. fill runs under the buffer's lock: it must not retain the
// slice or call methods of b.
func (b *Buffer[T]) ExtendWrite(count int, fill func([]T)) error {
	return b.extend(count, func(dst []T) error {
		fill(dst)
		return nil
	})
}

func (b *Buffer[T]) extend(count int, fill func([]T) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	if count < 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidSize, count)
	}
	b.gen++

	if count == 0 {
		return nil
	}
	if count > math.MaxInt-b.size {
		return fmt.Errorf("%w: %s: %d elements after size %d overflows int", ErrAllocation, b.label, count, b.size)
	}
	if _, err := b.growPreserve(b.size + count); err != nil {
		return err
	}
	if err := b.mapRange(b.size, b.size+count, fill); err != nil {
		return err
	}
	b.size += count
	return nil
}

// Reserve ensures the capacity is at least n, preserving the content.
// It reports whether the store was reallocated; when n already fits it does
// nothing.
func (b *Buffer[T]) Reserve(n int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return false, ErrReleased
	}
	if n < 0 {
		return false, fmt.Errorf("%w: reserve %d", ErrInvalidSize, n)
	}
	grown, err := b.growPreserve(n)
	if grown {
		b.gen++
	}
	return grown, err
}

// Clear sets the size to zero. The capacity is kept.
func (b *Buffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.size = 0
}

// Get returns a read-only view of the valid elements.
// The view becomes stale on the next mutation of the buffer.
func (b *Buffer[T]) Get() View[T] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return View[T]{b: b, store: b.store, n: b.size, gen: b.gen}
}

// WithMapping gives f exclusive access to the valid elements for in-place
// edits. f runs under the buffer's lock: it must not retain the slice or
// call methods of b.
func (b *Buffer[T]) WithMapping(f func([]T)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	b.gen++

	if b.size == 0 {
		f(nil)
		return nil
	}
	return b.mapRange(0, b.size, func(s []T) error {
		f(s)
		return nil
	})
}

// Release frees the backing store. The buffer must not be used afterwards.
func (b *Buffer[T]) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	if b.store != nil {
		b.store.Release()
		b.store = nil
	}
	b.size = 0
	b.gen++
	b.released = true
}

// mapRange runs f over [lo, hi) of the store. Stores that cannot map in
// place are read into a temporary slice that is written back afterwards;
// the read is skipped past the valid size since that content is unspecified.
func (b *Buffer[T]) mapRange(lo, hi int, f func([]T) error) error {
	if m, ok := b.store.(Mapper[T]); ok {
		var ferr error
		if err := m.Map(lo, hi, func(s []T) { ferr = f(s) }); err != nil {
			return fmt.Errorf("dynbuf: map %s: %w", b.label, err)
		}
		return ferr
	}

	tmp := make([]T, hi-lo)
	if valid := min(hi, b.size) - lo; valid > 0 {
		if err := b.store.ReadAt(lo, tmp[:valid]); err != nil {
			return fmt.Errorf("dynbuf: map %s: %w", b.label, err)
		}
	}
	if err := f(tmp); err != nil {
		return err
	}
	if err := b.store.WriteAt(lo, tmp); err != nil {
		return fmt.Errorf("dynbuf: map %s: %w", b.label, err)
	}
	return nil
}

// growDiscard makes room for n elements by doubling the capacity and
// allocating a fresh store. The old content is dropped and size reset;
// callers overwrite everything afterwards.
func (b *Buffer[T]) growDiscard(n int) error {
	oldCap := b.capacityLocked()
	if n <= oldCap {
		return nil
	}
	newCap := grownCap(max(oldCap, 1), n)

	store, err := b.alloc.Allocate(b.label, newCap)
	if err != nil {
		return err
	}
	if b.store != nil {
		b.store.Release()
	}
	b.store = store
	b.size = 0

	spline.Logger().Debug("dynbuf: grow (discard)",
		"label", b.label, "from", oldCap, "to", newCap)
	return nil
}

// growPreserve makes room for n elements, starting at the initial growth
// step and doubling, then copies [0, size) into the new store.
// On failure the old store is kept untouched.
func (b *Buffer[T]) growPreserve(n int) (bool, error) {
	oldCap := b.capacityLocked()
	if n <= oldCap {
		return false, nil
	}
	newCap := oldCap
	if newCap == 0 {
		newCap = b.initialGrowth
	}
	newCap = grownCap(newCap, n)

	store, err := b.alloc.Allocate(b.label, newCap)
	if err != nil {
		return false, err
	}
	if b.size > 0 {
		if err := b.alloc.Copy(store, b.store, b.size); err != nil {
			store.Release()
			return false, fmt.Errorf("dynbuf: preserve %s: %w", b.label, err)
		}
	}
	if b.store != nil {
		b.store.Release()
	}
	b.store = store

	spline.Logger().Debug("dynbuf: grow (preserve)",
		"label", b.label, "from", oldCap, "to", newCap, "copied", b.size)
	return true, nil
}

// grownCap doubles c until it holds n. When doubling would overflow it
// returns n itself and leaves the decision to the allocator.
func grownCap(c, n int) int {
	for c < n {
		if c > math.MaxInt/2 {
			return n
		}
		c *= 2
	}
	return c
}
