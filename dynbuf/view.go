// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dynbuf

import "fmt"

// View is a read-only window over the valid elements of a Buffer at the time
// Get was called. Reads fail with ErrStaleView once the buffer is mutated.
type View[T any] struct {
	b     *Buffer[T]
	store Store[T]
	n     int
	gen   uint64
}

// Len returns the number of elements in the view.
func (v View[T]) Len() int { return v.n }

// Store returns the backing store holding the elements, for binding by a
// renderer. It is nil for an empty buffer that never allocated.
func (v View[T]) Store() Store[T] { return v.store }

// Read copies up to len(dst) elements from the start of the view into dst
// and returns the number copied.
func (v View[T]) Read(dst []T) (int, error) {
	if v.b == nil {
		return 0, nil
	}
	v.b.mu.RLock()
	defer v.b.mu.RUnlock()
	if v.b.gen != v.gen {
		return 0, fmt.Errorf("%w: %s", ErrStaleView, v.b.label)
	}
	n := min(len(dst), v.n)
	if n == 0 {
		return 0, nil
	}
	if err := v.store.ReadAt(0, dst[:n]); err != nil {
		return 0, fmt.Errorf("dynbuf: read %s: %w", v.b.label, err)
	}
	return n, nil
}

// Slice returns a copy of all elements in the view.
func (v View[T]) Slice() ([]T, error) {
	out := make([]T, v.n)
	n, err := v.Read(out)
	return out[:n], err
}
