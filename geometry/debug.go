// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/spline"
	"github.com/gogpu/spline/dynbuf"
)

type debugGroup struct {
	deadline time.Time // zero: shown for one update only
	lines    []Line
}

// DebugGeometry collects short-lived helper lines, such as hit-test rays,
// drawn in a single color.
type DebugGeometry struct {
	mu     sync.Mutex
	groups []debugGroup
	buf    *dynbuf.Buffer[LineRecord]
}

// NewDebugGeometry creates an empty debug line set whose records live in
// stores from alloc.
func NewDebugGeometry(alloc dynbuf.Allocator[LineRecord], opts ...dynbuf.Option) (*DebugGeometry, error) {
	opts = append([]dynbuf.Option{dynbuf.WithLabel("debug_lines")}, opts...)
	buf, err := dynbuf.New(alloc, 0, opts...)
	if err != nil {
		return nil, fmt.Errorf("geometry: debug buffer: %w", err)
	}
	return &DebugGeometry{buf: buf}, nil
}

// Color returns the color debug lines are drawn in.
func (g *DebugGeometry) Color() Color { return Blue }

// AddLines queues lines to be shown until ttl has elapsed after now.
// A ttl of zero or less shows them for the next Update only.
func (g *DebugGeometry) AddLines(lines []Line, now time.Time, ttl time.Duration) {
	grp := debugGroup{lines: slices.Clone(lines)}
	if ttl > 0 {
		grp.deadline = now.Add(ttl)
	}
	g.mu.Lock()
	g.groups = append(g.groups, grp)
	g.mu.Unlock()
}

// Update rebuilds the line buffer from all queued groups, then drops the
// groups whose deadline is not after now.
func (g *DebugGeometry) Update(now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := 0
	for _, grp := range g.groups {
		total += len(grp.lines)
	}
	g.buf.Clear()
	if err := g.buf.ExtendN(total, g.records()); err != nil {
		return err
	}

	before := len(g.groups)
	g.groups = slices.DeleteFunc(g.groups, func(grp debugGroup) bool {
		return grp.deadline.IsZero() || !grp.deadline.After(now)
	})
	if n := before - len(g.groups); n > 0 {
		spline.Logger().Debug("geometry: debug lines expired", "groups", n, "remaining", len(g.groups))
	}
	return nil
}

// Pending returns the number of queued line groups.
func (g *DebugGeometry) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.groups)
}

// Lines returns a view of the records written by the last Update.
func (g *DebugGeometry) Lines() dynbuf.View[LineRecord] {
	return g.buf.Get()
}

// Release frees the line buffer.
func (g *DebugGeometry) Release() {
	g.buf.Release()
}

func (g *DebugGeometry) records() iter.Seq[LineRecord] {
	return func(yield func(LineRecord) bool) {
		for _, grp := range g.groups {
			for _, l := range grp.lines {
				if !yield(l.Record()) {
					return
				}
			}
		}
	}
}
