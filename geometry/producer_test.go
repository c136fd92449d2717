// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/gogpu/spline"
	"github.com/gogpu/spline/dynbuf"
	"github.com/google/go-cmp/cmp"
)

func mustView[T any](t *testing.T, v dynbuf.View[T]) []T {
	t.Helper()
	out, err := v.Slice()
	if err != nil {
		t.Fatalf("View.Slice() error = %v", err)
	}
	return out
}

func segment() *spline.Curve {
	return spline.MustNew(1,
		[]spline.ControlPoint{spline.CP(1, spline.V2(0, 0)), spline.CP(1, spline.V2(4, 0))},
		[]float64{0, 0, 1, 1})
}

func TestCurveGeometryUpdate(t *testing.T) {
	alloc := &dynbuf.HostAllocator[ColoredLine]{}
	g, err := NewCurveGeometry(alloc, 5)
	if err != nil {
		t.Fatalf("NewCurveGeometry() error = %v", err)
	}
	defer g.Release()

	g.AddCurve(segment(), Red)
	circle := g.AddCurve(spline.Circle(spline.V2(0, 0), 1), Green)
	if err := g.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	lines := mustView(t, g.Lines())
	if len(lines) != 8 {
		t.Fatalf("len(lines) = %d, want 8", len(lines))
	}
	want := []ColoredLine{
		{Start: Vertex{0, 0}, End: Vertex{1, 0}, Color: Red},
		{Start: Vertex{1, 0}, End: Vertex{2, 0}, Color: Red},
		{Start: Vertex{2, 0}, End: Vertex{3, 0}, Color: Red},
		{Start: Vertex{3, 0}, End: Vertex{4, 0}, Color: Red},
	}
	if diff := cmp.Diff(want, lines[:4]); diff != "" {
		t.Errorf("segment lines mismatch (-want +got):\n%s", diff)
	}
	for i := 5; i < 8; i++ {
		if lines[i].Start != lines[i-1].End {
			t.Errorf("circle polyline broken at %d", i)
		}
	}
	if lines[4].Start != (Vertex{1, 0}) || lines[7].End != (Vertex{1, 0}) {
		t.Errorf("circle not closed: start %v end %v", lines[4].Start, lines[7].End)
	}

	// Replacing a curve rewrites the buffer without copying old content.
	if err := g.SetCurve(circle, segment()); err != nil {
		t.Fatalf("SetCurve() error = %v", err)
	}
	if err := g.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if alloc.Copies() != 0 {
		t.Errorf("Copies() = %d, want 0", alloc.Copies())
	}
	lines = mustView(t, g.Lines())
	if lines[4].Color != Green || lines[7].End != (Vertex{4, 0}) {
		t.Errorf("replaced curve lines = %+v", lines[4:])
	}
}

func TestCurveGeometrySetCurveOutOfRange(t *testing.T) {
	g, err := NewCurveGeometry(&dynbuf.HostAllocator[ColoredLine]{}, 0)
	if err != nil {
		t.Fatalf("NewCurveGeometry() error = %v", err)
	}
	if err := g.SetCurve(0, segment()); !errors.Is(err, ErrNoCurve) {
		t.Errorf("SetCurve() error = %v, want ErrNoCurve", err)
	}
	if err := g.Update(); err != nil {
		t.Errorf("Update() on empty set error = %v", err)
	}
	if n := g.Lines().Len(); n != 0 {
		t.Errorf("Lines().Len() = %d, want 0", n)
	}
}

func TestDebugGeometryExpiry(t *testing.T) {
	g, err := NewDebugGeometry(&dynbuf.HostAllocator[LineRecord]{})
	if err != nil {
		t.Fatalf("NewDebugGeometry() error = %v", err)
	}
	defer g.Release()

	now := time.Unix(1000, 0)
	g.AddLines([]Line{NewLine(0, 0, 1, 1)}, now, 0)
	g.AddLines([]Line{NewLine(0, 0, 2, 2), NewLine(2, 2, 3, 3)}, now, 2*time.Second)

	steps := []struct {
		at      time.Duration
		want    int
		pending int
	}{
		{0, 3, 1},
		{time.Second, 2, 1},
		{2 * time.Second, 2, 0},
		{3 * time.Second, 0, 0},
	}
	for _, s := range steps {
		if err := g.Update(now.Add(s.at)); err != nil {
			t.Fatalf("Update(+%v) error = %v", s.at, err)
		}
		if n := g.Lines().Len(); n != s.want {
			t.Errorf("after Update(+%v) lines = %d, want %d", s.at, n, s.want)
		}
		if p := g.Pending(); p != s.pending {
			t.Errorf("after Update(+%v) pending = %d, want %d", s.at, p, s.pending)
		}
	}
	if g.Color() != Blue {
		t.Errorf("Color() = %+v, want Blue", g.Color())
	}
}

func TestDebugGeometryCopiesInput(t *testing.T) {
	g, err := NewDebugGeometry(&dynbuf.HostAllocator[LineRecord]{})
	if err != nil {
		t.Fatalf("NewDebugGeometry() error = %v", err)
	}
	lines := []Line{NewLine(0, 0, 1, 0)}
	g.AddLines(lines, time.Now(), time.Minute)
	lines[0] = NewLine(9, 9, 9, 9)

	if err := g.Update(time.Now()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got := mustView(t, g.Lines())
	if got[0] != NewLine(0, 0, 1, 0).Record() {
		t.Errorf("line = %+v, caller mutation leaked in", got[0])
	}
}

func TestModelGeometryAddRegion(t *testing.T) {
	alloc := &dynbuf.HostAllocator[ColoredLine]{}
	g, err := NewModelGeometry(alloc)
	if err != nil {
		t.Fatalf("NewModelGeometry() error = %v", err)
	}
	defer g.Release()

	square := []Point{Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0, 1)}
	if err := g.AddRegion(Red, square); err != nil {
		t.Fatalf("AddRegion() error = %v", err)
	}
	if err := g.AddRegion(Green, nil); err != nil {
		t.Fatalf("AddRegion(empty) error = %v", err)
	}
	if g.Regions() != 1 {
		t.Fatalf("Regions() = %d, want 1", g.Regions())
	}
	r, err := g.Region(0)
	if err != nil {
		t.Fatalf("Region(0) error = %v", err)
	}
	if len(r) != 5 || r[4] != r[0] {
		t.Errorf("Region(0) = %v, want closed outline", r)
	}
	for _, i := range []int{-1, 1} {
		if _, err := g.Region(i); !errors.Is(err, ErrNoRegion) {
			t.Errorf("Region(%d) error = %v, want ErrNoRegion", i, err)
		}
	}

	lines := mustView(t, g.Lines())
	want := []ColoredLine{
		{Start: Vertex{0, 0}, End: Vertex{1, 0}, Color: Red},
		{Start: Vertex{1, 0}, End: Vertex{1, 1}, Color: Red},
		{Start: Vertex{1, 1}, End: Vertex{0, 1}, Color: Red},
		{Start: Vertex{0, 1}, End: Vertex{0, 0}, Color: Red},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}

	// A ninth edge crosses the initial capacity of 8 and must keep the
	// earlier edges.
	tri := []Point{Pt(2, 0), Pt(3, 0), Pt(2, 1)}
	for range 2 {
		if err := g.AddRegion(Blue, tri); err != nil {
			t.Fatalf("AddRegion() error = %v", err)
		}
	}
	lines = mustView(t, g.Lines())
	if len(lines) != 10 {
		t.Fatalf("len(lines) = %d, want 10", len(lines))
	}
	if diff := cmp.Diff(want, lines[:4]); diff != "" {
		t.Errorf("edges lost across growth (-want +got):\n%s", diff)
	}
	if alloc.Copies() != 1 {
		t.Errorf("Copies() = %d, want 1", alloc.Copies())
	}
}

func TestModelGeometryEdgesHitTest(t *testing.T) {
	g, err := NewModelGeometry(&dynbuf.HostAllocator[ColoredLine]{})
	if err != nil {
		t.Fatalf("NewModelGeometry() error = %v", err)
	}
	if err := g.AddRegion(Black, []Point{Pt(2, -1), Pt(4, -1), Pt(4, 1), Pt(2, 1)}); err != nil {
		t.Fatalf("AddRegion() error = %v", err)
	}
	if n := len(slices.Collect(g.Edges())); n != 4 {
		t.Fatalf("Edges() = %d, want 4", n)
	}

	r := Ray{Origin: Pt(0, 0), Direction: Pt(1, 0)}
	tHit, ok := r.IntersectLines(g.Edges())
	if !ok || tHit != 2 {
		t.Errorf("IntersectLines() = %v, %v; want 2, true", tHit, ok)
	}
}
