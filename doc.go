// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package spline evaluates clamped rational B-spline (NURBS) curves.
//
// # Overview
//
// spline is the geometry core of the gogpu curve viewer. A [Curve] is an
// immutable description: a degree, weighted control points and a normalized
// knot vector. [Evaluate] turns it into a sequence of points that the
// geometry producers in geometry/ convert into line records and stream into
// growable buffers (dynbuf/) backed by host memory or GPU buffers (gpu/).
//
// # Quick Start
//
//	import "github.com/gogpu/spline"
//
//	c := spline.Circle(spline.V2(0, 0), 1)
//	pts, err := spline.Evaluate(c, 64)
//	if err != nil {
//	    return err
//	}
//
// # Evaluation
//
// Samples are taken at equal steps of the curve parameter. The active knot
// span is tracked incrementally while the parameter sweeps forward, and the
// Cox–de Boor recurrence runs in scratch space allocated once per call, so a
// sweep costs O(samples × degree). Reuse an [Evaluator] to avoid the
// scratch allocation across curves.
//
// The first and last samples are exactly the first and last control points.
//
// # Validation
//
// [New] rejects descriptions that break the clamped NURBS invariants, so a
// constructed Curve always evaluates to finite points.
//
// # Subpackages
//
//   - dynbuf: growable typed buffer with destructive and preserving growth
//   - geometry: curve, debug and model line producers; records and views
//   - gpu: wgpu/hal backing store for dynbuf buffers
package spline
