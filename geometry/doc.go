// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package geometry turns canvas geometry into line records held in
// [dynbuf.Buffer] values, ready for a renderer to bind.
//
// Three producers share the record types:
//
//   - [CurveGeometry] samples spline curves and rewrites its buffer on every
//     update.
//   - [ModelGeometry] appends the closed outline of each region it is given.
//   - [DebugGeometry] shows helper lines for a limited time.
//
// [LineRecordCodec] and [ColoredLineCodec] define the byte layout of the
// records for device-backed stores, along with the matching vertex buffer
// layouts. [View] and [Matrix] map canvas space to pixels.
package geometry
