// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Vertex is a float32 2D position as stored in line records.
type Vertex struct {
	X, Y float32
}

// Point converts the vertex back to a canvas point.
func (v Vertex) Point() Point {
	return Point{X: float64(v.X), Y: float64(v.Y)}
}

// LineRecord is one uncolored line segment. The renderer supplies the color
// for a whole buffer of them.
type LineRecord struct {
	Start, End Vertex
}

// Colored attaches c to the segment.
func (r LineRecord) Colored(c Color) ColoredLine {
	return ColoredLine{Start: r.Start, End: r.End, Color: c}
}

// ColoredLine is one line segment with its own color.
type ColoredLine struct {
	Start, End Vertex
	Color      Color
}

// Record sizes in bytes.
const (
	LineRecordStride  = 16
	ColoredLineStride = 32
)

// LineRecordCodec encodes LineRecord values as four little-endian float32s:
// start.x, start.y, end.x, end.y.
type LineRecordCodec struct{}

// Stride returns the encoded size of one record.
func (LineRecordCodec) Stride() int { return LineRecordStride }

// Encode writes src into dst, which must hold len(src)*Stride() bytes.
func (LineRecordCodec) Encode(dst []byte, src []LineRecord) {
	for i, r := range src {
		b := dst[i*LineRecordStride:]
		putVertex(b[0:8], r.Start)
		putVertex(b[8:16], r.End)
	}
}

// Decode reads len(dst) records from src.
func (LineRecordCodec) Decode(dst []LineRecord, src []byte) {
	for i := range dst {
		b := src[i*LineRecordStride:]
		dst[i] = LineRecord{Start: getVertex(b[0:8]), End: getVertex(b[8:16])}
	}
}

// Layout returns the per-vertex layout binding start at location 0 and end
// at location 1.
func (LineRecordCodec) Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: LineRecordStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // start
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // end
		},
	}
}

// ColoredLineCodec encodes ColoredLine values as eight little-endian float32s:
// start, end, then color in RGBA order.
type ColoredLineCodec struct{}

// Stride returns the encoded size of one record.
func (ColoredLineCodec) Stride() int { return ColoredLineStride }

// Encode writes src into dst, which must hold len(src)*Stride() bytes.
func (ColoredLineCodec) Encode(dst []byte, src []ColoredLine) {
	for i, r := range src {
		b := dst[i*ColoredLineStride:]
		putVertex(b[0:8], r.Start)
		putVertex(b[8:16], r.End)
		binary.LittleEndian.PutUint32(b[16:20], math.Float32bits(r.Color.R))
		binary.LittleEndian.PutUint32(b[20:24], math.Float32bits(r.Color.G))
		binary.LittleEndian.PutUint32(b[24:28], math.Float32bits(r.Color.B))
		binary.LittleEndian.PutUint32(b[28:32], math.Float32bits(r.Color.A))
	}
}

// Decode reads len(dst) records from src.
func (ColoredLineCodec) Decode(dst []ColoredLine, src []byte) {
	for i := range dst {
		b := src[i*ColoredLineStride:]
		dst[i] = ColoredLine{
			Start: getVertex(b[0:8]),
			End:   getVertex(b[8:16]),
			Color: Color{
				R: getFloat32(b[16:20]),
				G: getFloat32(b[20:24]),
				B: getFloat32(b[24:28]),
				A: getFloat32(b[28:32]),
			},
		}
	}
}

// Layout returns the per-vertex layout binding start, end and color at
// locations 0, 1 and 2.
func (ColoredLineCodec) Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: ColoredLineStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // start
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // end
			{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // color
		},
	}
}

func putVertex(b []byte, v Vertex) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(v.Y))
}

func getVertex(b []byte) Vertex {
	return Vertex{X: getFloat32(b[0:4]), Y: getFloat32(b[4:8])}
}

func getFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
