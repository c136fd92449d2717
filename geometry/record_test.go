// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geometry

import (
	"encoding/binary"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColoredLineCodecLayout(t *testing.T) {
	var codec ColoredLineCodec
	src := []ColoredLine{
		{Start: Vertex{1, 2}, End: Vertex{3, 4}, Color: Red},
		{Start: Vertex{-1, 0.5}, End: Vertex{0, 0}, Color: White},
	}
	buf := make([]byte, len(src)*codec.Stride())
	codec.Encode(buf, src)

	wantFloats := []float32{1, 2, 3, 4, 0.9, 0.1, 0.1, 1, -1, 0.5, 0, 0, 1, 1, 1, 1}
	for i, want := range wantFloats {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != want {
			t.Errorf("float %d = %v, want %v", i, got, want)
		}
	}

	dst := make([]ColoredLine, len(src))
	codec.Decode(dst, buf)
	if diff := cmp.Diff(src, dst); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestLineRecordCodec(t *testing.T) {
	var codec LineRecordCodec
	src := []LineRecord{NewLine(1, 2, 3, 4).Record()}
	buf := make([]byte, codec.Stride())
	codec.Encode(buf, src)

	dst := make([]LineRecord, 1)
	codec.Decode(dst, buf)
	if dst[0] != src[0] {
		t.Errorf("Decode() = %+v, want %+v", dst[0], src[0])
	}
	if got := dst[0].Colored(Green).Color; got != Green {
		t.Errorf("Colored() color = %+v", got)
	}
}

func TestCodecLayoutsMatchStride(t *testing.T) {
	tests := []struct {
		name   string
		stride int
		layout uint64
	}{
		{"line", LineRecordCodec{}.Stride(), LineRecordCodec{}.Layout().ArrayStride},
		{"colored", ColoredLineCodec{}.Stride(), ColoredLineCodec{}.Layout().ArrayStride},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if uint64(tt.stride) != tt.layout {
				t.Errorf("ArrayStride = %d, want %d", tt.layout, tt.stride)
			}
		})
	}
	if n := len(ColoredLineCodec{}.Layout().Attributes); n != 3 {
		t.Errorf("colored attributes = %d, want 3", n)
	}
}

func TestColorNRGBA(t *testing.T) {
	tests := []struct {
		in   Color
		want color.NRGBA
	}{
		{Black, color.NRGBA{0, 0, 0, 255}},
		{White, color.NRGBA{255, 255, 255, 255}},
		{RGBA(0.5, -1, 2, 0), color.NRGBA{128, 0, 255, 0}},
	}
	for _, tt := range tests {
		if got := tt.in.NRGBA(); got != tt.want {
			t.Errorf("%+v.NRGBA() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
