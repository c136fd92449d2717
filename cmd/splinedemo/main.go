// Command splinedemo samples a few NURBS curves, builds model and debug
// geometry in growable buffers, and renders a preview PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gogpu/spline"
	"github.com/gogpu/spline/dynbuf"
	"github.com/gogpu/spline/geometry"
	"github.com/gogpu/spline/gpu"
	"github.com/gogpu/spline/internal/raster"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "splines.png", "output file")
		samples = flag.Int("samples", geometry.DefaultSamples, "points sampled per curve")
		zoom    = flag.Float64("zoom", 400, "canvas zoom")
		useGPU  = flag.Bool("gpu", false, "keep line buffers in GPU memory (Vulkan)")
		verbose = flag.Bool("v", false, "log buffer growth")
	)
	flag.Parse()

	if *verbose {
		spline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	view := geometry.NewView(*width, *height)
	view.Zoom = *zoom
	if err := run(view, *samples, *useGPU, *output); err != nil {
		log.Fatalf("splinedemo: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

// allocators returns the allocators for both record types and a cleanup
// function. It falls back to host memory when no GPU can be opened.
func allocators(useGPU bool) (dynbuf.Allocator[geometry.ColoredLine], dynbuf.Allocator[geometry.LineRecord], func()) {
	if useGPU {
		dev, err := gpu.Open()
		if err == nil {
			log.Printf("using GPU %s", dev.Name())
			return gpu.NewAllocator[geometry.ColoredLine](dev, geometry.ColoredLineCodec{}, gpu.Config{}),
				gpu.NewAllocator[geometry.LineRecord](dev, geometry.LineRecordCodec{}, gpu.Config{}),
				dev.Close
		}
		log.Printf("GPU not available, using host memory: %v", err)
	}
	return &dynbuf.HostAllocator[geometry.ColoredLine]{}, &dynbuf.HostAllocator[geometry.LineRecord]{}, func() {}
}

func run(view geometry.View, samples int, useGPU bool, output string) error {
	colored, plain, cleanup := allocators(useGPU)
	defer cleanup()

	curves, err := geometry.NewCurveGeometry(colored, samples)
	if err != nil {
		return err
	}
	defer curves.Release()
	model, err := geometry.NewModelGeometry(colored)
	if err != nil {
		return err
	}
	defer model.Release()
	debug, err := geometry.NewDebugGeometry(plain)
	if err != nil {
		return err
	}
	defer debug.Release()

	if err := buildCurves(curves); err != nil {
		return err
	}
	if err := buildModel(model); err != nil {
		return err
	}
	castRays(debug, model)

	if err := curves.Update(); err != nil {
		return fmt.Errorf("update curves: %w", err)
	}
	if err := debug.Update(time.Now()); err != nil {
		return fmt.Errorf("update debug lines: %w", err)
	}

	canvas := raster.New(view, geometry.White)
	for _, v := range []dynbuf.View[geometry.ColoredLine]{model.Lines(), curves.Lines()} {
		lines, err := v.Slice()
		if err != nil {
			return err
		}
		canvas.DrawColoredLines(lines)
	}
	rays, err := debug.Lines().Slice()
	if err != nil {
		return err
	}
	canvas.DrawLines(rays, debug.Color())

	return savePNG(output, canvas)
}

func buildCurves(g *geometry.CurveGeometry) error {
	g.AddCurve(spline.Circle(spline.V2(0, 0), 0.5), geometry.Green)

	wave, err := spline.New(3, []spline.ControlPoint{
		spline.CP(1, spline.V2(-0.9, -0.5)),
		spline.CP(1, spline.V2(-0.5, 0.4)),
		spline.CP(2, spline.V2(0, -0.4)),
		spline.CP(1, spline.V2(0.5, 0.4)),
		spline.CP(1, spline.V2(0.9, -0.5)),
	}, spline.UniformKnots(5, 3))
	if err != nil {
		return fmt.Errorf("wave curve: %w", err)
	}
	g.AddCurve(wave, geometry.Red)
	return nil
}

func buildModel(g *geometry.ModelGeometry) error {
	hexagon := make([]geometry.Point, 6)
	for i := range hexagon {
		a := float64(i) * math.Pi / 3
		hexagon[i] = geometry.Pt(0.3*math.Cos(a)+0.2, 0.3*math.Sin(a)-0.1)
	}
	if err := g.AddRegion(geometry.Black, hexagon); err != nil {
		return err
	}
	return g.AddRegion(geometry.Black, []geometry.Point{
		geometry.Pt(-0.8, 0.3), geometry.Pt(-0.5, 0.3), geometry.Pt(-0.65, 0.6),
	})
}

// castRays shoots rays from a fixed point and records each one up to its first
// hit on a model edge.
func castRays(debug *geometry.DebugGeometry, model *geometry.ModelGeometry) {
	origin := geometry.Pt(-0.2, 0.1)
	var lines []geometry.Line
	for i := range 12 {
		a := float64(i) * math.Pi / 6
		ray := geometry.Ray{Origin: origin, Direction: geometry.Pt(math.Cos(a), math.Sin(a))}
		if t, ok := ray.IntersectLines(model.Edges()); ok {
			if l, ok := geometry.LineFromPoints(origin, ray.At(t)); ok {
				lines = append(lines, l)
			}
		}
	}
	debug.AddLines(lines, time.Now(), time.Second)
}

func savePNG(path string, c *raster.Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, c.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
