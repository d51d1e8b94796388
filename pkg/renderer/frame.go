package renderer

import (
	"image"
	"image/color"
	"iter"
	"slices"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Frame is the render target: one linear color sum per pixel, stored in
// scanline-major order with row 0 at the top
type Frame struct {
	width           int
	height          int
	samplesPerPixel int
	sums            []core.Color
}

// NewFrame allocates a black frame
func NewFrame(width, height, samplesPerPixel int) *Frame {
	return &Frame{
		width:           width,
		height:          height,
		samplesPerPixel: samplesPerPixel,
		sums:            make([]core.Color, width*height),
	}
}

func (f *Frame) Width() int           { return f.width }
func (f *Frame) Height() int          { return f.height }
func (f *Frame) SamplesPerPixel() int { return f.samplesPerPixel }

// row returns the writable slice backing scanline y. Distinct rows never
// share memory, so one goroutine per row needs no locking.
func (f *Frame) row(y int) []core.Color {
	start := y * f.width
	return f.sums[start : start+f.width : start+f.width]
}

// Sum returns the accumulated, unaveraged radiance of pixel (x, y)
func (f *Frame) Sum(x, y int) core.Color {
	return f.sums[y*f.width+x]
}

// AddSample accumulates one radiance sample into pixel (x, y)
func (f *Frame) AddSample(x, y int, c core.Color) {
	i := y*f.width + x
	f.sums[i] = f.sums[i].Add(c)
}

// Color returns the averaged linear color of pixel (x, y)
func (f *Frame) Color(x, y int) core.Color {
	return f.Sum(x, y).Divide(float64(f.samplesPerPixel))
}

// Pixels returns a copy of the linear sums in scanline-major order
func (f *Frame) Pixels() []core.Color {
	return slices.Clone(f.sums)
}

// Quantized yields the gamma-corrected 8-bit color of every pixel in
// scanline-major order
func (f *Frame) Quantized() iter.Seq[core.RGB8] {
	return func(yield func(core.RGB8) bool) {
		for _, sum := range f.sums {
			if !yield(core.QuantizeColor(sum, f.samplesPerPixel)) {
				return
			}
		}
	}
}

// ToRGBA converts the frame to an opaque image for the standard encoders
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	i := 0
	for c := range f.Quantized() {
		img.SetRGBA(i%f.width, i/f.width, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		i++
	}
	return img
}
