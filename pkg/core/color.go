package core

import "math"

// RGB8 is an output-ready pixel with 8-bit channels
type RGB8 struct {
	R, G, B uint8
}

// QuantizeColor converts an accumulated radiance sum into an 8-bit pixel.
// The sum is averaged over samplesPerPixel, gamma corrected with gamma 2
// (square root), clamped to [0, 0.999] and scaled by 256.
func QuantizeColor(sum Color, samplesPerPixel int) RGB8 {
	scale := 1.0 / float64(samplesPerPixel)
	return RGB8{
		R: quantizeChannel(sum.X * scale),
		G: quantizeChannel(sum.Y * scale),
		B: quantizeChannel(sum.Z * scale),
	}
}

// quantizeChannel maps a linear channel value to [0, 255]. NaN and negative
// values map to 0.
func quantizeChannel(linear float64) uint8 {
	if !(linear > 0) {
		return 0
	}
	gamma := math.Min(math.Sqrt(linear), 0.999)
	return uint8(256 * gamma)
}
