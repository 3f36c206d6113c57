package render

import (
	"image"
	"image/color"
	"math"

	goperlin "github.com/aquilax/go-perlin"
	"golang.org/x/image/draw"
)

// Background generates the empty sky the compositor starts every frame from.
// Generate is called once per compositor; the result is cached.
type Background interface {
	Generate(res Resolution) *image.RGBA
}

// Octave weighting for the noise generator.
const (
	noiseAlpha   = 2
	noiseBeta    = 2
	noiseOctaves = 3
)

// SkyColor is the default midnight-blue sky.
var SkyColor = color.RGBA{R: 25, G: 25, B: 112, A: 255}

// FlatBackground fills the sky with a single color.
type FlatBackground struct {
	Color color.RGBA
}

// Generate implements Background.
func (b FlatBackground) Generate(res Resolution) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(b.Color), image.Point{}, draw.Src)
	return img
}

// NoiseBackground tints a flat sky with Perlin noise, brighter in blue, for a
// faint nebulous texture.
type NoiseBackground struct {
	Color color.RGBA
	// Scale is the noise cell size in pixels.
	Scale float64
	// Strength is the peak added channel value for red and green; blue gets
	// five times as much.
	Strength float64
	Seed     int64
}

// DefaultNoiseBackground returns the noise variant with the stock settings.
func DefaultNoiseBackground(seed int64) NoiseBackground {
	return NoiseBackground{Color: SkyColor, Scale: 300, Strength: 10, Seed: seed}
}

// Generate implements Background.
func (b NoiseBackground) Generate(res Resolution) *image.RGBA {
	img := FlatBackground{Color: b.Color}.Generate(res)
	noise := perlin(res.Width, res.Height, b.Scale, b.Seed)

	for y := 0; y < res.Height; y++ {
		for x := 0; x < res.Width; x++ {
			n := noise[y*res.Width+x] * b.Strength
			i := img.PixOffset(x, y)
			img.Pix[i+0] = addSat(img.Pix[i+0], n)
			img.Pix[i+1] = addSat(img.Pix[i+1], n)
			img.Pix[i+2] = addSat(img.Pix[i+2], 5*n)
		}
	}
	return img
}

func addSat(v uint8, d float64) uint8 {
	return uint8(math.Min(float64(v)+d, 255))
}

// perlin returns gradient noise normalized to [0, 1], row-major.
func perlin(w, h int, scale float64, seed int64) []float64 {
	if scale <= 0 {
		scale = 1
	}
	gen := goperlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)

	out := make([]float64, w*h)
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := gen.Noise2D(float64(x)/scale, float64(y)/scale)
			out[y*w+x] = n
			lo = math.Min(lo, n)
			hi = math.Max(hi, n)
		}
	}

	span := hi - lo
	for i := range out {
		if span > 0 {
			out[i] = (out[i] - lo) / span
		} else {
			out[i] = 0
		}
	}
	return out
}
