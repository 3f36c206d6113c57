// Package render projects catalog objects into screen space and composites
// sky frames.
package render

import "image"

// PixelFormat identifies the byte layout of a frame.
type PixelFormat int

const (
	// RGBA8 is 4 bytes per pixel in R, G, B, A order, as image.RGBA.
	RGBA8 PixelFormat = iota
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case RGBA8:
		return "RGBA8"
	default:
		return "unknown"
	}
}

// Resolution is a raster size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// Frame is one rendered raster. A frame owns its pixel buffer; whoever holds
// the frame may modify it without affecting the renderer.
type Frame struct {
	Width  int
	Height int
	Format PixelFormat
	Pix    []byte
}

// Image returns an *image.RGBA view over the frame's pixels.
func (f Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: 4 * f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Clone returns a deep copy of the frame.
func (f Frame) Clone() Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	f.Pix = pix
	return f
}

// frameFrom copies img into a new frame.
func frameFrom(img *image.RGBA) Frame {
	b := img.Bounds()
	pix := make([]byte, len(img.Pix))
	copy(pix, img.Pix)
	return Frame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: RGBA8,
		Pix:    pix,
	}
}
