package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// FillRing paints the antialiased annulus between inner and outer radii
// centered at (cx, cy) with src, clipped to dst. A non-positive inner radius
// fills a disc.
func FillRing(dst draw.Image, cx, cy, inner, outer float64, src image.Image) {
	if !(outer > 0) || inner >= outer {
		return
	}
	r := int(math.Ceil(outer)) + 1
	box := image.Rect(int(math.Floor(cx))-r, int(math.Floor(cy))-r, int(math.Ceil(cx))+r, int(math.Ceil(cy))+r)
	clip := box.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	ox, oy := cx-float64(box.Min.X), cy-float64(box.Min.Y)
	addCircle(z, ox, oy, outer, false)
	if inner > 0 {
		// Opposite winding cuts the hole.
		addCircle(z, ox, oy, inner, true)
	}

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, clip, src, clip.Min, mask, clip.Min.Sub(box.Min), draw.Over)
}

// addCircle appends a closed four-segment cubic circle to z.
func addCircle(z *vector.Rasterizer, cx, cy, r float64, reverse bool) {
	dir := 1.0
	if reverse {
		dir = -1
	}
	point := func(a float64) (float64, float64) {
		return cx + r*math.Cos(a), cy + r*math.Sin(a)
	}
	tangent := func(a float64) (float64, float64) {
		return -dir * math.Sin(a), dir * math.Cos(a)
	}

	x0, y0 := point(0)
	z.MoveTo(float32(x0), float32(y0))
	for i := 1; i <= 4; i++ {
		a0 := dir * float64(i-1) * math.Pi / 2
		a1 := dir * float64(i) * math.Pi / 2
		px0, py0 := point(a0)
		px1, py1 := point(a1)
		tx0, ty0 := tangent(a0)
		tx1, ty1 := tangent(a1)
		z.CubeTo(
			float32(px0+kappa*r*tx0), float32(py0+kappa*r*ty0),
			float32(px1-kappa*r*tx1), float32(py1-kappa*r*ty1),
			float32(px1), float32(py1),
		)
	}
	z.ClosePath()
}
