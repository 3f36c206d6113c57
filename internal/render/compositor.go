package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/state"
)

// LandColor is the terrain fill.
var LandColor = color.RGBA{R: 0, G: 100, B: 0, A: 255}

// SpriteSource supplies the marker image for a classification. A nil result
// means no image is available and a fallback disc is drawn instead.
type SpriteSource interface {
	Image(class catalog.Class) image.Image
}

// Filter reports whether an object should be drawn.
type Filter func(catalog.Object) bool

// Config configures a Compositor.
type Config struct {
	Resolution Resolution
	Background Background   // nil means FlatBackground{SkyColor}
	Sprites    SpriteSource // nil means fallback discs only
	LandColor  color.RGBA
}

// Compositor draws complete sky frames. It reuses one working canvas across
// renders and is not safe for concurrent use; every returned Frame is an
// independent copy.
type Compositor struct {
	res     Resolution
	sprites SpriteSource
	land    color.RGBA

	sky    *image.RGBA
	canvas *image.RGBA

	fallback map[catalog.Class]*image.RGBA
}

// NewCompositor creates a compositor and renders its cached background.
func NewCompositor(cfg Config) *Compositor {
	bg := cfg.Background
	if bg == nil {
		bg = FlatBackground{Color: SkyColor}
	}
	land := cfg.LandColor
	if land == (color.RGBA{}) {
		land = LandColor
	}

	sky := bg.Generate(cfg.Resolution)
	return &Compositor{
		res:      cfg.Resolution,
		sprites:  cfg.Sprites,
		land:     land,
		sky:      sky,
		canvas:   image.NewRGBA(sky.Bounds()),
		fallback: make(map[catalog.Class]*image.RGBA),
	}
}

// Resolution returns the output size.
func (c *Compositor) Resolution() Resolution {
	return c.res
}

// Render composites background, visible objects and terrain, in that order,
// so the horizon occludes objects below it. A nil filter draws everything.
func (c *Compositor) Render(snap state.Snapshot, objects []catalog.Object, filter Filter) Frame {
	copy(c.canvas.Pix, c.sky.Pix)

	for _, obj := range objects {
		if filter != nil && !filter(obj) {
			continue
		}
		x, y, ok := Project(obj, snap.Orientation, snap.FOV, c.res)
		if !ok {
			continue
		}
		DrawCentered(c.canvas, x, y, c.spriteFor(obj.Class()))
	}

	c.drawTerrain(snap)

	return frameFrom(c.canvas)
}

// drawTerrain paints a sinusoidal horizon when it is inside the vertical FOV.
func (c *Compositor) drawTerrain(snap state.Snapshot) {
	el, fov := snap.Orientation.Elevation, snap.FOV
	if el > fov.Y/2 {
		return
	}

	w, h := c.res.Width, c.res.Height
	landHeight := float64(h) * (1 - 2*el/fov.Y)
	amplitude := float64(w) / 20
	land := image.NewUniform(c.land)

	for col := 0; col < w; col++ {
		az := snap.Orientation.Azimuth + float64(col)*fov.X/float64(w)
		top := int(math.Floor(landHeight + amplitude*math.Sin(2*az)))
		if top < 0 {
			top = 0
		}
		if top >= h {
			continue
		}
		draw.Draw(c.canvas, image.Rect(col, top, col+1, h), land, image.Point{}, draw.Src)
	}
}

func (c *Compositor) spriteFor(class catalog.Class) image.Image {
	if c.sprites != nil {
		if img := c.sprites.Image(class); img != nil {
			return img
		}
	}
	img, ok := c.fallback[class]
	if !ok {
		img = FallbackSprite(class)
		c.fallback[class] = img
	}
	return img
}

// DrawCentered alpha-composites sprite onto dst centered at (x, y). Sprites
// that would cross the canvas edge are skipped whole, never clipped. It
// reports whether the sprite was drawn.
func DrawCentered(dst *image.RGBA, x, y int, sprite image.Image) bool {
	if sprite == nil {
		return false
	}
	sb := sprite.Bounds()
	r := image.Rect(x-sb.Dx()/2, y-sb.Dy()/2, 0, 0)
	r.Max = r.Min.Add(sb.Size())

	if !r.In(dst.Bounds()) {
		return false
	}
	draw.Draw(dst, r, sprite, sb.Min, draw.Over)
	return true
}

// Fallback marker sizes and colors per class.
var fallbackStyle = map[catalog.Class]struct {
	size  int
	color color.RGBA
}{
	catalog.ClassMoon:   {size: 120, color: color.RGBA{R: 245, G: 245, B: 230, A: 255}},
	catalog.ClassPlanet: {size: 36, color: color.RGBA{R: 255, G: 200, B: 130, A: 255}},
	catalog.ClassStar:   {size: 18, color: color.RGBA{R: 255, G: 255, B: 224, A: 255}},
}

// FallbackSprite returns an antialiased disc for class, used when no sprite
// resource is available.
func FallbackSprite(class catalog.Class) *image.RGBA {
	st := fallbackStyle[class]
	img := image.NewRGBA(image.Rect(0, 0, st.size, st.size))
	r := float64(st.size) / 2
	FillRing(img, r, r, 0, r, image.NewUniform(st.color))
	return img
}
