// Package sprites loads the marker images drawn for each object class.
package sprites

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/draw"

	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/logging"
)

// DefaultBaseSize is the reference sprite edge in pixels.
const DefaultBaseSize = 24

// Scale is the sprite edge for each class as a multiple of the base size.
var Scale = map[catalog.Class]float64{
	catalog.ClassMoon:   5,
	catalog.ClassPlanet: 1.5,
	catalog.ClassStar:   0.75,
}

// Loader holds decoded, resized sprites keyed by class. A class whose file
// failed to load has no entry and Image returns nil for it.
type Loader struct {
	dir  string
	base int
	log  *logging.Logger

	mu     sync.RWMutex
	images map[catalog.Class]*image.RGBA
}

// NewLoader creates a loader for <dir>/<class>.png files. A non-positive base
// selects DefaultBaseSize.
func NewLoader(dir string, base int, log *logging.Logger) *Loader {
	if base <= 0 {
		base = DefaultBaseSize
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Loader{
		dir:    dir,
		base:   base,
		log:    log,
		images: make(map[catalog.Class]*image.RGBA),
	}
}

// Load reads every class sprite and returns how many loaded. Missing or
// undecodable files are logged and skipped.
func (l *Loader) Load() int {
	loaded := 0
	for _, class := range []catalog.Class{catalog.ClassMoon, catalog.ClassPlanet, catalog.ClassStar} {
		path := filepath.Join(l.dir, class.String()+".png")
		size := int(float64(l.base) * Scale[class])

		img, err := loadPNG(path, size)
		if err != nil {
			l.log.Warn("sprite %s unavailable, using fallback: %v", class, err)
			continue
		}

		l.mu.Lock()
		l.images[class] = img
		l.mu.Unlock()
		loaded++
		l.log.Debug("loaded sprite %s (%dx%d) from %s", class, size, size, path)
	}
	return loaded
}

// Image returns the sprite for class, or nil if none loaded.
func (l *Loader) Image(class catalog.Class) image.Image {
	l.mu.RLock()
	defer l.mu.RUnlock()

	img, ok := l.images[class]
	if !ok {
		return nil
	}
	return img
}

func loadPNG(path string, size int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return Resize(src, size), nil
}

// Resize scales src into a size x size RGBA image.
func Resize(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
