// Package assistant decorates telescope frames with highlight rings around
// objects of interest and pointing readouts.
package assistant

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/litescript/ls-telescope/internal/astro"
	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/render"
	"github.com/litescript/ls-telescope/internal/state"
)

// Source is the telescope the overlay reads from.
type Source interface {
	Capture() (render.Frame, state.Snapshot)
	RenderWith(filter render.Filter) (render.Frame, state.Snapshot)
	Catalog() *catalog.Catalog
}

// Mode selects how objects of interest are presented.
type Mode int

const (
	// ModeSpot draws a ring around every projected object of interest.
	ModeSpot Mode = iota
	// ModeFilter renders only the objects of interest.
	ModeFilter
)

func (m Mode) String() string {
	switch m {
	case ModeFilter:
		return "filter"
	default:
		return "spot"
	}
}

// ParseMode parses "spot" or "filter", defaulting to spot.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "filter") {
		return ModeFilter
	}
	return ModeSpot
}

// Ring and text styling at the 1080-line reference height.
const (
	refHeight     = 1080
	ringRadius    = 80
	ringThickness = 10
	textPoints    = 28
	minTextPoints = 9
)

// Overlay colors.
var (
	RingColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	TextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Overlay produces decorated frames. It is safe for concurrent use.
type Overlay struct {
	src      Source
	mode     Mode
	readouts bool

	mu          sync.RWMutex
	interesting map[string]bool
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithMode sets the presentation mode.
func WithMode(m Mode) Option {
	return func(o *Overlay) {
		o.mode = m
	}
}

// WithoutReadouts disables the azimuth, elevation and zoom text.
func WithoutReadouts() Option {
	return func(o *Overlay) {
		o.readouts = false
	}
}

// New creates an overlay over src.
func New(src Source, opts ...Option) *Overlay {
	o := &Overlay{src: src, mode: ModeSpot, readouts: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Mode returns the presentation mode.
func (o *Overlay) Mode() Mode {
	return o.mode
}

// SetInteresting replaces the set of objects of interest. Names are matched
// case-insensitively. An empty list selects every object.
func (o *Overlay) SetInteresting(names []string) {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = true
		}
	}

	o.mu.Lock()
	o.interesting = set
	o.mu.Unlock()
}

// Interesting returns the current set of objects of interest, sorted.
func (o *Overlay) Interesting() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	names := make([]string, 0, len(o.interesting))
	for n := range o.interesting {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// filter returns a snapshot of the interest predicate, nil when every object
// is selected.
func (o *Overlay) filter() render.Filter {
	o.mu.RLock()
	set := o.interesting
	o.mu.RUnlock()

	if len(set) == 0 {
		return nil
	}
	return func(obj catalog.Object) bool { return set[obj.Name] }
}

// Frame returns the decorated frame for the telescope's current state. The
// telescope's own frame is never modified.
func (o *Overlay) Frame() render.Frame {
	filter := o.filter()

	var (
		f    render.Frame
		snap state.Snapshot
	)
	switch {
	case o.mode == ModeFilter && filter != nil:
		f, snap = o.src.RenderWith(filter)
	default:
		f, snap = o.src.Capture()
	}

	img := f.Image()
	res := render.Resolution{Width: f.Width, Height: f.Height}

	if o.mode == ModeSpot {
		for _, obj := range o.src.Catalog().Objects() {
			if filter != nil && !filter(obj) {
				continue
			}
			x, y, ok := render.Project(obj, snap.Orientation, snap.FOV, res)
			if !ok {
				continue
			}
			DrawRing(img, x, y, scaled(ringRadius, res.Height), scaled(ringThickness, res.Height), RingColor)
		}
	}

	if o.readouts {
		drawReadouts(img, snap)
	}
	return f
}

func scaled(v, height int) int {
	s := int(math.Round(float64(v) * float64(height) / refHeight))
	if s < 1 {
		return 1
	}
	return s
}

// DrawRing paints an antialiased annulus of the given radius and thickness
// centered at (cx, cy), clipped to the image.
func DrawRing(img *image.RGBA, cx, cy, radius, thickness int, c color.RGBA) {
	half := float64(thickness) / 2
	render.FillRing(img, float64(cx), float64(cy), float64(radius)-half, float64(radius)+half, image.NewUniform(c))
}

// Readouts formats the pointing text lines, top to bottom.
func Readouts(snap state.Snapshot) []string {
	return []string{
		fmt.Sprintf("ZOOM: %.1fx", snap.Zoom),
		fmt.Sprintf("AZIMUTH: %.1f°", astro.RadToDeg0360(snap.Orientation.Azimuth)),
		fmt.Sprintf("ELEVATION: %.1f°", astro.RadToDeg0360(snap.Orientation.Elevation)),
	}
}

// drawReadouts writes the readouts at the bottom-left corner, with baselines
// 30 px apart at the reference height.
func drawReadouts(img *image.RGBA, snap state.Snapshot) {
	h := img.Bounds().Dy()
	size := textSize(h)
	spacing := max(scaled(30, h), int(math.Ceil(size*1.25)))

	face, err := readoutFace(size)
	if err != nil {
		return
	}
	defer face.Close()

	lines := Readouts(snap)
	for i, line := range lines {
		baseline := h - spacing*(len(lines)-i)
		drawText(img, face, line, scaled(10, h), baseline)
	}
}

// textSize is the readout font size in pixels for a frame height.
func textSize(height int) float64 {
	return math.Max(textPoints*float64(height)/refHeight, minTextPoints)
}

var (
	readoutFont     *opentype.Font
	readoutFontErr  error
	readoutFontOnce sync.Once
)

// readoutFace returns a new Go Regular face at size pixels. Faces are not
// safe for concurrent use, so each frame gets its own.
func readoutFace(size float64) (font.Face, error) {
	readoutFontOnce.Do(func() {
		readoutFont, readoutFontErr = opentype.Parse(goregular.TTF)
	})
	if readoutFontErr != nil {
		return nil, readoutFontErr
	}
	return opentype.NewFace(readoutFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// drawText renders s with its baseline at y.
func drawText(dst *image.RGBA, face font.Face, s string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(TextColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
