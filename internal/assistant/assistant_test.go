package assistant

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/litescript/ls-telescope/internal/astro"
	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/render"
	"github.com/litescript/ls-telescope/internal/state"
	"github.com/litescript/ls-telescope/internal/telescope"
)

var res = render.Resolution{Width: 640, Height: 360}

func newScope(objs ...catalog.Object) *telescope.Mock {
	m := telescope.NewMock(telescope.Config{
		State:      state.DefaultConfig(),
		Resolution: res,
		Location:   astro.Observer{LatDeg: 10, LonDeg: 20},
	}, catalog.New(objs))
	m.SetOrientation(0, 0.6)
	return m
}

// ringed reports whether c is covered by the green ring.
func ringed(c color.RGBA) bool {
	return c.G > 200 && c.R < 60 && c.B < 60
}

func TestSetInteresting(t *testing.T) {
	o := New(newScope())
	o.SetInteresting([]string{"Vega", " MOON ", "", "vega"})

	want := []string{"moon", "vega"}
	if diff := cmp.Diff(want, o.Interesting()); diff != "" {
		t.Errorf("Interesting() mismatch (-want +got):\n%s", diff)
	}

	o.SetInteresting(nil)
	if got := o.Interesting(); len(got) != 0 {
		t.Errorf("Interesting() after reset = %v, want empty", got)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("FILTER") != ModeFilter {
		t.Error("ParseMode(FILTER) != ModeFilter")
	}
	if ParseMode("anything") != ModeSpot {
		t.Error("ParseMode(anything) != ModeSpot")
	}
}

func TestFrame_SpotsInterestingObjects(t *testing.T) {
	vega := catalog.Object{Name: "vega", GHA: 0, HC: 0.6}
	deneb := catalog.Object{Name: "deneb", GHA: 0.4, HC: 0.7}
	scope := newScope(vega, deneb)

	o := New(scope, WithoutReadouts())
	o.SetInteresting([]string{"Vega"})
	img := o.Frame().Image()

	snap := scope.Snapshot()
	r := scaled(ringRadius, res.Height)

	vx, vy, _ := render.Project(vega, snap.Orientation, snap.FOV, res)
	if got := img.RGBAAt(vx+r, vy); !ringed(got) {
		t.Errorf("ring pixel at vega = %v, want %v", got, RingColor)
	}

	dx, dy, ok := render.Project(deneb, snap.Orientation, snap.FOV, res)
	if !ok {
		t.Fatal("deneb should be in view")
	}
	if got := img.RGBAAt(dx+r, dy); ringed(got) {
		t.Error("uninteresting deneb was ringed")
	}
}

func TestFrame_EmptyInterestSpotsAll(t *testing.T) {
	deneb := catalog.Object{Name: "deneb", GHA: 0.4, HC: 0.7}
	scope := newScope(deneb)

	o := New(scope, WithoutReadouts())
	img := o.Frame().Image()

	snap := scope.Snapshot()
	x, y, _ := render.Project(deneb, snap.Orientation, snap.FOV, res)
	if got := img.RGBAAt(x, y-scaled(ringRadius, res.Height)); !ringed(got) {
		t.Errorf("ring pixel = %v, want %v", got, RingColor)
	}
}

func TestFrame_DoesNotTouchTelescopeFrame(t *testing.T) {
	scope := newScope(catalog.Object{Name: "vega", GHA: 0, HC: 0.6})
	before := scope.Frame()

	New(scope).Frame()

	if after := scope.Frame(); !bytes.Equal(before.Pix, after.Pix) {
		t.Error("overlay modified the telescope frame")
	}
}

func TestFrame_FilterModeHidesOthers(t *testing.T) {
	vega := catalog.Object{Name: "vega", GHA: 0, HC: 0.6}
	deneb := catalog.Object{Name: "deneb", GHA: 0.4, HC: 0.7}
	scope := newScope(vega, deneb)

	o := New(scope, WithMode(ModeFilter), WithoutReadouts())
	o.SetInteresting([]string{"vega"})
	img := o.Frame().Image()

	snap := scope.Snapshot()
	x, y, _ := render.Project(deneb, snap.Orientation, snap.FOV, res)
	if got := img.RGBAAt(x, y); got != render.SkyColor {
		t.Errorf("deneb pixel = %v, want sky in filter mode", got)
	}
	x, y, _ = render.Project(vega, snap.Orientation, snap.FOV, res)
	if got := img.RGBAAt(x, y); got == render.SkyColor {
		t.Error("vega missing in filter mode")
	}
}

func TestReadouts(t *testing.T) {
	snap := state.Snapshot{
		Orientation: state.Orientation{Azimuth: -math.Pi / 2, Elevation: math.Pi / 6},
		Zoom:        2.5,
	}
	want := []string{"ZOOM: 2.5x", "AZIMUTH: 270.0°", "ELEVATION: 30.0°"}
	if diff := cmp.Diff(want, Readouts(snap)); diff != "" {
		t.Errorf("Readouts mismatch (-want +got):\n%s", diff)
	}
}

func TestFrame_DrawsReadoutText(t *testing.T) {
	o := New(newScope())
	img := o.Frame().Image()

	region := image.Rect(0, res.Height-100, 200, res.Height)
	white := 0
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			if c := img.RGBAAt(x, y); c.R > 200 && c.G > 200 && c.B > 200 {
				white++
			}
		}
	}
	if white == 0 {
		t.Error("no readout text pixels in the bottom-left corner")
	}
}

func TestDrawRing_Clips(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	DrawRing(img, 0, 0, 20, 4, RingColor)

	if got := img.RGBAAt(20, 0); got.G < 250 || got.R != 0 {
		t.Errorf("pixel on ring = %v, want %v", got, RingColor)
	}
	if got := img.RGBAAt(5, 5); got.A != 0 {
		t.Errorf("pixel inside ring = %v, want untouched", got)
	}
	if got := img.RGBAAt(40, 40); got.A != 0 {
		t.Errorf("pixel outside ring = %v, want untouched", got)
	}
}

func TestDrawRing_Antialiased(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	DrawRing(img, 30, 30, 20, 4, RingColor)

	partial := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if a := img.Pix[i]; a > 0 && a < 255 {
			partial++
		}
	}
	if partial == 0 {
		t.Error("ring has no partially covered edge pixels")
	}
}

func TestReadoutFace_CoversReadoutRunes(t *testing.T) {
	face, err := readoutFace(20)
	if err != nil {
		t.Fatalf("readoutFace: %v", err)
	}
	defer face.Close()

	snap := state.Snapshot{Orientation: state.Orientation{Azimuth: 1, Elevation: 0.5}, Zoom: 3}
	for _, line := range Readouts(snap) {
		for _, r := range line {
			if _, ok := face.GlyphAdvance(r); !ok {
				t.Errorf("face has no glyph for %q in %q", r, line)
			}
		}
	}
}

func TestDrawText_DegreeSignSitsHigh(t *testing.T) {
	const size, baseline = 40, 45
	face, err := readoutFace(size)
	if err != nil {
		t.Fatalf("readoutFace: %v", err)
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	drawText(img, face, "°", 5, baseline)

	lit, lowest := 0, -1
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y).A > 128 {
				lit++
				lowest = max(lowest, y)
			}
		}
	}
	if lit == 0 {
		t.Fatal("degree sign drew nothing")
	}
	// A replacement box would reach down to the baseline.
	if lowest >= baseline-size/4 {
		t.Errorf("lowest lit row = %d, want above %d", lowest, baseline-size/4)
	}
}
