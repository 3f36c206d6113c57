package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/state"
)

func testSnapshot(az, el float64) state.Snapshot {
	return state.Snapshot{
		Orientation: state.Orientation{Azimuth: az, Elevation: el},
		Zoom:        1,
		FOV:         state.FOV{X: 1.6, Y: 0.9},
	}
}

func canvasText(c cells) string {
	var rows []string
	for y := range c.runes {
		rows = append(rows, c.row(y))
	}
	return strings.Join(rows, "\n")
}

func TestSkyCanvas_ObjectGlyphs(t *testing.T) {
	objects := []catalog.Object{
		{Name: "moon", GHA: 0, HC: math.Pi / 6},
		{Name: "mars", GHA: 0.3, HC: math.Pi/6 + 0.1},
		{Name: "vega", GHA: -0.4, HC: math.Pi/6 - 0.2},
		{Name: "deneb", GHA: math.Pi, HC: math.Pi / 6}, // behind the observer
	}
	m := NewSkyViewModel().UpdateData(testSnapshot(0, math.Pi/6), objects)
	text := canvasText(m.buildCanvas(60, 20))

	for _, glyph := range []rune{glyphMoon, glyphPlanet, glyphStar} {
		if !strings.ContainsRune(text, glyph) {
			t.Errorf("canvas missing glyph %q", glyph)
		}
	}
	if strings.Count(text, string(glyphStar)) != 1 {
		t.Errorf("star glyphs = %d, want 1", strings.Count(text, string(glyphStar)))
	}
}

func TestSkyCanvas_Labels(t *testing.T) {
	objects := []catalog.Object{
		{Name: "moon", GHA: -0.5, HC: math.Pi / 6},
		{Name: "vega", GHA: -0.5, HC: math.Pi/6 + 0.2},
	}
	m := NewSkyViewModel().UpdateData(testSnapshot(0, math.Pi/6), objects)

	text := canvasText(m.buildCanvas(60, 20))
	if !strings.Contains(text, "moon") {
		t.Error("bright labels: moon label missing")
	}
	if strings.Contains(text, "vega") {
		t.Error("bright labels: star label drawn")
	}

	m = m.cycleLabelMode()
	text = canvasText(m.buildCanvas(60, 20))
	if !strings.Contains(text, "vega") {
		t.Error("all labels: vega label missing")
	}

	m = m.cycleLabelMode()
	text = canvasText(m.buildCanvas(60, 20))
	if strings.Contains(text, "moon") {
		t.Error("no labels: moon label drawn")
	}
}

func TestSkyCanvas_Terrain(t *testing.T) {
	tests := []struct {
		name string
		el   float64
		want bool
	}{
		{"horizon", 0, true},
		{"just above half fov", 0.46, false},
		{"high", math.Pi / 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSkyViewModel().UpdateData(testSnapshot(0, tt.el), nil)
			c := m.buildCanvas(40, 10)
			got := strings.ContainsRune(c.row(len(c.runes)-1), glyphLand)
			if got != tt.want {
				t.Errorf("bottom row has terrain = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSkyCanvas_Crosshair(t *testing.T) {
	m := NewSkyViewModel().UpdateData(testSnapshot(0, math.Pi/6), nil)
	c := m.buildCanvas(41, 11)
	if c.runes[5][20] != glyphCross {
		t.Errorf("center cell = %q, want crosshair", c.runes[5][20])
	}
}

func TestSkyView_TooSmall(t *testing.T) {
	m := NewSkyViewModel().SetSize(10, 4)
	if got := m.View(); !strings.Contains(got, "larger terminal") {
		t.Errorf("View = %q", got)
	}
}

func TestSkyView_Header(t *testing.T) {
	m := NewSkyViewModel().SetSize(80, 20).UpdateData(testSnapshot(3*math.Pi/2, math.Pi/6), nil)
	view := m.View()
	for _, want := range []string{"Field View", "Labels: bright", "Az:270.0°", "El:30.0°"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestSkyCanvas_LabelNonASCII(t *testing.T) {
	objects := []catalog.Object{{Name: "α cen", GHA: -0.5, HC: math.Pi / 6}}
	m := NewSkyViewModel().UpdateData(testSnapshot(0, math.Pi/6), objects).cycleLabelMode()

	text := canvasText(m.buildCanvas(60, 20))
	if !strings.Contains(text, "α cen") {
		t.Errorf("label not drawn contiguously:\n%s", text)
	}
}
