package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-telescope/internal/astro"
	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/render"
	"github.com/litescript/ls-telescope/internal/state"
)

const (
	// Object glyphs by class
	glyphMoon   = '◯'
	glyphPlanet = '●'
	glyphStar   = '✶'
	glyphLand   = '▓'
	glyphCross  = '+'

	colorMoon   = "230" // pale yellow
	colorPlanet = "215" // amber
	colorStar   = "255"
	colorLand   = "22"  // dark green
	colorSky    = "17"  // midnight blue
	colorCross  = "60"  // muted purple
	colorLabel  = "#d0c8ff"
)

// LabelMode controls how object labels are displayed.
type LabelMode int

const (
	LabelNone   LabelMode = iota // No labels
	LabelBright                  // Moon and planets only
	LabelAll                     // Every object
)

// SkyViewModel renders a character-cell preview of the telescope field.
type SkyViewModel struct {
	width  int
	height int

	snapshot state.Snapshot
	objects  []catalog.Object

	labelMode LabelMode
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{labelMode: LabelBright}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the pointing state and object list.
func (m SkyViewModel) UpdateData(snap state.Snapshot, objects []catalog.Object) SkyViewModel {
	m.snapshot = snap
	m.objects = objects
	return m
}

func (m SkyViewModel) cycleLabelMode() SkyViewModel {
	m.labelMode = (m.labelMode + 1) % 3
	return m
}

// View renders the sky preview.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 8 {
		return "Sky view requires larger terminal"
	}

	viewHeight := m.height - 2
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSkyCanvas(m.width, viewHeight))
	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))

	var labelStr string
	switch m.labelMode {
	case LabelNone:
		labelStr = dimStyle.Render("Labels: off")
	case LabelBright:
		labelStr = accentStyle.Render("Labels: bright")
	case LabelAll:
		labelStr = accentStyle.Render("Labels: all")
	}

	o := m.snapshot.Orientation
	compass := dimStyle.Render(fmt.Sprintf("Az:%.1f° El:%.1f° ×%.1f",
		astro.RadToDeg0360(o.Azimuth), astro.RadToDeg(o.Elevation), m.snapshot.Zoom))

	return fmt.Sprintf("%s | %s | %s", titleStyle.Render("Field View"), labelStr, compass)
}

type objectPos struct {
	x, y  int
	name  string
	class catalog.Class
}

// cells is a character grid with per-cell colors.
type cells struct {
	runes  [][]rune
	colors [][]lipgloss.Color
}

func newCells(width, height int) cells {
	c := cells{runes: make([][]rune, height), colors: make([][]lipgloss.Color, height)}
	for y := 0; y < height; y++ {
		c.runes[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			c.runes[y][x] = ' '
			c.colors[y][x] = colorSky
		}
	}
	return c
}

func (c cells) row(y int) string {
	return string(c.runes[y])
}

func (c cells) set(x, y int, r rune, color lipgloss.Color) {
	if y < 0 || y >= len(c.runes) || x < 0 || x >= len(c.runes[y]) {
		return
	}
	c.runes[y][x] = r
	c.colors[y][x] = color
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := m.buildCanvas(width, height)

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(canvas.colors[y][x])
			b.WriteString(style.Render(string(canvas.runes[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// buildCanvas lays out objects, terrain and labels in a width x height grid.
func (m SkyViewModel) buildCanvas(width, height int) cells {
	canvas := newCells(width, height)
	res := render.Resolution{Width: width - 1, Height: height - 1}

	// Crosshair at the boresight
	cx, cy := res.Width/2, res.Height/2
	canvas.set(cx, cy, glyphCross, colorCross)

	var positions []objectPos
	for _, obj := range m.objects {
		x, y, ok := render.Project(obj, m.snapshot.Orientation, m.snapshot.FOV, res)
		if !ok {
			continue
		}
		class := obj.Class()
		r, color := classGlyph(class)
		canvas.set(x, y, r, color)
		positions = append(positions, objectPos{x: x, y: y, name: obj.Name, class: class})
	}

	m.drawTerrain(canvas, res)
	m.renderLabels(canvas, positions)
	return canvas
}

// drawTerrain mirrors the rendered horizon in character cells.
func (m SkyViewModel) drawTerrain(canvas cells, res render.Resolution) {
	el, fov := m.snapshot.Orientation.Elevation, m.snapshot.FOV
	if fov.Y <= 0 || el > fov.Y/2 {
		return
	}

	landHeight := float64(res.Height) * (1 - 2*el/fov.Y)
	amplitude := float64(res.Width) / 20
	for col := 0; col <= res.Width; col++ {
		az := m.snapshot.Orientation.Azimuth + float64(col)*fov.X/float64(res.Width)
		top := int(math.Floor(landHeight + amplitude*math.Sin(2*az)))
		for y := max(top, 0); y <= res.Height; y++ {
			canvas.set(col, y, glyphLand, colorLand)
		}
	}
}

func (m SkyViewModel) renderLabels(canvas cells, positions []objectPos) {
	if m.labelMode == LabelNone {
		return
	}
	for _, p := range positions {
		if m.labelMode == LabelBright && p.class == catalog.ClassStar {
			continue
		}
		label := []rune(" " + p.name)
		for i, r := range label {
			x := p.x + 1 + i
			if x >= len(canvas.runes[p.y]) {
				break
			}
			if canvas.runes[p.y][x] != ' ' && i > 0 {
				break
			}
			canvas.set(x, p.y, r, colorLabel)
		}
	}
}

func classGlyph(c catalog.Class) (rune, lipgloss.Color) {
	switch c {
	case catalog.ClassMoon:
		return glyphMoon, colorMoon
	case catalog.ClassPlanet:
		return glyphPlanet, colorPlanet
	default:
		return glyphStar, colorStar
	}
}
