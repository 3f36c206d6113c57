// Package ui provides the operator console using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-telescope/internal/astro"
	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/pacer"
	"github.com/litescript/ls-telescope/internal/render"
	"github.com/litescript/ls-telescope/internal/state"
	"github.com/litescript/ls-telescope/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewStatus ViewMode = iota
	ViewField
)

const (
	// moveFraction is the share of the field of view one arrow press covers.
	moveFraction = 0.1
	zoomStep     = 0.25
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time
)

// Scope is the telescope surface the console drives.
type Scope interface {
	Move(da, de, dz float64)
	Reset()
	Snapshot() state.Snapshot
	Catalog() *catalog.Catalog
	Resolution() render.Resolution
	Location() astro.Observer
}

// Model is the root Bubble Tea model.
type Model struct {
	scope Scope
	stats func() pacer.Stats

	snapshot state.Snapshot
	pstats   pacer.Stats

	viewMode ViewMode
	skyView  SkyViewModel
	animTick int

	width     int
	height    int
	ready     bool
	statusMsg string
}

// New creates a new root UI model. stats may be nil.
func New(scope Scope, stats func() pacer.Stats) Model {
	m := Model{
		scope:    scope,
		stats:    stats,
		viewMode: ViewStatus,
		skyView:  NewSkyViewModel(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "s":
			m.viewMode = ViewStatus
		case "2", "f":
			m.viewMode = ViewField
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2

		case "left", "h":
			m.nudge(-1, 0)
		case "right", "l":
			m.nudge(1, 0)
		case "up", "k":
			m.nudge(0, 1)
		case "down", "j":
			m.nudge(0, -1)
		case "+", "=":
			m.scope.Move(0, 0, zoomStep)
			m.statusMsg = fmt.Sprintf("zoom ×%.2f", m.scope.Snapshot().Zoom)
		case "-", "_":
			m.scope.Move(0, 0, -zoomStep)
			m.statusMsg = fmt.Sprintf("zoom ×%.2f", m.scope.Snapshot().Zoom)
		case "r":
			m.scope.Reset()
			m.statusMsg = "orientation reset"
		case "L":
			m.skyView = m.skyView.cycleLabelMode()
		}
		m.refresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes 6 lines, tabs 2, footer 2
		m.skyView = m.skyView.SetSize(msg.Width, msg.Height-10)

	case TickMsg:
		m.animTick++
		m.refresh()
		cmds = append(cmds, tickCmd())
	}

	return m, tea.Batch(cmds...)
}

// nudge moves by a fraction of the current field of view.
func (m *Model) nudge(dx, dy float64) {
	fov := m.scope.Snapshot().FOV
	m.scope.Move(dx*fov.X*moveFraction, dy*fov.Y*moveFraction, 0)
	m.statusMsg = ""
}

func (m *Model) refresh() {
	m.snapshot = m.scope.Snapshot()
	if m.stats != nil {
		m.pstats = m.stats()
	}
	var objects []catalog.Object
	if cat := m.scope.Catalog(); cat != nil {
		objects = cat.Objects()
	}
	m.skyView = m.skyView.UpdateData(m.snapshot, objects)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewStatus:
		content = m.renderStatus()
	case ViewField:
		content = m.skyView.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ╦  ╔═╗   ╔╦╗╔═╗╦  ╔═╗╔═╗╔═╗╔═╗╔═╗╔═╗`,
		`  ║  ╚═╗───║ ║╣ ║  ║╣ ╚═╗║  ║ ║╠═╝║╣ `,
		`  ╩═╝╚═╝   ╩ ╚═╝╩═╝╚═╝╚═╝╚═╝╚═╝╩  ╚═╝`,
	}

	var b strings.Builder
	b.WriteString("\n")
	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Telescope Simulator · v%s", version.Version)))
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// blue to purple to magenta to pink, dimming toward the bottom row.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	switch {
	case xRatio < 0.33:
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	case xRatio < 0.66:
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	default:
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	brightness := 1.0 - (yRatio * 0.5)
	clamp := func(v float64) int {
		return min(max(int(v*brightness), 0), 255)
	}
	return fmt.Sprintf("#%02X%02X%02X", clamp(r), clamp(g), clamp(b))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Status", "[2] Field"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderStatus() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Width(14)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#d0c8ff")).Bold(true)

	o := m.snapshot.Orientation
	res := m.scope.Resolution()
	loc := m.scope.Location()

	rows := [][2]string{
		{"Azimuth", fmt.Sprintf("%.2f°", astro.RadToDeg0360(o.Azimuth))},
		{"Elevation", fmt.Sprintf("%.2f°", astro.RadToDeg(o.Elevation))},
		{"Zoom", fmt.Sprintf("×%.2f", m.snapshot.Zoom)},
		{"Field", fmt.Sprintf("%.2f° × %.2f°", astro.RadToDeg(m.snapshot.FOV.X), astro.RadToDeg(m.snapshot.FOV.Y))},
		{"Stream", fmt.Sprintf("%dx%d", res.Width, res.Height)},
		{"Site", fmt.Sprintf("%.4f, %.4f", loc.LatDeg, loc.LonDeg)},
		{"Visible", fmt.Sprintf("%d of %d objects", m.visibleCount(), len(m.skyView.objects))},
		{"Frames", fmt.Sprintf("%d", m.pstats.Frames)},
		{"Overruns", fmt.Sprintf("%d", m.pstats.Overruns)},
		{"Render", m.pstats.LastRender.Round(time.Microsecond).String()},
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString("  " + labelStyle.Render(row[0]) + valueStyle.Render(row[1]) + "\n")
	}
	return b.String()
}

// visibleCount counts catalog objects inside the current field of view.
func (m Model) visibleCount() int {
	res := m.scope.Resolution()
	n := 0
	for _, obj := range m.skyView.objects {
		if _, _, ok := render.Project(obj, m.snapshot.Orientation, m.snapshot.FOV, res); ok {
			n++
		}
	}
	return n
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := accentStyle.Render(spinnerFrames[m.animTick%len(spinnerFrames)])

	help := "←↓↑→/hjkl: move | +/-: zoom | r: reset | tab: switch view | q: quit"
	if m.viewMode == ViewField {
		help = "←↓↑→/hjkl: move | +/-: zoom | L: labels | r: reset | q: quit"
	}

	footer := "  " + spinner + " " + dimStyle.Render(fmt.Sprintf("rev %d", m.snapshot.Revision)) +
		"  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
