// Package telescope defines the telescope command surface and the software
// telescope that renders a simulated sky.
package telescope

import (
	"sync"

	"github.com/litescript/ls-telescope/internal/astro"
	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/render"
	"github.com/litescript/ls-telescope/internal/state"
)

// Telescope is anything that can be pointed, zoomed and asked for a frame.
type Telescope interface {
	Resolution() render.Resolution
	FOV() state.FOV
	Orientation() state.Orientation
	Location() astro.Observer
	SetOrientation(azimuth, elevation float64)
	SetZoom(zoom float64)
	Move(da, de, dz float64)
	Frame() render.Frame
}

// CommandRecorder observes applied commands.
type CommandRecorder interface {
	ObserveCommand(name string)
	SetZoom(zoom float64)
}

// Config configures a Mock.
type Config struct {
	State      state.Config
	Resolution render.Resolution
	Location   astro.Observer
	Background render.Background
	Sprites    render.SpriteSource
}

// Option configures a Mock.
type Option func(*Mock)

// WithRecorder reports every command to r.
func WithRecorder(r CommandRecorder) Option {
	return func(m *Mock) {
		m.recorder = r
	}
}

// Mock is a software telescope. Commands go to the state manager; Frame
// renders lazily and caches the result until the state revision changes.
type Mock struct {
	state    *state.Manager
	catalog  *catalog.Catalog
	location astro.Observer
	recorder CommandRecorder

	renderMu   sync.Mutex
	compositor *render.Compositor
	cached     render.Frame
	cachedRev  uint64
	haveCached bool
}

var _ Telescope = (*Mock)(nil)

// NewMock creates a software telescope over cat.
func NewMock(cfg Config, cat *catalog.Catalog, opts ...Option) *Mock {
	m := &Mock{
		state:    state.NewManager(cfg.State),
		catalog:  cat,
		location: cfg.Location,
		compositor: render.NewCompositor(render.Config{
			Resolution: cfg.Resolution,
			Background: cfg.Background,
			Sprites:    cfg.Sprites,
		}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.recorder != nil {
		m.recorder.SetZoom(m.state.Zoom())
	}
	return m
}

// Resolution returns the output frame size.
func (m *Mock) Resolution() render.Resolution {
	return m.compositor.Resolution()
}

// FOV returns the current field of view.
func (m *Mock) FOV() state.FOV {
	return m.state.FOV()
}

// Orientation returns the current pointing.
func (m *Mock) Orientation() state.Orientation {
	return m.state.Orientation()
}

// Zoom returns the current zoom factor.
func (m *Mock) Zoom() float64 {
	return m.state.Zoom()
}

// MaxZoom returns the zoom limit.
func (m *Mock) MaxZoom() float64 {
	return m.state.MaxZoom()
}

// Location returns the observer position.
func (m *Mock) Location() astro.Observer {
	return m.location
}

// Snapshot returns a consistent view of the pointing state.
func (m *Mock) Snapshot() state.Snapshot {
	return m.state.Snapshot()
}

// Catalog returns the catalog the telescope renders.
func (m *Mock) Catalog() *catalog.Catalog {
	return m.catalog
}

// SetOrientation points at an absolute direction.
func (m *Mock) SetOrientation(azimuth, elevation float64) {
	m.state.SetOrientation(azimuth, elevation)
	m.observe("orientation")
}

// SetZoom sets the zoom factor.
func (m *Mock) SetZoom(zoom float64) {
	m.state.SetZoom(zoom)
	m.observe("zoom")
}

// Move applies a relative command.
func (m *Mock) Move(da, de, dz float64) {
	m.state.Move(da, de, dz)
	m.observe("move")
}

// Reset returns to the initial pointing and zoom 1.
func (m *Mock) Reset() {
	m.state.Reset()
	m.observe("reset")
}

func (m *Mock) observe(name string) {
	if m.recorder == nil {
		return
	}
	m.recorder.ObserveCommand(name)
	m.recorder.SetZoom(m.state.Zoom())
}

// Frame returns the frame for the current state. The caller owns the result.
func (m *Mock) Frame() render.Frame {
	f, _ := m.Capture()
	return f
}

// Capture returns the current frame together with the state it was rendered
// from. The caller owns the frame.
func (m *Mock) Capture() (render.Frame, state.Snapshot) {
	m.renderMu.Lock()
	defer m.renderMu.Unlock()

	snap := m.state.Snapshot()
	if !m.haveCached || snap.Revision != m.cachedRev {
		m.cached = m.compositor.Render(snap, m.catalog.Objects(), nil)
		m.cachedRev = snap.Revision
		m.haveCached = true
	}
	return m.cached.Clone(), snap
}

// RenderWith renders the current state drawing only objects accepted by
// filter. The result is not cached.
func (m *Mock) RenderWith(filter render.Filter) (render.Frame, state.Snapshot) {
	m.renderMu.Lock()
	defer m.renderMu.Unlock()

	snap := m.state.Snapshot()
	return m.compositor.Render(snap, m.catalog.Objects(), filter), snap
}
