// Package state provides the thread-safe pointing and zoom state of the
// telescope.
package state

import (
	"math"
	"sync"

	"github.com/litescript/ls-telescope/internal/astro"
)

// FOV is an angular field of view in radians.
type FOV struct {
	X float64
	Y float64
}

// Orientation is a pointing direction in radians.
type Orientation struct {
	Azimuth   float64
	Elevation float64
}

// Config holds the optics limits of the state machine.
type Config struct {
	BaseFOVX float64
	BaseFOVY float64
	MaxZoom  float64

	InitialAzimuth   float64
	InitialElevation float64
}

// DefaultConfig returns the stock 1.6 x 0.9 rad optics with 5x zoom, pointed
// due "north" 30° above the horizon.
func DefaultConfig() Config {
	return Config{
		BaseFOVX:         1.6,
		BaseFOVY:         0.9,
		MaxZoom:          5,
		InitialAzimuth:   0,
		InitialElevation: math.Pi / 6,
	}
}

// Snapshot is a consistent copy of the state at one instant.
type Snapshot struct {
	Orientation Orientation
	Zoom        float64
	FOV         FOV
	// Revision increases on every applied command.
	Revision uint64
}

// Manager owns the orientation and zoom. Every mutation wraps, clamps and
// recomputes the field of view under one lock, so readers never see a
// partially applied command.
type Manager struct {
	mu sync.RWMutex

	cfg Config

	azimuth   float64
	elevation float64
	zoom      float64
	fov       FOV
	revision  uint64
}

// NewManager creates a manager at zoom 1 and the configured initial pointing.
func NewManager(cfg Config) *Manager {
	if cfg.MaxZoom < 1 {
		cfg.MaxZoom = 1
	}
	m := &Manager{cfg: cfg}
	m.setZoomLocked(1)
	m.azimuth = astro.Wrap(cfg.InitialAzimuth)
	m.elevation = m.clampElevationLocked(cfg.InitialElevation)
	return m
}

// SetZoom clamps zoom to [1, MaxZoom] and recomputes the field of view. The
// elevation is re-clamped against the new vertical FOV.
func (m *Manager) SetZoom(zoom float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if finite(zoom) {
		m.setZoomLocked(zoom)
	}
	m.elevation = m.clampElevationLocked(m.elevation)
	m.revision++
}

// Move applies a relative command: zoom first, because the elevation limit
// depends on the new vertical FOV, then azimuth wrap, then elevation clamp.
func (m *Manager) Move(da, de, dz float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setZoomLocked(m.zoom + orZero(dz))
	m.azimuth = astro.Wrap(m.azimuth + orZero(da))
	m.elevation = m.clampElevationLocked(m.elevation + orZero(de))
	m.revision++
}

// SetOrientation points the telescope at an absolute direction. Zoom is
// unchanged.
func (m *Manager) SetOrientation(azimuth, elevation float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if finite(azimuth) {
		m.azimuth = astro.Wrap(azimuth)
	}
	if finite(elevation) {
		m.elevation = m.clampElevationLocked(elevation)
	}
	m.revision++
}

// Reset returns to zoom 1 and the initial pointing.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setZoomLocked(1)
	m.azimuth = astro.Wrap(m.cfg.InitialAzimuth)
	m.elevation = m.clampElevationLocked(m.cfg.InitialElevation)
	m.revision++
}

// FOV returns the current field of view.
func (m *Manager) FOV() FOV {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fov
}

// Orientation returns the current pointing.
func (m *Manager) Orientation() Orientation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Orientation{Azimuth: m.azimuth, Elevation: m.elevation}
}

// Zoom returns the current zoom factor.
func (m *Manager) Zoom() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.zoom
}

// MaxZoom returns the configured zoom limit.
func (m *Manager) MaxZoom() float64 {
	return m.cfg.MaxZoom
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Orientation: Orientation{Azimuth: m.azimuth, Elevation: m.elevation},
		Zoom:        m.zoom,
		FOV:         m.fov,
		Revision:    m.revision,
	}
}

// Revision returns the number of commands applied so far.
func (m *Manager) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

func (m *Manager) setZoomLocked(zoom float64) {
	m.zoom = astro.Clamp(zoom, 1, m.cfg.MaxZoom)
	m.fov = FOV{
		X: m.cfg.BaseFOVX / m.zoom,
		Y: m.cfg.BaseFOVY / m.zoom,
	}
}

func (m *Manager) clampElevationLocked(el float64) float64 {
	return astro.Clamp(el, 0, math.Pi/2-m.fov.Y/2)
}

// NaN and infinite inputs are ignored.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func orZero(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}
