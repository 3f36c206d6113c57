// Package ephem supplies raw almanac entries for the bodies the telescope can
// see from an observer location.
package ephem

import (
	"context"
	"errors"
	"strings"

	"github.com/litescript/ls-telescope/internal/astro"
)

// ErrNoData is returned when a source responds without an almanac table.
var ErrNoData = errors.New("ephem: response has no almanac data")

// Entry is one almanac row as delivered by a source. Angles are in degrees.
// A nil field means the source omitted it.
type Entry struct {
	Object string
	Dec    *float64
	GHA    *float64
	HC     *float64
	ZN     *float64
}

// Complete reports whether the entry has a name and all four angles.
func (e Entry) Complete() bool {
	return e.Object != "" && e.Dec != nil && e.GHA != nil && e.HC != nil && e.ZN != nil
}

// Provider defines the interface for almanac sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Fetch returns the almanac entries for an observer at the current time.
	// An empty, nil-error result is a valid (empty) sky.
	Fetch(ctx context.Context, obs astro.Observer) ([]Entry, error)
}

// Mode selects which provider main wires up.
type Mode int

const (
	ModeUSNO    Mode = iota // US Naval Observatory celestial navigation API
	ModeOffline             // built-in star table, Sun and Moon
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeUSNO:
		return "usno"
	case ModeOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string, defaulting to USNO.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "offline":
		return ModeOffline
	default:
		return ModeUSNO
	}
}

// New returns the default-configured provider for mode.
func New(mode Mode) Provider {
	switch mode {
	case ModeOffline:
		return NewOfflineProvider(nil)
	default:
		return NewUSNOProvider()
	}
}

func ptr(v float64) *float64 { return &v }
