// Package catalog holds the immutable set of celestial objects the telescope
// renders, converted from raw almanac entries.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/litescript/ls-telescope/internal/astro"
	"github.com/litescript/ls-telescope/internal/ephem"
)

// Class is the rendering classification of an object.
type Class int

const (
	ClassStar Class = iota
	ClassPlanet
	ClassMoon
)

// String returns the class name, which doubles as the sprite resource key.
func (c Class) String() string {
	switch c {
	case ClassMoon:
		return "moon"
	case ClassPlanet:
		return "planet"
	default:
		return "star"
	}
}

var planets = map[string]bool{
	"mercury": true,
	"venus":   true,
	"mars":    true,
	"jupiter": true,
	"saturn":  true,
	"uranus":  true,
	"neptune": true,
}

// Classify maps a lower-cased object name to its class.
func Classify(name string) Class {
	switch {
	case name == "moon":
		return ClassMoon
	case planets[name]:
		return ClassPlanet
	default:
		return ClassStar
	}
}

// Object is a celestial body with precomputed horizontal coordinates.
// All angles are radians.
type Object struct {
	Name        string
	Declination float64
	GHA         float64
	HC          float64
	ZN          float64
}

// Class returns the object's classification.
func (o Object) Class() Class {
	return Classify(o.Name)
}

// Catalog is an immutable object list. The zero value is an empty catalog.
type Catalog struct {
	objects []Object
	skipped int
}

// New copies objects into a catalog.
func New(objects []Object) *Catalog {
	c := &Catalog{objects: make([]Object, len(objects))}
	copy(c.objects, objects)
	return c
}

// FromEntries converts raw entries in degrees into a catalog, dropping entries
// missing a name or any angle. Names are lower-cased.
func FromEntries(entries []ephem.Entry) *Catalog {
	c := &Catalog{objects: make([]Object, 0, len(entries))}
	for _, e := range entries {
		if !e.Complete() {
			c.skipped++
			continue
		}
		c.objects = append(c.objects, Object{
			Name:        strings.ToLower(e.Object),
			Declination: astro.DegToRad(*e.Dec),
			GHA:         astro.DegToRad(*e.GHA),
			HC:          astro.DegToRad(*e.HC),
			ZN:          astro.DegToRad(*e.ZN),
		})
	}
	return c
}

// Load fetches entries from a provider and builds a catalog. A provider error
// is returned as-is (wrapped) and no catalog is produced; an empty result is a
// valid empty catalog.
func Load(ctx context.Context, p ephem.Provider, obs astro.Observer) (*Catalog, error) {
	entries, err := p.Fetch(ctx, obs)
	if err != nil {
		return nil, fmt.Errorf("fetch %s catalog: %w", p.Name(), err)
	}
	return FromEntries(entries), nil
}

// Objects returns the catalog's objects. The slice must not be modified.
func (c *Catalog) Objects() []Object {
	if c == nil {
		return nil
	}
	return c.objects
}

// Len returns the number of objects.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.objects)
}

// Skipped returns how many malformed entries were dropped while building.
func (c *Catalog) Skipped() int {
	if c == nil {
		return 0
	}
	return c.skipped
}

// Lookup returns the object with the given (case-insensitive) name.
func (c *Catalog) Lookup(name string) (Object, bool) {
	name = strings.ToLower(name)
	for _, o := range c.Objects() {
		if o.Name == name {
			return o, true
		}
	}
	return Object{}, false
}
