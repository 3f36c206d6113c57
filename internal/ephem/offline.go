package ephem

import (
	"context"
	"time"

	"github.com/litescript/ls-telescope/internal/astro"
)

// OfflineProvider computes almanac entries locally from the bright-star table
// plus low-precision Sun and Moon positions. It needs no network.
type OfflineProvider struct {
	now func() time.Time
}

// NewOfflineProvider creates an offline provider. A nil clock means time.Now.
func NewOfflineProvider(now func() time.Time) *OfflineProvider {
	if now == nil {
		now = time.Now
	}
	return &OfflineProvider{now: now}
}

// Name implements Provider.
func (p *OfflineProvider) Name() string {
	return "offline"
}

// Fetch implements Provider.
func (p *OfflineProvider) Fetch(ctx context.Context, obs astro.Observer) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := p.now().UTC()
	stars := astro.BrightStars()
	entries := make([]Entry, 0, len(stars)+2)

	sunRA, sunDec := astro.SunPosition(t)
	entries = append(entries, entryFor("Sun", sunRA, sunDec, obs, t))

	moonRA, moonDec := astro.MoonPosition(t)
	entries = append(entries, entryFor("Moon", moonRA, moonDec, obs, t))

	for _, s := range stars {
		entries = append(entries, entryFor(s.Name, s.RAdeg, s.DecDeg, obs, t))
	}
	return entries, nil
}

func entryFor(name string, raDeg, decDeg float64, obs astro.Observer, t time.Time) Entry {
	h := astro.EquatorialToHorizontal(astro.SkyCoord{RAdeg: raDeg, DecDeg: decDeg}, obs, t)
	return Entry{
		Object: name,
		Dec:    ptr(decDeg),
		GHA:    ptr(astro.GreenwichHourAngle(raDeg, t)),
		HC:     ptr(h.ElDeg),
		ZN:     ptr(h.AzDeg),
	}
}
