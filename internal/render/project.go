package render

import (
	"math"

	"github.com/litescript/ls-telescope/internal/astro"
	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/state"
)

// Project maps an object into screen coordinates for the given pointing and
// field of view. It uses a linear angle-to-pixel mapping, not a true
// gnomonic projection. Visibility bounds are inclusive.
func Project(obj catalog.Object, o state.Orientation, fov state.FOV, res Resolution) (x, y int, ok bool) {
	relAz := astro.CircularDiff(o.Azimuth, obj.GHA)
	relEl := obj.HC - o.Elevation

	if math.Abs(relAz) > fov.X/2 || math.Abs(relEl) > fov.Y/2 {
		return 0, 0, false
	}

	x = int(math.Round(float64(res.Width) * (0.5 + relAz/fov.X)))
	y = int(math.Round(float64(res.Height) * (0.5 - relEl/fov.Y)))
	return x, y, true
}
