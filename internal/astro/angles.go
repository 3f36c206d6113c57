package astro

import "math"

// CircularDiff returns the signed shortest angular distance from base to
// target in radians, constrained to (-π, π].
//
// Both operands are expected to already lie in (-π, π], so a single ±2π
// correction is enough. A difference of exactly π is returned unchanged.
func CircularDiff(base, target float64) float64 {
	diff := target - base
	if diff > math.Pi {
		diff -= 2 * math.Pi
	}
	if diff <= -math.Pi {
		diff += 2 * math.Pi
	}
	return diff
}

// Wrap normalizes an angle in radians to (-π, π]. Angles within one turn of
// the range take a single ±2π correction; anything further out is reduced
// with a remainder first.
func Wrap(angle float64) float64 {
	if angle > 3*math.Pi || angle <= -3*math.Pi {
		angle = math.Remainder(angle, 2*math.Pi)
	}
	if angle > math.Pi {
		angle -= 2 * math.Pi
	}
	if angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// RadToDeg0360 converts radians to degrees in [0, 360) for display.
func RadToDeg0360(angle float64) float64 {
	deg := RadToDeg(angle)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(math.Min(v, hi), lo)
}
