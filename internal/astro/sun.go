package astro

import (
	"math"
	"time"
)

// SunPosition returns the apparent right ascension and declination of the Sun
// in degrees, from the low-precision Astronomical Almanac series.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	T := julianCenturies(t)

	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := DegToRad(normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T))

	// Equation of center.
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(M) +
		(0.019993-0.000101*T)*math.Sin(2*M) +
		0.000289*math.Sin(3*M)

	omega := DegToRad(125.04 - 1934.136*T)
	lon := DegToRad(L0 + C - 0.00569 - 0.00478*math.Sin(omega))
	eps := DegToRad(meanObliquity(T) + 0.00256*math.Cos(omega))

	ra := math.Atan2(math.Cos(eps)*math.Sin(lon), math.Cos(lon))
	dec := math.Asin(math.Sin(eps) * math.Sin(lon))

	return normalizeAngle360(RadToDeg(ra)), RadToDeg(dec)
}

// julianCenturies returns Julian centuries since J2000.0.
func julianCenturies(t time.Time) float64 {
	return (julianDate(t) - 2451545.0) / 36525.0
}

// meanObliquity returns the mean obliquity of the ecliptic in degrees.
func meanObliquity(T float64) float64 {
	return 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
}
