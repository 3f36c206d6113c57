// Package astro provides angle math and the coordinate transformations used to
// place catalog objects on the observer's sky.
package astro

import (
	"math"
	"time"
)

// SkyCoord holds equatorial (RA/Dec) and horizontal (Az/El) coordinates in
// degrees.
type SkyCoord struct {
	RAdeg  float64 // Right Ascension (0-360)
	DecDeg float64 // Declination (-90 to +90)
	AzDeg  float64 // Azimuth (0=N, 90=E)
	ElDeg  float64 // Elevation (0=horizon, 90=zenith)
}

// Observer is a ground site.
type Observer struct {
	LatDeg float64 // north positive
	LonDeg float64 // east positive
}

// EquatorialToHorizontal converts RA/Dec to Az/El for an observer at time t.
// The RA/Dec of the input are preserved in the result.
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := DegToRad(obs.LatDeg)
	dec := DegToRad(eq.DecDeg)
	ha := DegToRad(localSiderealTime(t, obs.LonDeg) - eq.RAdeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(Clamp(sinAlt, -1, 1))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(Clamp(cosAz, -1, 1))

	// West of the meridian when the hour angle is positive.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return SkyCoord{
		RAdeg:  eq.RAdeg,
		DecDeg: eq.DecDeg,
		AzDeg:  RadToDeg(az),
		ElDeg:  RadToDeg(alt),
	}
}

// GreenwichHourAngle returns the GHA in degrees [0, 360) of a body with the
// given right ascension at time t.
func GreenwichHourAngle(raDeg float64, t time.Time) float64 {
	return normalizeAngle360(greenwichMeanSiderealTime(t) - raDeg)
}

// localSiderealTime returns LST in degrees [0, 360).
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime returns GMST in degrees (IAU 1982).
func greenwichMeanSiderealTime(t time.Time) float64 {
	jd := julianDate(t)
	T := (jd - 2451545.0) / 36525.0

	gmst := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalizeAngle360(gmst)
}

// julianDate returns the Julian Date of t.
func julianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	dayFrac := (float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/3600e9) / 24.0

	// January and February count as months 13 and 14 of the previous year.
	if m <= 2 {
		y--
		m += 12
	}

	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

// normalizeAngle360 normalizes an angle to [0, 360) degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
