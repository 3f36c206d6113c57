package astro

import (
	"math"
	"time"
)

// MoonPosition returns the geocentric right ascension and declination of the
// Moon in degrees using the dominant periodic terms of Meeus ch. 47. Good to
// a fraction of a degree, which is well under a rendered sprite.
func MoonPosition(t time.Time) (raDeg, decDeg float64) {
	T := julianCenturies(t)

	L := 218.3164477 + 481267.88123421*T - 0.0015786*T*T
	D := DegToRad(normalizeAngle360(297.8501921 + 445267.1114034*T - 0.0018819*T*T))
	Mp := DegToRad(normalizeAngle360(134.9633964 + 477198.8675055*T + 0.0087414*T*T))
	F := DegToRad(normalizeAngle360(93.2720950 + 483202.0175233*T - 0.0036539*T*T))

	lambda := normalizeAngle360(L +
		6.289*math.Sin(Mp) +
		1.274*math.Sin(2*D-Mp) +
		0.658*math.Sin(2*D) +
		0.214*math.Sin(2*Mp) +
		0.110*math.Sin(D))

	beta := 5.128*math.Sin(F) +
		0.2806*math.Sin(Mp+F) +
		0.2777*math.Sin(Mp-F) +
		0.1732*math.Sin(2*D-F)

	return eclipticToEquatorial(lambda, beta, meanObliquity(T))
}

// eclipticToEquatorial converts ecliptic longitude/latitude to RA/Dec, all in
// degrees.
func eclipticToEquatorial(lambdaDeg, betaDeg, epsDeg float64) (raDeg, decDeg float64) {
	lam := DegToRad(lambdaDeg)
	bet := DegToRad(betaDeg)
	eps := DegToRad(epsDeg)

	dec := math.Asin(math.Sin(bet)*math.Cos(eps) + math.Cos(bet)*math.Sin(eps)*math.Sin(lam))
	ra := math.Atan2(math.Sin(lam)*math.Cos(eps)-math.Tan(bet)*math.Sin(eps), math.Cos(lam))

	return normalizeAngle360(RadToDeg(ra)), RadToDeg(dec)
}
