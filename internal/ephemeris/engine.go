// Package ephemeris implements the ephemeris adapter (spec §4.3, C1): the
// uniform interface the core relies on for position, rise/transit/set, and
// new/full-moon queries, backed by a self-contained low-precision
// orbital-mechanics engine.
//
// The mean-element formulas for the Sun, Moon, and the eight planets are
// grounded on naren-m-panchangam/astronomy/ephemeris/swiss_provider.go's
// calculateSunPosition/calculateMoonPosition/calculatePlanetPosition (pure
// Go, dependency-free VSOP87-derived mean elements); the rise/set hour-angle
// method is grounded on astronomy/sunrise.go. See DESIGN.md for why a cgo
// binding to an ephemeris library (tejzpr-go-swisseph, segoport) or a binary
// JPL file reader (mshafiee-jpleph) were not used instead.
package ephemeris

import (
	"math"
	"time"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi

	// MetersPerAU is the IAU astronomical unit in metres.
	MetersPerAU = 149597870700.0
)

// JulianDay converts a UTC instant to a Julian day number.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	a := (14 - int(t.Month())) / 12
	y := t.Year() + 4800 - a
	m := int(t.Month()) + 12*a - 3
	jdn := float64(t.Day()) + float64((153*m+2)/5) + float64(365*y) + float64(y/4) - float64(y/100) + float64(y/400) - 32045
	frac := (float64(t.Hour())-12)/24 + float64(t.Minute())/1440 + float64(t.Second())/86400
	return jdn + frac
}

func centuriesSinceJ2000(jd float64) float64 { return (jd - 2451545.0) / 36525.0 }

func normDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// eclipticPos is a geocentric ecliptic-of-date position: longitude and
// latitude in degrees, distance in AU.
type eclipticPos struct {
	LonDeg, LatDeg, DistAU float64
}

// sunPosition reproduces swiss_provider.go's calculateSunPosition: already
// geocentric, no vector subtraction required.
func sunPosition(jd float64) eclipticPos {
	t := jd - 2451545.0
	l := normDeg(280.4664567 + 0.9856235*t)
	m := normDeg(357.5291092 + 0.9856002585*t)
	mRad := m * degToRad
	c := 1.9148*math.Sin(mRad) + 0.0200*math.Sin(2*mRad) + 0.0003*math.Sin(3*mRad)
	lambda := l + c
	dist := 1.000001018 * (1 - 0.01671123*math.Cos(mRad) - 0.00014*math.Cos(2*mRad))
	return eclipticPos{LonDeg: normDeg(lambda), LatDeg: 0, DistAU: dist}
}

// moonPosition reproduces swiss_provider.go's calculateMoonPosition, a
// truncated ELP-2000 lunar theory, already geocentric.
func moonPosition(jd float64) eclipticPos {
	t := jd - 2451545.0
	l := normDeg(218.3164477 + 13.17639648*t)
	m := normDeg(134.9633964 + 13.06499295*t)
	d := normDeg(297.8501921 + 12.19074912*t)
	f := normDeg(93.2720950 + 13.22935025*t)

	mRad := m * degToRad
	dRad := d * degToRad
	fRad := f * degToRad

	deltaL := 6.289*math.Sin(mRad) + 1.274*math.Sin(2*dRad-mRad) + 0.658*math.Sin(2*dRad) -
		0.186*math.Sin(sunMeanAnomalyRad(jd)) - 0.059*math.Sin(2*mRad-2*dRad) -
		0.057*math.Sin(mRad-2*dRad+sunMeanAnomalyRad(jd))
	deltaB := 5.128*math.Sin(fRad) + 0.281*math.Sin(mRad+fRad) + 0.277*math.Sin(mRad-fRad) +
		0.173*math.Sin(2*dRad-fRad) + 0.055*math.Sin(2*dRad-mRad+fRad)
	deltaR := -20905*math.Cos(mRad) - 3699*math.Cos(2*dRad-mRad) - 2956*math.Cos(2*dRad) -
		570*math.Cos(2*mRad) + 246*math.Cos(2*mRad-2*dRad)

	lambda := l + deltaL
	beta := deltaB
	distAU := (385000.56 + deltaR) / (MetersPerAU / 1000.0)

	return eclipticPos{LonDeg: normDeg(lambda), LatDeg: beta, DistAU: distAU}
}

func sunMeanAnomalyRad(jd float64) float64 {
	t := jd - 2451545.0
	return normDeg(357.5291092+0.9856002585*t) * degToRad
}

type helioElements struct {
	L0, Ldot, M0, Mdot, dist float64
}

var planetHelioElements = map[string]helioElements{
	"mercury": {252.2509, 4.092338, 174.7948, 4.092335, 0.387098},
	"venus":   {181.9798, 1.602136, 50.4161, 1.602136, 0.723327},
	"earth":   {100.4644, 0.985647, 357.5291, 0.985600, 1.000001},
	"mars":    {355.433, 0.524033, 19.3870, 0.524033, 1.523679},
	"jupiter": {34.3515, 0.083091, 20.0202, 0.083091, 5.204267},
	"saturn":  {50.0774, 0.033494, 317.021, 0.033494, 9.5820172},
	"uranus":  {314.055, 0.011733, 142.238, 0.011733, 19.189253},
	"neptune": {304.348, 0.005965, 256.225, 0.005965, 30.070900},
	"pluto":   {238.956, 0.003968, 14.8820, 0.003968, 39.481686},
}

// helioPosition returns a planet's (or Earth's) approximate heliocentric
// longitude (degrees) and distance (AU), assuming a circular, coplanar
// orbit — the same simplification swiss_provider.go's calculatePlanetPosition
// makes (it returns Latitude: 0 "simplified - real VSOP87 includes latitude
// corrections").
func helioPosition(jd float64, name string) (lonDeg, distAU float64) {
	e, ok := planetHelioElements[name]
	if !ok {
		e = planetHelioElements["earth"]
	}
	t := jd - 2451545.0
	l := normDeg(e.L0 + e.Ldot*t)
	m := normDeg(e.M0 + e.Mdot*t)
	mRad := m * degToRad
	lambda := l + 1.915*math.Sin(mRad) + 0.020*math.Sin(2*mRad)
	return normDeg(lambda), e.dist
}

// planetPosition computes a geocentric ecliptic position for an outer/inner
// planet by vector-subtracting Earth's heliocentric position from the
// planet's, both treated as circular and coplanar.
func planetPosition(jd float64, name string) eclipticPos {
	pLon, pDist := helioPosition(jd, name)
	eLon, eDist := helioPosition(jd, "earth")

	px, py := pDist*math.Cos(pLon*degToRad), pDist*math.Sin(pLon*degToRad)
	ex, ey := eDist*math.Cos(eLon*degToRad), eDist*math.Sin(eLon*degToRad)

	gx, gy := px-ex, py-ey
	dist := math.Hypot(gx, gy)
	lon := normDeg(math.Atan2(gy, gx) * radToDeg)

	return eclipticPos{LonDeg: lon, LatDeg: 0, DistAU: dist}
}

// meanObliquity is the obliquity of the ecliptic in degrees.
func meanObliquity(jd float64) float64 {
	t := centuriesSinceJ2000(jd)
	return 23.439291 - 0.0130042*t
}

// equatorial converts an ecliptic position to right ascension/declination,
// both in degrees.
func equatorial(p eclipticPos, jd float64) (raDeg, decDeg float64) {
	eps := meanObliquity(jd) * degToRad
	lon := p.LonDeg * degToRad
	lat := p.LatDeg * degToRad

	sinDec := math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon)
	dec := math.Asin(clip(sinDec, -1, 1))

	y := math.Sin(lon)*math.Cos(eps) - math.Tan(lat)*math.Sin(eps)
	x := math.Cos(lon)
	ra := normDeg(math.Atan2(y, x) * radToDeg)

	return ra, dec * radToDeg
}

// gmst returns Greenwich Mean Sidereal Time in degrees.
func gmst(jd float64) float64 {
	t := centuriesSinceJ2000(jd)
	theta := 280.46061837 + 360.98564736629*(jd-2451545.0) + 0.000387933*t*t - t*t*t/38710000.0
	return normDeg(theta)
}

// horizontal converts an equatorial position to local altitude/azimuth
// (degrees) for an observer at latRad/lonRad (radians, east-positive lon).
func horizontal(raDeg, decDeg, latRad, lonRad, jd float64) (altDeg, azDeg float64) {
	lst := normDeg(gmst(jd) + lonRad*radToDeg)
	ha := normDeg(lst-raDeg) * degToRad
	dec := decDeg * degToRad

	sinAlt := math.Sin(latRad)*math.Sin(dec) + math.Cos(latRad)*math.Cos(dec)*math.Cos(ha)
	alt := math.Asin(clip(sinAlt, -1, 1))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(latRad)) / (math.Cos(alt) * math.Cos(latRad))
	az := math.Acos(clip(cosAz, -1, 1))
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return alt * radToDeg, az * radToDeg
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// angularSeparation returns the angle in radians between two equatorial
// positions given as (ra, dec) degree pairs.
func angularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	r1, d1 := ra1*degToRad, dec1*degToRad
	r2, d2 := ra2*degToRad, dec2*degToRad
	cosSep := math.Sin(d1)*math.Sin(d2) + math.Cos(d1)*math.Cos(d2)*math.Cos(r1-r2)
	return math.Acos(clip(cosSep, -1, 1))
}
