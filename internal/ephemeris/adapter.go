package ephemeris

import (
	"math"
	"time"

	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/value"
)

// bodyRadiusKm holds each body's mean physical radius, used for apparent
// angular-diameter calculations (Moon age/diameter, Sun diameter, generic
// SizeArcsec).
var bodyRadiusKm = map[value.BodyKind]float64{
	value.BodySun: 696000, value.BodyMercury: 2439.7, value.BodyVenus: 6051.8,
	value.BodyEarth: 6371, value.BodyMoon: 1737.4, value.BodyMars: 3389.5,
	value.BodyJupiter: 69911, value.BodySaturn: 58232, value.BodyUranus: 25362,
	value.BodyNeptune: 24622, value.BodyPluto: 1188.3,
	value.BodyIo: 1821.6, value.BodyEuropa: 1560.8, value.BodyGanymede: 2634.1, value.BodyCallisto: 2410.3,
}

// planetBaseMagnitude holds the approximate "H" magnitude Meeus-style
// formulas use: m = H + 5*log10(r*delta).
var planetBaseMagnitude = map[value.BodyKind]float64{
	value.BodyMercury: -0.42, value.BodyVenus: -4.40, value.BodyMars: -1.52,
	value.BodyJupiter: -9.40, value.BodySaturn: -8.88, value.BodyUranus: -7.19,
	value.BodyNeptune: -6.87, value.BodyPluto: -1.00,
}

var galileanElements = map[value.BodyKind]struct{ periodDays, semiMajorKm float64 }{
	value.BodyIo:       {1.769138, 421800},
	value.BodyEuropa:   {3.551181, 671100},
	value.BodyGanymede: {7.154553, 1070400},
	value.BodyCallisto: {16.689018, 1882700},
}

// Adapter is the uniform ephemeris interface spec §4.3 (C1) asks the rest
// of the interpreter to depend on: celestial computation is fully isolated
// behind it so the calculator, dispatcher, and eclipse engine never touch a
// Julian day or a mean anomaly directly.
type Adapter interface {
	NowUTC() time.Time
	Compute(body *value.Body, observer value.Observer, at time.Time) error
	NextRising(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, float64, error)
	NextTransit(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, error)
	NextSetting(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, float64, error)
	PreviousNewMoon(from time.Time) time.Time
	NextFullMoon(from time.Time) time.Time
	Separation(a, b value.BodyKind, at time.Time) float64
	EarthRadiusMeters() float64
	MetersPerAU() float64
}

// Engine is the low-precision Adapter implementation: every celestial
// position comes from the mean-element formulas in engine.go, cached in an
// LRU keyed by (body, Julian day).
type Engine struct {
	cache *computeCache
	now   func() time.Time
}

// NewEngine builds an Engine with a default LRU compute cache sized for a
// single interactive session's worth of rise/transit/set and eclipse
// searches.
func NewEngine() *Engine {
	return &Engine{
		cache: newComputeCache(4096),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) NowUTC() time.Time { return e.now().UTC() }

func (e *Engine) EarthRadiusMeters() float64 { return 6378137.0 }
func (e *Engine) MetersPerAU() float64       { return MetersPerAU }

func internalName(k value.BodyKind) string {
	switch k {
	case value.BodySun:
		return "sun"
	case value.BodyMoon:
		return "moon"
	case value.BodyMercury:
		return "mercury"
	case value.BodyVenus:
		return "venus"
	case value.BodyMars:
		return "mars"
	case value.BodyJupiter:
		return "jupiter"
	case value.BodySaturn:
		return "saturn"
	case value.BodyUranus:
		return "uranus"
	case value.BodyNeptune:
		return "neptune"
	case value.BodyPluto:
		return "pluto"
	}
	return ""
}

// geocentricPosition returns the geocentric ecliptic position of any
// supported body at the given Julian day, consulting the cache first.
func (e *Engine) geocentricPosition(kind value.BodyKind, jd float64) (eclipticPos, error) {
	name := internalName(kind)
	if name == "" {
		if _, ok := galileanElements[kind]; ok {
			return e.galileanPosition(kind, jd)
		}
		return eclipticPos{}, errs.New(errs.EphemerisOther, "ephemeris", "unsupported body "+kind.String())
	}
	if p, ok := e.cache.get(name, jd); ok {
		return p, nil
	}
	var p eclipticPos
	switch name {
	case "sun":
		p = sunPosition(jd)
	case "moon":
		p = moonPosition(jd)
	default:
		p = planetPosition(jd, name)
	}
	e.cache.put(name, jd, p)
	return p, nil
}

// galileanPosition approximates a Galilean moon's geocentric position as
// Jupiter's position offset by a small elongation that oscillates with the
// moon's own orbital period around Jupiter. It is a deliberately coarse
// model (no orbital inclination, no eclipse-by-Jupiter geometry) but gives
// these four extra bodies a believable, time-varying position rather than
// pinning them to Jupiter exactly.
func (e *Engine) galileanPosition(kind value.BodyKind, jd float64) (eclipticPos, error) {
	jup, err := e.geocentricPosition(value.BodyJupiter, jd)
	if err != nil {
		return eclipticPos{}, err
	}
	el := galileanElements[kind]
	phase := 2 * math.Pi * math.Mod(jd, el.periodDays) / el.periodDays
	angularRadiusDeg := (el.semiMajorKm * 1000 / (jup.DistAU * MetersPerAU)) * radToDeg
	return eclipticPos{
		LonDeg: normDeg(jup.LonDeg + angularRadiusDeg*math.Sin(phase)),
		LatDeg: jup.LatDeg,
		DistAU: jup.DistAU,
	}, nil
}

// Compute fills body.State for the given observer and instant, per spec
// §4.3/§4.6's compute() contract: altitude, azimuth, Earth distance always;
// Moon-only phase/age/illumination/diameter; planet-only magnitude and
// constellation; Sun-only diameter; SizeArcsec for every body.
func (e *Engine) Compute(body *value.Body, observer value.Observer, at time.Time) error {
	jd := JulianDay(at)
	pos, err := e.geocentricPosition(body.Kind, jd)
	if err != nil {
		return err
	}
	ra, dec := equatorial(pos, jd)
	alt, az := horizontal(ra, dec, observer.Lat, observer.Lon, jd)

	st := value.State{
		Valid:         true,
		Altitude:      alt,
		Azimuth:       az,
		EarthDistance: pos.DistAU,
	}

	if radiusKm, ok := bodyRadiusKm[body.Kind]; ok {
		distKm := pos.DistAU * MetersPerAU / 1000.0
		st.SizeArcsec = 2 * math.Atan(radiusKm/distKm) * radToDeg * 3600
	}

	switch body.Kind {
	case value.BodyMoon:
		sunPos, _ := e.geocentricPosition(value.BodySun, jd)
		sunRA, sunDec := equatorial(sunPos, jd)
		elongation := angularSeparation(ra, dec, sunRA, sunDec)
		illum := (1 - math.Cos(elongation)) / 2
		st.Illumination = illum
		st.Phase = illum * 100
		st.Age = at.Sub(e.PreviousNewMoon(at)).Hours() / 24.0
		st.DiameterArcmin = st.SizeArcsec / 60.0
	case value.BodySun:
		st.DiameterDeg = st.SizeArcsec / 3600.0
	default:
		if base, ok := planetBaseMagnitude[body.Kind]; ok {
			helioDist := approxHeliocentricDistance(body.Kind, jd)
			st.Magnitude = base + 5*math.Log10(helioDist*pos.DistAU)
		}
		st.Constellation = constellationFor(pos.LonDeg)
	}

	body.State = st
	return nil
}

// approxHeliocentricDistance reconstructs a planet's Sun-distance from its
// heliocentric mean elements, used only by the magnitude formula.
func approxHeliocentricDistance(kind value.BodyKind, jd float64) float64 {
	name := internalName(kind)
	_, dist := helioPosition(jd, name)
	return dist
}

// Separation returns the angular separation in radians between two bodies
// at the given instant, geocentric (no observer-local parallax).
func (e *Engine) Separation(a, b value.BodyKind, at time.Time) float64 {
	jd := JulianDay(at)
	pa, errA := e.geocentricPosition(a, jd)
	pb, errB := e.geocentricPosition(b, jd)
	if errA != nil || errB != nil {
		return math.NaN()
	}
	ra1, dec1 := equatorial(pa, jd)
	ra2, dec2 := equatorial(pb, jd)
	return angularSeparation(ra1, dec1, ra2, dec2)
}

func (e *Engine) altitudeAt(observer value.Observer, kind value.BodyKind, t time.Time) float64 {
	jd := JulianDay(t)
	pos, err := e.geocentricPosition(kind, jd)
	if err != nil {
		return math.NaN()
	}
	ra, dec := equatorial(pos, jd)
	alt, _ := horizontal(ra, dec, observer.Lat, observer.Lon, jd)
	return alt
}

// horizonDepressionDeg is the altitude a body's centre must cross to count
// as risen/set, folding in standard atmospheric refraction at the horizon
// plus, for the Sun, its own angular radius (grounded on
// astronomy/sunrise.go's SolarDepressionAngle).
func horizonDepressionDeg(kind value.BodyKind) float64 {
	if kind == value.BodySun {
		return -0.8333
	}
	return -0.5667
}

const searchStep = 4 * time.Minute
const searchHorizon = 48 * time.Hour

// NextRising finds the next instant, at or after from, that the body's
// altitude crosses the horizon depression going upward. Returns
// EphemerisAlwaysUp / EphemerisNeverUp when no crossing exists within the
// search horizon.
func (e *Engine) NextRising(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, float64, error) {
	return e.findCrossing(observer, kind, from, true)
}

// NextSetting is NextRising's downward-crossing counterpart.
func (e *Engine) NextSetting(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, float64, error) {
	return e.findCrossing(observer, kind, from, false)
}

func (e *Engine) findCrossing(observer value.Observer, kind value.BodyKind, from time.Time, rising bool) (time.Time, float64, error) {
	depression := horizonDepressionDeg(kind)
	prevT := from
	prevAlt := e.altitudeAt(observer, kind, prevT) - depression

	everAbove, everBelow := prevAlt > 0, prevAlt < 0
	steps := int(searchHorizon / searchStep)

	for i := 1; i <= steps; i++ {
		t := from.Add(time.Duration(i) * searchStep)
		alt := e.altitudeAt(observer, kind, t) - depression
		everAbove = everAbove || alt > 0
		everBelow = everBelow || alt < 0

		crosses := (rising && prevAlt <= 0 && alt > 0) || (!rising && prevAlt >= 0 && alt < 0)
		if crosses {
			root := e.bisectCrossing(observer, kind, depression, prevT, t, prevAlt, alt)
			return root, e.altitudeAt(observer, kind, root), nil
		}
		prevT, prevAlt = t, alt
	}

	if everAbove && !everBelow {
		return time.Time{}, 0, errs.New(errs.EphemerisAlwaysUp, "ephemeris", kind.String()+" is always up for this observer and window")
	}
	return time.Time{}, 0, errs.New(errs.EphemerisNeverUp, "ephemeris", kind.String()+" never rises for this observer and window")
}

func (e *Engine) bisectCrossing(observer value.Observer, kind value.BodyKind, depression float64, t0, t1 time.Time, a0, _ float64) time.Time {
	for i := 0; i < 30; i++ {
		mid := t0.Add(t1.Sub(t0) / 2)
		am := e.altitudeAt(observer, kind, mid) - depression
		if (a0 <= 0 && am > 0) || (a0 >= 0 && am < 0) {
			t1 = mid
		} else {
			t0, a0 = mid, am
		}
	}
	return t0.Add(t1.Sub(t0) / 2)
}

// NextTransit finds the next instant the body crosses the observer's local
// meridian (hour angle 0), by bisecting on the wrapped hour-angle signal.
func (e *Engine) NextTransit(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, error) {
	haAt := func(t time.Time) float64 {
		jd := JulianDay(t)
		pos, err := e.geocentricPosition(kind, jd)
		if err != nil {
			return math.NaN()
		}
		ra, _ := equatorial(pos, jd)
		lst := normDeg(gmst(jd) + observer.Lon*radToDeg)
		ha := normDeg(lst - ra)
		if ha > 180 {
			ha -= 360
		}
		return ha
	}

	prevT := from
	prevHA := haAt(prevT)
	steps := int(searchHorizon / searchStep)

	for i := 1; i <= steps; i++ {
		t := from.Add(time.Duration(i) * searchStep)
		ha := haAt(t)
		if prevHA < 0 && ha >= 0 {
			t0, t1 := prevT, t
			for j := 0; j < 30; j++ {
				mid := t0.Add(t1.Sub(t0) / 2)
				hm := haAt(mid)
				if hm < 0 {
					t0 = mid
				} else {
					t1 = mid
				}
			}
			return t0.Add(t1.Sub(t0) / 2), nil
		}
		prevT, prevHA = t, ha
	}
	return time.Time{}, errs.New(errs.EphemerisOther, "ephemeris", "no transit found for "+kind.String()+" within search window")
}

// moonSunElongationDeg returns the Moon's elongation from the Sun, in
// [0,360), at the given Julian day.
func moonSunElongationDeg(jd float64) float64 {
	m := moonPosition(jd)
	s := sunPosition(jd)
	return normDeg(m.LonDeg - s.LonDeg)
}

// findPhaseCrossing locates the nearest instant to "from" (searching in the
// given direction) at which the Moon's elongation from the Sun equals
// targetDeg (0 for new moon, 180 for full moon). It steps in 12h
// increments for up to 40 days and bisects the bracket it finds.
func findPhaseCrossing(from time.Time, targetDeg float64, forward bool) time.Time {
	signedDiff := func(t time.Time) float64 {
		d := moonSunElongationDeg(JulianDay(t)) - targetDeg
		for d > 180 {
			d -= 360
		}
		for d < -180 {
			d += 360
		}
		return d
	}

	step := 12 * time.Hour
	if !forward {
		step = -step
	}

	prevT := from
	prevD := signedDiff(prevT)
	for i := 1; i <= 80; i++ {
		t := from.Add(time.Duration(i) * step)
		d := signedDiff(t)
		// A jump of about 360° between samples is the wrap at targetDeg±180,
		// not a crossing of targetDeg itself.
		if math.Abs(d-prevD) < 180 && ((prevD <= 0 && d > 0) || (prevD >= 0 && d < 0)) {
			lo, hi, loD := prevT, t, prevD
			if !forward {
				lo, hi = t, prevT
				loD = d
			}
			for j := 0; j < 40; j++ {
				mid := lo.Add(hi.Sub(lo) / 2)
				dm := signedDiff(mid)
				if (loD <= 0 && dm <= 0) || (loD >= 0 && dm >= 0) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return lo.Add(hi.Sub(lo) / 2)
		}
		prevT, prevD = t, d
	}
	return from
}

// PreviousNewMoon returns the last new moon at or before from.
func (e *Engine) PreviousNewMoon(from time.Time) time.Time {
	return findPhaseCrossing(from, 0, false)
}

// NextFullMoon returns the next full moon at or after from.
func (e *Engine) NextFullMoon(from time.Time) time.Time {
	return findPhaseCrossing(from, 180, true)
}
