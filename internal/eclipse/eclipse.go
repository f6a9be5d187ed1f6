// Package eclipse implements the lunar eclipse search engine (spec §4.6,
// C7): candidate enumeration over full moons, a coarse separation filter,
// and per-candidate fine-grained timing/magnitude refinement.
//
// Grounded on original_source/sso/lunar_eclipse_naoj.py (the geocentric
// shadow-axis separation filter and state-change scan that becomes the
// coarse filter and begin/end detection here) and
// lunar_eclipse_ephem.py (the alternate magnitude formula); spec §4.6 is
// the reconciled version of those two competing prototype scripts, and this
// package implements that reconciliation rather than either script
// verbatim.
package eclipse

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/slices"

	"github.com/tendosso/sso/internal/ephemeris"
	"github.com/tendosso/sso/internal/obs"
	"github.com/tendosso/sso/internal/value"
)

const (
	angleLunarEclipse       = 0.0262 // radians
	lunarEclipseScaleFactor = 51.0 / 50.0
	moonsetAltitudeDeg      = -1.2
)

const radToDeg = 180.0 / math.Pi

// Engine runs eclipse searches against an ephemeris adapter.
type Engine struct {
	adapter ephemeris.Adapter
}

// New builds an eclipse search Engine.
func New(adapter ephemeris.Adapter) *Engine {
	return &Engine{adapter: adapter}
}

// Search enumerates full moons starting at start for periodYears years,
// keeps those passing the coarse separation/altitude filter, refines each
// surviving candidate, and returns them sorted by candidate date.
// surfaceObserver is the real observer the "place" resolved to; world
// bypasses the moon-above-horizon requirement (spec §4.6's "unless the
// search was requested for world").
func (e *Engine) Search(ctx context.Context, start time.Time, periodYears float64, surfaceObserver value.Observer, world bool) value.EclipseResult {
	ctx, span := obs.Start(ctx, "eclipse", "Search")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("period_years", periodYears),
		attribute.Bool("world", world),
		attribute.Float64("julian_day", ephemeris.JulianDay(start)),
	)
	obs.Logger().InfoContext(ctx, "eclipse.Search", "period_years", periodYears, "world", world)

	numCandidates := int(12*periodYears + 0.5)
	if numCandidates < 1 {
		numCandidates = 1
	}

	threshold := angleLunarEclipse * lunarEclipseScaleFactor

	var events []value.EclipseEvent
	cursor := start
	for i := 0; i < numCandidates; i++ {
		fullMoon := e.adapter.NextFullMoon(cursor)
		cursor = fullMoon.Add(24 * time.Hour)

		sep := e.adapter.Separation(value.BodyMoon, value.BodySun, fullMoon)
		coarseSep := math.Abs(sep - math.Pi)
		if coarseSep >= threshold {
			continue
		}

		altAtFull := e.altitudeAt(surfaceObserver, value.BodyMoon, fullMoon)
		if !world && altAtFull < moonsetAltitudeDeg {
			continue
		}

		events = append(events, e.refine(ctx, fullMoon, coarseSep, altAtFull))
	}

	slices.SortFunc(events, func(a, b value.EclipseEvent) bool {
		return a.CandidateDate.Before(b.CandidateDate)
	})

	return value.EclipseResult{Events: events}
}

func (e *Engine) altitudeAt(observer value.Observer, kind value.BodyKind, at time.Time) float64 {
	ob := observer
	ob.Date = at
	b := value.Body{Kind: kind}
	if err := e.adapter.Compute(&b, ob, at); err != nil {
		return math.Inf(-1)
	}
	return b.State.Altitude
}

// geocentricObserver is the "pretend you're standing at Earth's centre"
// station spec §4.6 uses for the coarse filter and for the distance/size
// readings the refinement step needs: latitude/longitude are irrelevant at
// the centre of the Earth, only the negative-radius elevation matters.
func (e *Engine) geocentricObserver(at time.Time) value.Observer {
	return value.Observer{Elevation: -e.adapter.EarthRadiusMeters(), Date: at}
}

// refine scans the four hours centred on a full moon at one-second
// resolution, computing the eclipse magnitude at each sample, and reports
// the event's maximum, begin, end, and classification.
func (e *Engine) refine(ctx context.Context, fullMoon time.Time, coarseSep, altAtFull float64) value.EclipseEvent {
	_, span := obs.Start(ctx, "eclipse", "refine")
	defer span.End()
	span.SetAttributes(attribute.Float64("julian_day", ephemeris.JulianDay(fullMoon)))

	start := fullMoon.Add(-2 * time.Hour)
	end := fullMoon.Add(2 * time.Hour)

	var maxMag float64 = math.Inf(-1)
	var maxTime time.Time
	var begin, endAt *time.Time
	sawPositive := false

	for t := start; !t.After(end); t = t.Add(time.Second) {
		m := e.magnitudeAt(t)
		if m > maxMag {
			maxMag = m
			maxTime = t
		}
		if !sawPositive && m > 0 {
			tt := t
			begin = &tt
			sawPositive = true
		}
		if sawPositive && endAt == nil && m <= 0 {
			tt := t
			endAt = &tt
		}
	}

	return value.EclipseEvent{
		CandidateDate:  fullMoon,
		Separation:     coarseSep,
		AltitudeAtFull: altAtFull,
		Class:          classify(maxMag),
		Max:            &maxTime,
		Magnitude:      maxMag,
		Begin:          begin,
		End:            endAt,
	}
}

// magnitudeAt implements spec §4.6's refinement-step formula at one
// instant: umbral radius from the Sun/Moon parallax and the Sun's apparent
// radius, versus the anti-sun/moon separation.
func (e *Engine) magnitudeAt(at time.Time) float64 {
	geocentric := e.geocentricObserver(at)

	sun := value.Body{Kind: value.BodySun}
	moon := value.Body{Kind: value.BodyMoon}
	_ = e.adapter.Compute(&sun, geocentric, at)
	_ = e.adapter.Compute(&moon, geocentric, at)

	rs := sun.State.SizeArcsec / 2
	rm := moon.State.SizeArcsec / 2

	earthRadiusM := e.adapter.EarthRadiusMeters()
	metersPerAU := e.adapter.MetersPerAU()
	sunDistM := sun.State.EarthDistance * metersPerAU
	moonDistM := moon.State.EarthDistance * metersPerAU

	ps := (earthRadiusM / sunDistM) * radToDeg * 3600
	pm := (earthRadiusM / moonDistM) * radToDeg * 3600

	ru := (ps + pm - rs) * lunarEclipseScaleFactor
	// Rp, the penumbral radius (ps+pm+rs)*scale, is part of spec §4.6's
	// refinement step but only the umbral radius feeds the magnitude
	// formula below; penumbral-only events fall out of classify(m) once m
	// drops to or below zero.

	sep := e.adapter.Separation(value.BodySun, value.BodyMoon, at)
	s := math.Abs(math.Abs(sep*radToDeg)-180) * 3600

	return (ru + rm - s) / (2 * rm)
}

func classify(m float64) value.EclipseClass {
	switch {
	case m >= 1.0:
		return value.EclipseTotal
	case m > 0:
		return value.EclipsePartial
	default:
		return value.EclipsePenumbral
	}
}
