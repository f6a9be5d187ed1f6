// Package calculator implements the celestial calculator (spec §4.4, C6):
// the layer between the ephemeris adapter and the arrow dispatcher that
// knows about observers, local time, and the body-specific result shapes a
// Body -> Observer arrow produces.
//
// Grounded on original_source/sso/calculation.py's CelestialCalculator
// (calculate_current_position/calculate_riseing/calculate_transit/
// calculate_setting/calculate_Moon_noon_age), keeping its method names'
// intent but fixing the two bugs the prototype shipped with (the
// `rize_time`/`rise_time` typo that made rise lookups crash, and
// calculate_transit's mismatched return arity).
package calculator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tendosso/sso/internal/ephemeris"
	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/geo"
	"github.com/tendosso/sso/internal/obs"
	"github.com/tendosso/sso/internal/value"
)

// Calculator binds an Adapter to one observer for the duration of a single
// arrow-dispatch evaluation.
type Calculator struct {
	adapter  ephemeris.Adapter
	observer value.Observer
}

// New builds a Calculator for the given observer.
func New(adapter ephemeris.Adapter, observer value.Observer) *Calculator {
	return &Calculator{adapter: adapter, observer: observer}
}

// CurrentPosition computes body's State at the observer's reference date,
// mirroring calculate_current_position. The body's Kind must already be set;
// only State is mutated.
func (c *Calculator) CurrentPosition(ctx context.Context, body value.Body) (value.Body, error) {
	ctx, span := obs.Start(ctx, "calculator", "CurrentPosition")
	defer span.End()
	at := c.observer.Date
	span.SetAttributes(
		attribute.String("body.kind", body.Kind.String()),
		attribute.String("observer.name", c.observer.Name),
		attribute.Float64("julian_day", ephemeris.JulianDay(at)),
	)
	obs.Logger().InfoContext(ctx, "calculator.CurrentPosition", "body", body.Kind.String(), "observer", c.observer.Name)
	if err := c.adapter.Compute(&body, c.observer, at); err != nil {
		return body, err
	}
	return body, nil
}

// EventResult is the outcome of a rise/transit/set lookup: either a time and
// the body's altitude/azimuth at that time, or one of the AlwaysUp/NeverUp
// sentinels spec §4.4/§7 requires the formatter to render specially.
type EventResult struct {
	Time     time.Time
	Altitude float64
	Azimuth  float64
	AlwaysUp bool
	NeverUp  bool
}

// Rising computes the next sunrise/moonrise/body-rise at or after the
// observer's reference date.
func (c *Calculator) Rising(ctx context.Context, kind value.BodyKind) (EventResult, error) {
	ctx, span := obs.Start(ctx, "calculator", "Rising")
	defer span.End()
	span.SetAttributes(attribute.String("body.kind", kind.String()), attribute.Float64("julian_day", ephemeris.JulianDay(c.observer.Date)))
	t, _, err := c.adapter.NextRising(c.observer, kind, c.observer.Date)
	return c.eventAt(ctx, kind, t, err)
}

// Transit computes the next meridian transit.
func (c *Calculator) Transit(ctx context.Context, kind value.BodyKind) (EventResult, error) {
	ctx, span := obs.Start(ctx, "calculator", "Transit")
	defer span.End()
	span.SetAttributes(attribute.String("body.kind", kind.String()), attribute.Float64("julian_day", ephemeris.JulianDay(c.observer.Date)))
	t, err := c.adapter.NextTransit(c.observer, kind, c.observer.Date)
	return c.eventAt(ctx, kind, t, err)
}

// Setting computes the next set.
func (c *Calculator) Setting(ctx context.Context, kind value.BodyKind) (EventResult, error) {
	ctx, span := obs.Start(ctx, "calculator", "Setting")
	defer span.End()
	span.SetAttributes(attribute.String("body.kind", kind.String()), attribute.Float64("julian_day", ephemeris.JulianDay(c.observer.Date)))
	t, _, err := c.adapter.NextSetting(c.observer, kind, c.observer.Date)
	return c.eventAt(ctx, kind, t, err)
}

// eventAt re-computes the body's full state at the event instant (the
// adapter's own altitude return from the crossing search is discarded in
// favor of this single source of truth, matching the prototype's own
// "recompute at the found time" pattern), translating the adapter's
// AlwaysUp/NeverUp error kinds into the calculator's sentinel result per
// spec §4.4 ("on AlwaysUp/NeverUp returns the sentinel constant").
func (c *Calculator) eventAt(ctx context.Context, kind value.BodyKind, t time.Time, err error) (EventResult, error) {
	if err != nil {
		if k, ok := errs.KindOf(err); ok {
			switch k {
			case errs.EphemerisAlwaysUp:
				obs.Logger().InfoContext(ctx, "calculator.eventAt: always up", "body", kind.String())
				return EventResult{AlwaysUp: true}, nil
			case errs.EphemerisNeverUp:
				obs.Logger().InfoContext(ctx, "calculator.eventAt: never up", "body", kind.String())
				return EventResult{NeverUp: true}, nil
			}
		}
		return EventResult{}, nil
	}
	b := value.Body{Kind: kind}
	ob := c.observer
	ob.Date = t
	if err := c.adapter.Compute(&b, ob, t); err != nil {
		return EventResult{}, err
	}
	return EventResult{Time: t, Altitude: b.State.Altitude, Azimuth: b.State.Azimuth}, nil
}

// LocalMidnight returns the UTC instant of local midnight on the observer's
// reference date, per spec §4.4.
func (c *Calculator) LocalMidnight(tzHours float64) time.Time {
	return geo.LocalMidnight(c.observer.Date, tzHours)
}

// NoonLunarAge reproduces calculate_Moon_noon_age: the Moon's age in days at
// local noon on the observer's reference date, the figure Japanese
// almanacs conventionally report as "the moon's age" for a given date.
func (c *Calculator) NoonLunarAge(tzHours float64) float64 {
	noon := geo.LocalNoonInUTC(c.observer.Date, tzHours)
	return noon.Sub(c.adapter.PreviousNewMoon(noon)).Hours() / 24.0
}
