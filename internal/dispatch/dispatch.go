// Package dispatch implements the arrow-operator dispatcher (spec §4.7,
// C8): pattern matching on the shapes of the two evaluated arrow operands,
// with a small terminal/non-terminal state machine so a chain like
// `Sun -> Here -> Moon` can thread an intermediate EarthContext while any
// other attempt to chain past a terminal result is rejected.
//
// Grounded on original_source/sso/interpreter.py's arrow_op (the
// tuple-tagged left-operand dispatch that distinguishes "Observer",
// "(Observer, Mode)", and plain values) and classes.py's
// SSOCalculator.observe, generalized from that prototype's three
// hardcoded cases into the five shapes spec §4.7 names.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tendosso/sso/internal/calculator"
	"github.com/tendosso/sso/internal/eclipse"
	"github.com/tendosso/sso/internal/env"
	"github.com/tendosso/sso/internal/ephemeris"
	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/format"
	"github.com/tendosso/sso/internal/geo"
	"github.com/tendosso/sso/internal/obs"
	"github.com/tendosso/sso/internal/value"
)

// Dispatcher evaluates one arrow operation at a time; the evaluator calls
// it once per `->` in a left-associative chain.
type Dispatcher struct {
	Adapter ephemeris.Adapter
	Env     *env.Environment
	Out     io.Writer
}

// New builds a Dispatcher writing formatted output to out.
func New(adapter ephemeris.Adapter, e *env.Environment, out io.Writer) *Dispatcher {
	return &Dispatcher{Adapter: adapter, Env: e, Out: out}
}

// Dispatch evaluates L -> R and reports whether the result is terminal.
// A non-terminal result (only Sun -> Observer today) may itself be the
// left operand of a further arrow in the same statement; attempting to
// chain past a terminal result is the caller's responsibility to reject.
func (d *Dispatcher) Dispatch(ctx context.Context, l, r value.Value) (result value.Value, terminal bool, err error) {
	ctx, span := obs.Start(ctx, "dispatch", "Dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("dispatch.lhs", fmt.Sprintf("%T", l)),
		attribute.String("dispatch.rhs", fmt.Sprintf("%T", r)),
	)
	obs.Logger().InfoContext(ctx, "dispatch.Dispatch", "lhs", fmt.Sprintf("%T", l), "rhs", fmt.Sprintf("%T", r))

	switch left := l.(type) {
	case value.Observer:
		switch right := r.(type) {
		case value.Body:
			return d.observerToBody(ctx, left, right)
		case value.Observer:
			return d.observerToObserver(left, right)
		}
	case value.Body:
		switch right := r.(type) {
		case value.Observer:
			if left.Kind == value.BodySun {
				return d.sunToObserver(left, right)
			}
		case value.Body:
			return d.bodyToBody(left, right)
		}
	case value.EarthContext:
		if right, ok := r.(value.Body); ok && right.Kind == value.BodyMoon {
			return d.earthContextToMoon(ctx, left, right)
		}
	}
	return nil, true, errs.New(errs.TypeMismatch, "dispatch", "Invalid arrow operation")
}

// hintKey is how a Body's per-statement hint is looked up: by its bound
// name if it has one (a user-assigned variable holding a body), else by
// its fixed kind name (the reserved identifier the user typed, e.g.
// "Moon").
func hintKey(b value.Body) string {
	if b.Name != "" {
		return b.Name
	}
	return b.Kind.String()
}

// observerToBody computes body's position at the observer, prints the
// position/events table, and returns the computed Body as the position
// record spec §4.7 asks for.
func (d *Dispatcher) observerToBody(ctx context.Context, observer value.Observer, body value.Body) (value.Value, bool, error) {
	date := d.Env.Time
	if hv, ok := d.Env.Hint(hintKey(body)); ok {
		if dt, ok := hv.(value.Date); ok {
			date = dt.Instant
		}
	}
	observer.Date = date

	calc := calculator.New(d.Adapter, observer)
	computed, err := calc.CurrentPosition(ctx, body)
	if err != nil {
		return nil, true, err
	}

	format.Position(d.Out, observer, computed, d.Env.Tz, d.Env.Direction)

	rise, riseErr := calc.Rising(ctx, body.Kind)
	format.Events(d.Out, "Rise", rise, riseErr, d.Env.Tz, d.Env.Direction)
	transit, transitErr := calc.Transit(ctx, body.Kind)
	format.Events(d.Out, "Transit", transit, transitErr, d.Env.Tz, d.Env.Direction)
	set, setErr := calc.Setting(ctx, body.Kind)
	format.Events(d.Out, "Set", set, setErr, d.Env.Tz, d.Env.Direction)

	return computed, true, nil
}

// observerToObserver prints the inter-location geometry and returns the
// distance in kilometres so the result can be captured into a variable.
func (d *Dispatcher) observerToObserver(a, b value.Observer) (value.Value, bool, error) {
	loc := geo.Distance(a.Lat, a.Lon, a.Elevation, b.Lat, b.Lon, b.Elevation)
	format.InterLocation(d.Out, a, b, loc, d.Env.Direction)
	return value.Number(loc.DistanceKm), true, nil
}

// bodyToBody computes angular separation at env.Here's reference date and
// returns the formatted string, per spec §4.7.
func (d *Dispatcher) bodyToBody(a, b value.Body) (value.Value, bool, error) {
	at := d.Env.Here.Date
	if at.IsZero() {
		at = d.Env.Time
	}
	sep := d.Adapter.Separation(a.Kind, b.Kind, at)
	s := format.Separation(a, b, sep)
	fmt.Fprintln(d.Out, s)
	return value.String(s), true, nil
}

// sunToObserver forms the EarthContext intermediate that lets a chain
// continue into an eclipse search.
func (d *Dispatcher) sunToObserver(sun value.Body, observer value.Observer) (value.Value, bool, error) {
	date := d.Env.Time
	if hv, ok := d.Env.Hint(hintKey(sun)); ok {
		if dt, ok := hv.(value.Date); ok {
			date = dt.Instant
		}
	}
	return value.EarthContext{Observer: observer, SunDate: date}, false, nil
}

// earthContextToMoon runs the eclipse engine. The Moon hint, if present,
// doubles as either the search period in years (a Number, from a call like
// `Moon(10)`) or the place override (a String, from `Moon("world")`) —
// the only two things a single BodyName(arg) call can carry, matching
// spec §4.7's "period = observer_hints[\"Moon\"] ?? 5 years, place = first
// entry of observer_hints (default \"here\")".
func (d *Dispatcher) earthContextToMoon(ctx context.Context, earth value.EarthContext, moon value.Body) (value.Value, bool, error) {
	period := 5.0
	place := "here"
	if hv, ok := d.Env.Hint(hintKey(moon)); ok {
		switch t := hv.(type) {
		case value.Number:
			period = float64(t)
		case value.String:
			place = string(t)
		}
	}

	world := strings.EqualFold(place, "world")
	surface := d.Env.Here
	if surface.Date.IsZero() {
		surface.Date = earth.SunDate
	}

	eng := eclipse.New(d.Adapter)
	result := eng.Search(ctx, earth.SunDate, period, surface, world)
	format.Eclipse(d.Out, surface, result, d.Env.Tz)
	return result, true, nil
}
