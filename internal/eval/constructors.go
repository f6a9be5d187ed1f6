package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tendosso/sso/internal/dsl"
	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/geo"
	"github.com/tendosso/sso/internal/value"
)

// dateLayout is spec §4.8's `"YYYY/M/D H:M:S"` constructor format; Go's
// reference-time parser accepts both the zero-padded and bare forms for
// each numeric field, so a single layout covers "2026/1/21 20:00:00" and
// "2026/01/21 08:05:00" alike.
const dateLayout = "2006/1/2 15:4:5"

func (ev *Evaluator) evalCall(ref *dsl.Reference) (value.Value, error) {
	args := make([]value.Value, 0, len(ref.Call.Args))
	for _, a := range ref.Call.Args {
		v, err := ev.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	switch ref.Name {
	case "Date":
		return ev.constructDate(args)
	case "UTC":
		return ev.constructUTC(args)
	case "Now":
		return value.NewDate(ev.Dispatcher.Adapter.NowUTC()), nil
	case "Observer":
		return ev.constructObserver(args, "Observer")
	case "Mountain":
		return ev.constructObserver(args, "Mountain")
	case "Direction":
		return ev.constructDirection(args)
	case "Home":
		return ev.constructHome()
	case "Phase":
		return ev.constructPhase(args)
	case "Print":
		return ev.constructPrint(args)
	}

	// Anything else is either the BodyName(arg) auxiliary form (spec
	// §4.8) or, per the same section, "any other name is treated as an
	// ephemeris call" — both route through get_body, which auto-registers
	// a recognised celestial-body name and fails for anything it doesn't
	// know.
	body, err := ev.Env.GetBody(ref.Name)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		ev.Env.SetHint(ref.Name, args[0])
	}
	return body, nil
}

func (ev *Evaluator) constructDate(args []value.Value) (value.Value, error) {
	s, err := ev.stringArgOrPrompt(args, "... date = ")
	if err != nil {
		return nil, err
	}
	local, perr := time.Parse(dateLayout, strings.TrimSpace(s))
	if perr != nil {
		return nil, errs.Wrap(errs.DateParse, "eval", "Date("+s+")", perr)
	}
	return value.NewDate(geo.ToUTC(local, ev.Env.Tz)), nil
}

func (ev *Evaluator) constructUTC(args []value.Value) (value.Value, error) {
	s, err := ev.stringArgOrPrompt(args, "... UTC date = ")
	if err != nil {
		return nil, err
	}
	t, perr := time.Parse(dateLayout, strings.TrimSpace(s))
	if perr != nil {
		return nil, errs.Wrap(errs.DateParse, "eval", "UTC("+s+")", perr)
	}
	return value.NewDate(t), nil
}

func (ev *Evaluator) stringArgOrPrompt(args []value.Value, label string) (string, error) {
	if len(args) == 0 {
		return ev.prompt(label)
	}
	s, ok := args[0].(value.String)
	if !ok {
		return "", errs.New(errs.TypeMismatch, "eval", label+" requires a String argument")
	}
	return string(s), nil
}

// constructObserver builds an Observer (or the "Mountain" alias spec §4.8
// names separately but which classes.py's SSOMountain stores identically).
// Arguments are degrees, as original_source/sso/classes.py's
// math.radians(self.lat) calls confirm; internal/value stores radians.
func (ev *Evaluator) constructObserver(args []value.Value, label string) (value.Value, error) {
	var latDeg, lonDeg, elev float64
	var err error
	if len(args) == 0 {
		latDeg, err = ev.promptFloat("... 緯度 = ")
		if err != nil {
			return value.Observer{Name: label}, nil
		}
		lonDeg, err = ev.promptFloat("... 経度 = ")
		if err != nil {
			return value.Observer{Name: label}, nil
		}
		elev, err = ev.promptFloat("... 標高 = ")
		if err != nil {
			return value.Observer{Name: label}, nil
		}
	} else {
		if len(args) != 3 {
			return nil, errs.New(errs.TypeMismatch, "eval", label+" requires (lat, lon, elev)")
		}
		latDeg, err = numberArg(args[0])
		if err != nil {
			return nil, err
		}
		lonDeg, err = numberArg(args[1])
		if err != nil {
			return nil, err
		}
		elev, err = numberArg(args[2])
		if err != nil {
			return nil, err
		}
	}
	return value.Observer{
		Name:      label,
		Lat:       latDeg * math.Pi / 180,
		Lon:       lonDeg * math.Pi / 180,
		Elevation: elev,
	}, nil
}

func numberArg(v value.Value) (float64, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, errs.New(errs.TypeMismatch, "eval", "expected a Number argument")
	}
	return float64(n), nil
}

func (ev *Evaluator) promptFloat(label string) (float64, error) {
	s, err := ev.prompt(label)
	if err != nil {
		return 0, err
	}
	f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if perr != nil {
		return 0, errs.Wrap(errs.TypeMismatch, "eval", label, perr)
	}
	return f, nil
}

func (ev *Evaluator) constructDirection(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, errs.New(errs.TypeMismatch, "eval", "Direction(n) requires one Number argument")
	}
	n, err := numberArg(args[0])
	if err != nil {
		return nil, err
	}
	if err := ev.Env.SetDirection(int(n)); err != nil {
		return nil, err
	}
	return value.Number(float64(ev.Env.Direction)), nil
}

// constructHome restores env.Here to the station loaded from config at
// startup (internal/config populates Env.DefaultHere), undoing whatever a
// session assignment to Here may have done since.
func (ev *Evaluator) constructHome() (value.Value, error) {
	ev.Env.Here = ev.Env.DefaultHere
	return ev.Env.Here, nil
}

// constructPhase stands in for the original's "invokes external
// visualisation" (a matplotlib phase-disc plot in original_source/). A
// terminal session has no plot surface, so this renders the same
// illumination figure as a short text line instead of silently dropping
// the call.
func (ev *Evaluator) constructPhase(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, errs.New(errs.TypeMismatch, "eval", "Phase(observer, moon) requires two arguments")
	}
	obs, ok := args[0].(value.Observer)
	if !ok {
		return nil, errs.New(errs.TypeMismatch, "eval", "Phase's first argument must be an Observer")
	}
	moon, ok := args[1].(value.Body)
	if !ok || moon.Kind != value.BodyMoon {
		return nil, errs.New(errs.TypeMismatch, "eval", "Phase's second argument must be the Moon")
	}
	if err := ev.Dispatcher.Adapter.Compute(&moon, obs, obs.Date); err != nil {
		return nil, err
	}
	fmt.Fprintf(ev.Out, "Moon phase: %.1f%% illuminated, age=%.2fd\n", moon.State.Phase, moon.State.Age)
	return value.Number(moon.State.Phase), nil
}

func (ev *Evaluator) constructPrint(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	line := strings.Join(parts, " ")
	fmt.Fprintln(ev.Out, line)
	return value.String(line), nil
}
