// Package env implements the environment and variable manager (spec §4.2):
// named variable slots, named body slots, the reserved-name policy, and the
// env configuration slots (Tz, Echo, Log, Time, Direction, Here, Chokai,
// Earth).
package env

import (
	"strings"
	"time"

	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/value"
)

// Environment is the single process-wide store for one session.
type Environment struct {
	variables map[string]value.Value
	bodies    map[string]value.Value
	hints     map[string]value.Value

	Tz        float64
	Echo      string
	Log       string
	Time      time.Time
	Direction int
	Here      value.Observer
	Chokai    value.Observer
	Earth     value.Observer

	// DefaultHere is the observer loaded from config at startup; the DSL's
	// Home() constructor restores env.Here to it after a session has
	// overwritten Here with an assignment.
	DefaultHere value.Observer

	// NowFunc supplies the current instant for the "Now" body and default
	// Time initialization; overridable in tests.
	NowFunc func() time.Time
}

// New builds an Environment with the defaults the original DSL starts a
// session with: Tz=+9, Echo=Yes, Log=No, Direction=8, Time=now.
func New() *Environment {
	e := &Environment{
		variables: make(map[string]value.Value),
		bodies:    make(map[string]value.Value),
		hints:     make(map[string]value.Value),
		Tz:        9.0,
		Echo:      "Yes",
		Log:       "No",
		Direction: 8,
		NowFunc:   func() time.Time { return time.Now().UTC() },
	}
	e.Time = e.NowFunc()
	return e
}

// ResetHints clears observer_hints; the REPL driver must call this before
// evaluating each top-level statement (spec §3, §4.8, invariant in §8).
func (e *Environment) ResetHints() {
	e.hints = make(map[string]value.Value)
}

// SetHint stores a per-statement parameter for a body name (a search start
// date, an eclipse period, a place string), consumed by the arrow
// dispatcher and cleared at the next ResetHints.
func (e *Environment) SetHint(bodyName string, v value.Value) {
	e.hints[bodyName] = v
}

// Hint returns the per-statement parameter for a body name, if any.
func (e *Environment) Hint(bodyName string) (value.Value, bool) {
	v, ok := e.hints[bodyName]
	return v, ok
}

// GetVariable returns a lowercase-initial variable's value, defaulting to
// Number(0) per spec §4.2.
func (e *Environment) GetVariable(name string) value.Value {
	if v, ok := e.variables[name]; ok {
		return v
	}
	return value.Number(0)
}

// SetVariable stores a lowercase-initial variable. Variable names are never
// reserved: only the body-slot namespace has a reserved policy.
func (e *Environment) SetVariable(name string, v value.Value) {
	e.variables[name] = v
}

// GetBody resolves an uppercase-initial name to a Value per spec §4.2:
// env keys return their current env value, "Now" returns Date(now), a
// recognised celestial-body name auto-registers (and returns) a default
// Body on first reference, and any other unknown name fails.
func (e *Environment) GetBody(name string) (value.Value, error) {
	if name == "Now" {
		return value.NewDate(e.NowFunc()), nil
	}
	if IsEnvKey(name) {
		return e.envValue(name), nil
	}
	if v, ok := e.bodies[name]; ok {
		return v, nil
	}
	if kind, ok := value.ParseBodyKind(name); ok {
		b := value.Body{Name: name, Kind: kind}
		e.bodies[name] = b
		return b, nil
	}
	return nil, errs.New(errs.UnknownName, "env", "get_body: unknown name "+name)
}

// PutBody stores a Body or Observer value into the body-slot namespace
// without going through the reserved-name/env-key policy.
func (e *Environment) PutBody(name string, v value.Value) {
	e.bodies[name] = v
}

// SetBody implements the policy of spec §4.2's set_body: env keys route to
// their validating setter, reserved celestial-body names (other than the
// env keys among them) are rejected, and anything else is stored plainly.
func (e *Environment) SetBody(name string, v value.Value) error {
	if IsEnvKey(name) {
		return e.setEnvValue(name, v)
	}
	if IsReservedBody(name) {
		return errs.New(errs.ReservedName, "env", "cannot assign reserved name "+name)
	}
	if b, ok := v.(value.Body); ok {
		b.Name = name
		e.bodies[name] = b
		return nil
	}
	e.bodies[name] = v
	return nil
}

func (e *Environment) envValue(name string) value.Value {
	switch name {
	case "Tz":
		return value.Number(e.Tz)
	case "Echo":
		return value.String(e.Echo)
	case "Log":
		return value.String(e.Log)
	case "Time":
		return value.NewDate(e.Time)
	case "Here":
		return e.Here
	case "Direction":
		return value.Number(e.Direction)
	case "Earth":
		return e.Earth
	case "Chokai":
		return e.Chokai
	}
	return value.Number(0)
}

func (e *Environment) setEnvValue(name string, v value.Value) error {
	switch name {
	case "Tz":
		n, ok := v.(value.Number)
		if !ok {
			return errs.New(errs.TypeMismatch, "env", "Tz requires a Number")
		}
		return e.SetTz(float64(n))
	case "Echo":
		e.Echo = normalizeYesNo(v)
		return nil
	case "Log":
		e.Log = normalizeLogLevel(v)
		return nil
	case "Time":
		d, ok := v.(value.Date)
		if !ok {
			return errs.New(errs.TypeMismatch, "env", "Time requires a Date")
		}
		e.Time = d.Instant
		return nil
	case "Here":
		o, ok := v.(value.Observer)
		if !ok {
			return errs.New(errs.TypeMismatch, "env", "Here requires an Observer")
		}
		o.Name = "Here"
		e.Here = o
		return nil
	case "Direction":
		n, ok := v.(value.Number)
		if !ok {
			return errs.New(errs.TypeMismatch, "env", "Direction requires a Number")
		}
		return e.SetDirection(int(n))
	case "Earth":
		o, ok := v.(value.Observer)
		if !ok {
			return errs.New(errs.TypeMismatch, "env", "Earth requires an Observer")
		}
		o.Name = "Earth"
		e.Earth = o
		return nil
	case "Chokai":
		o, ok := v.(value.Observer)
		if !ok {
			return errs.New(errs.TypeMismatch, "env", "Chokai requires an Observer")
		}
		o.Name = "Chokai"
		e.Chokai = o
		return nil
	}
	return errs.New(errs.UnknownName, "env", "unknown env key "+name)
}

// SetTz validates and applies a timezone offset; on failure env.Tz is left
// unchanged (spec §8 invariant).
func (e *Environment) SetTz(v float64) error {
	if v < -12.0 || v > 14.0 {
		return errs.New(errs.OutOfRange, "env", "Tz must be in [-12, 14]")
	}
	e.Tz = v
	return nil
}

// SetDirection validates and applies the compass-bin count.
func (e *Environment) SetDirection(n int) error {
	if n != 4 && n != 8 && n != 16 {
		return errs.New(errs.OutOfRange, "env", "Direction must be 4, 8, or 16")
	}
	e.Direction = n
	return nil
}

func normalizeYesNo(v value.Value) string {
	s := strings.ToLower(strings.TrimSpace(valueText(v)))
	switch s {
	case "0", "off", "false", "no":
		return "No"
	default:
		return "Yes"
	}
}

func normalizeLogLevel(v value.Value) string {
	s := strings.TrimSpace(valueText(v))
	low := strings.ToLower(s)
	switch low {
	case "0", "off", "false", "no":
		return "No"
	case "1", "on", "true", "yes":
		return "Yes"
	default:
		return s
	}
}

func valueText(v value.Value) string {
	switch t := v.(type) {
	case value.String:
		return string(t)
	case value.Number:
		return t.String()
	default:
		return v.String()
	}
}
