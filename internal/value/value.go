// Package value implements the tagged Value domain shared by the
// evaluator, arrow dispatcher, and formatter: Number, String, Date,
// Observer, Body, EarthContext, and EclipseResult.
package value

import (
	"fmt"
	"time"
)

// Kind identifies which variant of Value a given instance carries.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindDate
	KindObserver
	KindBody
	KindEarthContext
	KindEclipseResult
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindDate:
		return "Date"
	case KindObserver:
		return "Observer"
	case KindBody:
		return "Body"
	case KindEarthContext:
		return "EarthContext"
	case KindEclipseResult:
		return "EclipseResult"
	default:
		return "Unknown"
	}
}

// Value is the unified result type of every DSL expression. It is a closed
// sum type: the Kind method identifies which of the seven variants below an
// implementation is, and callers type-switch on the concrete type rather
// than on Kind in most of the codebase (Kind exists for quick guards and
// for error messages).
type Value interface {
	Kind() Kind
	fmt.Stringer
}

// Number is a primitive real scalar.
type Number float64

func (Number) Kind() Kind        { return KindNumber }
func (n Number) String() string  { return fmt.Sprintf("%g", float64(n)) }
func (n Number) Float64() float64 { return float64(n) }

// Bool renders a Go bool into the DSL's 0.0/1.0 numeric convention.
func Bool(b bool) Number {
	if b {
		return Number(1)
	}
	return Number(0)
}

// Truthy implements the DSL's numeric truthiness: 0 is false, anything else
// is true.
func (n Number) Truthy() bool { return float64(n) != 0 }

// String is a primitive text scalar.
type String string

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return string(s) }

// Date is an absolute UTC instant. All Date values are stored as UTC;
// conversion to a local offset happens only at formatting time.
type Date struct {
	Instant time.Time
}

func (Date) Kind() Kind { return KindDate }
func (d Date) String() string {
	return d.Instant.UTC().Format("2006/01/02 15:04:05") + " UTC"
}

// NewDate wraps an instant, normalizing it to UTC as spec §3 requires.
func NewDate(t time.Time) Date { return Date{Instant: t.UTC()} }

// BodyKind identifies a celestial body's fixed astronomical identity.
type BodyKind int

const (
	BodyUnknown BodyKind = iota
	BodySun
	BodyMercury
	BodyVenus
	BodyEarth
	BodyMoon
	BodyMars
	BodyJupiter
	BodyIo
	BodyEuropa
	BodyGanymede
	BodyCallisto
	BodySaturn
	BodyUranus
	BodyNeptune
	BodyPluto
)

var bodyNames = map[BodyKind]string{
	BodySun: "Sun", BodyMercury: "Mercury", BodyVenus: "Venus", BodyEarth: "Earth",
	BodyMoon: "Moon", BodyMars: "Mars", BodyJupiter: "Jupiter", BodyIo: "Io",
	BodyEuropa: "Europa", BodyGanymede: "Ganymede", BodyCallisto: "Callisto",
	BodySaturn: "Saturn", BodyUranus: "Uranus", BodyNeptune: "Neptune", BodyPluto: "Pluto",
}

var namesToBody = func() map[string]BodyKind {
	m := make(map[string]BodyKind, len(bodyNames))
	for k, v := range bodyNames {
		m[v] = k
	}
	return m
}()

func (b BodyKind) String() string {
	if name, ok := bodyNames[b]; ok {
		return name
	}
	return "Unknown"
}

// ParseBodyKind looks up a reserved celestial-body identifier by name.
func ParseBodyKind(name string) (BodyKind, bool) {
	k, ok := namesToBody[name]
	return k, ok
}

// State is a Body's most recently computed observational state. It is only
// valid for the Observer and instant last used to compute it; callers must
// never read State without having called the calculator first for the
// current (observer, date) pair.
type State struct {
	Valid         bool
	Altitude      float64 // degrees
	Azimuth       float64 // degrees
	EarthDistance float64 // AU

	// Moon-only
	Phase         float64 // percent illuminated disc, ephem-style
	Age           float64 // days since previous new moon
	Illumination  float64 // fraction 0..1
	DiameterArcmin float64

	// planet-only
	Magnitude     float64
	Constellation string

	// Sun-only
	DiameterDeg float64

	SizeArcsec float64 // apparent angular diameter, arcsec (all bodies)
}

// Body is a celestial object addressed by identity, carrying the cached
// state from its most recent computation.
type Body struct {
	Name  string
	Kind  BodyKind
	State State
}

func (Body) Kind() Kind { return KindBody }
func (b Body) String() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Kind.String()
}

// Observer is a geodetic station with a reference UTC time and the
// atmospheric conditions used by refraction-aware rise/set calculations.
// Lat/Lon are stored in radians, Elevation in metres, per spec §3.
type Observer struct {
	Name       string
	Lat        float64 // radians
	Lon        float64 // radians
	Elevation  float64 // metres
	Date       time.Time
	PressureMb float64
	TempC      float64
}

func (Observer) Kind() Kind { return KindObserver }
func (o Observer) String() string {
	return fmt.Sprintf("%s (lat=%.4f lon=%.4f elev=%.1fm)", o.Name, o.Lat, o.Lon, o.Elevation)
}

// EarthContext is the transient intermediate produced by Sun -> Observer,
// existing only to make Sun -> Observer -> Moon a pair of terminal arrow
// dispatches instead of a variadic chain.
type EarthContext struct {
	Observer Observer
	SunDate  time.Time
}

func (EarthContext) Kind() Kind { return KindEarthContext }
func (e EarthContext) String() string {
	return fmt.Sprintf("EarthContext(observer=%s, date=%s)", e.Observer.Name, e.SunDate.UTC().Format(time.RFC3339))
}

// EclipseClass classifies a lunar eclipse event by maximum magnitude.
type EclipseClass int

const (
	EclipsePenumbral EclipseClass = iota
	EclipsePartial
	EclipseTotal
)

func (c EclipseClass) String() string {
	switch c {
	case EclipseTotal:
		return "total"
	case EclipsePartial:
		return "partial"
	default:
		return "penumbral"
	}
}

// EclipseEvent is one candidate full moon evaluated by the eclipse engine.
type EclipseEvent struct {
	CandidateDate   time.Time
	Separation      float64 // radians, coarse filter separation from anti-sun
	AltitudeAtFull  float64 // degrees, moon altitude at the surface observer
	Class           EclipseClass
	Max             *time.Time
	Magnitude       float64
	Begin           *time.Time
	End             *time.Time
}

// EclipseResult is the immutable, index-aligned list of lunar eclipse
// events a search produced.
type EclipseResult struct {
	Events []EclipseEvent
}

func (EclipseResult) Kind() Kind { return KindEclipseResult }
func (r EclipseResult) String() string {
	return fmt.Sprintf("EclipseResult(%d events)", len(r.Events))
}
