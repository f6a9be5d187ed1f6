// Package config loads the session's starting environment from an INI file
// (spec §6): a `[ENV]` section for `Tz`/`Log`/`Echo`, and `[Here]`/
// `[Chokai]` sections each giving `lat`/`lon`/`elev` for a well-known
// observer. Grounded on `gopkg.in/ini.v1`, present in the retrieval pack's
// dependency universe via other_examples/manifests/oxygene76-medasdigital-
// client/go.mod and other_examples/manifests/grafana-tempo/go.mod.
package config

import (
	"math"

	"gopkg.in/ini.v1"

	"github.com/tendosso/sso/internal/env"
	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/value"
)

// File is the parsed shape of the config, independent of ini.v1's own
// types, so the rest of the codebase never imports that package directly.
type File struct {
	Tz     float64
	Log    string
	Echo   string
	Here   Observer
	Chokai Observer
}

// Observer is one `[Here]`/`[Chokai]`-shaped section: lat/lon in degrees,
// elevation in metres, matching the DSL constructor convention.
type Observer struct {
	Name          string
	Lat, Lon, Elev float64
	set           bool
}

// Load reads path and returns the parsed File. A missing or empty path is
// not an error: Apply then leaves the Environment at its built-in
// defaults.
func Load(path string) (*File, error) {
	if path == "" {
		return &File{Tz: 9.0, Log: "No", Echo: "Yes"}, nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, errs.Wrap(errs.Parse, "config", "load "+path, err)
	}

	f := &File{Tz: 9.0, Log: "No", Echo: "Yes"}
	if sec, serr := cfg.GetSection("ENV"); serr == nil {
		f.Tz = sec.Key("Tz").MustFloat64(f.Tz)
		f.Log = sec.Key("Log").MustString(f.Log)
		f.Echo = sec.Key("Echo").MustString(f.Echo)
	}
	if sec, serr := cfg.GetSection("Here"); serr == nil {
		f.Here = readObserver(sec, "Here")
	}
	if sec, serr := cfg.GetSection("Chokai"); serr == nil {
		f.Chokai = readObserver(sec, "Chokai")
	}
	return f, nil
}

func readObserver(sec *ini.Section, name string) Observer {
	return Observer{
		Name: name,
		Lat:  sec.Key("lat").MustFloat64(0),
		Lon:  sec.Key("lon").MustFloat64(0),
		Elev: sec.Key("elev").MustFloat64(0),
		set:  true,
	}
}

func (o Observer) toValue() value.Observer {
	return value.Observer{
		Name:      o.Name,
		Lat:       o.Lat * math.Pi / 180,
		Lon:       o.Lon * math.Pi / 180,
		Elevation: o.Elev,
	}
}

// Apply writes the loaded config into a fresh Environment, including
// seeding DefaultHere so the DSL's Home() constructor has a config-backed
// station to restore.
func (f *File) Apply(e *env.Environment) error {
	if err := e.SetTz(f.Tz); err != nil {
		return err
	}
	e.Log = f.Log
	e.Echo = f.Echo
	if f.Here.set {
		here := f.Here.toValue()
		e.Here = here
		e.DefaultHere = here
	}
	if f.Chokai.set {
		e.Chokai = f.Chokai.toValue()
	}
	return nil
}
