package env

// reservedBodies is the closed set of celestial-body identifiers that can
// never be assigned, spec §3 "Reserved identifiers". Earth also appears
// here (it is a celestial body) but is additionally an env key (a
// well-known observer); assignment to "Earth" is routed to the env-key
// setter rather than flatly rejected, exactly as spec §4.2 describes.
var reservedBodies = map[string]bool{
	"Sun": true, "Mercury": true, "Venus": true, "Earth": true, "Moon": true,
	"Mars": true, "Jupiter": true, "Io": true, "Europa": true, "Ganymede": true,
	"Callisto": true, "Saturn": true, "Uranus": true, "Neptune": true, "Pluto": true,
}

// envKeys is the closed set of configuration slots that accept assignment
// only through their dedicated validating setter.
var envKeys = map[string]bool{
	"Tz": true, "Echo": true, "Log": true, "Time": true,
	"Here": true, "Direction": true, "Earth": true, "Chokai": true,
}

// IsReservedBody reports whether name is a reserved celestial-body
// identifier (regardless of whether it is also an env key).
func IsReservedBody(name string) bool { return reservedBodies[name] }

// IsEnvKey reports whether name is one of the eight env configuration
// slots.
func IsEnvKey(name string) bool { return envKeys[name] }
