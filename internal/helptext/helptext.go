// Package helptext supplements spec §6's one-line mention of a `help
// [topic]` built-in with the richer in-REPL help content
// original_source/sso/ssohelp.py and repl.py's `do_help` establish: a
// no-argument summary of the three statement forms, and per-topic detail
// for the recognised celestial bodies and the most-used constructors.
package helptext

import "strings"

// General is printed by a bare `help` with no topic, mirroring
// ssohelp.py's help_help guide (assignment / observation / eclipse forms).
const General = `Solar System Observer - command forms:
  assignment : name = expr
  observe    : observer -> BodyName
  eclipse    : Sun -> observer -> Moon

Set the observation instant with Time = Date("YYYY/M/D H:M:S"); with no
argument Date() prompts interactively. Use observer Here for the station
loaded from config. Body names start with an uppercase letter, e.g. Sun,
Moon, Jupiter; run "help Body" to list every recognised name.

Type 'exit' or 'quit' to leave, '! <command>' to run a shell command.`

var bodyNames = []string{
	"Sun", "Mercury", "Venus", "Earth", "Moon", "Mars", "Jupiter",
	"Io", "Europa", "Ganymede", "Callisto", "Saturn", "Uranus", "Neptune", "Pluto",
}

// Body lists the recognised celestial-body identifiers, the content
// ssohelp.py's Body_help["Body"] provides for "help Body".
var Body = "Recognised body names: " + strings.Join(bodyNames, " ") +
	"\n(Io/Europa/Ganymede/Callisto are approximate Galilean-moon positions.)"

// topics holds the per-name detail ssohelp.py's command_help dict
// provides for names other than "Body".
var topics = map[string]string{
	"Time": "Time is the system variable driving every observation's instant.\n" +
		`  Time = Date("2026/4/10 20:00:00")   (seconds are required)` + "\n" +
		"  Time = Date()                        (prompts interactively)",
	"Date": "Date(s) parses \"YYYY/M/D H:M:S\" in the session's Tz and converts to UTC.\n" +
		"UTC(s) parses the same format directly as UTC, with no Tz shift.",
	"Observer": "Observer(lat, lon, elev) builds a station from degrees/degrees/metres.\n" +
		"Mountain(lat, lon, elev) is the same construction under a different label.",
	"Moon": "Moon participates in observation (Here -> Moon) and in eclipse search\n" +
		"(Sun -> Here -> Moon). Moon(years) sets the eclipse search period; a\n" +
		`Moon("world") hint disables the horizon-visibility filter.`,
}

// Topic returns the help text for name, falling back to Body's listing for
// any recognised body name without its own dedicated entry, and a
// not-found message otherwise.
func Topic(name string) string {
	if t, ok := topics[name]; ok {
		return t
	}
	if name == "Body" {
		return Body
	}
	for _, b := range bodyNames {
		if b == name {
			return Body
		}
	}
	return "No help available for " + name + ". Type 'help' for the command-form summary."
}
