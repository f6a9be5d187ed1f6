// Package audit keeps a flat, human-readable transcript of every top-level
// REPL statement: the raw text, its result or error, and how long it took.
// This is a separate concern from internal/obs's span-correlated tracing of
// individual calculator/eclipse operations — one records "what the user
// typed and what came back", the other "how a single computation ran".
package audit

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Trail is a session-lifetime statement log.
type Trail struct {
	log *logrus.Logger
}

// New builds a Trail writing to stdout in logrus's plain text format, text
// rather than JSON because this output is meant to be read by the same
// person driving the REPL, not shipped to a log aggregator.
func New() *Trail {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	return &Trail{log: l}
}

// SetLevel adjusts the minimum level the trail records; New starts it at
// Info.
func (t *Trail) SetLevel(level logrus.Level) { t.log.SetLevel(level) }

// Statement records one executed top-level statement.
func (t *Trail) Statement(raw string, result string, err error, dur time.Duration) {
	fields := logrus.Fields{
		"raw":      raw,
		"duration": dur.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		t.log.WithFields(fields).Warn("statement failed")
		return
	}
	fields["result"] = result
	t.log.WithFields(fields).Info("statement ok")
}
