package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendosso/sso/internal/env"
)

func TestParseHereFlagValid(t *testing.T) {
	obs, ok := parseHereFlag("35.6762,139.6503,40")
	require.True(t, ok)
	assert.InDelta(t, 0.6226, obs.Lat, 1e-3)
	assert.Equal(t, 40.0, obs.Elevation)
}

func TestParseHereFlagRejectsWrongArity(t *testing.T) {
	_, ok := parseHereFlag("35.6762,139.6503")
	assert.False(t, ok)
}

func TestParseHereFlagRejectsNonNumeric(t *testing.T) {
	_, ok := parseHereFlag("north,east,high")
	assert.False(t, ok)
}

func TestLogLevelMapping(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, logLevel("No"))
	assert.Equal(t, slog.LevelInfo, logLevel("Yes"))
	assert.Equal(t, slog.LevelDebug, logLevel("debug"))
	assert.Equal(t, slog.LevelError, logLevel("error"))
}

func TestRunBuiltinHelpAndShellEscape(t *testing.T) {
	var out bytes.Buffer
	e := env.New()

	assert.True(t, runBuiltin(&out, e, "help"))
	assert.Contains(t, out.String(), "Solar System Observer")

	out.Reset()
	assert.True(t, runBuiltin(&out, e, "help Moon"))
	assert.Contains(t, out.String(), "Moon")

	assert.True(t, runBuiltin(&out, e, "exit"))
	assert.True(t, runBuiltin(&out, e, "quit"))
	assert.False(t, runBuiltin(&out, e, "x = 1"))
}
