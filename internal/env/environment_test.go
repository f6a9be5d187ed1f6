package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/value"
)

func TestNewDefaults(t *testing.T) {
	e := New()
	assert.Equal(t, 9.0, e.Tz)
	assert.Equal(t, "Yes", e.Echo)
	assert.Equal(t, "No", e.Log)
	assert.Equal(t, 8, e.Direction)
}

func TestSetTzBoundary(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"low edge ok", -12.0, false},
		{"high edge ok", 14.0, false},
		{"below low", -12.1, true},
		{"above high", 14.1, true},
		{"zero ok", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			before := e.Tz
			err := e.SetTz(tt.v)
			if tt.wantErr {
				require.Error(t, err)
				k, ok := errs.KindOf(err)
				require.True(t, ok)
				assert.Equal(t, errs.OutOfRange, k)
				// rejected assignment leaves Tz unchanged
				assert.Equal(t, before, e.Tz)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.v, e.Tz)
			}
		})
	}
}

func TestSetDirectionBoundary(t *testing.T) {
	for _, n := range []int{4, 8, 16} {
		e := New()
		require.NoError(t, e.SetDirection(n))
		assert.Equal(t, n, e.Direction)
	}
	e := New()
	err := e.SetDirection(6)
	require.Error(t, err)
	k, ok := errs.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errs.OutOfRange, k)
	assert.Equal(t, 8, e.Direction) // unchanged
}

func TestGetVariableDefault(t *testing.T) {
	e := New()
	assert.Equal(t, value.Number(0), e.GetVariable("x"))
	e.SetVariable("x", value.Number(42))
	assert.Equal(t, value.Number(42), e.GetVariable("x"))
}

func TestReservedBodyAssignmentRejected(t *testing.T) {
	e := New()
	err := e.SetBody("Moon", value.Number(1))
	require.Error(t, err)
	k, ok := errs.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errs.ReservedName, k)
}

func TestEarthAssignmentRoutesToEnvKey(t *testing.T) {
	// Earth is both a reserved body and an env key; assignment must route
	// through the env-key setter rather than being flatly rejected.
	e := New()
	obs := value.Observer{Lat: 1, Lon: 2, Elevation: 3}
	err := e.SetBody("Earth", obs)
	require.NoError(t, err)
	assert.Equal(t, "Earth", e.Earth.Name)
	assert.Equal(t, obs.Lat, e.Earth.Lat)
}

func TestSetBodyAssignsNonReservedNamePlainly(t *testing.T) {
	e := New()
	// A non-reserved uppercase name is allowed, storing whatever Value it
	// is assigned (spec §4.2: only reserved names and env keys are
	// policed).
	require.NoError(t, e.SetBody("Waypoint", value.Number(7)))
	v, err := e.GetBody("Waypoint")
	require.NoError(t, err)
	assert.Equal(t, value.Number(7), v)
}

func TestGetBodyAutoRegistersRecognisedName(t *testing.T) {
	e := New()
	v, err := e.GetBody("Jupiter")
	require.NoError(t, err)
	b, ok := v.(value.Body)
	require.True(t, ok)
	assert.Equal(t, value.BodyJupiter, b.Kind)

	// a second fetch returns the same stored Body
	v2, err := e.GetBody("Jupiter")
	require.NoError(t, err)
	assert.Equal(t, v, v2)
}

func TestGetBodyUnknownNameErrors(t *testing.T) {
	e := New()
	_, err := e.GetBody("NotABody")
	require.Error(t, err)
	k, ok := errs.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errs.UnknownName, k)
}

func TestGetBodyNowReturnsDate(t *testing.T) {
	e := New()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.NowFunc = func() time.Time { return fixed }
	v, err := e.GetBody("Now")
	require.NoError(t, err)
	d, ok := v.(value.Date)
	require.True(t, ok)
	assert.True(t, d.Instant.Equal(fixed))
}

func TestHintsResetPerStatement(t *testing.T) {
	e := New()
	e.SetHint("Moon", value.Number(5))
	_, ok := e.Hint("Moon")
	assert.True(t, ok)

	e.ResetHints()
	_, ok = e.Hint("Moon")
	assert.False(t, ok, "observer_hints must be empty at the start of a statement")
}

func TestSetEnvValueTypeMismatch(t *testing.T) {
	e := New()
	err := e.SetBody("Tz", value.String("nine"))
	require.Error(t, err)
	k, ok := errs.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errs.TypeMismatch, k)
}

func TestNormalizeYesNo(t *testing.T) {
	e := New()
	require.NoError(t, e.SetBody("Echo", value.String("no")))
	assert.Equal(t, "No", e.Echo)
	require.NoError(t, e.SetBody("Echo", value.String("anything-else")))
	assert.Equal(t, "Yes", e.Echo)
}
