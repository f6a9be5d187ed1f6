package dispatch

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendosso/sso/internal/env"
	"github.com/tendosso/sso/internal/ephemeris"
	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/value"
)

func newTestDispatcher() (*Dispatcher, *bytes.Buffer) {
	e := env.New()
	e.Time = time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	d := New(ephemeris.NewEngine(), e, &out)
	return d, &out
}

func TestObserverToBodyIsTerminal(t *testing.T) {
	d, out := newTestDispatcher()
	obs := value.Observer{Name: "Here", Lat: 0.6, Lon: 2.4, Date: d.Env.Time}
	moon := value.Body{Kind: value.BodyMoon}

	result, terminal, err := d.Dispatch(context.Background(), obs, moon)
	require.NoError(t, err)
	assert.True(t, terminal)
	b, ok := result.(value.Body)
	require.True(t, ok)
	assert.Equal(t, value.BodyMoon, b.Kind)
	assert.NotEmpty(t, out.String())
}

func TestObserverToObserverReturnsDistance(t *testing.T) {
	d, _ := newTestDispatcher()
	a := value.Observer{Name: "A", Lat: 0.6, Lon: 2.4}
	b := value.Observer{Name: "B", Lat: 0.61, Lon: 2.36}

	result, terminal, err := d.Dispatch(context.Background(), a, b)
	require.NoError(t, err)
	assert.True(t, terminal)
	n, ok := result.(value.Number)
	require.True(t, ok)
	assert.Greater(t, float64(n), 0.0)
}

func TestBodyToBodySeparation(t *testing.T) {
	d, out := newTestDispatcher()
	sun := value.Body{Kind: value.BodySun}
	moon := value.Body{Kind: value.BodyMoon}

	result, terminal, err := d.Dispatch(context.Background(), sun, moon)
	require.NoError(t, err)
	assert.True(t, terminal)
	_, ok := result.(value.String)
	require.True(t, ok)
	assert.NotEmpty(t, out.String())
}

func TestSunToObserverIsNonTerminal(t *testing.T) {
	d, _ := newTestDispatcher()
	sun := value.Body{Kind: value.BodySun}
	obs := value.Observer{Name: "Here"}

	result, terminal, err := d.Dispatch(context.Background(), sun, obs)
	require.NoError(t, err)
	assert.False(t, terminal, "Sun -> Observer must be non-terminal so the chain can continue")
	earthCtx, ok := result.(value.EarthContext)
	require.True(t, ok)
	assert.Equal(t, "Here", earthCtx.Observer.Name)
}

func TestEarthContextToMoonRunsEclipseSearch(t *testing.T) {
	d, out := newTestDispatcher()
	sun := value.Body{Kind: value.BodySun}
	obs := value.Observer{Name: "Here"}
	earthCtx, _, err := d.Dispatch(context.Background(), sun, obs)
	require.NoError(t, err)

	moon := value.Body{Kind: value.BodyMoon}
	// A short period hint keeps this test to a single full-moon candidate
	// instead of the 5-year default's ~60, since the search drives the
	// real ephemeris engine one second of time at a time for each
	// candidate that passes the coarse filter.
	d.Env.SetHint("Moon", value.Number(1.0/12.0))
	result, terminal, err := d.Dispatch(context.Background(), earthCtx, moon)
	require.NoError(t, err)
	assert.True(t, terminal)
	_, ok := result.(value.EclipseResult)
	require.True(t, ok)
	assert.NotEmpty(t, out.String())
}

func TestDispatchInvalidShapeErrors(t *testing.T) {
	d, _ := newTestDispatcher()
	_, terminal, err := d.Dispatch(context.Background(), value.Number(1), value.Number(2))
	require.Error(t, err)
	assert.True(t, terminal)
	k, ok := errs.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, errs.TypeMismatch, k)
}

func TestDispatchMoonToObserverRejected(t *testing.T) {
	// Only Sun -> Observer forms the non-terminal EarthContext; any other
	// Body -> Observer must fail.
	d, _ := newTestDispatcher()
	moon := value.Body{Kind: value.BodyMoon}
	obs := value.Observer{Name: "Here"}
	_, _, err := d.Dispatch(context.Background(), moon, obs)
	assert.Error(t, err)
}
