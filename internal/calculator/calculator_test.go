package calculator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/value"
)

// fakeAdapter lets the calculator's rise/transit/set sentinel handling be
// tested without driving the real low-precision ephemeris engine.
type fakeAdapter struct {
	computeAltitude float64
	risingErr       error
	settingErr      error
	transitErr      error
	eventTime       time.Time
}

func (f *fakeAdapter) NowUTC() time.Time { return f.eventTime }
func (f *fakeAdapter) Compute(body *value.Body, observer value.Observer, at time.Time) error {
	body.State = value.State{Altitude: f.computeAltitude, Azimuth: 90}
	return nil
}
func (f *fakeAdapter) NextRising(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, float64, error) {
	return f.eventTime, 0, f.risingErr
}
func (f *fakeAdapter) NextTransit(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, error) {
	return f.eventTime, f.transitErr
}
func (f *fakeAdapter) NextSetting(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, float64, error) {
	return f.eventTime, 0, f.settingErr
}
func (f *fakeAdapter) PreviousNewMoon(from time.Time) time.Time { return from }
func (f *fakeAdapter) NextFullMoon(from time.Time) time.Time    { return from }
func (f *fakeAdapter) Separation(a, b value.BodyKind, at time.Time) float64 { return 0 }
func (f *fakeAdapter) EarthRadiusMeters() float64                          { return 6378137 }
func (f *fakeAdapter) MetersPerAU() float64                                { return 1.495978707e11 }

func TestCurrentPosition(t *testing.T) {
	fake := &fakeAdapter{computeAltitude: 30}
	obs := value.Observer{Name: "Here", Date: time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)}
	c := New(fake, obs)

	body, err := c.CurrentPosition(context.Background(), value.Body{Kind: value.BodyMoon})
	require.NoError(t, err)
	assert.Equal(t, 30.0, body.State.Altitude)
}

func TestRisingAlwaysUpSentinel(t *testing.T) {
	fake := &fakeAdapter{risingErr: errs.New(errs.EphemerisAlwaysUp, "ephemeris", "always up")}
	c := New(fake, value.Observer{})

	ev, err := c.Rising(context.Background(), value.BodyMoon)
	require.NoError(t, err)
	assert.True(t, ev.AlwaysUp)
	assert.False(t, ev.NeverUp)
}

func TestSettingNeverUpSentinel(t *testing.T) {
	fake := &fakeAdapter{settingErr: errs.New(errs.EphemerisNeverUp, "ephemeris", "never up")}
	c := New(fake, value.Observer{})

	ev, err := c.Setting(context.Background(), value.BodyMoon)
	require.NoError(t, err)
	assert.True(t, ev.NeverUp)
	assert.False(t, ev.AlwaysUp)
}

func TestTransitRecomputesFullStateAtEventTime(t *testing.T) {
	want := time.Date(2026, 4, 10, 18, 30, 0, 0, time.UTC)
	fake := &fakeAdapter{computeAltitude: 60, eventTime: want}
	c := New(fake, value.Observer{Date: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)})

	ev, err := c.Transit(context.Background(), value.BodySun)
	require.NoError(t, err)
	assert.True(t, ev.Time.Equal(want))
	assert.Equal(t, 60.0, ev.Altitude)
	assert.Equal(t, 90.0, ev.Azimuth)
}

func TestNoonLunarAge(t *testing.T) {
	fake := &fakeAdapter{}
	obs := value.Observer{Date: time.Date(2026, 4, 10, 3, 0, 0, 0, time.UTC)}
	c := New(fake, obs)
	age := c.NoonLunarAge(9.0)
	// The fake's PreviousNewMoon returns the same instant it is given, so
	// the age collapses to exactly zero regardless of which instant
	// LocalNoonInUTC computes.
	assert.InDelta(t, 0.0, age, 1e-9)
}
