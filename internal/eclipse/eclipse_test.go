package eclipse

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendosso/sso/internal/value"
)

// fakeAdapter is a deterministic stand-in for ephemeris.Adapter: every
// field is a constant the refinement loop reads regardless of the instant
// queried, which lets a test pin down the magnitude formula's
// classification thresholds without driving the real low-precision engine.
type fakeAdapter struct {
	fullMoon time.Time

	sunSizeArcsec, moonSizeArcsec float64
	sunDistAU, moonDistAU         float64
	earthRadius, metersPerAU      float64
	altitude                      float64
	sep                           float64 // radians, constant across the whole window
}

func (f *fakeAdapter) NowUTC() time.Time { return f.fullMoon }

func (f *fakeAdapter) Compute(body *value.Body, observer value.Observer, at time.Time) error {
	switch body.Kind {
	case value.BodySun:
		body.State = value.State{SizeArcsec: f.sunSizeArcsec, EarthDistance: f.sunDistAU, Altitude: f.altitude}
	case value.BodyMoon:
		body.State = value.State{SizeArcsec: f.moonSizeArcsec, EarthDistance: f.moonDistAU, Altitude: f.altitude}
	}
	return nil
}

func (f *fakeAdapter) NextRising(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, float64, error) {
	return from, 0, nil
}
func (f *fakeAdapter) NextTransit(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, error) {
	return from, nil
}
func (f *fakeAdapter) NextSetting(observer value.Observer, kind value.BodyKind, from time.Time) (time.Time, float64, error) {
	return from, 0, nil
}
func (f *fakeAdapter) PreviousNewMoon(from time.Time) time.Time { return from }
func (f *fakeAdapter) NextFullMoon(from time.Time) time.Time    { return f.fullMoon }
func (f *fakeAdapter) Separation(a, b value.BodyKind, at time.Time) float64 {
	return f.sep
}
func (f *fakeAdapter) EarthRadiusMeters() float64 { return f.earthRadius }
func (f *fakeAdapter) MetersPerAU() float64       { return f.metersPerAU }

func baseFake(fullMoon time.Time) *fakeAdapter {
	return &fakeAdapter{
		fullMoon:      fullMoon,
		earthRadius:   1,
		metersPerAU:   1,
		sunDistAU:     2062.6481, // engine's ps = 100 arcsec with earthRadius=metersPerAU=1
		moonDistAU:    515.6620,  // engine's pm = 400 arcsec
		altitude:      45,        // well above the moonset filter
		sep:           math.Pi,
	}
}

func TestSearchClassifiesTotalEclipse(t *testing.T) {
	fullMoon := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	fake := baseFake(fullMoon)
	fake.sunSizeArcsec = 100  // rs = 50
	fake.moonSizeArcsec = 600 // rm = 300

	eng := New(fake)
	result := eng.Search(context.Background(), fullMoon.Add(-time.Hour), 1.0/12.0, value.Observer{}, false)

	require.Len(t, result.Events, 1)
	ev := result.Events[0]
	assert.Equal(t, value.EclipseTotal, ev.Class)
	assert.GreaterOrEqual(t, ev.Magnitude, 1.0)
}

func TestSearchClassifiesPartialEclipse(t *testing.T) {
	fullMoon := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	fake := baseFake(fullMoon)
	fake.sunSizeArcsec = 600 // rs = 300, shrinks the umbral radius
	fake.moonSizeArcsec = 600

	eng := New(fake)
	result := eng.Search(context.Background(), fullMoon.Add(-time.Hour), 1.0/12.0, value.Observer{}, false)

	require.Len(t, result.Events, 1)
	ev := result.Events[0]
	assert.Equal(t, value.EclipsePartial, ev.Class)
	assert.Greater(t, ev.Magnitude, 0.0)
	assert.Less(t, ev.Magnitude, 1.0)
}

func TestSearchCoarseFilterRejectsWideSeparation(t *testing.T) {
	fullMoon := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	fake := baseFake(fullMoon)
	fake.sunSizeArcsec, fake.moonSizeArcsec = 100, 600
	// Far from opposition: the coarse separation filter should drop this
	// candidate before it ever reaches the per-second refinement.
	fake.sep = math.Pi / 2

	eng := New(fake)
	result := eng.Search(context.Background(), fullMoon.Add(-time.Hour), 1.0/12.0, value.Observer{}, false)
	assert.Empty(t, result.Events)
}

func TestSearchAltitudeFilterRejectsBelowHorizon(t *testing.T) {
	fullMoon := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	fake := baseFake(fullMoon)
	fake.sunSizeArcsec, fake.moonSizeArcsec = 100, 600
	fake.altitude = -10 // moon below the moonset-visibility floor

	eng := New(fake)
	result := eng.Search(context.Background(), fullMoon.Add(-time.Hour), 1.0/12.0, value.Observer{}, false)
	assert.Empty(t, result.Events, "a below-horizon full moon must be filtered out unless world is requested")

	worldResult := eng.Search(context.Background(), fullMoon.Add(-time.Hour), 1.0/12.0, value.Observer{}, true)
	assert.Len(t, worldResult.Events, 1, "world bypasses the horizon-visibility filter")
}

func TestSearchEventOrderingBeginMaxEnd(t *testing.T) {
	fullMoon := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	fake := baseFake(fullMoon)
	fake.sunSizeArcsec, fake.moonSizeArcsec = 100, 600

	eng := New(fake)
	result := eng.Search(context.Background(), fullMoon.Add(-time.Hour), 1.0/12.0, value.Observer{}, false)
	require.Len(t, result.Events, 1)
	ev := result.Events[0]
	require.NotNil(t, ev.Max)
	require.NotNil(t, ev.Begin)
	assert.False(t, ev.Begin.After(*ev.Max), "begin must not come after max")
	if ev.End != nil {
		assert.False(t, ev.End.Before(*ev.Max), "end must not come before max")
	}
}
