package geo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceSymmetric(t *testing.T) {
	// Tokyo-ish vs Osaka-ish stations, in radians.
	latA, lonA := 35.6762*math.Pi/180, 139.6503*math.Pi/180
	latB, lonB := 34.6937*math.Pi/180, 135.5023*math.Pi/180

	ab := Distance(latA, lonA, 0, latB, lonB, 0)
	ba := Distance(latB, lonB, 0, latA, lonA, 0)

	assert.InDelta(t, ab.DistanceKm, ba.DistanceKm, 0.001, "distance(A,B) must equal distance(B,A)")

	// azimuth A->B and B->A must differ by ~180 degrees.
	diff := math.Mod(ab.AzimuthDeg-ba.AzimuthDeg+540, 360) - 180
	assert.InDelta(t, 0, diff, 3.0, "azimuths should be roughly antipodal")
}

func TestDistanceZeroForSameStation(t *testing.T) {
	lat, lon := 35.0*math.Pi/180, 139.0*math.Pi/180
	d := Distance(lat, lon, 0, lat, lon, 0)
	assert.InDelta(t, 0, d.DistanceKm, 1e-6)
}

func TestToECEFEquatorAtPrimeMeridian(t *testing.T) {
	v := ToECEF(0, 0, 0)
	assert.InDelta(t, EarthRadiusMeters, v.X, 1e-6)
	assert.InDelta(t, 0, v.Y, 1e-6)
	assert.InDelta(t, 0, v.Z, 1e-6)
}

func TestCompassLabelBins(t *testing.T) {
	tests := []struct {
		az   float64
		n    int
		want string
	}{
		{0, 4, "N"},
		{90, 4, "E"},
		{180, 4, "S"},
		{270, 4, "W"},
		{0, 8, "N"},
		{45, 8, "NE"},
		{359, 8, "N"},
		{0, 16, "N"},
		{-10, 8, "N"}, // negative azimuth wraps
	}
	for _, tt := range tests {
		got, err := CompassLabel(tt.az, tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestCompassLabelUnsupportedBinCount(t *testing.T) {
	_, err := CompassLabel(0, 6)
	assert.Error(t, err)
}

func TestToUTCToLocalRoundTrip(t *testing.T) {
	utc := time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)
	for _, tz := range []float64{-12, -9, 0, 5.5, 9, 14} {
		local := ToLocal(utc, tz)
		back := ToUTC(local, tz)
		assert.True(t, back.Equal(utc), "toUTC(toLocal(d)) must equal d for tz=%v", tz)
	}
}

func TestLocalMidnight(t *testing.T) {
	// 2026/4/10 20:00 local at Tz=+9 is still 2026/4/10 in local wall-clock,
	// so local midnight should be 2026/4/9 15:00 UTC (= 2026/4/10 00:00+9).
	utc := time.Date(2026, 4, 10, 11, 0, 0, 0, time.UTC) // 2026/4/10 20:00 JST
	mid := LocalMidnight(utc, 9)
	wantLocal := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	gotLocal := ToLocal(mid, 9)
	assert.True(t, gotLocal.Equal(wantLocal))
}
