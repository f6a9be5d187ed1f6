package format

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tendosso/sso/internal/calculator"
	"github.com/tendosso/sso/internal/value"
)

func TestShortDateAppliesTzOffset(t *testing.T) {
	utc := time.Date(2026, 4, 10, 11, 0, 0, 0, time.UTC)
	got := ShortDate(utc, 9)
	assert.Equal(t, "2026/04/10 20:00:00 [+9]", got)
}

func TestLongDateContainsTzSuffix(t *testing.T) {
	utc := time.Date(2026, 4, 10, 11, 0, 0, 0, time.UTC)
	got := LongDate(utc, 9)
	assert.Contains(t, got, "(+9)")
	assert.Contains(t, got, "2026年04月10日")
}

func TestEventsNoneSentinel(t *testing.T) {
	var out bytes.Buffer
	Events(&out, "Rise", calculator.EventResult{}, nil, 9, 8)
	assert.Contains(t, out.String(), "none")
}

func TestEventsAlwaysUpSentinel(t *testing.T) {
	var out bytes.Buffer
	Events(&out, "Rise", calculator.EventResult{AlwaysUp: true}, nil, 9, 8)
	assert.Contains(t, out.String(), "always up")
}

func TestEventsNeverUpSentinel(t *testing.T) {
	var out bytes.Buffer
	Events(&out, "Set", calculator.EventResult{NeverUp: true}, nil, 9, 8)
	assert.Contains(t, out.String(), "never up")
}

func TestSeparationFormatsDegrees(t *testing.T) {
	sun := value.Body{Kind: value.BodySun}
	moon := value.Body{Kind: value.BodyMoon}
	s := Separation(sun, moon, 3.141592653589793)
	assert.Contains(t, s, "180.0000")
	assert.Contains(t, s, "Sun")
	assert.Contains(t, s, "Moon")
}

func TestPositionRendersMoonSpecificFields(t *testing.T) {
	var out bytes.Buffer
	obs := value.Observer{Name: "Here", Date: time.Date(2026, 4, 10, 11, 0, 0, 0, time.UTC)}
	moon := value.Body{Kind: value.BodyMoon, State: value.State{Phase: 50, Age: 7.3, Illumination: 0.5, DiameterArcmin: 31.5}}
	Position(&out, obs, moon, 9, 8)
	assert.Contains(t, out.String(), "phase=50.0%")
}

func TestPositionHeaderUsesShortDateForm(t *testing.T) {
	var out bytes.Buffer
	obs := value.Observer{Name: "Here", Date: time.Date(2026, 1, 21, 11, 0, 0, 0, time.UTC)}
	sun := value.Body{Kind: value.BodySun}
	Position(&out, obs, sun, 9, 8)
	assert.Contains(t, out.String(), "2026/01/21 20:00:00 [+9]")
}
