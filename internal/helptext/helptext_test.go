package helptext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicKnownEntries(t *testing.T) {
	assert.Contains(t, Topic("Time"), "Date(")
	assert.Contains(t, Topic("Observer"), "Observer(lat, lon, elev)")
}

func TestTopicFallsBackToBodyListing(t *testing.T) {
	assert.Equal(t, Body, Topic("Body"))
	assert.Equal(t, Body, Topic("Jupiter"))
}

func TestTopicUnknownNameReportsNotFound(t *testing.T) {
	got := Topic("Nonsense")
	assert.Contains(t, got, "No help available for Nonsense")
}
