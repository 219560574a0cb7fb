package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviateStationName(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"Hammersmith", "Hammersmith"},
		{"High Street Kensington", "High St Ken"},
		{"King's Cross St. Pancras", "Kings X St P"},
		{"Kensington (Olympia)", "Olympia"},
		{"Gloucester Road", "Gloucester Rd"},
		{"Wimbledon Park", "Wimbledon Pk"},
		{"Elephant & Castle", "Elephant & C"},
		{"Highbury & Islington", "Highbury & I"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			abbreviated := AbbreviateStationName(testCase.name)
			assert.Equal(t, testCase.expected, abbreviated)

			// Abbreviating twice must not shorten any further.
			assert.Equal(t, abbreviated, AbbreviateStationName(abbreviated))
		})
	}
}

func TestNormaliseStopName(t *testing.T) {
	assert.Equal(t, "LIMEHOUSESTN", NormaliseStopName("Limehouse Station"))
	assert.Equal(t, "LIMEHOUSEPUB", NormaliseStopName("The Limehouse Public House"))
	assert.Equal(t, "REGENTST", NormaliseStopName("Regent Street"))

	// Already-normalised names pass through unchanged.
	assert.Equal(t, "REGENTST", NormaliseStopName("REGENTST"))
}

func TestCleanName(t *testing.T) {
	stop := &StopPoint{Name: "LIMEHOUSE STATION <> #"}
	assert.Equal(t, "Limehouse Station", stop.CleanName())
}
