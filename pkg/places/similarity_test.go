package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSimilarity(t *testing.T) {
	assert.Equal(t, 100, StringSimilarity("LIMEHOUSE", "LIMEHOUSE"))
	assert.Equal(t, 100, StringSimilarity("", ""))
	assert.Equal(t, 0, StringSimilarity("ABC", "XYZ"))

	// Scores are symmetric.
	assert.Equal(t,
		StringSimilarity("REGENT ST", "REGENT STREET"),
		StringSimilarity("REGENT STREET", "REGENT ST"))
}

func TestStopPointSimilarity(t *testing.T) {
	testCases := []struct {
		name     string
		stopName string
		query    string
		expected int
	}{
		{
			name:     "normalised names identical",
			stopName: "LIMEHOUSE STATION <>",
			query:    "Limehouse Station",
			expected: 100,
		},
		{
			name:     "station query prefixes the stop name",
			stopName: "CANARY WHARF STATION / WESTFERRY RD",
			query:    "Canary Wharf Station",
			expected: 95,
		},
		{
			name:     "station query ends the stop name",
			stopName: "OPPOSITE LIMEHOUSE STATION",
			query:    "Limehouse Station",
			expected: 94,
		},
		{
			name:     "bare place name against its station stop",
			stopName: "LIMEHOUSE STATION <>",
			query:    "Limehouse",
			expected: 91,
		},
		{
			name:     "bare place name ending the stop name",
			stopName: "OPPOSITE LIMEHOUSE STATION",
			query:    "Limehouse",
			expected: 90,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			stop := &StopPoint{Name: testCase.stopName}
			assert.Equal(t, testCase.expected, stop.Similarity(testCase.query))
		})
	}

	// A query with nothing in common falls well below the confidence floor.
	stop := &StopPoint{Name: "REGENT STREET"}
	assert.Less(t, stop.Similarity("Trafalgar Square"), MinimumMatchConfidence)
}

func TestStationSimilarity(t *testing.T) {
	kingsCross := &Station{Name: "King's Cross St. Pancras"}

	assert.Equal(t, 100, (&Station{Name: "Bank"}).Similarity("Bank"))
	assert.Equal(t, 100, kingsCross.Similarity("king's cross st. pancras"))

	// Abbreviated queries score on the truncated name but never reach 100.
	abbreviated := kingsCross.Similarity("Kings Cross")
	assert.GreaterOrEqual(t, abbreviated, MinimumMatchConfidence)
	assert.Less(t, abbreviated, 100)

	assert.Less(t, kingsCross.Similarity("Morden"), MinimumMatchConfidence)
}

func TestBestMatch(t *testing.T) {
	stops := []*StopPoint{
		{Name: "REGENT STREET", Code: "51035"},
		{Name: "LIMEHOUSE STATION <>", Code: "53410"},
		{Name: "LIMEHOUSE TOWN HALL", Code: "48009"},
	}

	best, score, ok := BestMatch("Limehouse Station", stops, MinimumMatchConfidence)
	require.True(t, ok)
	assert.Equal(t, "53410", best.Code)
	assert.Equal(t, 100, score)

	_, _, ok = BestMatch("Trafalgar Square", stops, MinimumMatchConfidence)
	assert.False(t, ok)
}
