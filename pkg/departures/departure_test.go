package departures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	noon := time.Date(2012, 1, 10, 12, 0, 0, 0, time.UTC)

	parsed, err := ParseTime("1230", noon)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2012, 1, 10, 12, 30, 0, 0, time.UTC), parsed)

	// A reading more than an hour behind the clock is tomorrow's.
	lateEvening := time.Date(2012, 1, 10, 23, 30, 0, 0, time.UTC)
	parsed, err = ParseTime("0030", lateEvening)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2012, 1, 11, 0, 30, 0, 0, time.UTC), parsed)

	_, err = ParseTime("25x0", noon)
	assert.Error(t, err)
}

func TestTrainDestinationLabel(t *testing.T) {
	now := time.Date(2012, 1, 10, 12, 0, 0, 0, time.UTC)

	train, err := NewTrain("King's Cross St. Pancras", "1230", "Northbound", now)
	require.NoError(t, err)
	assert.Equal(t, "Kings X St P", train.DestinationLabel())

	unknown, err := NewTrain("Unknown", "1230", "Eastbound", now)
	require.NoError(t, err)
	assert.Equal(t, "Eastbound Train", unknown.DestinationLabel())

	via, err := NewTrain("Lewisham via Bank", "1230", "", now)
	require.NoError(t, err)
	assert.Equal(t, "Lewisham", via.DestinationName(), "via annotations never count for matching")
}

func TestTubeTrainBoilsDownDestinations(t *testing.T) {
	now := time.Date(2012, 1, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		rawDestination string
		expected       string
	}{
		{"Upminster", "Upminster"},
		{"Circle and Hammersmith and City", "Unknown"},
		{"Northern Line", "Unknown"},
		{"Eastbound Train", "Unknown"},
		{"Heathrow T123 + 5", "Heathrow Terminal 5"},
		{"Upminster Sidings", "Upminster"},
		{"High Barnet (Plat. 2)", "High Barnet"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.rawDestination, func(t *testing.T) {
			train, err := NewTubeTrain(testCase.rawDestination, "Eastbound", "1230", "001", "D", "UPM", now)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, train.RawDestination())
		})
	}
}

func TestTubeTrainKey(t *testing.T) {
	now := time.Date(2012, 1, 10, 12, 0, 0, 0, time.UTC)

	train, err := NewTubeTrain("Upminster", "Eastbound", "1230", "001", "D", "UPM", now)
	require.NoError(t, err)
	assert.Equal(t, "001 UPM 1230", train.Key())
}

func TestNullDeparture(t *testing.T) {
	now := time.Date(2012, 1, 10, 12, 0, 0, 0, time.UTC)

	null := NewNullDeparture("West", now)
	assert.Equal(t, "None shown going West", null.DestinationLabel())
	assert.Equal(t, "", null.TimeLabel())
}
