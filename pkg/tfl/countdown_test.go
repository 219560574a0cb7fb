package tfl

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whensmy/whensmy/pkg/fetcher"
	"github.com/whensmy/whensmy/pkg/places"
)

var limehouseStation = &places.StopPoint{
	Name: "LIMEHOUSE STATION <>", Code: "53410", Route: "15", Run: 1, Heading: 80,
}

func TestParseBusBoard(t *testing.T) {
	// A winter evening, so no summer-time clock shift.
	now := time.Date(2012, time.January, 10, 18, 0, 0, 0, time.UTC)

	board := &StopBoard{
		Arrivals: []Arrival{
			{RouteName: "D3", Destination: "Bethnal Green", ScheduledTime: "18:05", IsRealTime: true},
			{RouteName: "15", Destination: "Regent Street", ScheduledTime: "19:31", IsRealTime: true},
			{RouteName: "15", Destination: "Regent Street", ScheduledTime: "19:40", IsRealTime: true, IsCancelled: true},
			{RouteName: "15", Destination: "Regent Street", ScheduledTime: "19:45", IsRealTime: false},
			{RouteName: "N15", Destination: "Romford", ScheduledTime: "23:50", IsRealTime: true},
			{RouteName: "15", Destination: "Blackwall", ScheduledTime: "19:55", IsRealTime: true},
			{RouteName: "15", Destination: "Blackwall", ScheduledTime: "20:05", IsRealTime: true},
		},
	}

	buses, err := ParseBusBoard(board, limehouseStation, "15", now)
	require.NoError(t, err)
	require.Len(t, buses, 3, "only the first three realtime arrivals count")

	assert.Equal(t, "Regent Street", buses[0].DestinationLabel())
	assert.Equal(t, "1931", buses[0].TimeLabel())
	assert.Equal(t, "Romford", buses[1].DestinationLabel(), "night bus variant counts as the route")
	assert.Equal(t, "Blackwall", buses[2].DestinationLabel())
	assert.Equal(t, "1955", buses[2].TimeLabel())
}

func TestParseBusBoardSummerTimeShift(t *testing.T) {
	now := time.Date(2012, time.July, 10, 18, 0, 0, 0, time.UTC)

	board := &StopBoard{
		Arrivals: []Arrival{
			{RouteName: "15", Destination: "Regent Street", ScheduledTime: "19:31", IsRealTime: true},
		},
	}

	buses, err := ParseBusBoard(board, limehouseStation, "15", now)
	require.NoError(t, err)
	require.Len(t, buses, 1)
	assert.Equal(t, "2031", buses[0].TimeLabel())
}

func TestParseBusBoardSystemError(t *testing.T) {
	now := time.Date(2012, time.January, 10, 18, 0, 0, 0, time.UTC)

	board := &StopBoard{StopBoardMessage: "noPredictionsDueToSystemError"}
	_, err := ParseBusBoard(board, limehouseStation, "15", now)
	assert.True(t, errors.Is(err, fetcher.ErrProviderUnavailable))

	// An empty board without the error message is just a quiet stop.
	buses, err := ParseBusBoard(&StopBoard{}, limehouseStation, "15", now)
	require.NoError(t, err)
	assert.Empty(t, buses)
}
