package tfl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/whensmy/whensmy/pkg/departures"
	"github.com/whensmy/whensmy/pkg/fetcher"
	"github.com/whensmy/whensmy/pkg/places"
	"github.com/whensmy/whensmy/pkg/util"
)

// StopBoard is the Countdown departure board for one bus stop.
type StopBoard struct {
	StopBoardMessage string    `json:"stopBoardMessage"`
	Arrivals         []Arrival `json:"arrivals"`
}

// Arrival is one predicted bus on a stop board.
type Arrival struct {
	RouteName     string `json:"routeName"`
	Destination   string `json:"destination"`
	ScheduledTime string `json:"scheduledTime"`
	IsRealTime    bool   `json:"isRealTime"`
	IsCancelled   bool   `json:"isCancelled"`
}

// ParseBusBoard picks the realtime arrivals for the route off the stop board
// and returns them as departures, at most three. Night bus variants of the
// route count as the route. Countdown publishes UK local clock times as if
// there were no summer time, so during BST the hour is shifted forward.
func ParseBusBoard(board *StopBoard, stop *places.StopPoint, route string, now time.Time) ([]departures.Departure, error) {
	if len(board.Arrivals) == 0 && board.StopBoardMessage == "noPredictionsDueToSystemError" {
		return nil, fmt.Errorf("%w: countdown reports a system error", fetcher.ErrProviderUnavailable)
	}

	var buses []departures.Departure
	for _, arrival := range board.Arrivals {
		if arrival.RouteName != route && arrival.RouteName != "N"+route {
			continue
		}
		if !arrival.IsRealTime || arrival.IsCancelled {
			continue
		}

		scheduled := strings.ReplaceAll(arrival.ScheduledTime, ":", "")
		if len(scheduled) != 4 {
			log.Debug().Str("time", arrival.ScheduledTime).Msg("Skipping arrival with unparseable time")
			continue
		}
		if util.IsBST(now) {
			hour, err := strconv.Atoi(scheduled[0:2])
			if err != nil {
				continue
			}
			scheduled = fmt.Sprintf("%02d%s", (hour+1)%24, scheduled[2:4])
		}

		bus, err := departures.NewBus(arrival.Destination, scheduled, stop.CleanName(), now)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping arrival with unparseable time")
			continue
		}
		buses = append(buses, bus)

		if len(buses) == 3 {
			break
		}
	}

	return buses, nil
}
