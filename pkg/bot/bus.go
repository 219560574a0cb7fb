package bot

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/whensmy/whensmy/pkg/departures"
	"github.com/whensmy/whensmy/pkg/geo"
	"github.com/whensmy/whensmy/pkg/places"
	"github.com/whensmy/whensmy/pkg/textparser"
	"github.com/whensmy/whensmy/pkg/util"
)

var stopCodePattern = regexp.MustCompile(`^[0-9]{5}$`)

// processBusRequest answers one per requested route. A failure on one route
// does not stop the others; only a dead feed aborts the lot.
func (b *Bot) processBusRequest(ctx context.Context, msg Message, result textparser.Result, now time.Time) ([]string, *Rejection) {
	// "15 15" is one request for the 15, not two.
	routes := util.RemoveDuplicateStrings(result.Routes, nil)
	if len(routes) == 0 {
		// Probably not a request at all, so say nothing.
		return nil, nil
	}

	var point *geo.Point
	if result.Origin == "" {
		located, rejection := b.locateMessage(msg, strings.Join(routes, " "))
		if rejection != nil {
			return nil, rejection
		}
		point = located
	}

	var replies []string
	for _, route := range routes {
		reply, rejection := b.busReply(ctx, route, result.Origin, result.Destination, point, now)
		if rejection != nil {
			if rejection.Fatal() {
				return nil, rejection
			}
			replies = append(replies, rejection.UserMessage())
			continue
		}
		replies = append(replies, reply)
	}
	return replies, nil
}

func (b *Bot) busReply(ctx context.Context, route string, origin string, destination string, point *geo.Point, now time.Time) (string, *Rejection) {
	exists, err := b.deps.Stops.RouteExists(ctx, route)
	if err != nil {
		log.Error().Err(err).Str("route", route).Msg("Route lookup failed")
		return "", Reject(RejectUnknownError)
	}
	if !exists {
		return "", Reject(RejectNonexistentBus, route)
	}

	stops, rejection := b.relevantStops(ctx, route, origin, point)
	if rejection != nil {
		return "", rejection
	}

	// A destination narrows the request to the run(s) actually heading there.
	destinationName := ""
	if destination != "" {
		towards, name := b.stopsTowards(ctx, route, stops, destination)
		if len(towards) > 0 {
			stops = towards
			destinationName = name
		}
	}

	collection := departures.NewCollection()
	for _, stop := range stops {
		buses, err := b.deps.Feed.BusDepartures(ctx, stop, route, now)
		if err != nil {
			return "", feedRejection(err)
		}
		collection.Set(departures.StopSlot(stop), buses)
	}

	collection.Cleanup(func(slot departures.Slot) departures.Departure {
		return departures.NewNullDeparture(geo.CompassDirection(slot.Point.Heading), now)
	})
	// Routes with three or four runs would drown the reply in "None shown".
	if collection.Len() > 2 {
		collection.Filter(func(d departures.Departure) bool {
			return !strings.HasPrefix(d.DestinationLabel(), "None shown")
		}, true)
	}

	rendered := collection.String()
	if rendered == "" {
		if destinationName != "" {
			return "", Reject(RejectNoBusesShownTo, route, destinationName)
		}
		return "", Reject(RejectNoBusesShown, route)
	}
	return route + " " + rendered, nil
}

// relevantStops works out which stops the request is about: the nearest stop
// on each run for a geotagged message, the single stop for a 5-digit stop ID,
// or the best name match on each run otherwise.
func (b *Bot) relevantStops(ctx context.Context, route string, origin string, point *geo.Point) ([]*places.StopPoint, *Rejection) {
	maxRun, err := b.deps.Stops.MaxRun(ctx, route)
	if err != nil {
		return nil, Reject(RejectUnknownError)
	}

	if point != nil {
		var stops []*places.StopPoint
		for run := 1; run <= maxRun; run++ {
			stop, err := b.deps.Stops.NearestStop(ctx, route, run, *point)
			if err != nil {
				return nil, Reject(RejectUnknownError)
			}
			if stop != nil {
				stops = append(stops, stop)
			}
		}
		if len(stops) == 0 {
			return nil, Reject(RejectUnknownError)
		}
		return stops, nil
	}

	if stopCodePattern.MatchString(origin) {
		for run := 1; run <= maxRun; run++ {
			stop, err := b.deps.Stops.StopByCode(ctx, route, run, origin)
			if err != nil {
				return nil, Reject(RejectUnknownError)
			}
			if stop != nil {
				return []*places.StopPoint{stop}, nil
			}
		}
		exists, err := b.deps.Stops.StopCodeExists(ctx, origin)
		if err != nil {
			return nil, Reject(RejectUnknownError)
		}
		if exists {
			return nil, Reject(RejectStopIDNotFound, route, origin)
		}
		return nil, Reject(RejectBadStopID, origin)
	}

	var stops []*places.StopPoint
	for run := 1; run <= maxRun; run++ {
		stop, err := b.deps.Stops.FuzzyStop(ctx, route, run, origin)
		if err != nil {
			return nil, Reject(RejectUnknownError)
		}
		if stop != nil {
			stops = append(stops, stop)
		}
	}
	if len(stops) == 0 {
		return nil, Reject(RejectStopNameNotFound, route, origin)
	}
	return stops, nil
}

// stopsTowards keeps the stops whose run calls at the requested destination
// further down the route, and returns the destination stop's clean name.
// Everything empty when the destination resolves on no run.
func (b *Bot) stopsTowards(ctx context.Context, route string, stops []*places.StopPoint, destination string) ([]*places.StopPoint, string) {
	var towards []*places.StopPoint
	name := ""
	for _, stop := range stops {
		var destinationStop *places.StopPoint
		var err error
		if stopCodePattern.MatchString(destination) {
			destinationStop, err = b.deps.Stops.StopByCode(ctx, route, stop.Run, destination)
		} else {
			destinationStop, err = b.deps.Stops.FuzzyStop(ctx, route, stop.Run, destination)
		}
		if err != nil || destinationStop == nil || destinationStop.Sequence <= stop.Sequence {
			continue
		}
		towards = append(towards, stop)
		if name == "" {
			name = destinationStop.CleanName()
		}
	}
	return towards, name
}
