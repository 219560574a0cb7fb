package bot

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/whensmy/whensmy/pkg/departures"
	"github.com/whensmy/whensmy/pkg/geo"
	"github.com/whensmy/whensmy/pkg/places"
	"github.com/whensmy/whensmy/pkg/textparser"
)

// trainDeparture is what rail departures expose beyond the board line: the
// feed's own destination text, and a way to swap in the canonical one.
type trainDeparture interface {
	departures.Departure
	RawDestination() string
	SetDestination(destination string)
}

var compassDirections = map[string]string{
	"n": "Northbound",
	"e": "Eastbound",
	"s": "Southbound",
	"w": "Westbound",
}

func (b *Bot) processRailRequest(ctx context.Context, msg Message, result textparser.Result, now time.Time) ([]string, *Rejection) {
	if result.IsZero() {
		return nil, nil
	}

	requestedLine := ""
	if len(result.Routes) > 0 {
		requestedLine = result.Routes[0]
	}
	if requestedLine == "" && b.Network == NetworkDLR {
		requestedLine = "DLR"
	}

	var point *geo.Point
	if result.Origin == "" {
		request := requestedLine
		if request == "" {
			request = "Tube"
		}
		located, rejection := b.locateMessage(msg, request)
		if rejection != nil {
			return nil, rejection
		}
		point = located
	}

	reply, rejection := b.trainReply(ctx, requestedLine, result, point, now)
	if rejection != nil {
		if rejection.Fatal() {
			return nil, rejection
		}
		return []string{rejection.UserMessage()}, nil
	}
	return []string{reply}, nil
}

func (b *Bot) trainReply(ctx context.Context, requestedLine string, result textparser.Result, point *geo.Point, now time.Time) (string, *Rejection) {
	lineCode := ""
	if requestedLine != "" {
		lineCode = LineByName(requestedLine)
		if lineCode == "" {
			return "", Reject(RejectNonexistentLine, requestedLine)
		}
	}
	lineName := DisplayLineName(lineCode)

	// The departure station: nearest to the user, or their own words.
	var origin *places.Station
	if point != nil {
		nearest, err := b.deps.Stations.NearestStation(ctx, lineCode, *point)
		if err != nil || nearest == nil {
			log.Error().Err(err).Msg("Nearest station lookup failed")
			return "", Reject(RejectUnknownError)
		}
		origin = nearest
	} else {
		match, err := b.deps.Stations.FuzzyStation(ctx, lineCode, result.Origin)
		if err != nil {
			return "", Reject(RejectUnknownError)
		}
		if match == nil {
			network := lineName
			if network == "" {
				network = "Tube"
			}
			return "", Reject(RejectStationNameNotFound, result.Origin, network)
		}
		origin = match
	}
	// XXX codes stations with no TrackerNet presence.
	if origin.Code == "XXX" {
		return "", Reject(RejectStationNotInSystem, origin.Name)
	}

	var destination *places.Station
	if result.Destination != "" {
		destination, _ = b.deps.Stations.FuzzyStation(ctx, lineCode, result.Destination)
	}

	direction := ""
	if destination == nil && result.Direction != "" {
		mapped, ok := compassDirections[strings.ToLower(result.Direction[:1])]
		if !ok {
			return "", Reject(RejectInvalidDirection, result.Direction)
		}
		direction = mapped
	}

	// No line requested: derive it from where the user is and where they are
	// going. Ambiguity goes back to the user rather than being guessed at.
	if lineCode == "" {
		lines, err := b.deps.Topology.LinesServing(ctx, origin.Code)
		if err != nil {
			return "", Reject(RejectUnknownError)
		}
		if destination != nil {
			var direct []string
			for _, line := range lines {
				ok, err := b.deps.Topology.DirectRouteExists(ctx, origin.Code, destination.Code, line)
				if err != nil {
					return "", Reject(RejectUnknownError)
				}
				if ok {
					direct = append(direct, line)
				}
			}
			lines = direct
		}

		switch {
		case len(lines) == 0 && destination != nil:
			return "", Reject(RejectNoDirectRoute, origin.Name, destination.Name, "Tube")
		case len(lines) == 0:
			return "", Reject(RejectStationNameNotFound, origin.Name, "Tube")
		case len(lines) > 1 && destination != nil:
			return "", Reject(RejectNoLineSpecifiedTo, origin.Name, destination.Name)
		case len(lines) > 1:
			return "", Reject(RejectNoLineSpecified, origin.Name)
		}
		lineCode = lines[0]
		lineName = DisplayLineName(lineCode)
	}

	if destination != nil {
		direct, err := b.deps.Topology.DirectRouteExists(ctx, origin.Code, destination.Code, lineCode)
		if err != nil {
			return "", Reject(RejectUnknownError)
		}
		if !direct {
			return "", Reject(RejectNoDirectRoute, origin.Name, destination.Name, lineName)
		}
	}

	if rejection := b.checkStationOpen(ctx, origin); rejection != nil {
		return "", rejection
	}

	collection, rejection := b.fetchTrains(ctx, origin, lineCode, now)
	if rejection != nil {
		return "", rejection
	}

	resolved := b.canonicaliseDestinations(ctx, collection, lineCode)
	b.rebinUnknownDirections(collection, origin, resolved)

	// Trains terminating here are no use to anyone boarding here.
	collection.Filter(func(d departures.Departure) bool {
		return d.DestinationName() != origin.Name
	}, false)

	if destination != nil {
		collection.Filter(func(d departures.Departure) bool {
			return b.trainStopsAt(ctx, origin, destination, resolved[d.Key()], lineCode)
		}, true)
	} else if direction != "" {
		if lineCode == "DLR" {
			// DLR boards carry no compass direction, so judge each train by
			// where its destination lies relative to here.
			collection.Filter(func(d departures.Departure) bool {
				destinationStation := resolved[d.Key()]
				return destinationStation != nil && origin.IsCorrectDirection(direction, destinationStation)
			}, true)
		} else {
			for _, slot := range collection.Slots() {
				if slot.Label != direction {
					collection.Delete(slot)
				}
			}
		}
	}

	if lineCode == "DLR" {
		collection.Cleanup(func(slot departures.Slot) departures.Departure {
			return departures.NewNullDeparture("from "+slot.DisplayLabel(), now)
		})
	} else {
		collection.Cleanup(func(slot departures.Slot) departures.Departure {
			return departures.NewNullDeparture(slot.DisplayLabel(), now)
		})
	}

	rendered := collection.String()
	if rendered == "" {
		switch {
		case destination != nil:
			return "", Reject(RejectNoTrainsShownTo, lineName, origin.Name, destination.Name)
		case direction != "":
			return "", Reject(RejectNoTrainsShownIn, direction, lineName, origin.Name)
		default:
			return "", Reject(RejectNoTrainsShown, lineName, origin.Name)
		}
	}
	return places.AbbreviateStationName(origin.Name) + " to " + rendered, nil
}

func (b *Bot) fetchTrains(ctx context.Context, origin *places.Station, lineCode string, now time.Time) (*departures.Collection, *Rejection) {
	if lineCode == "DLR" {
		collection, err := b.deps.Feed.DLRDepartures(ctx, origin, now)
		if err != nil {
			return nil, feedRejection(err)
		}
		return collection, nil
	}

	// The Circle shares TrackerNet data with the Hammersmith & City.
	fetchCode := lineCode
	if fetchCode == "O" {
		fetchCode = "H"
	}
	collection, err := b.deps.Feed.TubeDepartures(ctx, origin, fetchCode, now)
	if err != nil {
		return nil, feedRejection(err)
	}
	return collection, nil
}

// canonicaliseDestinations swaps each train's feed destination text for the
// matching station's proper name, and returns the stations found, keyed by
// departure.
func (b *Bot) canonicaliseDestinations(ctx context.Context, collection *departures.Collection, lineCode string) map[string]*places.Station {
	resolved := map[string]*places.Station{}
	for _, slot := range collection.Slots() {
		trains, _ := collection.Get(slot)
		for _, departure := range trains {
			train, ok := departure.(trainDeparture)
			if !ok {
				continue
			}
			name := train.DestinationName()
			if name == "" || name == "Unknown" {
				continue
			}
			station, err := b.deps.Stations.FuzzyStation(ctx, lineCode, name)
			if err != nil || station == nil {
				continue
			}
			train.SetDestination(station.Name)
			resolved[train.Key()] = station
		}
	}
	return resolved
}

// rebinUnknownDirections re-slots trains whose platform gave no direction.
// The stations this afflicts all sit on east-west lines, so the destination's
// easting settles which way the train is going.
func (b *Bot) rebinUnknownDirections(collection *departures.Collection, origin *places.Station, resolved map[string]*places.Station) {
	unknownSlot := departures.DirectionSlot("Unknown")
	trains, ok := collection.Get(unknownSlot)
	if !ok {
		return
	}
	for _, train := range trains {
		destinationStation := resolved[train.Key()]
		if destinationStation == nil {
			continue
		}
		if destinationStation.Easting < origin.Easting {
			collection.AddToSlot(departures.DirectionSlot("Westbound"), train)
		} else {
			collection.AddToSlot(departures.DirectionSlot("Eastbound"), train)
		}
	}
	collection.Delete(unknownSlot)
}

// trainStopsAt reports whether a train from origin calls at wanted, judged by
// whether wanted lies on the line between origin and the train's destination.
func (b *Bot) trainStopsAt(ctx context.Context, origin *places.Station, wanted *places.Station, trainDestination *places.Station, lineCode string) bool {
	if trainDestination == nil {
		return false
	}
	if trainDestination.Code == wanted.Code {
		return true
	}
	route, err := b.deps.Topology.DescribeRoute(ctx, origin.Code, trainDestination.Code, lineCode)
	if err != nil {
		return false
	}
	return slices.Contains(route, wanted.Code)
}

// checkStationOpen rejects requests for a station TfL says is shut. A broken
// status feed is treated as everything open.
func (b *Bot) checkStationOpen(ctx context.Context, station *places.Station) *Rejection {
	closed, err := b.deps.Status.ClosedStations(ctx)
	if err != nil {
		return nil
	}
	if reason, ok := closed[station.Name]; ok {
		return Reject(RejectStationClosed, station.Name, reason)
	}
	return nil
}
