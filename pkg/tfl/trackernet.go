package tfl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/whensmy/whensmy/pkg/departures"
	"github.com/whensmy/whensmy/pkg/fetcher"
	"github.com/whensmy/whensmy/pkg/places"
	"github.com/whensmy/whensmy/pkg/util"
)

// whenCreatedFormat is TrackerNet's publication timestamp, e.g.
// "02 Jun 2012 15:04:05".
const whenCreatedFormat = "02 Jan 2006 15:04:05"

// TubePredictions is the TrackerNet detailed prediction document for one
// station on one line.
type TubePredictions struct {
	WhenCreated string        `xml:"WhenCreated"`
	Stations    []TubeStation `xml:"S"`
}

type TubeStation struct {
	Code      string         `xml:"Code,attr"`
	Name      string         `xml:"N,attr"`
	Platforms []TubePlatform `xml:"P"`
}

type TubePlatform struct {
	Name   string          `xml:"N,attr"`
	Number string          `xml:"Num,attr"`
	Trains []TubePrediction `xml:"T"`
}

type TubePrediction struct {
	LineCode    string `xml:"LN,attr"`
	SetNumber   string `xml:"SetNo,attr"`
	Destination string `xml:"Destination,attr"`
	DestCode    string `xml:"DestCode,attr"`
	SecondsTo   string `xml:"SecondsTo,attr"`
	Location    string `xml:"Location,attr"`
}

var platformDirection = regexp.MustCompile(`(?i)(North|East|South|West)bound`)
var platformRail = regexp.MustCompile(`(?i)(Inner|Outer) Rail`)

// platformToDirection works out which compass direction a platform serves.
// Circular lines name platforms "Inner Rail"/"Outer Rail", which mean
// nothing to customers, so stations carry hand-entered translations. A
// couple of stations say nothing at all for some platforms and are special
// cased; anything else bidirectional comes back "Unknown" and is resolved
// later from each train's destination.
func platformToDirection(platform TubePlatform, station *places.Station) string {
	if match := platformDirection.FindString(platform.Name); match != "" {
		return util.Capwords(match)
	}

	if match := platformRail.FindStringSubmatch(platform.Name); match != nil {
		switch util.Capwords(match[1]) {
		case "Inner":
			return station.Inner + "bound"
		case "Outer":
			return station.Outer + "bound"
		}
	}

	if station.Code == "CHM" {
		return "Southbound"
	}
	if station.Code == "CLF" && platform.Number == "3" {
		return "Northbound"
	}

	log.Debug().Str("platform", platform.Name).Msg("Platform without direction specified")
	return "Unknown"
}

// 546 and 749 appear to be codes for Out of Service.
var outOfServiceDestCodes = []string{"546", "749"}

// National Rail operators show up on Bakerloo & Metropolitan platforms.
var nonTubeDestinations = []string{"Special", "Out Of Service", "Network Rail", "Chiltern TOC"}

// includeTubeTrain filters out misleading, out of service or downright bogus
// trains from a TrackerNet platform listing.
func includeTubeTrain(train TubePrediction) bool {
	if util.ContainsString(outOfServiceDestCodes, train.DestCode) {
		return false
	}
	// Trains in sidings are not much use to us
	if train.DestCode == "0" && strings.Contains(train.Location, "Sidings") {
		return false
	}
	if util.ContainsString(nonTubeDestinations, train.Destination) {
		return false
	}
	if strings.HasPrefix(train.Destination, "BR") {
		return false
	}
	return true
}

// ParseTubePredictions turns a TrackerNet prediction document into a
// collection of trains slotted by direction. Platforms with a known
// direction get a slot even when empty; trains on unresolvable platforms
// gather under an "Unknown" slot only if there are any.
func ParseTubePredictions(predictions *TubePredictions, station *places.Station, lineCode string, now time.Time) (*departures.Collection, error) {
	publicationTime, err := time.ParseInLocation(whenCreatedFormat, predictions.WhenCreated, now.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: bad WhenCreated %q", fetcher.ErrProviderUnavailable, predictions.WhenCreated)
	}

	collection := departures.NewCollection()
	for _, feedStation := range predictions.Stations {
		for _, platform := range feedStation.Platforms {
			direction := platformToDirection(platform, station)
			if direction != "Unknown" && !collection.Contains(departures.DirectionSlot(direction)) {
				collection.Set(departures.DirectionSlot(direction), nil)
			}

			for _, train := range platform.Trains {
				if train.LineCode != lineCode || !includeTubeTrain(train) {
					continue
				}

				secondsTo, err := strconv.Atoi(train.SecondsTo)
				if err != nil {
					log.Debug().Str("secondsTo", train.SecondsTo).Msg("Skipping train with unparseable SecondsTo")
					continue
				}
				departureTime := publicationTime.Add(time.Duration(secondsTo) * time.Second).Format("1504")

				tubeTrain, err := departures.NewTubeTrain(train.Destination, direction, departureTime, train.SetNumber, lineCode, train.DestCode, now)
				if err != nil {
					continue
				}
				collection.AddToSlot(departures.DirectionSlot(direction), tubeTrain)
			}
		}
	}

	return collection, nil
}
