package bot

import (
	"fmt"

	"github.com/whensmy/whensmy/pkg/util"
)

// RejectionKind names every reason a request can fail. A fatal kind ends the
// whole message; a non-fatal one only fails the route it occurred on, and
// other requested routes are still processed.
type RejectionKind string

const (
	// Fatal, common to all networks.
	RejectPlaceInfoOnly  RejectionKind = "placeinfo_only"
	RejectNoGeotag       RejectionKind = "no_geotag"
	RejectDMNotTaggable  RejectionKind = "dms_not_taggable"
	RejectNotInUK        RejectionKind = "not_in_uk"
	RejectNotInLondon    RejectionKind = "not_in_london"
	RejectUnknownError   RejectionKind = "unknown_error"
	RejectProviderDown   RejectionKind = "tfl_server_down"
	RejectBlankBusText   RejectionKind = "blank_bus_tweet"

	// Bus, non-fatal.
	RejectBadStopID        RejectionKind = "bad_stop_id"
	RejectNonexistentBus   RejectionKind = "nonexistent_bus"
	RejectStopNameNotFound RejectionKind = "stop_name_not_found"
	RejectStopIDNotFound   RejectionKind = "stop_id_not_found"
	RejectNoBusesShown     RejectionKind = "no_buses_shown"
	RejectNoBusesShownTo   RejectionKind = "no_buses_shown_to"

	// Rail.
	RejectStationNameNotFound RejectionKind = "rail_station_name_not_found"
	RejectNoTrainsShown       RejectionKind = "no_trains_shown"
	RejectNoTrainsShownTo     RejectionKind = "no_trains_shown_to"
	RejectNoTrainsShownIn     RejectionKind = "no_trains_shown_in_direction"
	RejectNoDirectRoute       RejectionKind = "no_direct_route"
	RejectBlankTubeText       RejectionKind = "blank_tube_tweet"
	RejectNonexistentLine     RejectionKind = "nonexistent_line"
	RejectStationNotInSystem  RejectionKind = "rail_station_not_in_system"
	RejectStationClosed       RejectionKind = "tube_station_closed"
	RejectInvalidDirection    RejectionKind = "invalid_direction"
	RejectNoLineSpecified     RejectionKind = "no_line_specified"
	RejectNoLineSpecifiedTo   RejectionKind = "no_line_specified_to"
)

// rejectionMessages maps each kind to its user-facing text. The wording is
// load-bearing: replies are matched against these strings in tests and by
// long-suffering users' muscle memory.
var rejectionMessages = map[RejectionKind]string{
	RejectPlaceInfoOnly: "The Place info on your Tweet isn't precise enough http://bit.ly/rCbVmP Please enable GPS, or say '%s from <place>'",
	RejectNoGeotag:      "Your Tweet wasn't geotagged. Please enable GPS, or say '%s from <placename>' http://bit.ly/sJbgBe",
	RejectDMNotTaggable: "Direct messages can't use geotagging. Please send your message in the format '%s from <placename>'",
	RejectNotInUK:       "You do not appear to be located in the United Kingdom",
	RejectNotInLondon:   "You do not appear to be located in the London area",
	RejectUnknownError:  "An unknown error occurred processing your Tweet. My creator has been informed",
	RejectProviderDown:  "I can't access TfL's servers right now - they appear to be down :(",
	RejectBlankBusText:  "I need to have a bus number in order to find the times for it",
	RejectBadStopID:     "I couldn't recognise the number you gave me (%s) as a valid bus stop ID",

	RejectNonexistentBus:   "I couldn't recognise the number you gave me (%s) as a London bus",
	RejectStopNameNotFound: "I couldn't find any bus stops on the %s route by that name (%s)",
	RejectStopIDNotFound:   "The %s route doesn't call at the stop with ID %s",
	RejectNoBusesShown:     "There are no %s buses currently shown from your stop",
	RejectNoBusesShownTo:   "There are no %s buses currently shown from your stop to %s",

	RejectStationNameNotFound: "I couldn't recognise that station (%s) as being on the %s",
	RejectNoTrainsShown:       "There are no %s trains currently shown going from %s",
	RejectNoTrainsShownTo:     "There are no %s trains currently shown going from %s to %s",
	RejectNoTrainsShownIn:     "There are no %s %s trains currently shown going from %s",
	RejectNoDirectRoute:       "There is no direct route between %s and %s on the %s",
	RejectBlankTubeText:       "I need to have a Tube line in order to find the times for it",
	RejectNonexistentLine:     "I couldn't recognise that line (%s) as a Tube line",
	RejectStationNotInSystem:  "TfL don't provide live departure data for %s station :(",
	RejectStationClosed:       "%s station is currently closed %s",
	RejectInvalidDirection:    "I couldn't recognise that direction (%s); try North, East, South or West",
	RejectNoLineSpecified:     "There are several lines serving %s, please specify one",
	RejectNoLineSpecifiedTo:   "There is more than one line serving %s and %s, please specify one",
}

// fatalRejections end the processing of the whole message rather than just
// one route.
var fatalRejections = map[RejectionKind]bool{
	RejectPlaceInfoOnly: true,
	RejectNoGeotag:      true,
	RejectDMNotTaggable: true,
	RejectNotInUK:       true,
	RejectNotInLondon:   true,
	RejectUnknownError:  true,
	RejectProviderDown:  true,
	RejectBlankBusText:  true,
	RejectBlankTubeText: true,
}

// Rejection is a request failure with a user-presentable explanation.
type Rejection struct {
	Kind   RejectionKind
	params []any
}

func Reject(kind RejectionKind, params ...any) *Rejection {
	return &Rejection{Kind: kind, params: params}
}

func (r *Rejection) Error() string {
	return fmt.Sprintf(rejectionMessages[r.Kind], r.params...)
}

func (r *Rejection) Fatal() bool {
	return fatalRejections[r.Kind]
}

// UserMessage is the apology sent back to the user. The explanation is
// bounded at 115 characters so the reply fits alongside a username.
func (r *Rejection) UserMessage() string {
	return "Sorry! " + util.TrimString(r.Error(), 115)
}
