package departures

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/whensmy/whensmy/pkg/places"
)

// Departure is a single scheduled bus or train leaving a stop or station.
type Departure interface {
	// DestinationLabel is the display form of the destination, as rendered
	// on a departure board line.
	DestinationLabel() string
	// DestinationName is the raw destination used for matching and merging,
	// with any "via" annotation removed.
	DestinationName() string
	// Time is the wall-clock departure time.
	Time() time.Time
	// TimeLabel is the 24-hour clock rendering of the time, or blank when
	// there is nothing to show.
	TimeLabel() string
	// Key identifies the departure for deduplication.
	Key() string
}

// ParseTime turns an "HHMM" clock reading into a full time on now's date.
// Clock readings carry no date, so if the current hour is more than one
// ahead of the reading's hour the departure is assumed to be on the next
// calendar day. This is a heuristic with known flakiness around midnight;
// its behaviour is relied upon and must not be "fixed".
func ParseTime(hhmm string, now time.Time) (time.Time, error) {
	clock, err := time.Parse("1504", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing departure time %q: %w", hhmm, err)
	}

	departure := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	if now.Hour() > clock.Hour()+1 {
		departure = departure.AddDate(0, 0, 1)
	}
	return departure, nil
}

type baseDeparture struct {
	destination   string
	departureTime time.Time
}

func (d baseDeparture) DestinationLabel() string {
	return d.destination
}

var viaSuffix = regexp.MustCompile(`(?i) \(?via .*$`)

func (d baseDeparture) DestinationName() string {
	return viaSuffix.ReplaceAllString(d.destination, "")
}

func (d baseDeparture) Time() time.Time {
	return d.departureTime
}

func (d baseDeparture) TimeLabel() string {
	return d.departureTime.Format("1504")
}

func (d baseDeparture) Key() string {
	return d.destination + "-" + d.TimeLabel()
}

// Bus is a bus departure. The boarding point is carried separately because
// bus stop names for the same place differ by direction.
type Bus struct {
	baseDeparture
	BoardingPoint string
}

func NewBus(destination string, hhmm string, boardingPoint string, now time.Time) (*Bus, error) {
	departureTime, err := ParseTime(hhmm, now)
	if err != nil {
		return nil, err
	}
	return &Bus{
		baseDeparture: baseDeparture{destination: destination, departureTime: departureTime},
		BoardingPoint: boardingPoint,
	}, nil
}

// Train is a rail or DLR departure. Destinations can be unknown or carry a
// "via" annotation, and the departure may only be identified by direction.
type Train struct {
	baseDeparture
	Direction string
}

func NewTrain(destination string, hhmm string, direction string, now time.Time) (*Train, error) {
	departureTime, err := ParseTime(hhmm, now)
	if err != nil {
		return nil, err
	}
	return &Train{
		baseDeparture: baseDeparture{destination: destination, departureTime: departureTime},
		Direction:     direction,
	}, nil
}

func (t *Train) DestinationLabel() string {
	if t.destination == "Unknown" {
		return t.Direction + " Train"
	}
	return places.AbbreviateStationName(t.destination)
}

// RawDestination is the destination text exactly as the feed supplied it.
func (t *Train) RawDestination() string {
	return t.destination
}

// SetDestination replaces the feed's destination text, normally with the
// canonical station name once the resolver has matched it.
func (t *Train) SetDestination(destination string) {
	t.destination = destination
}

var tubeDestinationTranslations = map[string]string{
	"Heathrow T123 + 5": "Heathrow Terminal 5",
}

// Depot names, shunting instructions and platform numbers that TrackerNet
// mixes into destination text.
var tubeDestinationUndesirables = []string{
	`\(rev to .*\)`,
	`sidings?\b.*$`,
	`(then )?depot`,
	`ex (barnet|edgware) branch`,
	`\(ex .*\)`,
	`/ london road`,
	`27 Road`,
	`\(plat\. [0-9]+\)`,
	` loop`,
	`\(circle\)`,
}

var andWord = regexp.MustCompile(`(?i)\band\b`)

// TubeTrain is a Tube departure. TrackerNet destination text is full of
// garbage, so the constructor boils line names and instructions down to
// either a clean station name or "Unknown".
type TubeTrain struct {
	Train
	SetNumber       string
	LineCode        string
	DestinationCode string
}

func NewTubeTrain(destination string, direction string, hhmm string, setNumber string, lineCode string, destinationCode string, now time.Time) (*TubeTrain, error) {
	if translation, ok := tubeDestinationTranslations[destination]; ok {
		destination = translation
	}
	destination = andWord.ReplaceAllString(destination, "&")

	if destination == "Unknown" || destination == "Circle & Hammersmith & City" ||
		strings.HasPrefix(destination, "Circle Line") ||
		strings.HasSuffix(destination, "Train") || strings.HasSuffix(destination, "Line") {
		destination = "Unknown"
	} else {
		destination = places.CleanupName(destination, tubeDestinationUndesirables)
	}

	train, err := NewTrain(destination, hhmm, direction, now)
	if err != nil {
		return nil, err
	}
	return &TubeTrain{
		Train:           *train,
		SetNumber:       setNumber,
		LineCode:        lineCode,
		DestinationCode: destinationCode,
	}, nil
}

func (t *TubeTrain) Key() string {
	return strings.Join([]string{t.SetNumber, t.DestinationCode, t.TimeLabel()}, " ")
}

// NullDeparture is the sentinel shown when a slot has nothing scheduled.
// It carries only the direction or platform label it stands in for.
type NullDeparture struct {
	Direction     string
	departureTime time.Time
}

func NewNullDeparture(direction string, now time.Time) *NullDeparture {
	return &NullDeparture{Direction: direction, departureTime: now}
}

func (n *NullDeparture) DestinationLabel() string {
	return "None shown going " + n.Direction
}

func (n *NullDeparture) DestinationName() string {
	return "None"
}

func (n *NullDeparture) Time() time.Time {
	return n.departureTime
}

func (n *NullDeparture) TimeLabel() string {
	return ""
}

func (n *NullDeparture) Key() string {
	return n.DestinationLabel()
}
