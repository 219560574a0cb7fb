package places

import (
	"fmt"
)

// Location is any named place a request can resolve to - a bus stop or a
// rail/DLR station.
type Location interface {
	PlaceName() string
}

// StopPoint is a bus stop. Run groups the stops of a route into directional
// strands: a route typically has two (one per direction) but can have more.
type StopPoint struct {
	Name     string  `bson:"name" groups:"basic"`
	Code     string  `bson:"code" groups:"basic"`
	Route    string  `bson:"route" groups:"basic"`
	Heading  int     `bson:"heading" groups:"detailed"`
	Sequence int     `bson:"sequence" groups:"detailed"`
	Run      int     `bson:"run" groups:"basic"`
	Easting  float64 `bson:"easting" groups:"detailed"`
	Northing float64 `bson:"northing" groups:"detailed"`

	// DistanceAway is transient - only set on results of a nearest-stop query.
	DistanceAway float64 `bson:"-" groups:"detailed"`
}

func (s *StopPoint) PlaceName() string {
	return s.Name
}

// Key identifies a stop for slot equality, combining the run with the
// normalised name so the same physical stop matched twice collapses.
func (s *StopPoint) Key() string {
	return fmt.Sprintf("%d,%s", s.Run, s.NormalisedName())
}

// CleanName strips TfL's ASCII symbols for Tube, National Rail, DLR & Tram
// from the stop's name.
func (s *StopPoint) CleanName() string {
	return CleanupName(s.Name, []string{"<>", "#", `\[DLR\]`, ">T<"})
}

// NormalisedName returns the name in comparison form - upper-cased,
// road-type words abbreviated, filler words and punctuation gone.
func (s *StopPoint) NormalisedName() string {
	return NormaliseStopName(s.CleanName())
}

// Station is a rail or DLR station. Inner and Outer carry the compass
// prefixes used to translate "Inner Rail"/"Outer Rail" platform names on
// circular lines into customer-facing directions.
type Station struct {
	Name     string  `bson:"name" groups:"basic"`
	Code     string  `bson:"code" groups:"basic"`
	Easting  float64 `bson:"easting" groups:"detailed"`
	Northing float64 `bson:"northing" groups:"detailed"`
	Inner    string  `bson:"inner" groups:"detailed"`
	Outer    string  `bson:"outer" groups:"detailed"`

	Lines []string `bson:"lines" groups:"basic"`
}

func (s *Station) PlaceName() string {
	return s.Name
}

// IsCorrectDirection reports whether travelling from this station towards
// the destination matches the named compass direction, judged on the OS
// coordinates of the two stations.
func (s *Station) IsCorrectDirection(direction string, destination *Station) bool {
	switch direction {
	case "Eastbound":
		return destination.Easting > s.Easting
	case "Westbound":
		return destination.Easting < s.Easting
	case "Northbound":
		return destination.Northing > s.Northing
	case "Southbound":
		return destination.Northing < s.Northing
	}
	return false
}
