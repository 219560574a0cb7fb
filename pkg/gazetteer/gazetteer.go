package gazetteer

import (
	"context"

	"github.com/whensmy/whensmy/pkg/geo"
	"github.com/whensmy/whensmy/pkg/places"
)

// StopGazetteer answers questions about bus stops. Lookups are scoped to a
// route and a run (directional strand of the route) because the same street
// name matches a different physical stop in each direction.
type StopGazetteer interface {
	// RouteExists reports whether any stop serves the route.
	RouteExists(ctx context.Context, route string) (bool, error)

	// MaxRun returns the highest run number on the route, 0 if none.
	MaxRun(ctx context.Context, route string) (int, error)

	// NearestStop returns the stop on the route/run closest to the point,
	// with DistanceAway populated. Nil when the route/run has no stops.
	NearestStop(ctx context.Context, route string, run int, point geo.Point) (*places.StopPoint, error)

	// StopByCode returns the stop with the given 5-digit code on the
	// route/run, or nil if that code is not on this route/run.
	StopByCode(ctx context.Context, route string, run int, code string) (*places.StopPoint, error)

	// StopCodeExists reports whether the 5-digit code exists at all, on any
	// route. Distinguishes a bad stop ID from a stop ID on the wrong route.
	StopCodeExists(ctx context.Context, code string) (bool, error)

	// FuzzyStop returns the best name match on the route/run at or above
	// the minimum confidence, or nil when nothing reaches it.
	FuzzyStop(ctx context.Context, route string, run int, name string) (*places.StopPoint, error)
}

// StationGazetteer answers questions about rail and DLR stations.
type StationGazetteer interface {
	// NearestStation returns the station closest to the point, optionally
	// restricted to stations on a line. Nil when there are no candidates.
	NearestStation(ctx context.Context, lineCode string, point geo.Point) (*places.Station, error)

	// FuzzyStation returns the best name match at or above the minimum
	// confidence, optionally restricted to stations on a line. Nil when
	// nothing reaches the confidence floor.
	FuzzyStation(ctx context.Context, lineCode string, name string) (*places.Station, error)

	// StationByCode returns the station with the given code, or nil.
	StationByCode(ctx context.Context, code string) (*places.Station, error)
}

// LineTopology answers reachability questions from the ordered station
// sequences of each line branch.
type LineTopology interface {
	// LinesServing returns the codes of the lines calling at the station.
	LinesServing(ctx context.Context, stationCode string) ([]string, error)

	// DirectRouteExists reports whether one train can go from origin to
	// destination on the line, i.e. some branch contains both stations.
	DirectRouteExists(ctx context.Context, originCode string, destinationCode string, lineCode string) (bool, error)

	// DescribeRoute returns the station codes between origin and
	// destination inclusive on the first branch containing both.
	DescribeRoute(ctx context.Context, originCode string, destinationCode string, lineCode string) ([]string, error)
}

// StationStatus reports stations currently shut.
type StationStatus interface {
	// ClosedStations maps the names of closed stations to the published
	// reason text.
	ClosedStations(ctx context.Context) (map[string]string, error)
}
