package gazetteer

import (
	"context"
	"math"

	"github.com/whensmy/whensmy/pkg/geo"
	"github.com/whensmy/whensmy/pkg/places"
	"golang.org/x/exp/slices"
)

// MemoryGazetteer holds the whole gazetteer in slices. Lookups share the
// matching logic with the mongo implementation; only the candidate loading
// differs.
type MemoryGazetteer struct {
	Stops    []places.StopPoint
	Stations []places.Station

	// LineBranches maps a line code to its branches, each an ordered
	// sequence of station codes.
	LineBranches map[string][][]string
}

func (g *MemoryGazetteer) RouteExists(_ context.Context, route string) (bool, error) {
	for i := range g.Stops {
		if g.Stops[i].Route == route {
			return true, nil
		}
	}
	return false, nil
}

func (g *MemoryGazetteer) MaxRun(_ context.Context, route string) (int, error) {
	maxRun := 0
	for i := range g.Stops {
		if g.Stops[i].Route == route && g.Stops[i].Run > maxRun {
			maxRun = g.Stops[i].Run
		}
	}
	return maxRun, nil
}

func (g *MemoryGazetteer) NearestStop(_ context.Context, route string, run int, point geo.Point) (*places.StopPoint, error) {
	var nearest *places.StopPoint
	nearestDistance := math.Inf(1)
	for _, stop := range g.stopsOnRun(route, run) {
		distance := point.DistanceSquaredFrom(geo.Point{Easting: stop.Easting, Northing: stop.Northing})
		if distance < nearestDistance {
			nearest = stop
			nearestDistance = distance
		}
	}

	if nearest != nil {
		nearest.DistanceAway = math.Sqrt(nearestDistance)
	}
	return nearest, nil
}

func (g *MemoryGazetteer) StopByCode(_ context.Context, route string, run int, code string) (*places.StopPoint, error) {
	for _, stop := range g.stopsOnRun(route, run) {
		if stop.Code == code {
			return stop, nil
		}
	}
	return nil, nil
}

func (g *MemoryGazetteer) StopCodeExists(_ context.Context, code string) (bool, error) {
	for i := range g.Stops {
		if g.Stops[i].Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (g *MemoryGazetteer) FuzzyStop(_ context.Context, route string, run int, name string) (*places.StopPoint, error) {
	best, _, ok := places.BestMatch(name, g.stopsOnRun(route, run), places.MinimumMatchConfidence)
	if !ok {
		return nil, nil
	}
	return best, nil
}

func (g *MemoryGazetteer) stopsOnRun(route string, run int) []*places.StopPoint {
	var stops []*places.StopPoint
	for i := range g.Stops {
		if g.Stops[i].Route == route && g.Stops[i].Run == run {
			stop := g.Stops[i]
			stops = append(stops, &stop)
		}
	}
	return stops
}

func (g *MemoryGazetteer) NearestStation(_ context.Context, lineCode string, point geo.Point) (*places.Station, error) {
	var nearest *places.Station
	nearestDistance := math.Inf(1)
	for _, station := range g.stationsOnLine(lineCode) {
		distance := point.DistanceSquaredFrom(geo.Point{Easting: station.Easting, Northing: station.Northing})
		if distance < nearestDistance {
			nearest = station
			nearestDistance = distance
		}
	}
	return nearest, nil
}

func (g *MemoryGazetteer) FuzzyStation(_ context.Context, lineCode string, name string) (*places.Station, error) {
	best, _, ok := places.BestMatch(name, g.stationsOnLine(lineCode), places.MinimumMatchConfidence)
	if !ok {
		return nil, nil
	}
	return best, nil
}

func (g *MemoryGazetteer) stationsOnLine(lineCode string) []*places.Station {
	var candidates []*places.Station
	for i := range g.Stations {
		if lineCode != "" && !slices.Contains(g.Stations[i].Lines, lineCode) {
			continue
		}
		station := g.Stations[i]
		candidates = append(candidates, &station)
	}
	return candidates
}

func (g *MemoryGazetteer) StationByCode(_ context.Context, code string) (*places.Station, error) {
	for i := range g.Stations {
		if g.Stations[i].Code == code {
			station := g.Stations[i]
			return &station, nil
		}
	}
	return nil, nil
}

func (g *MemoryGazetteer) LinesServing(_ context.Context, stationCode string) ([]string, error) {
	for i := range g.Stations {
		if g.Stations[i].Code == stationCode {
			return g.Stations[i].Lines, nil
		}
	}
	return nil, nil
}

func (g *MemoryGazetteer) DirectRouteExists(_ context.Context, originCode string, destinationCode string, lineCode string) (bool, error) {
	return directRouteExists(g.LineBranches[lineCode], originCode, destinationCode), nil
}

func (g *MemoryGazetteer) DescribeRoute(_ context.Context, originCode string, destinationCode string, lineCode string) ([]string, error) {
	return describeRoute(g.LineBranches[lineCode], originCode, destinationCode), nil
}
