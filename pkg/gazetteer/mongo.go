package gazetteer

import (
	"context"
	"errors"
	"math"

	"github.com/whensmy/whensmy/pkg/database"
	"github.com/whensmy/whensmy/pkg/geo"
	"github.com/whensmy/whensmy/pkg/places"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/exp/slices"
)

// MongoGazetteer serves stop, station and topology lookups from the mongo
// collections written by the data importer. Nearest-stop and fuzzy matching
// run in Go over the candidate set for one route/run, which is at most a few
// dozen stops.
type MongoGazetteer struct{}

func NewMongoGazetteer() *MongoGazetteer {
	return &MongoGazetteer{}
}

// lineRouteDocument is one branch of a line as an ordered station sequence.
type lineRouteDocument struct {
	LineCode string   `bson:"linecode"`
	Branch   string   `bson:"branch"`
	Stations []string `bson:"stations"`
}

func (g *MongoGazetteer) RouteExists(ctx context.Context, route string) (bool, error) {
	count, err := database.GetCollection("bus_stops").CountDocuments(ctx, bson.M{"route": route}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *MongoGazetteer) MaxRun(ctx context.Context, route string) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "run", Value: -1}})

	var stop places.StopPoint
	err := database.GetCollection("bus_stops").FindOne(ctx, bson.M{"route": route}, opts).Decode(&stop)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return stop.Run, nil
}

func (g *MongoGazetteer) NearestStop(ctx context.Context, route string, run int, point geo.Point) (*places.StopPoint, error) {
	stops, err := g.stopsOnRun(ctx, route, run)
	if err != nil {
		return nil, err
	}

	var nearest *places.StopPoint
	nearestDistance := math.Inf(1)
	for _, stop := range stops {
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

func (g *MongoGazetteer) StopByCode(ctx context.Context, route string, run int, code string) (*places.StopPoint, error) {
	var stop places.StopPoint
	err := database.GetCollection("bus_stops").FindOne(ctx, bson.M{"route": route, "run": run, "code": code}).Decode(&stop)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stop, nil
}

func (g *MongoGazetteer) StopCodeExists(ctx context.Context, code string) (bool, error) {
	count, err := database.GetCollection("bus_stops").CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *MongoGazetteer) FuzzyStop(ctx context.Context, route string, run int, name string) (*places.StopPoint, error) {
	stops, err := g.stopsOnRun(ctx, route, run)
	if err != nil {
		return nil, err
	}

	best, _, ok := places.BestMatch(name, stops, places.MinimumMatchConfidence)
	if !ok {
		return nil, nil
	}
	return best, nil
}

func (g *MongoGazetteer) stopsOnRun(ctx context.Context, route string, run int) ([]*places.StopPoint, error) {
	cursor, err := database.GetCollection("bus_stops").Find(ctx, bson.M{"route": route, "run": run})
	if err != nil {
		return nil, err
	}

	var stops []*places.StopPoint
	if err := cursor.All(ctx, &stops); err != nil {
		return nil, err
	}
	return stops, nil
}

func (g *MongoGazetteer) NearestStation(ctx context.Context, lineCode string, point geo.Point) (*places.Station, error) {
	stations, err := g.stationsOnLine(ctx, lineCode)
	if err != nil {
		return nil, err
	}

	var nearest *places.Station
	nearestDistance := math.Inf(1)
	for _, station := range stations {
		distance := point.DistanceSquaredFrom(geo.Point{Easting: station.Easting, Northing: station.Northing})
		if distance < nearestDistance {
			nearest = station
			nearestDistance = distance
		}
	}
	return nearest, nil
}

func (g *MongoGazetteer) FuzzyStation(ctx context.Context, lineCode string, name string) (*places.Station, error) {
	stations, err := g.stationsOnLine(ctx, lineCode)
	if err != nil {
		return nil, err
	}

	best, _, ok := places.BestMatch(name, stations, places.MinimumMatchConfidence)
	if !ok {
		return nil, nil
	}
	return best, nil
}

func (g *MongoGazetteer) stationsOnLine(ctx context.Context, lineCode string) ([]*places.Station, error) {
	filter := bson.M{}
	if lineCode != "" {
		filter["lines"] = lineCode
	}

	cursor, err := database.GetCollection("stations").Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var stations []*places.Station
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

func (g *MongoGazetteer) StationByCode(ctx context.Context, code string) (*places.Station, error) {
	var station places.Station
	err := database.GetCollection("stations").FindOne(ctx, bson.M{"code": code}).Decode(&station)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &station, nil
}

func (g *MongoGazetteer) LinesServing(ctx context.Context, stationCode string) ([]string, error) {
	station, err := g.StationByCode(ctx, stationCode)
	if err != nil || station == nil {
		return nil, err
	}
	return station.Lines, nil
}

func (g *MongoGazetteer) DirectRouteExists(ctx context.Context, originCode string, destinationCode string, lineCode string) (bool, error) {
	branches, err := g.lineBranches(ctx, lineCode)
	if err != nil {
		return false, err
	}
	return directRouteExists(branches, originCode, destinationCode), nil
}

func (g *MongoGazetteer) DescribeRoute(ctx context.Context, originCode string, destinationCode string, lineCode string) ([]string, error) {
	branches, err := g.lineBranches(ctx, lineCode)
	if err != nil {
		return nil, err
	}
	return describeRoute(branches, originCode, destinationCode), nil
}

func (g *MongoGazetteer) lineBranches(ctx context.Context, lineCode string) ([][]string, error) {
	cursor, err := database.GetCollection("line_routes").Find(ctx, bson.M{"linecode": lineCode})
	if err != nil {
		return nil, err
	}

	var documents []lineRouteDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, err
	}

	branches := make([][]string, 0, len(documents))
	for _, document := range documents {
		branches = append(branches, document.Stations)
	}
	return branches, nil
}

// directRouteExists is true when some branch contains both stations; trains
// run both ways along a branch so the order within it does not matter.
func directRouteExists(branches [][]string, originCode string, destinationCode string) bool {
	for _, branch := range branches {
		if slices.Contains(branch, originCode) && slices.Contains(branch, destinationCode) {
			return true
		}
	}
	return false
}

func describeRoute(branches [][]string, originCode string, destinationCode string) []string {
	for _, branch := range branches {
		from, to := slices.Index(branch, originCode), slices.Index(branch, destinationCode)
		if from < 0 || to < 0 {
			continue
		}
		if from <= to {
			return append([]string{}, branch[from:to+1]...)
		}

		route := append([]string{}, branch[to:from+1]...)
		for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
			route[i], route[j] = route[j], route[i]
		}
		return route
	}
	return nil
}
