package dataimporter

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/whensmy/whensmy/pkg/database"
	"github.com/whensmy/whensmy/pkg/places"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// busStopRecord is one row of the TfL routes extract. A stop appears once per
// route and run it serves, so the same SMS code can occur on many rows.
type busStopRecord struct {
	Route    string  `csv:"Route"`
	Run      int     `csv:"Run"`
	Sequence int     `csv:"Sequence"`
	Code     string  `csv:"Bus_Stop_Code"`
	Name     string  `csv:"Stop_Name"`
	Heading  int     `csv:"Heading"`
	Easting  float64 `csv:"Location_Easting"`
	Northing float64 `csv:"Location_Northing"`
}

func ImportBusStops(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	var records []busStopRecord
	if err := gocsv.Unmarshal(file, &records); err != nil {
		log.Error().Str("file", path).Err(err).Msg("Failed to parse csv file")
		return err
	}

	var stopOperations []mongo.WriteModel
	for _, record := range records {
		stop := places.StopPoint{
			Name:     record.Name,
			Code:     record.Code,
			Route:    record.Route,
			Heading:  record.Heading,
			Sequence: record.Sequence,
			Run:      record.Run,
			Easting:  record.Easting,
			Northing: record.Northing,
		}

		bsonRep, _ := bson.Marshal(stop)

		updateModel := mongo.NewReplaceOneModel()
		updateModel.SetFilter(bson.M{"route": stop.Route, "run": stop.Run, "code": stop.Code})
		updateModel.SetReplacement(bsonRep)
		updateModel.SetUpsert(true)

		stopOperations = append(stopOperations, updateModel)
	}

	if len(stopOperations) > 0 {
		_, err := database.GetCollection("bus_stops").BulkWrite(context.TODO(), stopOperations, &options.BulkWriteOptions{})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to bulk write bus stops")
		}
	}

	log.Info().Int("stops", len(stopOperations)).Msg("Written to MongoDB")

	return nil
}
