package dataimporter

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/whensmy/whensmy/pkg/database"
	"github.com/whensmy/whensmy/pkg/geo"
	"github.com/whensmy/whensmy/pkg/places"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// stationRecord is one row of the stations extract. Lines is a semicolon
// separated list of line codes. Rows carry either grid coordinates or a GPS
// latitude/longitude pair; grid coordinates win when both are present.
type stationRecord struct {
	Name      string  `csv:"Name"`
	Code      string  `csv:"Code"`
	Lines     string  `csv:"Lines"`
	Inner     string  `csv:"Inner"`
	Outer     string  `csv:"Outer"`
	Easting   float64 `csv:"Location_Easting"`
	Northing  float64 `csv:"Location_Northing"`
	Latitude  float64 `csv:"Latitude"`
	Longitude float64 `csv:"Longitude"`
}

func ImportStations(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	var records []stationRecord
	if err := gocsv.Unmarshal(file, &records); err != nil {
		log.Error().Str("file", path).Err(err).Msg("Failed to parse csv file")
		return err
	}

	var stationOperations []mongo.WriteModel
	for _, record := range records {
		easting, northing := record.Easting, record.Northing
		if easting == 0 && northing == 0 {
			point, err := geo.FromWGS84(record.Latitude, record.Longitude)
			if err != nil {
				log.Warn().Str("station", record.Name).Err(err).Msg("Skipping station with no usable position")
				continue
			}
			easting, northing = point.Easting, point.Northing
		}

		var lines []string
		for _, line := range strings.Split(record.Lines, ";") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}

		station := places.Station{
			Name:     record.Name,
			Code:     record.Code,
			Easting:  easting,
			Northing: northing,
			Inner:    record.Inner,
			Outer:    record.Outer,
			Lines:    lines,
		}

		bsonRep, _ := bson.Marshal(station)

		updateModel := mongo.NewReplaceOneModel()
		updateModel.SetFilter(bson.M{"code": station.Code})
		updateModel.SetReplacement(bsonRep)
		updateModel.SetUpsert(true)

		stationOperations = append(stationOperations, updateModel)
	}

	if len(stationOperations) > 0 {
		_, err := database.GetCollection("stations").BulkWrite(context.TODO(), stationOperations, &options.BulkWriteOptions{})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to bulk write stations")
		}
	}

	log.Info().Int("stations", len(stationOperations)).Msg("Written to MongoDB")

	return nil
}
