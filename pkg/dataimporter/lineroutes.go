package dataimporter

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/whensmy/whensmy/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

// lineRouteRecord is one branch of a line, station codes in calling order.
// Trains run both ways along a branch so only one direction is listed.
type lineRouteRecord struct {
	Line     string   `yaml:"line" bson:"linecode"`
	Branch   string   `yaml:"branch" bson:"branch"`
	Stations []string `yaml:"stations" bson:"stations"`
}

func ImportLineRoutes(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var records []lineRouteRecord
	if err := yaml.Unmarshal(contents, &records); err != nil {
		log.Error().Str("file", path).Err(err).Msg("Failed to parse yaml file")
		return err
	}

	var routeOperations []mongo.WriteModel
	for _, record := range records {
		if len(record.Stations) < 2 {
			log.Warn().Str("line", record.Line).Str("branch", record.Branch).Msg("Skipping branch with fewer than two stations")
			continue
		}

		bsonRep, _ := bson.Marshal(record)

		updateModel := mongo.NewReplaceOneModel()
		updateModel.SetFilter(bson.M{"linecode": record.Line, "branch": record.Branch})
		updateModel.SetReplacement(bsonRep)
		updateModel.SetUpsert(true)

		routeOperations = append(routeOperations, updateModel)
	}

	if len(routeOperations) > 0 {
		_, err := database.GetCollection("line_routes").BulkWrite(context.TODO(), routeOperations, &options.BulkWriteOptions{})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to bulk write line routes")
		}
	}

	log.Info().Int("branches", len(routeOperations)).Msg("Written to MongoDB")

	return nil
}
