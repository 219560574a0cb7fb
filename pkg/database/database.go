package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/whensmy/whensmy/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

const defaultMongoConnectionString = "mongodb://localhost:27017/"
const defaultMongoDatabase = "whensmy"

func Connect() error {
	connectionString := defaultMongoConnectionString
	dbName := defaultMongoDatabase

	env := util.GetEnvironmentVariables()

	if env["WHENSMY_MONGODB_CONNECTION"] != "" {
		connectionString = env["WHENSMY_MONGODB_CONNECTION"]
	}

	if env["WHENSMY_MONGODB_DATABASE"] != "" {
		dbName = env["WHENSMY_MONGODB_DATABASE"]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return err
	}

	database := client.Database(dbName)

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: database,
	}

	err = client.Ping(context.Background(), nil)
	if err != nil {
		return err
	}

	createIndexes()

	return nil
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}

func createIndexes() {
	stopsCollection := GetCollection("bus_stops")
	stopsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "route", Value: 1}, {Key: "run", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "code", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := stopsCollection.Indexes().CreateMany(context.Background(), stopsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	stationsCollection := GetCollection("stations")
	stationsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "code", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "lines", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = stationsCollection.Indexes().CreateMany(context.Background(), stationsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	lineRoutesCollection := GetCollection("line_routes")
	lineRoutesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "linecode", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = lineRoutesCollection.Indexes().CreateMany(context.Background(), lineRoutesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
