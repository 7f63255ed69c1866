package database

import (
	"context"
	"fmt"
	"time"

	"github.com/familygrove/familygrove/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes the MongoDB connection and verifies it with a ping.
func ConnectDB(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %v", err)
	}

	logrus.WithField("database", cfg.DBName).Info("Connected to MongoDB")
	return client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the unique indexes the application invariants rely
// on: one user per mobile number, and one family per name and per join
// code so the shared-family bootstrap cannot fork the tenant under a race.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mobile", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}

	familyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "family_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("families").Indexes().CreateMany(ctx, familyIndexes); err != nil {
		return fmt.Errorf("failed to create family indexes: %v", err)
	}

	contentIndexes := map[string]bson.D{
		"posts":    {{Key: "family", Value: 1}, {Key: "created_at", Value: -1}},
		"messages": {{Key: "family", Value: 1}, {Key: "created_at", Value: -1}},
		"events":   {{Key: "family", Value: 1}, {Key: "event_date", Value: 1}},
		"memories": {{Key: "family", Value: 1}, {Key: "memory_date", Value: -1}},
	}
	for collection, keys := range contentIndexes {
		_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys})
		if err != nil {
			return fmt.Errorf("failed to create %s indexes: %v", collection, err)
		}
	}

	// Notifications expire on their own once past expires_at.
	_, err := db.Collection("notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %v", err)
	}

	logrus.Info("Database indexes ensured")
	return nil
}
