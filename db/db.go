package db

import (
	"context"
	"fmt"
	"time"

	"obiabedidi/globals"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo holds the client and the collections the service uses.
type Mongo struct {
	Client            *mongo.Client
	RecipesCollection *mongo.Collection
	UsersCollection   *mongo.Collection
}

// Connect dials uri, pings the primary and ensures the listing indexes exist.
func Connect(ctx context.Context, uri, database string) (*Mongo, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	m := &Mongo{
		Client:            client,
		RecipesCollection: client.Database(database).Collection(globals.RecipesCollection),
		UsersCollection:   client.Database(database).Collection(globals.UsersCollection),
	}
	if err := m.createIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("creating recipe indexes")
	}
	return m, nil
}

func (m *Mongo) createIndexes(ctx context.Context) error {
	_, err := m.RecipesCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "isPublic", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
