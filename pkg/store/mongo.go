package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/elkscene/elkscene/pkg/errors"
)

// MongoConfig configures the MongoDB-backed archive.
type MongoConfig struct {
	// URI is the MongoDB connection string (mongodb://host:port).
	URI string

	// Database holds the runs collection. Defaults to "elkscene".
	Database string

	// Collection stores the run documents. Defaults to "runs".
	Collection string
}

// MongoArchive stores runs in a MongoDB collection.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection

	indexOnce sync.Once
}

// NewMongoArchive connects to MongoDB and verifies the connection.
func NewMongoArchive(ctx context.Context, cfg MongoConfig) (*MongoArchive, error) {
	if cfg.Database == "" {
		cfg.Database = "elkscene"
	}
	if cfg.Collection == "" {
		cfg.Collection = "runs"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo at %s: %w", cfg.URI, err)
	}

	return &MongoArchive{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put records a completed run.
func (a *MongoArchive) Put(ctx context.Context, run *Run) error {
	a.ensureIndex(ctx)
	if _, err := a.coll.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (a *MongoArchive) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := a.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "run %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	return &run, nil
}

// List returns the most recent runs, newest first.
func (a *MongoArchive) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := a.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	var runs []*Run
	if err := cur.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return runs, nil
}

// Close disconnects from MongoDB.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

// ensureIndex creates the created_at sort index once per process. Index
// failures don't fail writes, List just runs unindexed.
func (a *MongoArchive) ensureIndex(ctx context.Context) {
	a.indexOnce.Do(func() {
		_, _ = a.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		})
	})
}

var _ Archive = (*MongoArchive)(nil)
