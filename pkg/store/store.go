// Package store archives completed layout runs for history and debugging.
//
// Every archived run records the input graph hash, the engine that produced
// the layout, the finished scene document, and timing data. The archive is
// append-mostly: runs are written by the pipeline and read back by the CLI
// history commands and the server's runs endpoints.
//
// Two backends implement the Archive interface:
//   - mongo: MongoDB-backed archive for server deployments
//   - null: drops writes, for runs that should leave no trace
//
// # Usage
//
// Create an archive:
//
//	// Server
//	archive, err := store.NewMongoArchive(ctx, store.MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
//	// Archiving disabled
//	archive := store.NewNullArchive()
//
// Record and inspect runs:
//
//	run := store.NewRun(graphHash, "graphviz:dot", 42, elapsed, sceneJSON)
//	if err := archive.Put(ctx, run); err != nil {
//	    return err
//	}
//
//	recent, err := archive.List(ctx, 10)
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps List results when the caller passes no limit.
const DefaultListLimit = 20

// Run is one archived layout execution.
type Run struct {
	ID        string        `bson:"_id" json:"id"`
	GraphHash string        `bson:"graph_hash" json:"graph_hash"`
	Engine    string        `bson:"engine" json:"engine"`
	Elements  int           `bson:"elements" json:"elements"`
	Duration  time.Duration `bson:"duration" json:"duration"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	SceneJSON []byte        `bson:"scene_json" json:"scene_json,omitempty"`
}

// NewRun creates a run record with a fresh ID and the current time.
func NewRun(graphHash, engine string, elements int, duration time.Duration, sceneJSON []byte) *Run {
	return &Run{
		ID:        uuid.NewString(),
		GraphHash: graphHash,
		Engine:    engine,
		Elements:  elements,
		Duration:  duration,
		CreatedAt: time.Now().UTC(),
		SceneJSON: sceneJSON,
	}
}

// Archive is the interface for run storage backends.
type Archive interface {
	// Put records a completed run.
	Put(ctx context.Context, run *Run) error

	// Get retrieves a run by ID.
	// Returns an error with code NOT_FOUND if the run doesn't exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns the most recent runs, newest first. A limit of zero or
	// less falls back to DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Close releases the backend connection.
	Close(ctx context.Context) error
}
