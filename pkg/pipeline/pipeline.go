// Package pipeline provides the core layout pipeline for elkscene.
//
// This package implements the layout → transform pipeline shared by the CLI
// and the HTTP server. By centralizing this logic, caching, logging, and
// hook behavior stay identical across all entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: send the abstract graph to a layout engine and collect the
//     positioned answer. Answers are cached by graph content and engine
//     fingerprint.
//  2. Transform: flatten the positioned graph into a scene tree. Never
//     cached; the transform is cheap and generates fresh label ids per run.
//
// Engines configured for scene responses collapse both stages into one
// exchange: the engine side runs the transform and stage 2 is skipped.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    GraphPath: "diagram.json",
//	    Engine:    engine.Config{Kind: engine.KindGraphviz},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	scene.WriteSceneFile(result.Scene, "out.json")
//
// Run individual stages:
//
//	// Layout with an in-memory graph
//	laid, err := runner.Layout(ctx, g, opts)
//
//	// Transform an already positioned graph
//	sc, err := runner.Transform(laid, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/elkscene/elkscene/pkg/elk"
	"github.com/elkscene/elkscene/pkg/engine"
	"github.com/elkscene/elkscene/pkg/errors"
	"github.com/elkscene/elkscene/pkg/scene"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input: an in-memory graph or a path to read one from.
	// Graph wins when both are set.
	Graph     *elk.Graph `json:"graph,omitempty"`
	GraphPath string     `json:"graph_path,omitempty"`

	// Engine selects and parameterizes the layout engine.
	Engine engine.Config `json:"engine,omitempty"`

	// Retries is the number of extra attempts for retryable engine
	// failures. Zero means a single attempt: the pipeline never retries
	// unless the caller asks for it.
	Retries int `json:"retries,omitempty"`

	// Raw stops after the layout stage and returns the positioned graph
	// without a scene. Unavailable with scene-mode engines.
	Raw bool `json:"raw,omitempty"`

	// IDWidth is the zero-pad width for generated label ids.
	// Zero means scene.DefaultIDWidth.
	IDWidth int `json:"id_width,omitempty"`

	// NoCache bypasses the cache entirely.
	NoCache bool `json:"no_cache,omitempty"`

	// Refresh recomputes the layout and overwrites the cached answer.
	Refresh bool `json:"refresh,omitempty"`

	// Archive records the completed run in the run archive.
	Archive bool `json:"archive,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Graph == nil && o.GraphPath == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "graph or graph_path is required")
	}
	if err := o.Engine.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Raw && o.SceneMode() {
		return errors.New(errors.ErrCodeInvalidConfig, "raw layout output is unavailable when the engine answers with scenes")
	}

	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.IDWidth <= 0 {
		o.IDWidth = scene.DefaultIDWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// SceneMode reports whether the engine answers with pre-transformed scene
// documents instead of positioned graphs.
func (o *Options) SceneMode() bool {
	return o.Engine.Response == engine.ResponseScene
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the positioned graph. Nil when the engine answered with a
	// scene document directly.
	Graph *elk.Graph

	// GraphHash is the content hash of the input graph document.
	GraphHash string

	// Scene is the flattened scene tree. Nil when Raw was requested.
	Scene *scene.Element

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	EdgeCount     int
	ElementCount  int
	LayoutTime    time.Duration
	TransformTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage. Only the layout
// stage is cacheable; the transform always runs fresh.
type CacheInfo struct {
	LayoutHit bool
}
