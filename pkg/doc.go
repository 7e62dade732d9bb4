// Package pkg provides the core libraries for elkscene graph layout.
//
// # Overview
//
// elkscene sends ELK JSON graphs to an external layout engine and transforms
// the positioned result into a flat-addressable scene tree. The pkg
// directory is organized into four main areas:
//
//  1. [elk] - Graph document model (hierarchy, edges, engine options)
//  2. [engine] - Layout engine client (exec, pipe, http, graphviz transports)
//  3. [scene] - Scene element trees and the layout-to-scene transform
//  4. [pipeline] - Orchestration (load → layout → transform) with caching
//
// # Architecture
//
// The typical data flow through elkscene:
//
//	ELK graph JSON
//	         ↓
//	    [elk] package (parse + validate)
//	         ↓
//	    [engine] package (layout round trip)
//	         ↓
//	    [scene] package (positioned graph → element tree)
//	         ↓
//	    scene JSON output
//
// # Quick Start
//
// Lay out a graph and write the scene tree:
//
//	import (
//	    "context"
//	    "github.com/elkscene/elkscene/pkg/elk"
//	    "github.com/elkscene/elkscene/pkg/engine"
//	    "github.com/elkscene/elkscene/pkg/pipeline"
//	    "github.com/elkscene/elkscene/pkg/scene"
//	)
//
//	// 1. Load the graph
//	g, _ := elk.ReadGraphFile("diagram.json")
//
//	// 2. Run the pipeline
//	runner := pipeline.NewRunner(nil, nil, nil, nil)
//	defer runner.Close()
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Graph:  g,
//	    Engine: engine.Config{Kind: engine.KindGraphviz},
//	})
//
//	// 3. Write the scene tree
//	_ = scene.WriteSceneFile(result.Scene, "diagram.scene.json")
//
// # Main Packages
//
// ## Graph Model
//
// [elk] - The ELK JSON graph interchange format: hierarchical nodes, ports,
// labels, and edges in both the primitive (source/target) and extended
// (sources/targets) wire variants. Provides serialization, file IO, and
// edge endpoint classification.
//
// [scene] - The scene element tree produced from a positioned graph. Every
// element carries a type tag, resolved geometry, and for edges the routed
// point sequence. [scene.Transform] runs the complete transform; elements
// support walking, counting, and id lookup.
//
// ## Layout Engines
//
// [engine] - Client for external layout engines with four transports:
// exec (one process per request), pipe (long-running process with
// newline-delimited framing), http (remote service), and graphviz (builtin,
// no external process). Engines are probed for availability and report a
// fingerprint for cache keying.
//
// ## Orchestration
//
// [pipeline] - Complete layout pipeline (load → layout → transform) used by
// CLI and server. Handles layout caching, scene caching for engines that
// transform remotely, transport retries, and run archiving.
//
// ## Infrastructure
//
// [cache] - Layout and scene caching behind a single interface:
//
//   - FileCache: content-addressed files for the CLI
//   - MemoryCache: in-process, for single-instance servers and tests
//   - RedisCache: shared cache for server deployments
//   - NullCache: caching disabled
//
// [store] - Run archive for layout history. MongoArchive persists runs to
// MongoDB, NullArchive discards them.
//
// [errors] - Coded errors shared across packages. Codes classify failures
// (structural, transport, configuration) for exit codes and API responses.
//
// [httputil] - Retry with backoff and retryable error classification, used
// by the http transport and the pipeline's opt-in transport retries.
//
// [observability] - Instrumentation hooks for pipeline stages, engine
// exchanges, and cache operations. No-ops unless registered.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Common Workflows
//
// Lay out without the pipeline:
//
//	client, _ := engine.NewClient(engine.Config{Kind: engine.KindGraphviz})
//	defer client.Close()
//	positioned, _ := client.Layout(ctx, g)
//
// Transform an already positioned graph:
//
//	root, _ := scene.Transform(positioned)
//	root.Walk(func(el *scene.Element) {
//	    fmt.Println(el.Type, el.ID)
//	})
//
// Address elements by id:
//
//	if el := root.Find("controller"); el != nil {
//	    fmt.Println(el.Position, el.Size)
//	}
//
// Cache layouts across runs:
//
//	c, _ := cache.NewFileCache("")
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/scene/...    # Specific package
//	go test -run Example       # Examples only
//
// [elk]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/elk
// [engine]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/engine
// [scene]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/scene
// [scene.Transform]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/scene#Transform
// [pipeline]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/cache
// [store]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/store
// [errors]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/elkscene/elkscene/pkg/buildinfo
package pkg
