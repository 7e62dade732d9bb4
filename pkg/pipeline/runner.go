package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/elkscene/elkscene/pkg/cache"
	"github.com/elkscene/elkscene/pkg/elk"
	"github.com/elkscene/elkscene/pkg/engine"
	"github.com/elkscene/elkscene/pkg/errors"
	"github.com/elkscene/elkscene/pkg/httputil"
	"github.com/elkscene/elkscene/pkg/observability"
	"github.com/elkscene/elkscene/pkg/scene"
	"github.com/elkscene/elkscene/pkg/store"
)

// retryDelay is the initial backoff between opt-in transport retries.
const retryDelay = time.Second

// Runner encapsulates pipeline execution with caching and run archiving.
// Both CLI and server use this to avoid duplicating that logic.
//
// The Runner is stateless except for the cache, archive, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Archive store.Archive
	Logger  *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If archive is nil, a NullArchive is used (no run history).
func NewRunner(c cache.Cache, keyer cache.Keyer, archive store.Archive, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if archive == nil {
		archive = store.NewNullArchive()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Archive: archive,
		Logger:  logger,
	}
}

// Execute runs the complete layout → transform pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	g, err := r.loadGraph(opts)
	if err != nil {
		return nil, err
	}

	graphDoc, err := elk.MarshalGraphCompact(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph cannot be serialized")
	}

	result := &Result{GraphHash: cache.Hash(graphDoc)}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Stage 1: Layout
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(opts.Engine.Kind), result.Stats.NodeCount)
	layoutStart := time.Now()

	var sc *scene.Element
	var layoutHit bool
	if opts.SceneMode() {
		sc, layoutHit, err = r.SceneWithCacheInfo(ctx, g, opts)
	} else {
		result.Graph, layoutHit, err = r.LayoutWithCacheInfo(ctx, g, opts)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, string(opts.Engine.Kind), result.Stats.LayoutTime, layoutHit, err)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("layout complete",
		"engine", opts.Engine.Kind,
		"nodes", result.Stats.NodeCount,
		"cache", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Transform (skipped when the engine already answered with a
	// scene, or when the caller asked for the raw positioned graph)
	if sc == nil && !opts.Raw {
		hooks.OnTransformStart(ctx)
		transformStart := time.Now()
		sc, err = scene.TransformWithOptions(result.Graph, scene.Options{IDWidth: opts.IDWidth})
		result.Stats.TransformTime = time.Since(transformStart)
		hooks.OnTransformComplete(ctx, countElements(sc), result.Stats.TransformTime, err)
		if err != nil {
			return nil, err
		}

		r.Logger.Info("transform complete",
			"elements", countElements(sc),
			"duration", result.Stats.TransformTime)
	}

	if sc != nil {
		result.Scene = sc
		result.Stats.ElementCount = countElements(sc)
	}

	// Record the run. Archive failures never fail the pipeline.
	if opts.Archive && result.Scene != nil {
		if err := r.archiveRun(ctx, opts, result); err != nil {
			r.Logger.Warn("archive run", "error", err)
		}
	}

	return result, nil
}

// LayoutWithCacheInfo computes the positioned graph with caching and
// returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *elk.Graph, opts Options) (*elk.Graph, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	graphDoc, err := elk.MarshalGraphCompact(g)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph cannot be serialized")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphDoc), opts.Engine.Fingerprint())

	// Try cache first (unless bypassed)
	if !opts.NoCache && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if laid, err := elk.UnmarshalGraph(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return laid, true, nil // Cache hit
			}
			opts.Logger.Debug("cached layout unreadable, recomputing", "key", cacheKey)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	laid, err := runLayout(ctx, opts, g)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if !opts.NoCache {
		if data, err := elk.MarshalGraphCompact(laid); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			} else {
				opts.Logger.Warn("cache layout result", "error", err)
			}
		}
	}

	return laid, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *elk.Graph, opts Options) (*elk.Graph, error) {
	laid, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return laid, err
}

// SceneWithCacheInfo runs a scene-mode exchange with caching: the engine
// answers with the finished scene document, so both pipeline stages collapse
// into one cacheable call.
func (r *Runner) SceneWithCacheInfo(ctx context.Context, g *elk.Graph, opts Options) (*scene.Element, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	graphDoc, err := elk.MarshalGraphCompact(g)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph cannot be serialized")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphDoc), opts.Engine.Fingerprint())

	if !opts.NoCache && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if sc, err := scene.UnmarshalScene(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "scene")
				return sc, true, nil // Cache hit
			}
			opts.Logger.Debug("cached scene unreadable, recomputing", "key", cacheKey)
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	sc, err := runScene(ctx, opts, g)
	if err != nil {
		return nil, false, err
	}

	if !opts.NoCache {
		if data, err := scene.MarshalScene(sc); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLScene); err == nil {
				observability.Cache().OnCacheSet(ctx, "scene", len(data))
			} else {
				opts.Logger.Warn("cache scene result", "error", err)
			}
		}
	}

	return sc, false, nil // Cache miss
}

// Transform flattens an already positioned graph into a scene tree. It is
// the second pipeline stage exposed on its own for callers that hold engine
// output already.
func (r *Runner) Transform(g *elk.Graph, opts Options) (*scene.Element, error) {
	width := opts.IDWidth
	if width <= 0 {
		width = scene.DefaultIDWidth
	}
	return scene.TransformWithOptions(g, scene.Options{IDWidth: width})
}

// Close releases resources held by the runner (the cache and the archive).
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Archive != nil {
		if err := r.Archive.Close(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// =============================================================================
// Internals
// =============================================================================

// runLayout builds the configured engine client and runs one layout
// exchange, retrying transport failures when opts.Retries asks for it.
// Structural errors and layout rejections are never retried.
func runLayout(ctx context.Context, opts Options, g *elk.Graph) (*elk.Graph, error) {
	client, err := engine.NewClient(opts.Engine)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var laid *elk.Graph
	err = httputil.Retry(ctx, opts.Retries+1, retryDelay, func() error {
		var xerr error
		laid, xerr = client.Layout(ctx, g)
		if xerr != nil && errors.IsTransport(xerr) {
			return &httputil.RetryableError{Err: xerr}
		}
		return xerr
	})
	if err != nil {
		return nil, err
	}
	return laid, nil
}

// runScene is runLayout's scene-mode counterpart.
func runScene(ctx context.Context, opts Options, g *elk.Graph) (*scene.Element, error) {
	client, err := engine.NewClient(opts.Engine)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var sc *scene.Element
	err = httputil.Retry(ctx, opts.Retries+1, retryDelay, func() error {
		var xerr error
		sc, xerr = client.LayoutScene(ctx, g)
		if xerr != nil && errors.IsTransport(xerr) {
			return &httputil.RetryableError{Err: xerr}
		}
		return xerr
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// loadGraph resolves the input graph from the options.
func (r *Runner) loadGraph(opts Options) (*elk.Graph, error) {
	if opts.Graph != nil {
		return opts.Graph, nil
	}

	if _, err := os.Stat(opts.GraphPath); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "graph file %s", opts.GraphPath)
	}
	g, err := elk.ReadGraphFile(opts.GraphPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "read graph")
	}
	return g, nil
}

// archiveRun records one completed run in the archive.
func (r *Runner) archiveRun(ctx context.Context, opts Options, result *Result) error {
	sceneJSON, err := scene.MarshalScene(result.Scene)
	if err != nil {
		return err
	}

	run := store.NewRun(result.GraphHash, opts.Engine.Fingerprint(), result.Stats.ElementCount,
		result.Stats.LayoutTime+result.Stats.TransformTime, sceneJSON)
	return r.Archive.Put(ctx, run)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// countElements reports the scene tree size, root included.
func countElements(root *scene.Element) int {
	if root == nil {
		return 0
	}
	count := 0
	root.Walk(func(*scene.Element) { count++ })
	return count
}
