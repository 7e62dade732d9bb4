package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/elkscene/elkscene/pkg/elk"
	"github.com/elkscene/elkscene/pkg/engine"
	"github.com/elkscene/elkscene/pkg/errors"
	"github.com/elkscene/elkscene/pkg/pipeline"
	"github.com/elkscene/elkscene/pkg/scene"
	"github.com/elkscene/elkscene/pkg/store"
)

// handleLayout runs the engine and answers with the positioned graph.
func (s *Server) handleLayout(w http.ResponseWriter, req *http.Request) {
	g, err := readGraph(w, req)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(req.Context(), pipeline.Options{
		Graph:  g,
		Engine: s.cfg.Engine,
		Raw:    true,
		Logger: s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := elk.MarshalGraph(res.Graph)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout"))
		return
	}
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.LayoutHit))
	writeDocument(w, http.StatusOK, data)
}

// handleScene runs the full pipeline and answers with the scene tree.
func (s *Server) handleScene(w http.ResponseWriter, req *http.Request) {
	g, err := readGraph(w, req)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(req.Context(), pipeline.Options{
		Graph:  g,
		Engine: s.cfg.Engine,
		Logger: s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := scene.MarshalScene(res.Scene)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "serialize scene"))
		return
	}
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.LayoutHit))
	writeDocument(w, http.StatusOK, data)
}

// healthBody is the healthz response.
type healthBody struct {
	Status string `json:"status"`
	Engine string `json:"engine"`
	Error  string `json:"error,omitempty"`
}

// handleHealthz reports liveness and engine reachability.
func (s *Server) handleHealthz(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), s.cfg.ProbeTimeout)
	defer cancel()

	body := healthBody{Status: "ok", Engine: string(s.cfg.Engine.Kind)}
	if err := s.probeEngine(ctx); err != nil {
		s.logger.Warn("engine probe failed", "engine", s.cfg.Engine.Kind, "error", err)
		body.Status = "degraded"
		body.Error = errors.UserMessage(err)
		writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// handleRuns lists recent archived runs. Scene documents stay off the
// listing; fetch a single run for the full payload.
func (s *Server) handleRuns(w http.ResponseWriter, req *http.Request) {
	limit := 0
	if q := req.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(w, errors.New(errors.ErrCodeInvalidConfig, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	runs, err := s.runner.Archive.List(req.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*store.Run, 0, len(runs))
	for _, run := range runs {
		trimmed := *run
		trimmed.SceneJSON = nil
		out = append(out, &trimmed)
	}
	writeJSON(w, http.StatusOK, out)
}

// runResponse inlines the stored scene document instead of base64-encoding
// it; the outer field shadows the embedded one.
type runResponse struct {
	*store.Run
	SceneJSON json.RawMessage `json:"scene_json,omitempty"`
}

// handleRun returns one archived run, scene document included.
func (s *Server) handleRun(w http.ResponseWriter, req *http.Request) {
	run, err := s.runner.Archive.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Run: run, SceneJSON: json.RawMessage(run.SceneJSON)})
}

// probeEngine round-trips a probe graph through the configured engine.
func (s *Server) probeEngine(ctx context.Context) error {
	client, err := engine.NewClient(s.cfg.Engine)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Probe(ctx)
}

// readGraph parses the request body as an abstract graph document.
func readGraph(w http.ResponseWriter, req *http.Request) (*elk.Graph, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxGraphBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "read request body")
	}
	g, err := elk.UnmarshalGraph(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "parse graph")
	}
	return g, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
