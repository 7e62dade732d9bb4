package engine

import (
	"context"
	"time"

	"github.com/elkscene/elkscene/pkg/elk"
	"github.com/elkscene/elkscene/pkg/errors"
	"github.com/elkscene/elkscene/pkg/observability"
	"github.com/elkscene/elkscene/pkg/scene"
)

// Client wraps a transport with the wire codec: marshal the graph, run the
// exchange, decode the answer. It adds nothing else; in particular it never
// retries and never swallows an error.
type Client struct {
	transport   Transport
	kind        Kind
	fingerprint string
	timeout     time.Duration
	scenes      bool
}

// NewClient builds the configured transport and wraps it.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Client{
		transport:   newTransport(cfg),
		kind:        cfg.Kind,
		fingerprint: cfg.Fingerprint(),
		timeout:     cfg.Timeout,
		scenes:      cfg.Response == ResponseScene,
	}, nil
}

// Kind returns the transport kind the client was configured with.
func (c *Client) Kind() Kind { return c.kind }

// Fingerprint returns the engine identity string for cache key derivation.
func (c *Client) Fingerprint() string { return c.fingerprint }

// Layout sends the graph to the engine and returns the positioned graph.
func (c *Client) Layout(ctx context.Context, g *elk.Graph) (*elk.Graph, error) {
	if c.scenes {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "engine answers with scene documents; use LayoutScene")
	}

	raw, err := c.exchangeGraph(ctx, g)
	if err != nil {
		return nil, err
	}

	laid, err := elk.UnmarshalGraph(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidResponse, err, "engine answered with an unparseable document")
	}
	return laid, nil
}

// LayoutScene returns the scene tree for the graph. Engines configured to
// pre-transform answer with a scene document directly; otherwise the graph
// is laid out and transformed locally.
func (c *Client) LayoutScene(ctx context.Context, g *elk.Graph) (*scene.Element, error) {
	if !c.scenes {
		laid, err := c.Layout(ctx, g)
		if err != nil {
			return nil, err
		}
		return scene.Transform(laid)
	}

	raw, err := c.exchangeGraph(ctx, g)
	if err != nil {
		return nil, err
	}

	el, err := scene.UnmarshalScene(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidResponse, err, "engine answered with an unparseable scene")
	}
	return el, nil
}

// Probe round-trips a two-node graph to verify the engine answers.
func (c *Client) Probe(ctx context.Context) error {
	g := elk.NewGraph("probe")
	g.Children = []*elk.Node{
		{ID: "a", Width: 10, Height: 10},
		{ID: "b", Width: 10, Height: 10},
	}
	g.Edges = []*elk.Edge{{ID: "e", Source: "a", Target: "b"}}

	var err error
	if c.scenes {
		_, err = c.LayoutScene(ctx, g)
	} else {
		_, err = c.Layout(ctx, g)
	}
	return err
}

// Close releases the transport.
func (c *Client) Close() error { return c.transport.Close() }

func (c *Client) exchangeGraph(ctx context.Context, g *elk.Graph) ([]byte, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "graph is nil")
	}

	doc, err := elk.MarshalGraphCompact(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph cannot be serialized")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	hooks := observability.Engine()
	hooks.OnExchangeStart(ctx, string(c.kind))
	start := time.Now()
	raw, err := c.transport.Exchange(ctx, doc)
	hooks.OnExchangeComplete(ctx, string(c.kind), time.Since(start), err)
	return raw, err
}
