package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/elkscene/elkscene/pkg/errors"
)

// Kind identifies a transport implementation.
type Kind string

// Supported transport kinds.
const (
	KindExec     Kind = "exec"
	KindPipe     Kind = "pipe"
	KindHTTP     Kind = "http"
	KindGraphviz Kind = "graphviz"
)

// Response modes: what document type the engine answers with.
const (
	// ResponseLayout means the engine returns the positioned graph.
	ResponseLayout = "layout"

	// ResponseScene means the engine side already ran the scene transform
	// and returns a scene document. Only the http transport supports it.
	ResponseScene = "scene"
)

// DefaultTimeout bounds a single exchange unless configured otherwise.
const DefaultTimeout = 30 * time.Second

// graphvizLayouts enumerates the layout algorithms the embedded engine
// accepts.
var graphvizLayouts = map[string]bool{
	"dot":       true,
	"neato":     true,
	"fdp":       true,
	"sfdp":      true,
	"circo":     true,
	"twopi":     true,
	"osage":     true,
	"patchwork": true,
}

// Config selects and parameterizes a transport.
type Config struct {
	// Kind picks the transport. Empty defaults to the embedded graphviz
	// engine, which needs nothing installed.
	Kind Kind

	// Command and Args name the engine executable for the exec and pipe
	// transports.
	Command string
	Args    []string

	// URL is the layout service endpoint for the http transport.
	URL string

	// Response declares what the engine answers with: ResponseLayout
	// (default) or ResponseScene.
	Response string

	// Timeout bounds a single exchange. Zero means DefaultTimeout.
	Timeout time.Duration

	// Layout names the algorithm for the graphviz transport (dot, neato,
	// fdp, ...). Empty means dot.
	Layout string
}

// ValidateAndSetDefaults normalizes the configuration and rejects
// contradictions.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Kind == "" {
		c.Kind = KindGraphviz
	}
	if c.Response == "" {
		c.Response = ResponseLayout
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	if c.Response != ResponseLayout && c.Response != ResponseScene {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown response mode %q", c.Response)
	}
	if c.Response == ResponseScene && c.Kind != KindHTTP {
		return errors.New(errors.ErrCodeInvalidConfig, "response mode %q requires the http engine, not %q", ResponseScene, c.Kind)
	}

	switch c.Kind {
	case KindExec, KindPipe:
		if c.Command == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "engine kind %q requires a command", c.Kind)
		}
	case KindHTTP:
		if c.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "engine kind %q requires a url", c.Kind)
		}
	case KindGraphviz:
		if c.Layout == "" {
			c.Layout = "dot"
		}
		if !graphvizLayouts[c.Layout] {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown graphviz layout %q", c.Layout)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown engine kind %q", c.Kind)
	}
	return nil
}

// Fingerprint returns a stable identity string for the configured engine,
// suitable for cache key derivation: same fingerprint, same layout answers.
func (c Config) Fingerprint() string {
	switch c.Kind {
	case KindExec, KindPipe:
		parts := append([]string{c.Command}, c.Args...)
		return fmt.Sprintf("%s:%s", c.Kind, strings.Join(parts, " "))
	case KindHTTP:
		return fmt.Sprintf("%s:%s:%s", c.Kind, c.URL, c.Response)
	case KindGraphviz:
		return fmt.Sprintf("%s:%s", c.Kind, c.Layout)
	}
	return string(c.Kind)
}

// New constructs the transport the configuration names.
func New(cfg Config) (Transport, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return newTransport(cfg), nil
}

func newTransport(cfg Config) Transport {
	switch cfg.Kind {
	case KindExec:
		return NewExecTransport(cfg.Command, cfg.Args...)
	case KindPipe:
		return NewPipeTransport(cfg.Command, cfg.Args...)
	case KindHTTP:
		return NewHTTPTransport(cfg.URL, cfg.Timeout)
	default:
		return NewGraphvizTransport(cfg.Layout)
	}
}
