// Package cli implements the elkscene command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/elkscene/elkscene/pkg/buildinfo"
	"github.com/elkscene/elkscene/pkg/cache"
	"github.com/elkscene/elkscene/pkg/errors"
	"github.com/elkscene/elkscene/pkg/pipeline"
	"github.com/elkscene/elkscene/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "elkscene"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location (--config).
	ConfigPath string

	cfg *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "elkscene",
		Short:        "Elkscene lays out graphs and builds renderer-ready scene trees",
		Long:         `Elkscene sends graph documents to a layout engine (in-process graphviz, a subprocess, or a remote server) and transforms the positioned result into a flat scene tree that renderers can draw without knowing anything about the engine.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "path to the config file")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.enginesCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config Access
// =============================================================================

// config loads the config file once and memoizes it for the process lifetime.
func (c *CLI) config() (*Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := loadConfig(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner wired to the configured cache and
// archive backends. Callers own the runner and must Close it.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	layoutCache, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	archive, err := newArchive(ctx, cfg)
	if err != nil {
		layoutCache.Close()
		return nil, err
	}
	return pipeline.NewRunner(layoutCache, nil, archive, c.Logger), nil
}

func newCache(ctx context.Context, cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case "", "file":
		return cache.NewFileCache(cfg.Cache.Dir)
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	case "none":
		return cache.NewNullCache(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Cache.Backend)
}

func newArchive(ctx context.Context, cfg *Config) (store.Archive, error) {
	if cfg.Archive.MongoURI == "" {
		return store.NewNullArchive(), nil
	}
	return store.NewMongoArchive(ctx, store.MongoConfig{
		URI:        cfg.Archive.MongoURI,
		Database:   cfg.Archive.Database,
		Collection: cfg.Archive.Collection,
	})
}
