package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elkscene/elkscene/internal/server"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		engineName string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the layout pipeline over HTTP",
		Long: `Expose the layout pipeline over HTTP.

The server offers POST /api/v1/layout (graph in, positioned graph out),
POST /api/v1/scene (graph in, scene tree out), GET /api/v1/runs for the
archive, and GET /healthz which probes the engine. It shares the cache and
archive configuration with the CLI commands, so a laptop and a layout server
answer identical requests identically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, engineName, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr, then :8080)")
	cmd.Flags().StringVar(&engineName, "engine", "", "engine to use (config name or shorthand)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe wires the configured runner into an HTTP server and blocks until
// the context is canceled.
func (c *CLI) runServe(ctx context.Context, addr, engineName string, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	engCfg, err := resolveEngine(cfg, engineName)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv, err := server.New(server.Config{Addr: addr, Engine: engCfg}, runner, c.Logger)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}
