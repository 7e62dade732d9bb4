package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/elkscene/elkscene/pkg/engine"
	"github.com/elkscene/elkscene/pkg/errors"
)

// checkTimeout bounds each engine probe in "engines check".
const checkTimeout = 10 * time.Second

// enginesCommand creates the engines command group.
func (c *CLI) enginesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engines",
		Short: "List and probe configured layout engines",
	}

	cmd.AddCommand(c.enginesListCommand())
	cmd.AddCommand(c.enginesCheckCommand())

	return cmd
}

// enginesListCommand creates the "engines list" subcommand.
func (c *CLI) enginesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List engines from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}

			if len(cfg.Engines) == 0 {
				printInfo("No engines configured, the builtin graphviz engine is used")
				printDetail("Add [engines.NAME] sections to the config file to define more")
				return nil
			}

			for _, name := range sortedEngineNames(cfg) {
				engCfg, err := cfg.Engines[name].toEngine(name)
				if err != nil {
					printError("%s: %v", name, err)
					continue
				}
				label := engineLabel(engCfg)
				if name == cfg.DefaultEngine {
					label += " " + StyleDim.Render("(default)")
				}
				printKeyValue(name, label)
			}
			return nil
		},
	}
}

// enginesCheckCommand creates the "engines check" subcommand.
func (c *CLI) enginesCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [name]",
		Short: "Probe engines with a tiny two-node graph",
		Long: `Probe engines with a tiny two-node graph.

Without arguments every engine in the config file is probed (or the builtin
graphviz engine when none are configured). With a name only that engine is
probed; shorthands like http://host:8080 work here too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.runEnginesCheck(cmd.Context(), name)
		},
	}
}

// runEnginesCheck probes each target engine and reports per-engine status.
func (c *CLI) runEnginesCheck(ctx context.Context, name string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	targets := map[string]engine.Config{}
	switch {
	case name != "":
		engCfg, err := resolveEngine(cfg, name)
		if err != nil {
			return err
		}
		targets[name] = engCfg
	case len(cfg.Engines) > 0:
		for n, entry := range cfg.Engines {
			engCfg, err := entry.toEngine(n)
			if err != nil {
				printError("%s: %v", n, err)
				continue
			}
			targets[n] = engCfg
		}
	default:
		targets["graphviz"] = engine.Config{Kind: engine.KindGraphviz}
	}

	names := make([]string, 0, len(targets))
	for n := range targets {
		names = append(names, n)
	}
	sort.Strings(names)

	failed := 0
	for _, n := range names {
		if err := probeEngine(ctx, targets[n]); err != nil {
			printError("%s: %v", n, err)
			failed++
			continue
		}
		printSuccess("%s (%s)", n, engineLabel(targets[n]))
	}
	if failed > 0 {
		return errors.New(errors.ErrCodeEngineUnavailable, "%d of %d engines failed the probe", failed, len(targets))
	}
	return nil
}

// probeEngine round-trips the builtin probe graph through the engine.
func probeEngine(ctx context.Context, cfg engine.Config) error {
	client, err := engine.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	probeCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return client.Probe(probeCtx)
}

// sortedEngineNames returns the config engine names in stable order.
func sortedEngineNames(cfg *Config) []string {
	names := make([]string, 0, len(cfg.Engines))
	for name := range cfg.Engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// engineLabel is the human-readable name for an engine configuration.
func engineLabel(cfg engine.Config) string {
	kind := cfg.Kind
	if kind == "" {
		kind = engine.KindGraphviz
	}
	switch kind {
	case engine.KindGraphviz:
		if cfg.Layout != "" {
			return fmt.Sprintf("graphviz (%s)", cfg.Layout)
		}
		return "graphviz"
	case engine.KindExec, engine.KindPipe:
		return fmt.Sprintf("%s: %s", kind, cfg.Command)
	case engine.KindHTTP:
		return cfg.URL
	}
	return string(kind)
}
