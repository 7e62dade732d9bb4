package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elkscene/elkscene/pkg/elk"
	"github.com/elkscene/elkscene/pkg/pipeline"
	"github.com/elkscene/elkscene/pkg/scene"
)

// layoutCommand creates the layout command for running the full pipeline.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		engineName string
		raw        bool
		idWidth    int
		noCache    bool
		refresh    bool
		retries    int
		archive    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Send a graph to a layout engine and write the scene tree",
		Long: `Send a graph document to a layout engine and write the result.

The layout command reads a graph.json file, lets the configured engine
position it, and transforms the positioned graph into a scene tree. The
output is a scene.json file that renderers consume directly; with --raw the
positioned graph itself is written instead and no scene tree is built.

Layout answers are cached locally keyed by graph content and engine
configuration, so repeated runs with unchanged input are instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				GraphPath: args[0],
				Raw:       raw,
				IDWidth:   idWidth,
				NoCache:   noCache,
				Refresh:   refresh,
				Retries:   retries,
				Archive:   archive,
			}
			return c.runLayout(cmd.Context(), args[0], opts, engineName, output)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json, or <input>.layout.json with --raw)")
	cmd.Flags().StringVar(&engineName, "engine", "", "engine to use (config name or shorthand like graphviz:neato, exec:CMD, http://...)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Pipeline flags
	cmd.Flags().BoolVar(&raw, "raw", false, "write the positioned graph instead of a scene tree")
	cmd.Flags().IntVar(&idWidth, "id-width", scene.DefaultIDWidth, "digits in generated label identifiers")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute the layout even when a cached answer exists")
	cmd.Flags().IntVar(&retries, "retries", 2, "retry attempts for transport failures")
	cmd.Flags().BoolVar(&archive, "archive", false, "record the run in the archive")

	return cmd
}

// runLayout resolves the engine, runs the pipeline, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, engineName, output string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	engCfg, err := resolveEngine(cfg, engineName)
	if err != nil {
		return err
	}
	opts.Engine = engCfg
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out with %s...", engineLabel(engCfg)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		if opts.Raw {
			outputPath = base + ".layout.json"
		} else {
			outputPath = base + ".scene.json"
		}
	}

	if opts.Raw {
		err = elk.WriteGraphFile(result.Graph, outputPath)
	} else {
		err = scene.WriteSceneFile(result.Scene, outputPath)
	}
	if err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.ElementCount, result.CacheInfo.LayoutHit)
	printNewline()
	if !opts.Raw {
		printNextStep("Inspect", "elkscene inspect "+outputPath)
	}

	return nil
}
