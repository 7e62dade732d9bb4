package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elkscene/elkscene/pkg/elk"
	"github.com/elkscene/elkscene/pkg/pipeline"
	"github.com/elkscene/elkscene/pkg/scene"
)

// transformCommand creates the transform command for positioned graphs.
func (c *CLI) transformCommand() *cobra.Command {
	var (
		output  string
		idWidth int
	)

	cmd := &cobra.Command{
		Use:   "transform [layout.json]",
		Short: "Convert an already positioned graph into a scene tree",
		Long: `Convert an already positioned graph into a scene tree.

The transform command skips the engine entirely: it reads a graph document
that already carries coordinates (for example one produced by 'layout --raw')
and builds the scene tree from it. No cache or engine configuration is
involved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTransform(args[0], output, idWidth)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	cmd.Flags().IntVar(&idWidth, "id-width", scene.DefaultIDWidth, "digits in generated label identifiers")

	return cmd
}

// runTransform reads the positioned graph, builds the scene tree, and writes
// it out.
func (c *CLI) runTransform(input, output string, idWidth int) error {
	g, err := elk.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	prog := newProgress(c.Logger)

	runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
	defer runner.Close()

	sc, err := runner.Transform(g, pipeline.Options{IDWidth: idWidth})
	if err != nil {
		return fmt.Errorf("transform graph: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".scene.json"
	}

	if err := scene.WriteSceneFile(sc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	elements := 0
	for _, n := range sc.Count() {
		elements += n
	}
	prog.done(fmt.Sprintf("Transformed %d elements", elements))

	printSuccess("Transform complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), elements, false)
	printNewline()
	printNextStep("Inspect", "elkscene inspect "+outputPath)

	return nil
}
