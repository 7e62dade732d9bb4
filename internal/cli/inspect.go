package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/elkscene/elkscene/pkg/scene"
)

// inspectCommand creates the inspect command for browsing scene files.
func (c *CLI) inspectCommand() *cobra.Command {
	var flat bool

	cmd := &cobra.Command{
		Use:   "inspect [scene.json]",
		Short: "Browse a scene file interactively",
		Long: `Browse a scene file interactively.

Opens a fold-aware tree view of the scene with per-element geometry details.
Without a terminal (or with --flat) the tree is printed once instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], flat)
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, "print the tree instead of opening the browser")

	return cmd
}

// runInspect loads the scene and either opens the browser or prints the tree.
func (c *CLI) runInspect(input string, flat bool) error {
	root, err := scene.ReadSceneFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	if flat || !isTerminal(os.Stdout) {
		printSceneTree(os.Stdout, root)
		printSceneSummary(root)
		return nil
	}

	p := tea.NewProgram(NewSceneBrowserModel(root))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// printSceneTree writes an indented text rendering of the scene tree.
func printSceneTree(w io.Writer, root *scene.Element) {
	for _, row := range flattenScene(root, nil) {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", row.depth), sceneRowLabel(row.el, false))
	}
}

// printSceneSummary prints per-type counts for the scene.
func printSceneSummary(root *scene.Element) {
	counts := root.Count()
	printNewline()
	for _, t := range []string{scene.TypeNode, scene.TypePort, scene.TypeLabel, scene.TypeEdge, scene.TypeJunction} {
		if counts[t] > 0 {
			printDetail("%d %ss", counts[t], t)
		}
	}
}
