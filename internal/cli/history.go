package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/elkscene/elkscene/pkg/errors"
	"github.com/elkscene/elkscene/pkg/store"
)

// historyCommand creates the history command group over the run archive.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and show archived layout runs",
		Long: `List and show archived layout runs.

Runs recorded with 'layout --archive' (or by a server with an archive
configured) land in mongodb. These commands read them back.`,
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// openArchive connects to the configured archive, failing with guidance when
// none is configured.
func (c *CLI) openArchive(ctx context.Context) (store.Archive, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Archive.MongoURI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"no archive configured, set [archive] mongo_uri in the config file")
	}
	return store.NewMongoArchive(ctx, store.MongoConfig{
		URI:        cfg.Archive.MongoURI,
		Database:   cfg.Archive.Database,
		Collection: cfg.Archive.Collection,
	})
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			archive, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer archive.Close(context.Background())

			runs, err := archive.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No archived runs")
				return nil
			}

			for _, run := range runs {
				printRunLine(run)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", store.DefaultListLimit, "maximum number of runs to list")

	return cmd
}

// printRunLine prints one run as a single list row.
func printRunLine(run *store.Run) {
	id := run.ID
	if len(id) > 8 {
		id = id[:8]
	}
	fmt.Println("  " +
		StyleHighlight.Render(id) + "  " +
		StyleDim.Render(fmt.Sprintf("%-12s", formatRelativeTime(run.CreatedAt))) + "  " +
		StyleValue.Render(run.Engine) + "  " +
		StyleDim.Render(fmt.Sprintf("%d elements · %s", run.Elements, run.Duration.Round(time.Millisecond))))
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one archived run",
		Long: `Show one archived run.

The id may be a unique prefix of a recent run id, as printed by
'history list'. With --output the stored scene tree is written to a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			archive, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer archive.Close(context.Background())

			run, err := findRun(ctx, archive, args[0])
			if err != nil {
				return err
			}

			printKeyValue("ID", run.ID)
			printKeyValue("Created", fmt.Sprintf("%s (%s)", run.CreatedAt.Format(time.RFC3339), formatRelativeTime(run.CreatedAt)))
			printKeyValue("Engine", run.Engine)
			printKeyValue("Graph", run.GraphHash)
			printKeyValue("Elements", fmt.Sprintf("%d", run.Elements))
			printKeyValue("Duration", run.Duration.Round(time.Millisecond).String())

			if output != "" {
				if len(run.SceneJSON) == 0 {
					return errors.New(errors.ErrCodeNotFound, "run %s has no stored scene", run.ID)
				}
				if err := os.WriteFile(output, run.SceneJSON, 0644); err != nil {
					return fmt.Errorf("write scene %s: %w", output, err)
				}
				printNewline()
				printFile(output)
				printNextStep("Inspect", "elkscene inspect "+output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the stored scene tree to this file")

	return cmd
}

// findRun fetches a run by exact id, falling back to unique-prefix matching
// over the most recent runs.
func findRun(ctx context.Context, archive store.Archive, id string) (*store.Run, error) {
	run, err := archive.Get(ctx, id)
	if err == nil || !errors.Is(err, errors.ErrCodeNotFound) {
		return run, err
	}

	runs, listErr := archive.List(ctx, 0)
	if listErr != nil {
		return nil, err
	}
	var match *store.Run
	for _, r := range runs {
		if strings.HasPrefix(r.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous, use the full id", id)
			}
			match = r
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}
