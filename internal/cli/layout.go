package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/pkg/graph"
)

type layoutOpts struct {
	datasetFlags
	output     string
	iterations int
	seed       uint64
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{}

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute the force-directed node positions",
		Long: `Layout runs the deterministic spring layout over the prerequisite graph and
writes the node positions as JSON. Layouts are cached by graph content and
layout parameters, so repeated runs are instant.`,
		Example: `  curnav layout data/Module_Data.xlsx -o layout.json
  curnav layout --iterations 200 --seed 7`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ds, runner, err := c.loadDataset(ctx, args, opts.datasetFlags)
			if err != nil {
				return err
			}
			defer runner.Close()

			lo := ds.LayoutOptions()
			if cmd.Flags().Changed("iterations") {
				lo.Iterations = opts.iterations
			}
			if cmd.Flags().Changed("seed") {
				lo.Seed = opts.seed
			}

			var (
				l   graph.Layout
				hit bool
			)
			err = c.withSpinner(ctx, "Computing layout...", func() error {
				var err error
				l, hit, err = runner.LayoutWithCacheInfo(ctx, ds.Graph, lo)
				return err
			})
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}

			if opts.output == "" {
				opts.output = ds.Name + ".layout.json"
			}
			if err := graph.WriteLayoutFile(l, opts.output); err != nil {
				return fmt.Errorf("write layout: %w", err)
			}

			c.printSuccess("Layout computed")
			c.printStats(ds.Graph.NodeCount(), ds.Graph.EdgeCount(), hit)
			c.printFile(opts.output)
			return nil
		},
	}

	opts.datasetFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <dataset>.layout.json)")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "spring iterations (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed of the initial positions")

	return cmd
}
