package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/pkg/graph"
	dataio "github.com/fhgr/curnav/pkg/io"
)

type graphOpts struct {
	datasetFlags
	output string
	export string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Export the prerequisite graph as JSON",
		Long: `Graph builds the prerequisite graph of a curriculum and writes it as JSON
(nodes with their module attributes, edges with their kind).

With --export the normalized modules are also written as a table; the
format follows the file extension (.xlsx, .csv, .json, .yaml, .toml).`,
		Example: `  curnav graph data/Module_Data.xlsx -o graph.json
  curnav graph --export modules.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, runner, err := c.loadDataset(cmd.Context(), args, opts.datasetFlags)
			if err != nil {
				return err
			}
			defer runner.Close()

			if opts.output == "" {
				opts.output = ds.Name + ".graph.json"
			}
			if err := graph.WriteGraphFile(ds.Graph, opts.output); err != nil {
				return fmt.Errorf("write graph: %w", err)
			}
			c.printSuccess("Graph exported")
			c.printStats(ds.Graph.NodeCount(), ds.Graph.EdgeCount(), false)
			c.printFile(opts.output)

			if opts.export != "" {
				if err := dataio.ExportFile(ds.Modules, opts.export); err != nil {
					return fmt.Errorf("export modules: %w", err)
				}
				c.printFile(opts.export)
			}

			c.printNewline()
			c.printNextStep("Compute a layout", "curnav layout "+sourceArg(args))
			return nil
		},
	}

	opts.datasetFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <dataset>.graph.json)")
	cmd.Flags().StringVar(&opts.export, "export", "", "also write the normalized modules to this table file")

	return cmd
}

// sourceArg returns the file argument for next-step hints.
func sourceArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
