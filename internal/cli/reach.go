package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/pkg/dataset"
)

type reachOpts struct {
	datasetFlags
	json bool
}

// reachReport lists what a module depends on and what depends on it.
type reachReport struct {
	Module      string   `json:"module"`
	Name        string   `json:"name"`
	Ancestors   []string `json:"ancestors"`
	Descendants []string `json:"descendants"`
	Highlighted []string `json:"highlighted"`
}

// reachCommand creates the reach command.
func (c *CLI) reachCommand() *cobra.Command {
	opts := reachOpts{}

	cmd := &cobra.Command{
		Use:   "reach <module> [file]",
		Short: "List the prerequisites and dependents of a module",
		Long: `Reach prints every module with a path to the given module (its direct and
transitive prerequisites) and every module reachable from it (modules that
build on it). Hard and soft prerequisites both count.

The highlight set is the module itself plus both lists; it is what the
network plot emphasizes when the module is selected.`,
		Example: `  curnav reach DB data/Module_Data.xlsx
  curnav reach P1 --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, runner, err := c.loadDataset(cmd.Context(), args[1:], opts.datasetFlags)
			if err != nil {
				return err
			}
			defer runner.Close()

			report, err := buildReachReport(ds, args[0])
			if err != nil {
				return err
			}
			if opts.json {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			c.printReachReport(ds, report)
			return nil
		},
	}

	opts.datasetFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func buildReachReport(ds *dataset.Dataset, id string) (reachReport, error) {
	h, err := ds.Graph.Reachable(id)
	if err != nil {
		return reachReport{}, err
	}
	anc, err := ds.Graph.Ancestors(id)
	if err != nil {
		return reachReport{}, err
	}
	desc, err := ds.Graph.Descendants(id)
	if err != nil {
		return reachReport{}, err
	}
	r := reachReport{
		Module:      id,
		Ancestors:   anc,
		Descendants: desc,
		Highlighted: h.IDs(),
	}
	if m, ok := ds.Module(id); ok {
		r.Name = m.Name
	}
	return r, nil
}

func (c *CLI) printReachReport(ds *dataset.Dataset, r reachReport) {
	c.printNewline()
	fmt.Fprintln(c.Out, StyleFocus.Render(r.Module)+" "+StyleDim.Render(r.Name))
	c.printNewline()

	c.printModuleList("Prerequisites", ds, r.Ancestors)
	c.printModuleList("Builds towards", ds, r.Descendants)
	c.printInfo("%d modules highlighted", len(r.Highlighted))
}

func (c *CLI) printModuleList(title string, ds *dataset.Dataset, ids []string) {
	fmt.Fprintln(c.Out, StyleTitle.Render(title))
	if len(ids) == 0 {
		c.printDetail("none")
		c.printNewline()
		return
	}
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		m, _ := ds.Module(id)
		rows = append(rows, []string{id, m.Name, m.Group, m.Semester})
	}
	c.printTable([]string{"ID", "Name", "Group", "Semester"}, rows)
}
