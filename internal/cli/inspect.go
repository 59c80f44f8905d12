package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/pkg/dataset"
	"github.com/fhgr/curnav/pkg/depgraph"
	"github.com/fhgr/curnav/pkg/records"
)

type inspectOpts struct {
	datasetFlags
	json bool
}

// inspectReport is the machine-readable form of `curnav inspect --json`.
type inspectReport struct {
	Name        string              `json:"name"`
	Modules     int                 `json:"modules"`
	HardEdges   int                 `json:"hard_edges"`
	SoftEdges   int                 `json:"soft_edges"`
	Groups      []groupStats        `json:"groups"`
	Tags        []string            `json:"tags"`
	Diagnostics records.Diagnostics `json:"diagnostics"`
}

type groupStats struct {
	Group   string  `json:"group"`
	Modules int     `json:"modules"`
	Credits float64 `json:"credits"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show dataset statistics and data-quality issues",
		Long: `Inspect loads a curriculum table and reports module, edge and group
counts together with every recovered data-quality issue (duplicate IDs,
non-numeric credits, dangling prerequisites, ...).

Without a file argument the configured dataset path or the first existing
candidate file is used.`,
		Example: `  curnav inspect data/Module_Data.xlsx
  curnav inspect --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, runner, err := c.loadDataset(cmd.Context(), args, opts.datasetFlags)
			if err != nil {
				return err
			}
			defer runner.Close()

			report := buildInspectReport(ds)
			if opts.json {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			c.printInspectReport(report)
			return nil
		},
	}

	opts.datasetFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")

	return cmd
}

func buildInspectReport(ds *dataset.Dataset) inspectReport {
	r := inspectReport{
		Name:        ds.Name,
		Modules:     ds.Graph.NodeCount(),
		HardEdges:   ds.Graph.EdgeCountByKind(depgraph.KindHard),
		SoftEdges:   ds.Graph.EdgeCountByKind(depgraph.KindSoft),
		Tags:        records.Tags(ds.Modules),
		Diagnostics: ds.Diagnostics,
	}
	for _, g := range records.Groups(ds.Modules) {
		gs := groupStats{Group: g}
		for _, m := range ds.Modules {
			if m.Group == g {
				gs.Modules++
				gs.Credits += m.Credits
			}
		}
		r.Groups = append(r.Groups, gs)
	}
	return r
}

func (c *CLI) printInspectReport(r inspectReport) {
	c.printNewline()
	fmt.Fprintln(c.Out, StyleTitle.Render(r.Name))
	c.printKeyValue("Modules", StyleNumber.Render(strconv.Itoa(r.Modules)))
	c.printKeyValue("Hard edges", StyleNumber.Render(strconv.Itoa(r.HardEdges)))
	c.printKeyValue("Soft edges", StyleNumber.Render(strconv.Itoa(r.SoftEdges)))
	c.printKeyValue("Tags", strings.Join(r.Tags, ", "))
	c.printNewline()

	rows := make([][]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		name := g.Group
		if name == "" {
			name = StyleDim.Render("(none)")
		}
		rows = append(rows, []string{name, strconv.Itoa(g.Modules), formatCredits(g.Credits)})
	}
	c.printTable([]string{"Group", "Modules", "ECTS"}, rows)

	if len(r.Diagnostics) == 0 {
		c.printSuccess("No data-quality issues")
		return
	}

	c.printNewline()
	c.printWarning("%d data-quality issues", len(r.Diagnostics))
	issues := make([][]string, 0, len(r.Diagnostics))
	for _, is := range r.Diagnostics {
		row := "-"
		if is.Row >= 0 {
			row = strconv.Itoa(is.Row)
		}
		issues = append(issues, []string{string(is.Kind), row, is.ModuleID, is.Detail})
	}
	c.printTable([]string{"Kind", "Row", "Module", "Detail"}, issues)
}
