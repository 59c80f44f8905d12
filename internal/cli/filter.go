package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/pkg/explore"
	"github.com/fhgr/curnav/pkg/records"
	"github.com/fhgr/curnav/pkg/view"
)

type filterOpts struct {
	datasetFlags
	semester string
	tags     []string
	groups   []string
	json     bool
}

// spec returns the filter the flags describe.
func (o filterOpts) spec() explore.FilterSpec {
	f := explore.FilterSpec{Semester: o.semester, Tags: o.tags, Groups: o.groups}
	if f.Semester == "" {
		f.Semester = records.AllSemesters
	}
	return f
}

// filterCommand creates the filter command.
func (c *CLI) filterCommand() *cobra.Command {
	opts := filterOpts{}

	cmd := &cobra.Command{
		Use:   "filter [file]",
		Short: "Summarize credits of the modules matching a filter",
		Long: `Filter selects modules by semester, tags and groups and prints the
resulting group -> module credit hierarchy.

A module must match the semester (or ALL), carry at least one of the given
tags and belong to one of the given groups. Omitted tags or groups do not
restrict the result.`,
		Example: `  curnav filter --semester 1 --tag Informatik
  curnav filter data/Module_Data.xlsx --group Mathematik --group Informatik --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.spec()
			if err := f.Validate(); err != nil {
				return err
			}

			ds, runner, err := c.loadDataset(cmd.Context(), args, opts.datasetFlags)
			if err != nil {
				return err
			}
			defer runner.Close()

			sum := view.BuildSummary(ds, f, c.cfg.ColorPalette())
			if opts.json {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			c.printSummary(sum)
			return nil
		},
	}

	opts.datasetFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.semester, "semester", "s", records.AllSemesters, "semester (1-6) or ALL")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "tag to match (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.groups, "group", "g", nil, "module group to match (repeatable)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")

	return cmd
}

func (c *CLI) printSummary(sum view.Summary) {
	if sum.Unknown != nil {
		if len(sum.Unknown.Tags) > 0 {
			c.printWarning("Unknown tags: %s", strings.Join(sum.Unknown.Tags, ", "))
		}
		if len(sum.Unknown.Groups) > 0 {
			c.printWarning("Unknown groups: %s", strings.Join(sum.Unknown.Groups, ", "))
		}
	}
	if sum.Empty {
		c.printWarning("No modules match the selected filters")
		return
	}

	var rows [][]string
	for _, g := range sum.Groups {
		rows = append(rows, []string{StyleTitle.Render(g.Group), "", formatCredits(g.TotalCredits)})
		for _, leaf := range g.Modules {
			rows = append(rows, []string{"  " + leaf.ID, leaf.Name, formatCredits(leaf.Credits)})
		}
	}
	c.printTable([]string{"Group / Module", "Name", "ECTS"}, rows)
	c.printKeyValue("Total", fmt.Sprintf("%s ECTS in %d modules", formatCredits(sum.TotalCredits), len(sum.ModuleIDs)))
}
