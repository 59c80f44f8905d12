package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/pkg/pipeline"
	"github.com/fhgr/curnav/pkg/view"
)

type renderOpts struct {
	datasetFlags
	output     string
	formats    string
	focus      string
	hard       bool
	soft       bool
	showHidden bool
	legend     bool
	scale      float64
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the module network as SVG, PNG, PDF, DOT or JSON",
		Long: `Render draws the prerequisite network at the spring layout positions with
Graphviz. Nodes are coloured by module group; with --focus the selected
module, its prerequisites and its dependents are emphasized and all other
modules fade out.

Formats: svg, png, pdf (needs rsvg-convert), dot and json (the network view
geometry). Outputs are cached by layout and render options.`,
		Example: `  curnav render data/Module_Data.xlsx
  curnav render --focus DB --format svg,pdf -o out/db
  curnav render --soft=false --legend`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	opts.datasetFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension (default: <dataset>)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: svg, png, pdf, dot, json")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "module to highlight with its prerequisites and dependents")
	cmd.Flags().BoolVar(&opts.hard, "hard", true, "draw hard prerequisite edges")
	cmd.Flags().BoolVar(&opts.soft, "soft", true, "draw soft prerequisite edges")
	cmd.Flags().BoolVar(&opts.showHidden, "show-hidden", false, "draw hidden edges in a faint colour")
	cmd.Flags().BoolVar(&opts.legend, "legend", false, "add a module group legend")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "points per layout unit (default 6)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, args []string, opts renderOpts) error {
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions(args, opts.datasetFlags)
	popts.Formats = formats
	popts.State = view.State{Focus: opts.focus, Edges: view.EdgeVisibility{Hard: opts.hard, Soft: opts.soft}}
	popts.ShowHidden = opts.showHidden
	popts.Legend = opts.legend
	popts.Scale = opts.scale

	var (
		name      string
		artifacts map[string][]byte
		cached    bool
		modules   int
		edges     int
	)
	if opts.fromStore != "" {
		ds, err := c.loadFromStore(ctx, runner, opts.fromStore)
		if err != nil {
			return err
		}
		err = c.withSpinner(ctx, "Rendering...", func() error {
			var err error
			artifacts, cached, err = runner.RenderWithCacheInfo(ctx, ds, popts)
			return err
		})
		if err != nil {
			return err
		}
		name, modules, edges = ds.Name, ds.Graph.NodeCount(), ds.Graph.EdgeCount()
	} else {
		var res *pipeline.Result
		err := c.withSpinner(ctx, "Rendering...", func() error {
			var err error
			res, err = runner.Execute(ctx, popts)
			return err
		})
		if err != nil {
			return err
		}
		name, artifacts = res.Dataset.Name, res.Artifacts
		cached = res.CacheInfo.RenderHit
		modules, edges = res.Stats.ModuleCount, res.Stats.EdgeCount
	}

	base := opts.output
	if base == "" {
		base = name
		if opts.focus != "" {
			base += "-" + strings.ToLower(opts.focus)
		}
	}
	paths, err := writeArtifacts(base, formats, artifacts)
	if err != nil {
		return err
	}

	c.printSuccess("Rendered %s", name)
	c.printStats(modules, edges, cached)
	for _, p := range paths {
		c.printFile(p)
	}
	return nil
}

// writeArtifacts writes one file per format as base.<format> and returns the
// written paths in format order.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return nil, fmt.Errorf("missing %s output", f)
		}
		p := base + "." + f
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
