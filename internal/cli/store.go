package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/pkg/cache"
	dataio "github.com/fhgr/curnav/pkg/io"
	"github.com/fhgr/curnav/pkg/pipeline"
	"github.com/fhgr/curnav/pkg/store"
)

// storeCommand creates the dataset store command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Share normalized datasets through MongoDB",
		Long: `Store pushes normalized module sets to the MongoDB collection configured
under mongo (uri, database, collection) and pulls them back. Other commands
read a stored dataset with --from-store <name>.`,
	}

	cmd.AddCommand(c.storePushCommand())
	cmd.AddCommand(c.storePullCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())

	return cmd
}

func (c *CLI) storePushCommand() *cobra.Command {
	var (
		name  string
		flags datasetFlags
	)

	cmd := &cobra.Command{
		Use:   "push [file]",
		Short: "Normalize a curriculum file and save it to the store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			popts := c.pipelineOptions(args, flags)
			path, err := pipeline.ResolveSource(popts)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			ds, runner, err := c.loadDataset(ctx, []string{path}, flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			if name == "" {
				name = ds.Name
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			entry := store.Entry{
				Name:       name,
				Source:     filepath.Base(path),
				SourceHash: cache.Hash(raw),
				Modules:    ds.Modules,
			}
			if err := st.Save(ctx, entry); err != nil {
				return err
			}
			c.printSuccess("Pushed %s (%d modules)", name, len(ds.Modules))
			if n := len(ds.Diagnostics); n > 0 {
				c.printWarning("%d data-quality issues; run curnav inspect for details", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dataset name (default: file name)")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-read the dataset file instead of using the cache")

	return cmd
}

func (c *CLI) storePullCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull <name>",
		Short: "Write a stored dataset to a table file",
		Long: `Pull loads a stored module set and writes it as a table; the format follows
the file extension of --output (.xlsx, .csv, .json, .yaml, .toml).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			entry, err := st.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = entry.Name + ".csv"
			}
			if err := dataio.ExportFile(entry.Modules, output); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			c.printSuccess("Pulled %s (%d modules)", entry.Name, len(entry.Modules))
			c.printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.csv)")

	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			infos, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				c.printInfo("No stored datasets")
				return nil
			}
			rows := make([][]string, 0, len(infos))
			for _, in := range infos {
				rows = append(rows, []string{in.Name, strconv.Itoa(in.Modules), in.Source, in.SavedAt.Local().Format("2006-01-02 15:04")})
			}
			c.printTable([]string{"Name", "Modules", "Source", "Saved"}, rows)
			return nil
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			c.printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
