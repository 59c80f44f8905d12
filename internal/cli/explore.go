package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fhgr/curnav/internal/config"
	apperrors "github.com/fhgr/curnav/pkg/errors"
	"github.com/fhgr/curnav/pkg/session"
)

type exploreOpts struct {
	datasetFlags
	resume string
}

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	opts := exploreOpts{}

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Navigate the curriculum interactively in the terminal",
		Long: `Explore opens a terminal navigator over the module list. Selecting a module
highlights its prerequisites and dependents; the footer shows the credit
summary of the active semester/tag filter.

The interaction state is saved as a session when you quit and can be picked
up again with --resume <id>.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args, opts)
		},
	}

	opts.datasetFlags.register(cmd)
	cmd.Flags().StringVar(&opts.resume, "resume", "", "continue a saved session")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, args []string, opts exploreOpts) error {
	ds, runner, err := c.loadDataset(ctx, args, opts.datasetFlags)
	if err != nil {
		return err
	}
	defer runner.Close()

	if c.cfg.Sessions.Backend == config.SessionsMemory {
		c.cfg.Sessions.Backend = config.SessionsFile
	}
	sessions, closeSessions, err := c.newSessionStore(ctx)
	if err != nil {
		return err
	}
	defer closeSessions()

	sess, err := c.resumeSession(ctx, sessions, opts.resume)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(NewExploreModel(ds, sess, c.cfg.ColorPalette()), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	sess = final.(ExploreModel).Session
	sess.Touch(c.cfg.Sessions.TTL)
	if err := sessions.Set(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	c.printInfo("Session saved")
	c.printNextStep("Resume with", "curnav explore --resume "+sess.ID)
	return nil
}

// resumeSession loads the session with the given ID. An empty ID, or one the
// store no longer holds, starts a new session.
func (c *CLI) resumeSession(ctx context.Context, sessions session.Store, id string) (*session.Session, error) {
	if id == "" {
		return session.New(c.cfg.Sessions.TTL), nil
	}
	sess, err := sessions.Get(ctx, id)
	if apperrors.IsNotFound(err) {
		c.printWarning("Session %s not found, starting a new one", id)
		return session.New(c.cfg.Sessions.TTL), nil
	}
	return sess, err
}
