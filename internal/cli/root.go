// Package cli implements taskctl, a command line front end over a task store.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hiroki-koketsu/taskcore/internal/store"
	"github.com/spf13/cobra"
)

// Opener returns the store commands act on and a function that releases it.
type Opener func(ctx context.Context, logger *slog.Logger) (*store.Store, func() error, error)

// NewRootCommand builds the taskctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage personal tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log store activity to stderr")

	// withStore opens the store for one command and closes it afterwards.
	withStore := func(run func(cmd *cobra.Command, args []string, st *store.Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			st, closeFn, err := open(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("failed to open task store: %w", err)
			}
			defer func() {
				if cerr := closeFn(); cerr != nil && err == nil {
					err = fmt.Errorf("failed to close task store: %w", cerr)
				}
			}()
			return run(cmd, args, st)
		}
	}

	root.AddCommand(
		addCmd(withStore),
		listCmd(withStore),
		editCmd(withStore),
		toggleCmd(withStore),
		rmCmd(withStore),
		rmAtCmd(withStore),
		clearCmd(withStore),
		archiveCmd(withStore),
		statsCmd(withStore),
		scheduleCmd(withStore),
		escalationsCmd(withStore),
	)
	return root
}

// runWithStore adapts a store-taking command body into a cobra RunE.
type runWithStore func(run func(cmd *cobra.Command, args []string, st *store.Store) error) func(*cobra.Command, []string) error
