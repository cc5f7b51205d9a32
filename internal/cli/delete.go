package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	ID string
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an entity",
		Long: `Remove an entity from live state. The log keeps its history, and
relations naming the id stay behind as dangling edges until unrelated.

Example:
  ontology delete --id task_a1b2c3d4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "entity id (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runDelete(opts *DeleteOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	store, err := openStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	defer store.Close()

	deleted, err := store.DeleteEntity(cmd.Context(), opts.ID)
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	if !deleted {
		return reportNotFound(formatter, opts.ID)
	}
	return formatter.Success(fmt.Sprintf("Deleted: %s", opts.ID), map[string]any{
		"deleted": true,
		"id":      opts.ID,
	})
}
