package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/warpz0ne/openclaw/internal/graph"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	ID string
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get an entity by id",
		Long: `Replay the log and print the live entity under one id.

Example:
  ontology get --id task_a1b2c3d4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "entity id (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runGet(opts *GetOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	store, err := openStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	defer store.Close()

	entity, err := store.GetEntity(cmd.Context(), opts.ID)
	if errors.Is(err, graph.ErrNotFound) {
		return reportNotFound(formatter, opts.ID)
	}
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	return formatter.Emit(entity)
}
