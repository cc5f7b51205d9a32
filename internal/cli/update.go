package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/warpz0ne/openclaw/internal/graph"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	ID    string
	Props string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an entity's properties",
		Long: `Shallow-merge properties into an existing entity: incoming keys
override, untouched keys survive. Nothing is appended when the id has no
live entity.

Example:
  ontology update --id task_a1b2c3d4 --props '{"status":"done"}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "entity id (required)")
	cmd.Flags().StringVarP(&opts.Props, "props", "p", "", "properties JSON (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("props")

	return cmd
}

func runUpdate(opts *UpdateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	properties, err := parseObject(opts.Props, "--props")
	if err != nil {
		return reportError(formatter, ErrCodeBadInput, ExitCommandError, err)
	}

	store, err := openStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	defer store.Close()

	entity, err := store.UpdateEntity(cmd.Context(), opts.ID, properties)
	if errors.Is(err, graph.ErrNotFound) {
		return reportNotFound(formatter, opts.ID)
	}
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	return formatter.Emit(entity)
}
