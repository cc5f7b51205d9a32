package cli

import (
	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Type string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities",
		Long: `Replay the log and print every live entity, optionally narrowed to
one type.

Example:
  ontology list --type person`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "entity type (all types if omitted)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	store, err := openStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	defer store.Close()

	entities, err := store.ListEntities(cmd.Context(), opts.Type)
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	return formatter.Emit(entities)
}
