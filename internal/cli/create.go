package cli

import (
	"github.com/spf13/cobra"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Type  string
	Props string
	ID    string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an entity",
		Long: `Create an entity and append its record to the log.

The id is generated from the entity type unless --id is given. An
explicit id colliding with a live entity is not rejected; replay applies
last writer wins.

Example:
  ontology create --type task --props '{"name":"write docs","status":"open"}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "entity type (required)")
	cmd.Flags().StringVarP(&opts.Props, "props", "p", "{}", "properties JSON")
	cmd.Flags().StringVar(&opts.ID, "id", "", "entity id (generated if not provided)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runCreate(opts *CreateOptions, cmd *cobra.Command) error {
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

	entity, err := store.CreateEntity(cmd.Context(), opts.Type, properties, opts.ID)
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	return formatter.Emit(entity)
}
