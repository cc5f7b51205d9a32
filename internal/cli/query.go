package cli

import (
	"github.com/spf13/cobra"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Type  string
	Where string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query entities by type and property filter",
		Long: `Replay the log and print the entities matching a type and an exact
property filter. Filter entries match by structural equality; there is
no partial or range matching.

Example:
  ontology query --type task --where '{"status":"open"}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "entity type (all types if omitted)")
	cmd.Flags().StringVarP(&opts.Where, "where", "w", "{}", "property filter JSON")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	where, err := parseObject(opts.Where, "--where")
	if err != nil {
		return reportError(formatter, ErrCodeBadInput, ExitCommandError, err)
	}

	store, err := openStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	defer store.Close()

	entities, err := store.QueryEntities(cmd.Context(), opts.Type, where)
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	return formatter.Emit(entities)
}
