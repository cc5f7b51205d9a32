package cli

import (
	"github.com/spf13/cobra"
)

// RelateOptions holds flags for the relate command.
type RelateOptions struct {
	*RootOptions
	From  string
	Rel   string
	To    string
	Props string
}

// NewRelateCommand creates the relate command.
func NewRelateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RelateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "relate",
		Short: "Create a relation between two entities",
		Long: `Append a directed, typed relation. Endpoints are never checked:
relating ids that do not exist yet (or no longer do) is allowed, and
identical triples accumulate rather than deduplicate. The validator is
where dangling references surface.

Example:
  ontology relate --from task_1 --rel blocks --to task_2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "source entity id (required)")
	cmd.Flags().StringVarP(&opts.Rel, "rel", "r", "", "relation type (required)")
	cmd.Flags().StringVar(&opts.To, "to", "", "target entity id (required)")
	cmd.Flags().StringVarP(&opts.Props, "props", "p", "{}", "relation properties JSON")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("rel")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runRelate(opts *RelateOptions, cmd *cobra.Command) error {
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

	relation, err := store.CreateRelation(cmd.Context(), opts.From, opts.Rel, opts.To, properties)
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	return formatter.Emit(relation)
}
