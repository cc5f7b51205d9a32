package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// UnrelateOptions holds flags for the unrelate command.
type UnrelateOptions struct {
	*RootOptions
	From string
	Rel  string
	To   string
}

// NewUnrelateCommand creates the unrelate command.
func NewUnrelateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UnrelateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "unrelate",
		Short: "Remove relations matching a triple",
		Long: `Remove every relation whose (from, rel, to) triple matches exactly,
however many times it was related and whatever properties each copy
carries. Removing a triple with no matches appends nothing.

Example:
  ontology unrelate --from task_1 --rel blocks --to task_2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnrelate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "source entity id (required)")
	cmd.Flags().StringVarP(&opts.Rel, "rel", "r", "", "relation type (required)")
	cmd.Flags().StringVar(&opts.To, "to", "", "target entity id (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("rel")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runUnrelate(opts *UnrelateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	store, err := openStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	defer store.Close()

	removed, err := store.DeleteRelation(cmd.Context(), opts.From, opts.Rel, opts.To)
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	return formatter.Success(fmt.Sprintf("Removed %d relation(s)", removed), map[string]any{
		"removed": removed,
		"from":    opts.From,
		"rel":     opts.Rel,
		"to":      opts.To,
	})
}
