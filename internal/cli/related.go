package cli

import (
	"github.com/spf13/cobra"

	"github.com/warpz0ne/openclaw/internal/graph"
)

// RelatedOptions holds flags for the related command.
type RelatedOptions struct {
	*RootOptions
	ID  string
	Rel string
	Dir string
}

// relatedItem is the wire shape of one traversal hit. The direction
// field appears only when the query ran with --dir both; in the fixed
// directions it would repeat the flag.
type relatedItem struct {
	Relation  string        `json:"relation"`
	Direction string        `json:"direction,omitempty"`
	Entity    *graph.Entity `json:"entity"`
}

// NewRelatedCommand creates the related command.
func NewRelatedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RelatedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "related",
		Short: "List entities related to one entity",
		Long: `Traverse the neighborhood of one entity and print each relation with
its resolved counterpart. Hits whose counterpart entity no longer exists
are silently dropped; the dangling relation itself stays in the log.

Example:
  ontology related --id task_1 --rel blocks --dir both`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelated(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "entity id (required)")
	cmd.Flags().StringVarP(&opts.Rel, "rel", "r", "", "relation type filter (all types if omitted)")
	cmd.Flags().StringVarP(&opts.Dir, "dir", "d", "outgoing", "traversal direction (outgoing|incoming|both)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runRelated(opts *RelatedOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	dir, err := graph.ParseDirection(opts.Dir)
	if err != nil {
		return reportError(formatter, ErrCodeBadInput, ExitCommandError, err)
	}

	store, err := openStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	defer store.Close()

	hits, err := store.GetRelated(cmd.Context(), opts.ID, opts.Rel, dir)
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}

	items := make([]relatedItem, 0, len(hits))
	for _, h := range hits {
		item := relatedItem{Relation: h.Relation.Rel, Entity: h.Entity}
		if dir == graph.DirectionBoth {
			item.Direction = string(h.Direction)
		}
		items = append(items, item)
	}
	return formatter.Emit(items)
}
