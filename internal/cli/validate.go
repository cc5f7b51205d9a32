package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warpz0ne/openclaw/internal/validate"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                 `json:"valid"`
	Violations []validate.Violation `json:"violations,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the graph against the schema",
		Long: `Replay the log and check the materialized graph against the schema
document: required, forbidden, and enum property rules per entity type;
endpoint, cardinality, and acyclicity rules per relation type; and the
start/end date constraints.

A graph with violations is a successful validation run that exits 1; the
violations are the output, not an error.

Example:
  ontology validate --schema memory/ontology/schema.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	schemaStore, err := openSchemaStore(opts)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	doc, err := schemaStore.Load()
	if err != nil {
		return reportError(formatter, ErrCodeSchema, ExitCommandError, err)
	}

	store, err := openStore(opts)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	defer store.Close()

	violations, err := store.Validate(cmd.Context(), doc)
	if err != nil {
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	return outputValidation(formatter, violations)
}

// outputValidation renders the validation outcome in either format. Any
// violation makes the command exit 1.
func outputValidation(f *OutputFormatter, violations []validate.Violation) error {
	if len(violations) == 0 {
		return f.Success("Graph is valid.", ValidationResult{Valid: true})
	}

	summary := fmt.Sprintf("validation failed with %d violation(s)", len(violations))

	if f.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Violations: violations},
			Error: &CLIError{
				Code:    ErrCodeInvalidGraph,
				Message: summary,
			},
		}
		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, summary)
	}

	fmt.Fprintln(f.Writer, "Validation errors:")
	for _, v := range violations {
		fmt.Fprintf(f.Writer, "  - %s\n", v)
	}
	return NewExitError(ExitFailure, summary)
}
