package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/warpz0ne/openclaw/internal/schema"
)

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect and grow the schema document",
	}

	cmd.AddCommand(NewSchemaShowCommand(rootOpts))
	cmd.AddCommand(NewSchemaAppendCommand(rootOpts))

	return cmd
}

// NewSchemaShowCommand creates the schema show command.
func NewSchemaShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current schema document",
		Long: `Print the schema document as stored. A missing file is a valid empty
schema and prints as one.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaShow(rootOpts, cmd)
		},
	}

	return cmd
}

func runSchemaShow(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	store, err := openSchemaStore(opts)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	raw, err := store.LoadRaw()
	if err != nil {
		return reportError(formatter, ErrCodeSchema, ExitCommandError, err)
	}

	if formatter.Format == "json" {
		return formatter.Emit(raw)
	}
	out, err := schema.EncodeDeterministic(raw)
	if err != nil {
		return reportError(formatter, ErrCodeSchema, ExitFailure, err)
	}
	fmt.Fprint(formatter.Writer, string(out))
	return nil
}

// SchemaAppendOptions holds flags for the schema append command.
type SchemaAppendOptions struct {
	*RootOptions
	Data string
	File string
}

// NewSchemaAppendCommand creates the schema append command.
func NewSchemaAppendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaAppendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Merge a fragment into the schema document",
		Long: `Merge a schema fragment into the stored document and print the
merged result. Mappings merge recursively, lists concatenate without
duplicates, scalars are replaced by the incoming value. The fragment is
checked against the schema grammar first; a rejected fragment leaves the
document untouched.

Example:
  ontology schema append --data '{"types":{"task":{"required":["name"]}}}'
  ontology schema append --file fragment.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaAppend(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "schema fragment as inline JSON")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "schema fragment file (YAML or JSON)")

	return cmd
}

func runSchemaAppend(opts *SchemaAppendOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Data == "" && opts.File == "" {
		err := fmt.Errorf("schema append requires --data or --file")
		return reportError(formatter, ErrCodeBadInput, ExitCommandError, err)
	}

	fragment, err := loadFragment(opts)
	if err != nil {
		return reportError(formatter, ErrCodeBadInput, ExitCommandError, err)
	}

	store, err := openSchemaStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}

	merged, err := store.Append(fragment)
	if err != nil {
		if errors.Is(err, schema.ErrInvalidFragment) {
			return reportError(formatter, ErrCodeSchema, ExitCommandError, err)
		}
		return reportError(formatter, ErrCodeStorage, ExitFailure, err)
	}
	return formatter.Emit(merged)
}

// loadFragment reads the fragment from --data or --file; inline data
// wins when both are given. Files decode as JSON by extension, YAML
// otherwise.
func loadFragment(opts *SchemaAppendOptions) (map[string]any, error) {
	if opts.Data != "" {
		var fragment map[string]any
		decoder := json.NewDecoder(strings.NewReader(opts.Data))
		decoder.UseNumber()
		if err := decoder.Decode(&fragment); err != nil {
			return nil, fmt.Errorf("invalid --data JSON: %w", err)
		}
		return fragment, nil
	}

	path, err := ResolveSafePath(opts.Root, opts.File, true, "schema file")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	var fragment map[string]any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&fragment); err != nil {
			return nil, fmt.Errorf("parse schema file %s: %w", path, err)
		}
		return fragment, nil
	}
	if err := yaml.Unmarshal(data, &fragment); err != nil {
		return nil, fmt.Errorf("parse schema file %s: %w", path, err)
	}
	return fragment, nil
}
