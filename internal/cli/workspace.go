package cli

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/warpz0ne/openclaw/internal/ontology"
	"github.com/warpz0ne/openclaw/internal/oplog"
	"github.com/warpz0ne/openclaw/internal/props"
	"github.com/warpz0ne/openclaw/internal/schema"
)

// openStore resolves the record log path within the workspace root and
// opens the operations layer over it. The caller owns Close.
func openStore(opts *RootOptions) (*ontology.Store, error) {
	path, err := ResolveSafePath(opts.Root, opts.Graph, false, "graph path")
	if err != nil {
		return nil, err
	}
	log, err := oplog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record log %s: %w", path, err)
	}
	return ontology.New(log), nil
}

// openSchemaStore resolves the schema document path within the workspace
// root. The store is rooted at the document's directory, so even a bug in
// path handling cannot write outside it.
func openSchemaStore(opts *RootOptions) (*schema.Store, error) {
	path, err := ResolveSafePath(opts.Root, opts.Schema, false, "schema path")
	if err != nil {
		return nil, err
	}
	return schema.NewStore(osfs.New(filepath.Dir(path)), filepath.Base(path)), nil
}

// newFormatter builds the output formatter for one command execution.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// reportError renders a failure through the formatter and returns the
// matching ExitError. The returned error is already reported: main exits
// with its code without printing again.
func reportError(f *OutputFormatter, code string, exitCode int, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exitCode, code, err)
}

// reportNotFound renders the missing-entity outcome for one id.
func reportNotFound(f *OutputFormatter, id string) error {
	msg := fmt.Sprintf("Entity not found: %s", id)
	_ = f.Error(ErrCodeNotFound, msg, nil)
	return NewExitError(ExitFailure, msg)
}

// parseObject parses an inline JSON object flag into properties.
func parseObject(raw, flag string) (props.Object, error) {
	obj, err := props.ObjectFromJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid %s JSON: %w", flag, err)
	}
	return obj, nil
}
