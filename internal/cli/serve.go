package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/warpz0ne/openclaw/internal/mcpserver"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	HTTP string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph as an MCP tool server",
		Long: `Expose the full operation set as MCP tools, over stdio by default or
streamable HTTP with --http. Tools map one to one onto the commands:
create_entity, get_entity, query_entities, list_entities, update_entity,
delete_entity, create_relation, delete_relation, get_related,
validate_graph, append_schema, show_schema.

Example:
  ontology serve
  ontology serve --http :8081`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.HTTP, "http", "", "serve streamable HTTP on this address instead of stdio")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	store, err := openStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}
	defer store.Close()

	schemaStore, err := openSchemaStore(opts.RootOptions)
	if err != nil {
		return reportError(formatter, ErrCodeBadPath, ExitCommandError, err)
	}

	srv := mcpserver.New(store, schemaStore)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.HTTP != "" {
		slog.Info("mcp server starting", "transport", "http", "addr", opts.HTTP)
		if err := mcpserver.ServeHTTP(ctx, srv, opts.HTTP); err != nil {
			return WrapExitError(ExitFailure, "mcp server error", err)
		}
		return nil
	}

	slog.Info("mcp server starting", "transport", "stdio")
	if err := mcpserver.Run(ctx, srv); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "mcp server error", err)
	}
	return nil
}
