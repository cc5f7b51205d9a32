// Package mcpserver exposes the graph operations as MCP tools, one tool
// per operation, over stdio or streamable HTTP.
//
// Outcome mapping follows the store's taxonomy: absence (missing entity,
// zero unrelate matches) and validation violations are normal tool
// results the model can read; only malformed input and storage failures
// are tool errors.
package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/warpz0ne/openclaw/internal/ontology"
	"github.com/warpz0ne/openclaw/internal/schema"
)

// New creates a fully configured MCP server with all tools registered.
func New(store *ontology.Store, schemaStore *schema.Store) *mcp.Server {
	gt := &graphTools{store: store, schema: schemaStore}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "ontology",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_entity",
		Description: "Create a typed entity with properties; the id is generated from the type unless given",
	}, gt.CreateEntity)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_entity",
		Description: "Get the live entity under one id",
	}, gt.GetEntity)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "query_entities",
		Description: "Query entities by type and exact property equality",
	}, gt.QueryEntities)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_entities",
		Description: "List all entities, optionally narrowed to one type",
	}, gt.ListEntities)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "update_entity",
		Description: "Shallow-merge properties into an existing entity (incoming keys override)",
	}, gt.UpdateEntity)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_entity",
		Description: "Remove an entity from live state; relations naming it remain as dangling edges",
	}, gt.DeleteEntity)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_relation",
		Description: "Create a directed typed relation; endpoints are not checked and duplicates accumulate",
	}, gt.CreateRelation)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_relation",
		Description: "Remove every relation matching a (from, rel, to) triple exactly",
	}, gt.DeleteRelation)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_related",
		Description: "List relations and resolved counterpart entities around one entity",
	}, gt.GetRelated)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "validate_graph",
		Description: "Validate the graph against the schema document and report violations",
	}, gt.ValidateGraph)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "append_schema",
		Description: "Merge a schema fragment into the stored document and return the merged result",
	}, gt.AppendSchema)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "show_schema",
		Description: "Return the current schema document",
	}, gt.ShowSchema)

	return srv
}

// Run serves the stdio transport until the context ends.
func Run(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// ServeHTTP serves the streamable HTTP transport on addr until the
// context ends, then shuts the listener down gracefully.
func ServeHTTP(ctx context.Context, srv *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return srv
	}, nil)

	httpSrv := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
