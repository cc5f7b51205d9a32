package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/warpz0ne/openclaw/internal/graph"
	"github.com/warpz0ne/openclaw/internal/ontology"
	"github.com/warpz0ne/openclaw/internal/props"
	"github.com/warpz0ne/openclaw/internal/schema"
	"github.com/warpz0ne/openclaw/internal/validate"
)

// graphTools holds the stores the tool handlers operate on.
type graphTools struct {
	store  *ontology.Store
	schema *schema.Store
}

// --- Input types ---

type CreateEntityInput struct {
	Type       string         `json:"type" jsonschema:"Entity type (e.g. task, person, event)"`
	Properties map[string]any `json:"properties,omitempty" jsonschema:"Entity properties as a JSON object"`
	ID         string         `json:"id,omitempty" jsonschema:"Explicit entity id; generated from the type if omitted"`
}

type GetEntityInput struct {
	ID string `json:"id" jsonschema:"Entity id"`
}

type QueryEntitiesInput struct {
	Type  string         `json:"type,omitempty" jsonschema:"Entity type; all types if omitted"`
	Where map[string]any `json:"where,omitempty" jsonschema:"Property filter matched by exact equality per key"`
}

type ListEntitiesInput struct {
	Type string `json:"type,omitempty" jsonschema:"Entity type; all types if omitted"`
}

type UpdateEntityInput struct {
	ID         string         `json:"id" jsonschema:"Entity id"`
	Properties map[string]any `json:"properties" jsonschema:"Properties to merge in; incoming keys override"`
}

type DeleteEntityInput struct {
	ID string `json:"id" jsonschema:"Entity id"`
}

type CreateRelationInput struct {
	From       string         `json:"from" jsonschema:"Source entity id"`
	Rel        string         `json:"rel" jsonschema:"Relation type in active voice (e.g. blocks, owns)"`
	To         string         `json:"to" jsonschema:"Target entity id"`
	Properties map[string]any `json:"properties,omitempty" jsonschema:"Relation properties as a JSON object"`
}

type DeleteRelationInput struct {
	From string `json:"from" jsonschema:"Source entity id"`
	Rel  string `json:"rel" jsonschema:"Relation type"`
	To   string `json:"to" jsonschema:"Target entity id"`
}

type GetRelatedInput struct {
	ID        string `json:"id" jsonschema:"Entity id to traverse from"`
	Rel       string `json:"rel,omitempty" jsonschema:"Relation type filter; all types if omitted"`
	Direction string `json:"direction,omitempty" jsonschema:"Traversal direction: outgoing (default), incoming, or both"`
}

type AppendSchemaInput struct {
	Fragment map[string]any `json:"fragment" jsonschema:"Schema fragment to merge into the stored document"`
}

// relatedItem is the wire shape of one traversal hit. The direction
// field appears only for queries run with direction both.
type relatedItem struct {
	Relation  string        `json:"relation"`
	Direction string        `json:"direction,omitempty"`
	Entity    *graph.Entity `json:"entity"`
}

// validationReport is the validate_graph result payload.
type validationReport struct {
	Valid      bool                 `json:"valid"`
	Violations []validate.Violation `json:"violations,omitempty"`
}

// --- Handlers ---

func (t *graphTools) CreateEntity(ctx context.Context, _ *mcp.CallToolRequest, input CreateEntityInput) (*mcp.CallToolResult, any, error) {
	properties, err := props.ObjectFromAny(input.Properties)
	if err != nil {
		return toolError("Invalid properties: %v", err), nil, nil
	}

	entity, err := t.store.CreateEntity(ctx, input.Type, properties, input.ID)
	if err != nil {
		return toolError("Failed to create entity: %v", err), nil, nil
	}
	return toolJSON(entity)
}

func (t *graphTools) GetEntity(ctx context.Context, _ *mcp.CallToolRequest, input GetEntityInput) (*mcp.CallToolResult, any, error) {
	entity, err := t.store.GetEntity(ctx, input.ID)
	if errors.Is(err, graph.ErrNotFound) {
		return toolText(fmt.Sprintf("Entity not found: %s", input.ID)), nil, nil
	}
	if err != nil {
		return toolError("Failed to get entity: %v", err), nil, nil
	}
	return toolJSON(entity)
}

func (t *graphTools) QueryEntities(ctx context.Context, _ *mcp.CallToolRequest, input QueryEntitiesInput) (*mcp.CallToolResult, any, error) {
	where, err := props.ObjectFromAny(input.Where)
	if err != nil {
		return toolError("Invalid filter: %v", err), nil, nil
	}

	entities, err := t.store.QueryEntities(ctx, input.Type, where)
	if err != nil {
		return toolError("Query failed: %v", err), nil, nil
	}
	return toolJSON(entities)
}

func (t *graphTools) ListEntities(ctx context.Context, _ *mcp.CallToolRequest, input ListEntitiesInput) (*mcp.CallToolResult, any, error) {
	entities, err := t.store.ListEntities(ctx, input.Type)
	if err != nil {
		return toolError("Failed to list entities: %v", err), nil, nil
	}
	return toolJSON(entities)
}

func (t *graphTools) UpdateEntity(ctx context.Context, _ *mcp.CallToolRequest, input UpdateEntityInput) (*mcp.CallToolResult, any, error) {
	properties, err := props.ObjectFromAny(input.Properties)
	if err != nil {
		return toolError("Invalid properties: %v", err), nil, nil
	}

	entity, err := t.store.UpdateEntity(ctx, input.ID, properties)
	if errors.Is(err, graph.ErrNotFound) {
		return toolText(fmt.Sprintf("Entity not found: %s", input.ID)), nil, nil
	}
	if err != nil {
		return toolError("Failed to update entity: %v", err), nil, nil
	}
	return toolJSON(entity)
}

func (t *graphTools) DeleteEntity(ctx context.Context, _ *mcp.CallToolRequest, input DeleteEntityInput) (*mcp.CallToolResult, any, error) {
	deleted, err := t.store.DeleteEntity(ctx, input.ID)
	if err != nil {
		return toolError("Failed to delete entity: %v", err), nil, nil
	}
	if !deleted {
		return toolText(fmt.Sprintf("Entity not found: %s", input.ID)), nil, nil
	}
	return toolText(fmt.Sprintf("Deleted: %s", input.ID)), nil, nil
}

func (t *graphTools) CreateRelation(ctx context.Context, _ *mcp.CallToolRequest, input CreateRelationInput) (*mcp.CallToolResult, any, error) {
	properties, err := props.ObjectFromAny(input.Properties)
	if err != nil {
		return toolError("Invalid properties: %v", err), nil, nil
	}

	relation, err := t.store.CreateRelation(ctx, input.From, input.Rel, input.To, properties)
	if err != nil {
		return toolError("Failed to create relation: %v", err), nil, nil
	}
	return toolJSON(relation)
}

func (t *graphTools) DeleteRelation(ctx context.Context, _ *mcp.CallToolRequest, input DeleteRelationInput) (*mcp.CallToolResult, any, error) {
	if input.From == "" || input.Rel == "" || input.To == "" {
		return toolError("from, rel, and to are required"), nil, nil
	}

	removed, err := t.store.DeleteRelation(ctx, input.From, input.Rel, input.To)
	if err != nil {
		return toolError("Failed to delete relations: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf("Removed %d relation(s)", removed)), nil, nil
}

func (t *graphTools) GetRelated(ctx context.Context, _ *mcp.CallToolRequest, input GetRelatedInput) (*mcp.CallToolResult, any, error) {
	dirName := input.Direction
	if dirName == "" {
		dirName = string(graph.DirectionOutgoing)
	}
	dir, err := graph.ParseDirection(dirName)
	if err != nil {
		return toolError("Invalid direction: %v", err), nil, nil
	}

	hits, err := t.store.GetRelated(ctx, input.ID, input.Rel, dir)
	if err != nil {
		return toolError("Failed to get related entities: %v", err), nil, nil
	}

	items := make([]relatedItem, 0, len(hits))
	for _, h := range hits {
		item := relatedItem{Relation: h.Relation.Rel, Entity: h.Entity}
		if dir == graph.DirectionBoth {
			item.Direction = string(h.Direction)
		}
		items = append(items, item)
	}
	return toolJSON(items)
}

func (t *graphTools) ValidateGraph(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	doc, err := t.schema.Load()
	if err != nil {
		return toolError("Failed to load schema: %v", err), nil, nil
	}

	violations, err := t.store.Validate(ctx, doc)
	if err != nil {
		return toolError("Validation failed to run: %v", err), nil, nil
	}
	return toolJSON(validationReport{Valid: len(violations) == 0, Violations: violations})
}

func (t *graphTools) AppendSchema(_ context.Context, _ *mcp.CallToolRequest, input AppendSchemaInput) (*mcp.CallToolResult, any, error) {
	if len(input.Fragment) == 0 {
		return toolError("fragment is required"), nil, nil
	}

	merged, err := t.schema.Append(input.Fragment)
	if err != nil {
		return toolError("Failed to append schema: %v", err), nil, nil
	}
	return toolJSON(merged)
}

func (t *graphTools) ShowSchema(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	raw, err := t.schema.LoadRaw()
	if err != nil {
		return toolError("Failed to load schema: %v", err), nil, nil
	}
	return toolJSON(raw)
}

// --- Helpers ---

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
