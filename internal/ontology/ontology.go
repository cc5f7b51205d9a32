// Package ontology is the operations layer over the event log: it stamps
// ids and timestamps, appends one record per mutation, and answers every
// read by replaying the full log into a fresh snapshot.
//
// There is no cached state between calls. A Store is cheap; the log is
// the database. Mutations follow one discipline: reads that gate a write
// (update, delete, unrelate) replay first and append nothing when the
// target is absent; creates append blind, duplicates and dangling
// references being the validator's business, not the writer's.
package ontology

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/warpz0ne/openclaw/internal/graph"
	"github.com/warpz0ne/openclaw/internal/oplog"
	"github.com/warpz0ne/openclaw/internal/props"
	"github.com/warpz0ne/openclaw/internal/schema"
	"github.com/warpz0ne/openclaw/internal/validate"
)

// Store executes graph operations against one log.
type Store struct {
	log   oplog.Log
	clock Clock
	ids   IDGenerator
}

// Option configures a Store.
type Option func(*Store)

// WithClock substitutes the timestamp source. Tests use a fixed clock
// for reproducible records.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator substitutes the entity id source.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// New wraps a log in a Store. Defaults: wall clock, random ids.
func New(log oplog.Log, opts ...Option) *Store {
	s := &Store{
		log:   log,
		clock: systemClock{},
		ids:   UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the underlying log.
func (s *Store) Close() error {
	return s.log.Close()
}

// Snapshot replays the full log into materialized state.
func (s *Store) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	records, err := s.log.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return graph.Replay(records), nil
}

// CreateEntity appends a create record and returns the new entity. An
// empty id draws a generated one from the entity type. An explicit id
// colliding with a live entity is not an error: replay applies last
// writer wins.
func (s *Store) CreateEntity(ctx context.Context, typ string, properties props.Object, id string) (*graph.Entity, error) {
	if typ == "" {
		return nil, fmt.Errorf("create entity: type is required")
	}
	if id == "" {
		id = s.ids.NewID(typ)
	}
	if properties == nil {
		properties = props.Object{}
	}

	now := s.clock.Now()
	entity := graph.Entity{
		ID:         id,
		Type:       typ,
		Properties: properties,
		Created:    now,
		Updated:    now,
	}
	rec := graph.CreateRecord{Entity: entity, Timestamp: now}
	if err := s.log.Append(ctx, rec); err != nil {
		return nil, err
	}
	slog.Debug("entity created", "id", id, "type", typ)
	return &entity, nil
}

// GetEntity returns the live entity under id, or graph.ErrNotFound.
func (s *Store) GetEntity(ctx context.Context, id string) (*graph.Entity, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := snap.Entity(id)
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", id, graph.ErrNotFound)
	}
	return e, nil
}

// QueryEntities returns entities matching the type (optional) and every
// property filter entry exactly.
func (s *Store) QueryEntities(ctx context.Context, typ string, where props.Object) ([]*graph.Entity, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Query(typ, where), nil
}

// ListEntities returns all entities, optionally narrowed to one type.
func (s *Store) ListEntities(ctx context.Context, typ string) ([]*graph.Entity, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.ByType(typ), nil
}

// UpdateEntity shallow-merges properties into an existing entity and
// returns the merged result. When the id has no live entity it returns
// graph.ErrNotFound and appends nothing.
func (s *Store) UpdateEntity(ctx context.Context, id string, properties props.Object) (*graph.Entity, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := snap.Entity(id)
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", id, graph.ErrNotFound)
	}

	now := s.clock.Now()
	rec := graph.UpdateRecord{ID: id, Properties: properties, Timestamp: now}
	if err := s.log.Append(ctx, rec); err != nil {
		return nil, err
	}
	slog.Debug("entity updated", "id", id)

	e.Properties = props.Merge(e.Properties, properties)
	e.Updated = now
	return e, nil
}

// DeleteEntity removes an entity from live state. Returns false, with
// nothing appended, when the id has no live entity. Relations naming the
// id stay in the log and dangle.
func (s *Store) DeleteEntity(ctx context.Context, id string) (bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := snap.Entity(id); !ok {
		return false, nil
	}

	rec := graph.DeleteRecord{ID: id, Timestamp: s.clock.Now()}
	if err := s.log.Append(ctx, rec); err != nil {
		return false, err
	}
	slog.Debug("entity deleted", "id", id)
	return true, nil
}

// CreateRelation appends a relate record. Endpoints are never checked:
// relations may reference ids that do not exist yet, or no longer do,
// and identical triples accumulate multiplicity.
func (s *Store) CreateRelation(ctx context.Context, from, rel, to string, properties props.Object) (*graph.Relation, error) {
	if from == "" || rel == "" || to == "" {
		return nil, fmt.Errorf("create relation: from, rel, and to are required")
	}
	if properties == nil {
		properties = props.Object{}
	}

	now := s.clock.Now()
	rec := graph.RelateRecord{From: from, Rel: rel, To: to, Properties: properties, Timestamp: now}
	if err := s.log.Append(ctx, rec); err != nil {
		return nil, err
	}
	slog.Debug("relation created", "from", from, "rel", rel, "to", to)
	return &graph.Relation{From: from, Rel: rel, To: to, Properties: properties, Created: now}, nil
}

// DeleteRelation appends one unrelate record removing every relation
// matching the triple, and reports how many that is. Zero matches means
// nothing is appended.
func (s *Store) DeleteRelation(ctx context.Context, from, rel, to string) (int, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	n := snap.CountRelations(from, rel, to)
	if n == 0 {
		return 0, nil
	}

	rec := graph.UnrelateRecord{From: from, Rel: rel, To: to, Timestamp: s.clock.Now()}
	if err := s.log.Append(ctx, rec); err != nil {
		return 0, err
	}
	slog.Debug("relations removed", "from", from, "rel", rel, "to", to, "count", n)
	return n, nil
}

// GetRelated traverses the neighborhood of one entity. Dangling hits are
// silently dropped.
func (s *Store) GetRelated(ctx context.Context, id, rel string, dir graph.Direction) ([]graph.Related, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Related(id, rel, dir), nil
}

// Validate replays the log and checks the result against a schema
// document. Violations are data; the error is only for an unreadable
// log.
func (s *Store) Validate(ctx context.Context, doc *schema.Document) ([]validate.Violation, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return validate.Graph(snap, doc), nil
}

// Clock supplies record timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
