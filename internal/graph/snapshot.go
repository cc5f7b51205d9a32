package graph

import "github.com/warpz0ne/openclaw/internal/props"

// Snapshot is materialized graph state: the result of replaying a log
// prefix. It is a value, not a handle — nothing keeps it in sync with
// the log it came from.
type Snapshot struct {
	entities  map[string]*Entity
	order     []string
	relations []Relation
}

func (s *Snapshot) put(e *Entity) {
	if _, ok := s.entities[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	s.entities[e.ID] = e
}

func (s *Snapshot) remove(id string) {
	if _, ok := s.entities[id]; !ok {
		return
	}
	delete(s.entities, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Entity returns the live entity under id, or false.
func (s *Snapshot) Entity(id string) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Len reports the number of live entities.
func (s *Snapshot) Len() int {
	return len(s.entities)
}

// Entities returns all live entities in first-created order. Always a
// non-nil slice.
func (s *Snapshot) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entities[id])
	}
	return out
}

// ByType returns live entities of one type, in snapshot order. An empty
// type matches everything.
func (s *Snapshot) ByType(typ string) []*Entity {
	out := make([]*Entity, 0)
	for _, id := range s.order {
		e := s.entities[id]
		if typ == "" || e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// Query returns entities whose properties match every filter entry by
// structural equality, optionally narrowed to one type ("" matches all).
// A key absent from an entity's properties compares as null, so a null
// filter value matches entities lacking the key. An empty filter matches
// every entity of the type.
func (s *Snapshot) Query(typ string, filter props.Object) []*Entity {
	out := make([]*Entity, 0)
	for _, id := range s.order {
		e := s.entities[id]
		if typ != "" && e.Type != typ {
			continue
		}
		if matchesFilter(e, filter) {
			out = append(out, e)
		}
	}
	return out
}

func matchesFilter(e *Entity, filter props.Object) bool {
	for k, want := range filter {
		got, ok := e.Properties[k]
		if !ok {
			got = props.Null{}
		}
		if !props.Equal(want, got) {
			return false
		}
	}
	return true
}

// Relations returns all relations in log order, dangling ones included.
// Always a non-nil slice.
func (s *Snapshot) Relations() []Relation {
	out := make([]Relation, len(s.relations))
	copy(out, s.relations)
	return out
}

// RelationsOfType returns relations of one type in log order.
func (s *Snapshot) RelationsOfType(rel string) []Relation {
	out := make([]Relation, 0)
	for _, r := range s.relations {
		if r.Rel == rel {
			out = append(out, r)
		}
	}
	return out
}

// CountRelations counts relations matching the exact triple.
func (s *Snapshot) CountRelations(from, rel, to string) int {
	n := 0
	for _, r := range s.relations {
		if r.Matches(from, rel, to) {
			n++
		}
	}
	return n
}

// Related traverses the neighborhood of one entity. rel narrows to one
// relation type ("" matches all); dir selects which end the entity sits
// on. Hits whose counterpart entity is missing are skipped — dangling
// relations are a validator concern, not a traversal result. Hits come
// back in log order whatever the direction; a self-loop under
// DirectionBoth counts once, as outgoing.
func (s *Snapshot) Related(id, rel string, dir Direction) []Related {
	out := make([]Related, 0)
	for _, r := range s.relations {
		if rel != "" && r.Rel != rel {
			continue
		}
		switch {
		case (dir == DirectionOutgoing || dir == DirectionBoth) && r.From == id:
			if e, ok := s.entities[r.To]; ok {
				out = append(out, Related{Relation: r, Entity: e, Direction: DirectionOutgoing})
			}
		case (dir == DirectionIncoming || dir == DirectionBoth) && r.To == id:
			if e, ok := s.entities[r.From]; ok {
				out = append(out, Related{Relation: r, Entity: e, Direction: DirectionIncoming})
			}
		}
	}
	return out
}
