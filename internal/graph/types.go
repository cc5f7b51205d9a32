package graph

import (
	"errors"
	"fmt"
	"time"

	"github.com/warpz0ne/openclaw/internal/props"
)

// ErrNotFound reports an entity id with no live entity in the snapshot.
// Absence is an expected outcome; callers branch with errors.Is rather
// than treating it as a failure.
var ErrNotFound = errors.New("graph: entity not found")

// Entity is a typed node. Properties are schemaless at write time; the
// validator applies type rules after the fact.
type Entity struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	Properties props.Object `json:"properties"`
	Created    time.Time    `json:"created"`
	Updated    time.Time    `json:"updated"`
}

// Relation is a directed, typed edge. Endpoints are entity ids that are
// never checked at creation: a relation may reference ids that do not
// exist yet, or no longer do. Duplicate (From, Rel, To) triples may
// coexist.
type Relation struct {
	From       string       `json:"from"`
	Rel        string       `json:"rel"`
	To         string       `json:"to"`
	Properties props.Object `json:"properties"`
	Created    time.Time    `json:"created"`
}

// Matches reports whether the relation carries exactly this triple.
// Properties are irrelevant to matching.
func (r Relation) Matches(from, rel, to string) bool {
	return r.From == from && r.Rel == rel && r.To == to
}

// Direction selects which end of a relation an entity sits on when
// traversing its neighborhood.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// ParseDirection validates a direction string. Empty selects Both.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionOutgoing, DirectionIncoming, DirectionBoth:
		return Direction(s), nil
	case "":
		return DirectionBoth, nil
	default:
		return "", fmt.Errorf("invalid direction %q (want outgoing, incoming, or both)", s)
	}
}

// Related pairs a relation with its resolved counterpart entity for one
// traversal hit. Direction is outgoing when the queried entity is the
// relation's From, incoming when it is the To.
type Related struct {
	Relation  Relation  `json:"relation"`
	Entity    *Entity   `json:"entity"`
	Direction Direction `json:"direction"`
}
