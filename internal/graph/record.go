package graph

import (
	"time"

	"github.com/warpz0ne/openclaw/internal/props"
)

// Log record op names as persisted on the wire.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpRelate   = "relate"
	OpUnrelate = "unrelate"
)

// Record is the sealed union of log record payloads. The log is the only
// durable state; each variant carries everything replay needs to apply
// it, and nothing is ever rewritten once appended.
type Record interface {
	Op() string
	Time() time.Time
	record() // sealed
}

// CreateRecord inserts or wholly replaces an entity (last writer wins).
type CreateRecord struct {
	Entity    Entity
	Timestamp time.Time
}

func (CreateRecord) Op() string        { return OpCreate }
func (r CreateRecord) Time() time.Time { return r.Timestamp }
func (CreateRecord) record()           {}

// UpdateRecord shallow-merges properties over an existing entity. A
// no-op during replay when the entity does not exist at this point in
// the log.
type UpdateRecord struct {
	ID         string
	Properties props.Object
	Timestamp  time.Time
}

func (UpdateRecord) Op() string        { return OpUpdate }
func (r UpdateRecord) Time() time.Time { return r.Timestamp }
func (UpdateRecord) record()           {}

// DeleteRecord removes an entity. Relations mentioning it stay in the
// log and in replayed state.
type DeleteRecord struct {
	ID        string
	Timestamp time.Time
}

func (DeleteRecord) Op() string        { return OpDelete }
func (r DeleteRecord) Time() time.Time { return r.Timestamp }
func (DeleteRecord) record()           {}

// RelateRecord appends one relation.
type RelateRecord struct {
	From       string
	Rel        string
	To         string
	Properties props.Object
	Timestamp  time.Time
}

func (RelateRecord) Op() string        { return OpRelate }
func (r RelateRecord) Time() time.Time { return r.Timestamp }
func (RelateRecord) record()           {}

// UnrelateRecord removes every relation matching its exact triple.
type UnrelateRecord struct {
	From      string
	Rel       string
	To        string
	Timestamp time.Time
}

func (UnrelateRecord) Op() string        { return OpUnrelate }
func (r UnrelateRecord) Time() time.Time { return r.Timestamp }
func (UnrelateRecord) record()           {}

// UnknownRecord preserves a record whose op this build does not know.
// Replay skips it; the codec keeps it decodable so newer logs do not
// break older readers.
type UnknownRecord struct {
	RawOp     string
	Timestamp time.Time
}

func (r UnknownRecord) Op() string      { return r.RawOp }
func (r UnknownRecord) Time() time.Time { return r.Timestamp }
func (UnknownRecord) record()           {}
