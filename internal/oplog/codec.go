package oplog

import (
	"fmt"
	"time"

	"github.com/warpz0ne/openclaw/internal/graph"
	"github.com/warpz0ne/openclaw/internal/props"
)

// EncodeRecord serializes a record to RFC 8785 canonical JSON. Both
// backends persist exactly these bytes, so a record encodes identically
// whether it lands in a JSONL file or a SQLite row, and re-encoding a
// decoded record reproduces the stored bytes.
func EncodeRecord(rec graph.Record) ([]byte, error) {
	env, err := recordEnvelope(rec)
	if err != nil {
		return nil, err
	}
	data, err := props.MarshalCanonical(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", rec.Op(), err)
	}
	return data, nil
}

func recordEnvelope(rec graph.Record) (props.Object, error) {
	switch r := rec.(type) {
	case graph.CreateRecord:
		return props.Object{
			"op": props.String(graph.OpCreate),
			"entity": props.Object{
				"id":         props.String(r.Entity.ID),
				"type":       props.String(r.Entity.Type),
				"properties": orEmpty(r.Entity.Properties),
				"created":    timeValue(r.Entity.Created),
				"updated":    timeValue(r.Entity.Updated),
			},
			"timestamp": timeValue(r.Timestamp),
		}, nil
	case graph.UpdateRecord:
		return props.Object{
			"op":         props.String(graph.OpUpdate),
			"id":         props.String(r.ID),
			"properties": orEmpty(r.Properties),
			"timestamp":  timeValue(r.Timestamp),
		}, nil
	case graph.DeleteRecord:
		return props.Object{
			"op":        props.String(graph.OpDelete),
			"id":        props.String(r.ID),
			"timestamp": timeValue(r.Timestamp),
		}, nil
	case graph.RelateRecord:
		return props.Object{
			"op":         props.String(graph.OpRelate),
			"from":       props.String(r.From),
			"rel":        props.String(r.Rel),
			"to":         props.String(r.To),
			"properties": orEmpty(r.Properties),
			"timestamp":  timeValue(r.Timestamp),
		}, nil
	case graph.UnrelateRecord:
		return props.Object{
			"op":        props.String(graph.OpUnrelate),
			"from":      props.String(r.From),
			"rel":       props.String(r.Rel),
			"to":        props.String(r.To),
			"timestamp": timeValue(r.Timestamp),
		}, nil
	default:
		return nil, fmt.Errorf("encode record: unsupported type %T", rec)
	}
}

// DecodeRecord parses one canonical JSON record. Unknown op values decode
// to graph.UnknownRecord so newer logs stay readable; structurally broken
// input fails with ErrCorruptRecord wrapped in.
func DecodeRecord(data []byte) (graph.Record, error) {
	env, err := props.ObjectFromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	op, err := stringField(env, "op")
	if err != nil {
		return nil, err
	}

	switch op {
	case graph.OpCreate:
		ent, err := objectField(env, "entity")
		if err != nil {
			return nil, err
		}
		id, err := stringField(ent, "id")
		if err != nil {
			return nil, err
		}
		typ, err := stringField(ent, "type")
		if err != nil {
			return nil, err
		}
		created, err := timeField(ent, "created")
		if err != nil {
			return nil, err
		}
		updated, err := timeField(ent, "updated")
		if err != nil {
			return nil, err
		}
		ts, err := timeField(env, "timestamp")
		if err != nil {
			return nil, err
		}
		return graph.CreateRecord{
			Entity: graph.Entity{
				ID:         id,
				Type:       typ,
				Properties: propsField(ent),
				Created:    created,
				Updated:    updated,
			},
			Timestamp: ts,
		}, nil

	case graph.OpUpdate:
		id, err := stringField(env, "id")
		if err != nil {
			return nil, err
		}
		ts, err := timeField(env, "timestamp")
		if err != nil {
			return nil, err
		}
		return graph.UpdateRecord{ID: id, Properties: propsField(env), Timestamp: ts}, nil

	case graph.OpDelete:
		id, err := stringField(env, "id")
		if err != nil {
			return nil, err
		}
		ts, err := timeField(env, "timestamp")
		if err != nil {
			return nil, err
		}
		return graph.DeleteRecord{ID: id, Timestamp: ts}, nil

	case graph.OpRelate:
		from, rel, to, err := tripleFields(env)
		if err != nil {
			return nil, err
		}
		ts, err := timeField(env, "timestamp")
		if err != nil {
			return nil, err
		}
		return graph.RelateRecord{From: from, Rel: rel, To: to, Properties: propsField(env), Timestamp: ts}, nil

	case graph.OpUnrelate:
		from, rel, to, err := tripleFields(env)
		if err != nil {
			return nil, err
		}
		ts, err := timeField(env, "timestamp")
		if err != nil {
			return nil, err
		}
		return graph.UnrelateRecord{From: from, Rel: rel, To: to, Timestamp: ts}, nil

	default:
		ts, _ := timeField(env, "timestamp")
		return graph.UnknownRecord{RawOp: op, Timestamp: ts}, nil
	}
}

// timeValue formats a timestamp for the wire: RFC 3339, UTC, nanosecond
// precision when present.
func timeValue(t time.Time) props.String {
	return props.String(t.UTC().Format(time.RFC3339Nano))
}

func orEmpty(p props.Object) props.Object {
	if p == nil {
		return props.Object{}
	}
	return p
}

func stringField(obj props.Object, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrCorruptRecord, key)
	}
	s, ok := v.(props.String)
	if !ok {
		return "", fmt.Errorf("%w: field %q is %s, want string", ErrCorruptRecord, key, props.TypeName(v))
	}
	return string(s), nil
}

func objectField(obj props.Object, key string) (props.Object, error) {
	v, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrCorruptRecord, key)
	}
	o, ok := v.(props.Object)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is %s, want object", ErrCorruptRecord, key, props.TypeName(v))
	}
	return o, nil
}

// propsField reads the optional properties object; absent or non-object
// decodes to empty rather than failing, matching the write side which
// always emits an object.
func propsField(obj props.Object) props.Object {
	if o, ok := obj["properties"].(props.Object); ok {
		return o
	}
	return props.Object{}
}

func timeField(obj props.Object, key string) (time.Time, error) {
	s, err := stringField(obj, key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: field %q: %v", ErrCorruptRecord, key, err)
	}
	return t.UTC(), nil
}

func tripleFields(env props.Object) (from, rel, to string, err error) {
	if from, err = stringField(env, "from"); err != nil {
		return "", "", "", err
	}
	if rel, err = stringField(env, "rel"); err != nil {
		return "", "", "", err
	}
	if to, err = stringField(env, "to"); err != nil {
		return "", "", "", err
	}
	return from, rel, to, nil
}
