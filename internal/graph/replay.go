package graph

import "github.com/warpz0ne/openclaw/internal/props"

// Replay folds a record sequence into a Snapshot. Pure: no package state,
// no I/O, no mutation of the input records; every call builds fresh
// state, so two replays of the same sequence are equal in entity
// content, entity order, and relation order.
//
// Fold rules, applied strictly in log order:
//
//   - create: insert or wholly replace under the entity id. A replaced
//     entity keeps its position in iteration order; an id re-created
//     after a delete re-enters at the end.
//   - update: when the entity exists, shallow-merge the record's
//     properties over it and advance Updated if the record timestamp is
//     later. When it does not, skip.
//   - delete: drop the entity when present. Relations naming it stay.
//   - relate: append one relation.
//   - unrelate: remove every relation with the exact same triple.
//   - anything else: skip.
func Replay(records []Record) *Snapshot {
	snap := &Snapshot{
		entities: make(map[string]*Entity),
	}

	for _, rec := range records {
		switch r := rec.(type) {
		case CreateRecord:
			e := r.Entity
			e.Properties = clonedProps(e.Properties)
			snap.put(&e)

		case UpdateRecord:
			e, ok := snap.entities[r.ID]
			if !ok {
				continue
			}
			for k, v := range r.Properties {
				e.Properties[k] = v
			}
			if r.Timestamp.After(e.Updated) {
				e.Updated = r.Timestamp
			}

		case DeleteRecord:
			snap.remove(r.ID)

		case RelateRecord:
			snap.relations = append(snap.relations, Relation{
				From:       r.From,
				Rel:        r.Rel,
				To:         r.To,
				Properties: clonedProps(r.Properties),
				Created:    r.Timestamp,
			})

		case UnrelateRecord:
			kept := snap.relations[:0]
			for _, rel := range snap.relations {
				if !rel.Matches(r.From, r.Rel, r.To) {
					kept = append(kept, rel)
				}
			}
			snap.relations = kept

		default:
			// unknown op, skip
		}
	}

	return snap
}

// clonedProps detaches an entity's property map from the record that
// carried it. The update fold mutates entity properties in place; without
// the copy a second replay over the same record slice would see them.
func clonedProps(p props.Object) props.Object {
	if p == nil {
		return props.Object{}
	}
	return props.Clone(p)
}
