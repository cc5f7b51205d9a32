// Package graph defines the domain model: typed entities, directed typed
// relations, the log record vocabulary, and the replay fold that turns a
// record sequence into materialized state.
//
// The append-only log is the only durable state. Current state is always
// derived, never stored: Replay folds the full record sequence into a
// Snapshot, and every read-side question (lookup, filter, traversal) is
// answered against that snapshot.
//
// # Ordering
//
//   - Entities iterate in first-created order; re-creating an id after a
//     delete moves it to the end, overwriting a live id keeps its slot.
//   - Relations iterate in log order.
//   - Replay of the same record sequence reproduces both orders exactly,
//     which downstream consumers (validator output, CLI listings) rely
//     on for stable results.
//
// # Dangling relations
//
// Deleting an entity never touches relations. Edges naming dead ids stay
// enumerable in Snapshot.Relations; traversal via Snapshot.Related skips
// them, and the validator reports them. This keeps delete O(1) in log
// terms and preserves history for later re-creation of the id.
package graph
