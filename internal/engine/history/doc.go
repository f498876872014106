// Package history records the ordered edit log of a document.
//
// A Log starts from a base snapshot and accumulates events in the order
// they were applied. It is append-only: an event, once logged, is never
// rewritten or reordered, which lets consumers that memoize results over
// a prefix of the log extend them when more events arrive.
//
//	log := history.NewLog(frozen.New("hello"))
//	log.Append(change.NewInsert(5, " world"))
//	view := log.View() // base, events since base, resulting snapshot
//
// # Commit points
//
// Commit folds the pending events into a new base. Views taken before a
// commit stay valid: they keep referencing the old base and the old event
// slice. The log generation increases on every commit so consumers can
// tell two logs of equal length apart.
//
// # Thread Safety
//
// All Log operations are thread-safe. Views are immutable.
package history
