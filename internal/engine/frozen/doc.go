// Package frozen provides immutable document snapshots.
//
// A Snapshot is the state of a document at one point of its edit log.
// Applying an event never modifies a snapshot; it derives a new one that
// shares storage with its parent:
//
//	base := frozen.New("hello world")
//	next, err := base.Apply(change.NewInsert(5, ","))
//	// base.Text() == "hello world", next.Text() == "hello, world"
//
// Snapshots may be content-agnostic. Marker tracking only needs offsets
// and lengths, so a snapshot built with NewLength, or one that received an
// edit without text, tracks its length exactly and drops its content.
//
// Snapshots are safe for concurrent use.
package frozen
