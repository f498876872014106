// Package engine ties the marker tracking components into documents.
//
// A Document owns the edit log of one text, the pointers tracked in it,
// and the cache that answers where those pointers are now. Edits are
// appended to the log; pointer ranges are computed lazily from the log by
// the cache and stored back into the pointers when the document commits.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: byte offsets, ranges and their contract checks
//   - rope: B+ tree rope backing snapshot content
//   - change: text edit and retarget events
//   - frozen: immutable snapshots produced by applying events
//   - history: the append-only event log of a document
//   - marker: how a single range moves through one event
//   - tracking: the memoized marker cache
//   - pointer: tracked pointers and their rebinding to targets
//
// # Thread Safety
//
// All Document operations are thread-safe. Edits, commits and pointer
// creation are serialized; range queries run concurrently and are served
// from the cache without locking when no edit happened since the last
// query.
//
// # Basic Usage
//
//	doc := engine.New(engine.WithContent("hello world"))
//
//	p, _ := doc.Track(buffer.NewRange(6, 11))
//	doc.Insert(0, ">> ")
//
//	r, ok, _ := doc.Range(p) // [9:14), true
//
//	doc.Commit() // stores [9:14) in p and starts a new log
//
// # Content-Agnostic Documents
//
// Tracking needs only lengths. A document created with WithLength carries
// no text; its edits may be length-only:
//
//	doc := engine.New(engine.WithLength(1 << 20))
//	doc.Apply(change.NewLengthEdit(100, 20, 0))
package engine
