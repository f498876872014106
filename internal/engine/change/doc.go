// Package change defines the edit events that move a document from one
// frozen snapshot to the next.
//
// Two kinds of event exist:
//
//   - [TextEdit] replaces a span of the pre-edit text with new content.
//     It may carry the new text, or only its length when the consumer is
//     content-agnostic.
//   - [Retarget] relocates a block of text without changing it. Markers
//     inside the block travel with it rather than being treated as
//     deleted and re-inserted.
//
// Events are immutable values. A document's event log is strictly ordered
// and append-only; replaying the same prefix always yields the same state.
package change
