// Package rope provides the immutable text storage behind content-bearing
// frozen snapshots.
//
// A rope is a B+ tree whose leaves hold bounded string chunks and whose
// internal nodes cache the byte length of each child. Every operation
// returns a new Rope that shares unchanged subtrees with its input, so a
// chain of snapshots derived by successive edits costs O(log n) per edit
// rather than a full copy of the text.
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")           // "hello, world"
//	r = r.Delete(0, 7)             // "world"
//	text := r.String()             // "world"
//
// Offsets are byte offsets. The rope never validates them against UTF-8
// boundaries; callers that care about runes must pass rune-aligned offsets.
package rope
