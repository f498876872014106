// Package marker computes how a tracked range moves through one edit.
//
// A RangeMarker is a range plus a policy:
//
//   - GreedyLeft / GreedyRight decide whether an insertion exactly at the
//     start / end boundary is absorbed into the range.
//   - Surviving decides what happens when an edit's replaced span strictly
//     contains the range. A surviving marker is re-anchored onto the
//     replacement text; any other marker is destroyed.
//
// Update is a pure function of a marker and an event. A marker is only
// meaningful against the snapshot it was computed for; replaying a log
// means folding Update over the events in order and stopping for good at
// the first destruction.
//
// # Boundary rules
//
// For a TextEdit replacing [o, o+old) with new bytes and a marker [s, e):
//
//	edit after the marker, or touching e without greedy insertion   unchanged
//	insertion at e with GreedyRight                               [s, e+new)
//	edit before the marker, or touching s without greedy insertion shifted by new-old
//	insertion at s with GreedyLeft                                [s, e+new)
//	edit within [s, e)                                            [s, e+new-old)
//	edit covering s only                                          [o+new, e+new-old)
//	edit covering e only                                          [s, o)
//	edit strictly containing [s, e)                               swallowed
//
// An empty marker absorbs an insertion at its position when either greedy
// flag is set; it is swallowed only by an edit that strictly surrounds it.
//
// A swallowed marker that survives collapses onto [o, o+new). A pure
// deletion leaves nothing to anchor to, so it destroys even surviving
// markers. Greedy flags play no part in the collapse.
//
// A Retarget translates markers lying inside the moved block by the
// distance the block travels. Every other marker sees the move as the
// deletion of the block followed by its insertion at the destination.
package marker
