// Package pointer manages tracked pointers and rebinds them to targets.
//
// A Pointer is a handle on a range of a document that follows the text
// through edits. Each cacheable pointer carries a tracking.Key; the
// Manager reports the live pointers to a tracking.Cache and stores the
// ranges the cache computes back into them.
//
// Pointer kinds:
//
//   - Regular pointers keep their non-greedy boundaries and survive being
//     swallowed by an edit.
//   - Injected pointers are greedy on both sides and are destroyed when
//     swallowed.
//   - Range-only pointers track a range but are never rebound to a target.
//   - Uncacheable pointers carry the zero key and are ignored by the cache.
//
// # Rebinding
//
// A pointer may cache a resolved Target. When new ranges are applied, a
// cached target that is still valid and still covers the new range is
// kept. Otherwise the Manager's Resolver is asked for a target at the new
// range; if it finds none the cached target is cleared. The range itself
// stays authoritative either way.
//
// # Thread Safety
//
// Manager and Pointer are safe for concurrent use. ApplyResults never
// calls the RangeListener, so it may run under a cache lock.
package pointer
