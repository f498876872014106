// Package tracking memoizes the ranges of tracked markers across an edit log.
//
// A Cache answers one question: given the snapshot the markers were last
// stored against and the events applied since, where is every tracked
// marker now? Answers are computed by replaying events over the markers'
// baseline ranges (see package marker) and are remembered together with
// the number of events they reflect.
//
// # Lookup Tiers
//
// A request is served by one of three paths:
//
//   - Hit: the published entry already reflects every event. The entry is
//     read through an atomic pointer without locking.
//   - Extension: the entry reflects a prefix of the events. Its marker map
//     is cloned and only the new suffix is replayed.
//   - Rebuild: there is no usable entry. The live markers are pulled from
//     the Provider and the whole log is replayed.
//
// Published entries are never modified. Extension and rebuild produce a
// new entry which replaces the old one wholesale, so a reader holding an
// older entry always sees a consistent result for the prefix it covers.
//
// # Log Contract
//
// Logs passed for the same base must extend each other. An entry keeps a
// copy of its prefix; every lookup that takes the lock compares the whole
// prefix and fails with ErrPrefixMismatch on the first changed event. The
// lock-free hit compares only the first and last events.
//
// # Invalidation
//
// Invalidate drops the entry, forcing the next request to rebuild from the
// Provider. RangeChanged drops it only when the entry does not know the
// key, i.e. when a marker was added after the entry was built. Commit
// computes the ranges, hands them to the Provider for storage, and drops
// the entry, since the stored ranges become the new baseline.
//
// # Thread Safety
//
// All Cache methods are safe for concurrent use. Recomputation and the
// Provider callback of Commit run under one mutex per cache.
package tracking
