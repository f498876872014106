package tracking

import (
	"maps"
	"slices"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
	"github.com/dshills/markertrack/internal/engine/frozen"
	"github.com/dshills/markertrack/internal/engine/marker"
)

// Key identifies a tracked marker. The zero key marks a marker that does
// not take part in caching.
type Key uint64

// NoKey is the reserved key of uncacheable markers.
const NoKey Key = 0

// Baseline is a live marker as reported by a Provider: its key, its range
// in the base snapshot, and its update policy.
type Baseline struct {
	Key         Key
	Range       buffer.Range
	GreedyLeft  bool
	GreedyRight bool
	Surviving   bool
}

// Marker returns the baseline as a marker.RangeMarker.
func (b Baseline) Marker() marker.RangeMarker {
	return marker.New(b.Range, b.GreedyLeft, b.GreedyRight, b.Surviving)
}

// Provider supplies the live markers of a document and receives the
// computed ranges back.
type Provider interface {
	// LiveMarkers returns the markers currently tracked. Markers with the
	// zero key are ignored.
	LiveMarkers() []Baseline

	// ApplyResults stores the ranges computed by Cache.Commit.
	// It is called with the cache lock held and must not call back into
	// the cache.
	ApplyResults(RangeSet)
}

// tracked is one marker slot of an entry. A destroyed marker keeps its
// slot so the entry still knows the key.
type tracked struct {
	marker marker.RangeMarker
	alive  bool
}

// entry is an immutable cache result. events is the cache's own copy of
// the log prefix it was built from.
type entry struct {
	base    *frozen.Snapshot
	events  []change.Event
	markers map[Key]tracked
	result  *frozen.Snapshot
}

func (e *entry) count() int { return len(e.events) }

// matches reports whether e answers a request for events on base. Only the
// first and last events are compared; a rewrite elsewhere is caught by the
// full comparison in divergence once a lookup reaches the lock.
func (e *entry) matches(base *frozen.Snapshot, events []change.Event) bool {
	n := len(e.events)
	if e.base != base || n != len(events) {
		return false
	}
	return n == 0 || (events[0] == e.events[0] && events[n-1] == e.events[n-1])
}

// divergence returns the index of the first event of e's prefix that
// differs in events, or -1 when events continues the prefix.
// events must be at least as long as the prefix.
func (e *entry) divergence(events []change.Event) int {
	for i, ev := range e.events {
		if events[i] != ev {
			return i
		}
	}
	return -1
}

// RangeSet is the immutable result of a cache lookup.
// The zero RangeSet is empty.
type RangeSet struct {
	e *entry
}

// Lookup returns the range of key. The second result is false when the
// key is unknown or its marker was destroyed.
func (s RangeSet) Lookup(key Key) (buffer.Range, bool) {
	if s.e == nil {
		return buffer.Range{}, false
	}
	t, ok := s.e.markers[key]
	if !ok || !t.alive {
		return buffer.Range{}, false
	}
	return t.marker.Range, true
}

// Contains reports whether key was tracked when the set was built,
// including keys whose markers were destroyed.
func (s RangeSet) Contains(key Key) bool {
	if s.e == nil {
		return false
	}
	_, ok := s.e.markers[key]
	return ok
}

// Len returns the number of keys in the set.
func (s RangeSet) Len() int {
	if s.e == nil {
		return 0
	}
	return len(s.e.markers)
}

// Keys returns the keys of the set in ascending order.
func (s RangeSet) Keys() []Key {
	if s.e == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.e.markers))
}

// Ranges returns a copy of the live ranges by key.
func (s RangeSet) Ranges() map[Key]buffer.Range {
	out := make(map[Key]buffer.Range, s.Len())
	if s.e == nil {
		return out
	}
	for k, t := range s.e.markers {
		if t.alive {
			out[k] = t.marker.Range
		}
	}
	return out
}

// EventCount returns the number of events the set reflects.
func (s RangeSet) EventCount() int {
	if s.e == nil {
		return 0
	}
	return s.e.count()
}

// Snapshot returns the snapshot the ranges are expressed against.
func (s RangeSet) Snapshot() *frozen.Snapshot {
	if s.e == nil {
		return nil
	}
	return s.e.result
}
