package pointer

import (
	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/frozen"
)

// Target is an element a pointer resolves to.
type Target interface {
	// Range returns the element's current range, if it has one.
	Range() (buffer.Range, bool)

	// Valid reports whether the element still exists.
	Valid() bool
}

// Resolver finds the target at a range of a snapshot.
type Resolver interface {
	Resolve(snap *frozen.Snapshot, r buffer.Range) (Target, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(snap *frozen.Snapshot, r buffer.Range) (Target, bool)

// Resolve calls f(snap, r).
func (f ResolverFunc) Resolve(snap *frozen.Snapshot, r buffer.Range) (Target, bool) {
	return f(snap, r)
}

// Span is a Target holding a fixed range and the text it covered when it
// was resolved.
type Span struct {
	At   buffer.Range
	Text string
}

// Range returns the span's range.
func (s Span) Range() (buffer.Range, bool) {
	return s.At, true
}

// Valid always reports true; a span does not expire.
func (s Span) Valid() bool {
	return true
}

// TextResolver resolves non-empty ranges of content-bearing snapshots to
// a Span over the text they cover.
var TextResolver = ResolverFunc(func(snap *frozen.Snapshot, r buffer.Range) (Target, bool) {
	if snap == nil || !snap.HasText() || r.IsEmpty() {
		return nil, false
	}
	if buffer.CheckRange(r, snap.Len()) != nil {
		return nil, false
	}
	return Span{At: r, Text: snap.Slice(r)}, true
})
