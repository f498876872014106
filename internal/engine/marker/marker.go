package marker

import (
	"fmt"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// RangeMarker is a range with its stickiness and deletion policy.
// It is an immutable value.
type RangeMarker struct {
	Range       Range
	GreedyLeft  bool
	GreedyRight bool
	Surviving   bool
}

// New creates a RangeMarker.
func New(r Range, greedyLeft, greedyRight, surviving bool) RangeMarker {
	return RangeMarker{
		Range:       r,
		GreedyLeft:  greedyLeft,
		GreedyRight: greedyRight,
		Surviving:   surviving,
	}
}

// String returns a human-readable representation of the marker.
func (m RangeMarker) String() string {
	flags := []byte("---")
	if m.GreedyLeft {
		flags[0] = '<'
	}
	if m.GreedyRight {
		flags[1] = '>'
	}
	if m.Surviving {
		flags[2] = 's'
	}
	return fmt.Sprintf("%s%s", m.Range, flags)
}

func (m RangeMarker) withRange(start, end ByteOffset) RangeMarker {
	m.Range = Range{Start: start, End: end}
	return m
}

// Update returns the marker after ev. The second result is false when the
// edit destroys the marker.
func Update(m RangeMarker, ev change.Event) (RangeMarker, bool) {
	switch e := ev.(type) {
	case change.TextEdit:
		return applyEdit(m, e)
	case change.Retarget:
		return applyRetarget(m, e)
	default:
		panic(fmt.Sprintf("marker: unsupported event %T", ev))
	}
}

// Replay folds Update over events. It stops at the first destruction.
func Replay(m RangeMarker, events []change.Event) (RangeMarker, bool) {
	for _, ev := range events {
		var ok bool
		if m, ok = Update(m, ev); !ok {
			return RangeMarker{}, false
		}
	}
	return m, true
}

func applyEdit(m RangeMarker, e change.TextEdit) (RangeMarker, bool) {
	if m.Range.IsEmpty() {
		return applyEditToPoint(m, e)
	}

	s, end := m.Range.Start, m.Range.End
	o, oe := e.Offset, e.Offset+e.OldLength
	delta := e.Delta()
	insertion := e.OldLength == 0

	// Edit after the marker.
	if end < o || end == o && !(insertion && m.GreedyRight) {
		return m, true
	}
	// Edit before the marker.
	if s > oe || s == oe && !(insertion && m.GreedyLeft) {
		return m.withRange(s+delta, end+delta), true
	}
	// Edit within the marker, including absorbed boundary insertions.
	if s <= o && end >= oe {
		return m.withRange(s, end+delta), true
	}
	// Edit replacing a prefix of the marker.
	if s >= o && s <= oe && end > oe {
		return m.withRange(o+e.NewLength, end+delta), true
	}
	// Edit replacing a suffix of the marker.
	if end >= o && end <= oe && s < o {
		return m.withRange(s, o), true
	}

	return swallow(m, e)
}

func applyEditToPoint(m RangeMarker, e change.TextEdit) (RangeMarker, bool) {
	p := m.Range.Start
	o, oe := e.Offset, e.Offset+e.OldLength

	switch {
	case o < p && p < oe:
		return swallow(m, e)
	case oe < p, oe == p && e.OldLength > 0:
		return m.withRange(p+e.Delta(), p+e.Delta()), true
	case o == p && e.OldLength == 0 && (m.GreedyLeft || m.GreedyRight):
		return m.withRange(p, p+e.NewLength), true
	default:
		return m, true
	}
}

// swallow handles an edit whose replaced span strictly contains the marker.
func swallow(m RangeMarker, e change.TextEdit) (RangeMarker, bool) {
	if !m.Surviving || e.NewLength == 0 {
		return RangeMarker{}, false
	}
	return m.withRange(e.Offset, e.Offset+e.NewLength), true
}

func applyRetarget(m RangeMarker, r change.Retarget) (RangeMarker, bool) {
	if r.Len() == 0 || r.Shift() == 0 {
		return m, true
	}

	if m.Range.Within(r.Block()) && m.Range.Start < r.End {
		m.Range = m.Range.Shift(r.Shift())
		return m, true
	}

	del, ins := r.AsEdits()
	m, ok := applyEdit(m, del)
	if !ok {
		return RangeMarker{}, false
	}
	return applyEdit(m, ins)
}
