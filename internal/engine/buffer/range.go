package buffer

import "fmt"

// Range is the half-open span [Start, End) of byte offsets.
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange returns [start, end).
func NewRange(start, end ByteOffset) Range {
	return Range{Start: start, End: end}
}

// PointRange returns the empty range sitting at offset.
func PointRange(offset ByteOffset) Range {
	return Range{Start: offset, End: offset}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len is End - Start.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty reports whether r covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid reports whether 0 <= Start <= End. It says nothing about the
// length of any particular text; see CheckRange for that.
func (r Range) IsValid() bool {
	return r.Start >= 0 && r.Start <= r.End
}

// Contains reports whether offset is one of the bytes covered by r.
func (r Range) Contains(offset ByteOffset) bool {
	return r.Start <= offset && offset < r.End
}

// Within reports whether r lies inside outer, sharing edges allowed.
func (r Range) Within(outer Range) bool {
	return outer.Start <= r.Start && r.End <= outer.End
}

// Shift moves both ends by delta.
func (r Range) Shift(delta ByteOffset) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}
