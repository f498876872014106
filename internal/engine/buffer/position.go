package buffer

// ByteOffset represents a byte position in a document snapshot.
// This is the fundamental position type; all ranges are expressed in it.
type ByteOffset = int64

// CheckOffset reports whether offset lies within [0, length].
// A position equal to length is valid: it addresses the end of the text.
func CheckOffset(offset, length ByteOffset) error {
	if offset < 0 || offset > length {
		return &OffsetError{Offset: offset, Length: length}
	}
	return nil
}

// CheckRange reports whether r is well formed and lies within [0, length].
func CheckRange(r Range, length ByteOffset) error {
	if !r.IsValid() {
		return &RangeError{Range: r}
	}
	if err := CheckOffset(r.Start, length); err != nil {
		return err
	}
	return CheckOffset(r.End, length)
}
