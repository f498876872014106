package buffer

import (
	"errors"
	"fmt"
)

// Errors describing offset contract violations.
var (
	// ErrOffsetOutOfRange indicates an offset is outside the snapshot bounds.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a range whose end precedes its start.
	ErrRangeInvalid = errors.New("invalid range")
)

// OffsetError reports an offset that does not address a position of a
// snapshot with the given length.
type OffsetError struct {
	Offset ByteOffset
	Length ByteOffset
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("offset %d outside [0:%d]", e.Offset, e.Length)
}

func (e *OffsetError) Unwrap() error {
	return ErrOffsetOutOfRange
}

// RangeError reports a range with End < Start.
type RangeError struct {
	Range Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range %s has end before start", e.Range)
}

func (e *RangeError) Unwrap() error {
	return ErrRangeInvalid
}
