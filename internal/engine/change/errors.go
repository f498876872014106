package change

import "errors"

// Errors returned by event validation.
var (
	// ErrNegativeLength indicates an edit with a negative old or new length.
	ErrNegativeLength = errors.New("negative edit length")

	// ErrTextLength indicates an edit whose text disagrees with NewLength.
	ErrTextLength = errors.New("edit text length mismatch")
)
