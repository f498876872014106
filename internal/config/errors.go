package config

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed wraps every problem reported by Config.Validate.
	ErrValidationFailed = errors.New("invalid configuration")

	// ErrFileNotFound is returned by Load for a missing file.
	ErrFileNotFound = errors.New("config file not found")
)

// ParseError locates a TOML decoding failure. Line and Column are 1-based
// and zero when the decoder did not report a position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }
