package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrNotTracked indicates a pointer that is not live in the document.
	ErrNotTracked = errors.New("pointer not tracked by document")

	// ErrDocumentNotFound indicates an unknown document id.
	ErrDocumentNotFound = errors.New("document not found")
)
