package tracking

import "errors"

var (
	// ErrPrefixMismatch indicates the events passed to the cache do not
	// extend the events of its current entry. The log was rewritten, which
	// breaks the append-only contract.
	ErrPrefixMismatch = errors.New("event log does not extend the cached prefix")

	// ErrNilSnapshot indicates a request without a base snapshot.
	ErrNilSnapshot = errors.New("nil base snapshot")
)
