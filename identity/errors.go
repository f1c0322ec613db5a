package identity

import "errors"

var (
	// ErrInvalidHolder indicates a holder identity could not be parsed.
	ErrInvalidHolder = errors.New("identity: invalid holder")
)
