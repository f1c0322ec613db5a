package store

import "errors"

var (
	// ErrCorruptRecord indicates a persisted record failed to decode.
	ErrCorruptRecord = errors.New("store: corrupt record")
)
