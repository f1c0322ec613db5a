package admin

import "errors"

var (
	// ErrUnauthorized indicates the caller is not the pool owner.
	ErrUnauthorized = errors.New("admin: caller is not the owner")
)
