package config

import "errors"

var (
	// ErrInvalidListenAddr indicates the listen address is malformed.
	ErrInvalidListenAddr = errors.New("config: invalid listen address")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrMissingOwner indicates no owner identity is configured.
	ErrMissingOwner = errors.New("config: owner identity must be set")

	// ErrInvalidOwner indicates the owner identity could not be parsed.
	ErrInvalidOwner = errors.New("config: invalid owner identity")

	// ErrPartialAdminToken indicates only one of hash/salt is configured.
	ErrPartialAdminToken = errors.New("config: admin token hash and salt must be set together")

	// ErrInvalidAdminToken indicates the token hash or salt is not hex.
	ErrInvalidAdminToken = errors.New("config: invalid admin token material")
)
