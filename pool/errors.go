package pool

import "errors"

var (
	// ErrInsufficientShares indicates a burn or move exceeds the holder's balance.
	ErrInsufficientShares = errors.New("pool: insufficient shares")

	// ErrZeroShares indicates a mint of zero shares.
	ErrZeroShares = errors.New("pool: zero share amount")

	// ErrZeroTotalShares indicates a share-to-value conversion with no shares issued.
	ErrZeroTotalShares = errors.New("pool: zero total shares")

	// ErrInsufficientPool indicates an outflow would drive the pooled value negative.
	ErrInsufficientPool = errors.New("pool: insufficient pooled value")

	// ErrOverflow indicates an amount would wrap the 64-bit accounting width.
	ErrOverflow = errors.New("pool: amount overflow")

	// ErrShareMismatch indicates a restored register does not sum to its total.
	ErrShareMismatch = errors.New("pool: share register mismatch")
)
