package staking

import "errors"

var (
	// ErrNotInitialized indicates an operation before the one-time initialize.
	ErrNotInitialized = errors.New("staking: pool not initialized")

	// ErrAlreadyInitialized indicates a second initialize call.
	ErrAlreadyInitialized = errors.New("staking: pool already initialized")

	// ErrStakingPaused indicates a stake while the staking gate is closed.
	ErrStakingPaused = errors.New("staking: staking is paused")

	// ErrTransfersStopped indicates a transfer while the transfer gate is closed.
	ErrTransfersStopped = errors.New("staking: transfers are stopped")

	// ErrBalanceExceeded indicates a request for more shares than the caller holds.
	ErrBalanceExceeded = errors.New("staking: share balance exceeded")

	// ErrBurnZero indicates an unstake that resolves to zero shares.
	ErrBurnZero = errors.New("staking: cannot burn zero shares")

	// ErrUnexpectedPayload indicates a bare value transfer carrying data.
	ErrUnexpectedPayload = errors.New("staking: unexpected payload on value transfer")

	// ErrZeroValue indicates an operation with a zero attached value.
	ErrZeroValue = errors.New("staking: zero value")

	// ErrReservedHolder indicates the dead holder presented as caller.
	ErrReservedHolder = errors.New("staking: reserved holder")

	// ErrPayoutInProgress indicates a call while an unstake payout is in flight.
	ErrPayoutInProgress = errors.New("staking: payout in progress")

	// ErrPayoutFailed indicates the external value transfer failed; the
	// ledger mutation was rolled back.
	ErrPayoutFailed = errors.New("staking: payout failed")
)
