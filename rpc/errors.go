package rpc

import (
	"errors"
	"net/http"

	"github.com/bidolabs/bidopool-go/admin"
	"github.com/bidolabs/bidopool-go/identity"
	"github.com/bidolabs/bidopool-go/pool"
	"github.com/bidolabs/bidopool-go/staking"
)

// Reason codes returned in error bodies. These are stable: calling
// harnesses assert on the exact code, not just on failure.
const (
	CodeNotInitialized     = "NOT_INITIALIZED"
	CodeAlreadyInitialized = "ALREADY_INITIALIZED"
	CodeStakingPaused      = "STAKING_PAUSED"
	CodeTransfersStopped   = "TRANSFERS_STOPPED"
	CodeBalanceExceeded    = "BALANCE_EXCEEDED"
	CodeBurnZero           = "BURN_ZERO"
	CodeUnexpectedPayload  = "UNEXPECTED_PAYLOAD"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInsufficientPool   = "INSUFFICIENT_POOL"
	CodeOverflow           = "OVERFLOW"
	CodeZeroValue          = "ZERO_VALUE"
	CodeZeroShares         = "ZERO_SHARES"
	CodeReservedHolder     = "RESERVED_HOLDER"
	CodePayoutInProgress   = "PAYOUT_IN_PROGRESS"
	CodePayoutFailed       = "PAYOUT_FAILED"
	CodeBadRequest         = "BAD_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL"
)

var (
	// ErrConnectionFailed indicates the client could not reach the daemon.
	ErrConnectionFailed = errors.New("rpc: connection failed")

	// ErrInvalidResponse indicates the daemon's response could not be decoded.
	ErrInvalidResponse = errors.New("rpc: invalid response")

	// errInvalidLimit rejects a non-numeric or negative events page limit.
	errInvalidLimit = errors.New("rpc: invalid limit")
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// reasonCode maps a ledger error to its HTTP status and stable reason code.
func reasonCode(err error) (int, string) {
	switch {
	case errors.Is(err, staking.ErrNotInitialized):
		return http.StatusConflict, CodeNotInitialized
	case errors.Is(err, staking.ErrAlreadyInitialized):
		return http.StatusConflict, CodeAlreadyInitialized
	case errors.Is(err, staking.ErrStakingPaused):
		return http.StatusConflict, CodeStakingPaused
	case errors.Is(err, staking.ErrTransfersStopped):
		return http.StatusConflict, CodeTransfersStopped
	case errors.Is(err, staking.ErrPayoutInProgress):
		return http.StatusConflict, CodePayoutInProgress
	case errors.Is(err, staking.ErrBalanceExceeded):
		return http.StatusUnprocessableEntity, CodeBalanceExceeded
	case errors.Is(err, staking.ErrBurnZero):
		return http.StatusUnprocessableEntity, CodeBurnZero
	case errors.Is(err, staking.ErrUnexpectedPayload):
		return http.StatusUnprocessableEntity, CodeUnexpectedPayload
	case errors.Is(err, staking.ErrZeroValue):
		return http.StatusUnprocessableEntity, CodeZeroValue
	case errors.Is(err, staking.ErrReservedHolder):
		return http.StatusUnprocessableEntity, CodeReservedHolder
	case errors.Is(err, staking.ErrPayoutFailed):
		return http.StatusBadGateway, CodePayoutFailed
	case errors.Is(err, admin.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, pool.ErrZeroShares):
		return http.StatusUnprocessableEntity, CodeZeroShares
	case errors.Is(err, pool.ErrOverflow):
		return http.StatusUnprocessableEntity, CodeOverflow
	case errors.Is(err, pool.ErrInsufficientPool):
		return http.StatusInternalServerError, CodeInsufficientPool
	case errors.Is(err, identity.ErrInvalidHolder):
		return http.StatusBadRequest, CodeBadRequest
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
