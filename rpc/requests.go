package rpc

import (
	"encoding/hex"
	"fmt"

	"github.com/bidolabs/bidopool-go/identity"
)

// Request and response bodies for the pool API. Holder identities travel
// as 40-character hex strings; values and shares are smallest-unit
// integers.

type initializeRequest struct {
	Caller string `json:"caller"`
	Value  uint64 `json:"value"`
}

type stakeRequest struct {
	Caller   string `json:"caller"`
	Referral string `json:"referral,omitempty"`
	Value    uint64 `json:"value"`
}

type receiveRequest struct {
	Caller  string `json:"caller"`
	Value   uint64 `json:"value"`
	Payload string `json:"payload,omitempty"` // hex
}

type unstakeRequest struct {
	Caller string `json:"caller"`
	Shares uint64 `json:"shares,omitempty"`
	All    bool   `json:"all,omitempty"`
}

type unstakeResponse struct {
	Value uint64 `json:"value"`
}

type rewardRequest struct {
	Caller string `json:"caller"`
	Value  uint64 `json:"value"`
}

type transferRequest struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
	Value  uint64 `json:"value"`
}

type adminRequest struct {
	Caller string `json:"caller"`
}

type transferOwnershipRequest struct {
	Caller   string `json:"caller"`
	NewOwner string `json:"new_owner"`
}

type poolResponse struct {
	Initialized      bool   `json:"initialized"`
	Owner            string `json:"owner"`
	StakingPaused    bool   `json:"staking_paused"`
	TransfersStopped bool   `json:"transfers_stopped"`
	TotalShares      uint64 `json:"total_shares"`
	TotalPooled      uint64 `json:"total_pooled"`
}

type holderResponse struct {
	Holder  string `json:"holder"`
	Shares  uint64 `json:"shares"`
	Balance uint64 `json:"balance"`
}

type payoutResponse struct {
	Holder   string `json:"holder"`
	Credited uint64 `json:"credited"`
}

type eventResponse struct {
	ID           string `json:"id"`
	Seq          uint64 `json:"seq"`
	Type         string `json:"type"`
	Holder       string `json:"holder"`
	Counterparty string `json:"counterparty,omitempty"`
	Referral     string `json:"referral,omitempty"`
	Value        uint64 `json:"value"`
	Shares       uint64 `json:"shares"`
	Time         string `json:"time"`
}

// parseHolder parses a required holder field.
func parseHolder(field, value string) (identity.Holder, error) {
	if value == "" {
		return identity.Holder{}, fmt.Errorf("%w: missing %s", identity.ErrInvalidHolder, field)
	}
	h, err := identity.FromHex(value)
	if err != nil {
		return identity.Holder{}, fmt.Errorf("%s: %w", field, err)
	}
	return h, nil
}

// parseReferral parses an optional referral field; empty means no referral.
func parseReferral(value string) (identity.Holder, error) {
	if value == "" {
		return identity.Zero, nil
	}
	return parseHolder("referral", value)
}

// parsePayload decodes the optional hex payload of a bare value transfer.
func parsePayload(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	return b, nil
}
