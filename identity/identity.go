// Package identity defines the holder identities used by the staking pool.
//
// A holder is a 20-byte address hash, HASH160(compressed pubkey), the same
// shape as a P2PKH address hash. Two identities are reserved: Zero, the
// empty referral, and Dead, the burn holder that receives the bootstrap
// shares minted at pool initialization.
package identity

import (
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// Size is the length of a holder identity in bytes.
const Size = 20

// Holder is a 20-byte address hash identifying a pool participant.
type Holder [Size]byte

// Zero is the empty identity, used as the no-referral marker.
var Zero Holder

// Dead is the reserved burn holder (…0000dead). It receives the shares
// minted at initialization and can never unstake or transfer them, which
// pins the pool floor and keeps the share price defined.
var Dead = Holder{18: 0xde, 19: 0xad}

// FromPublicKey derives a holder identity from a public key:
// HASH160(compressed pubkey) = RIPEMD160(SHA256(pubkey)).
func FromPublicKey(pub *ec.PublicKey) Holder {
	var h Holder
	copy(h[:], bsvhash.Hash160(pub.Compressed()))
	return h
}

// FromHex parses a holder identity from a 40-character hex string.
// An optional "0x" prefix is accepted.
func FromHex(s string) (Holder, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Holder{}, fmt.Errorf("%w: %w", ErrInvalidHolder, err)
	}
	if len(b) != Size {
		return Holder{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHolder, Size, len(b))
	}
	var h Holder
	copy(h[:], b)
	return h, nil
}

// IsZero reports whether h is the empty identity.
func (h Holder) IsZero() bool { return h == Zero }

// String returns the lowercase hex encoding of the identity.
func (h Holder) String() string { return hex.EncodeToString(h[:]) }
