package staking

// RedeemAmount is the amount requested by an unstake: either an exact
// share count or the caller's entire balance. The all-shares form replaces
// the source platform's numeric MAX sentinel, so no magic value exists on
// this surface.
type RedeemAmount struct {
	all    bool
	shares uint64
}

// ExactShares requests redemption of exactly n shares.
func ExactShares(n uint64) RedeemAmount { return RedeemAmount{shares: n} }

// AllShares requests redemption of the caller's entire share balance,
// whatever it is at execution time.
func AllShares() RedeemAmount { return RedeemAmount{all: true} }

// IsAll reports whether the request is for the full balance.
func (a RedeemAmount) IsAll() bool { return a.all }

// resolve returns the literal share count for the request given the
// caller's current balance.
func (a RedeemAmount) resolve(balance uint64) uint64 {
	if a.all {
		return balance
	}
	return a.shares
}
