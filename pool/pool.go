// Package pool implements the share ledger and value accounting for the
// staking pool: per-holder share balances, total issued shares, and the
// total pooled value they are redeemable against.
//
// A Pool is not safe for concurrent use. Callers (the staking controller)
// serialize access, since a consistent share price requires a consistent
// snapshot of both totals.
package pool

import (
	"fmt"
	"math"
	"sort"

	"github.com/bidolabs/bidopool-go/identity"
)

// Pool holds the share register and pooled-value totals.
// The invariant sum(shares) == totalShares holds after every operation,
// and totalPooled == 0 exactly when totalShares == 0.
type Pool struct {
	shares      map[identity.Holder]uint64
	totalShares uint64
	totalPooled uint64
}

// Entry is one holder's row in the share register.
type Entry struct {
	Holder identity.Holder
	Shares uint64
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{shares: make(map[identity.Holder]uint64)}
}

// Mint issues shareAmount new shares to holder.
// Fails with ErrZeroShares for a zero amount and ErrOverflow if either the
// holder balance or the total would wrap.
func (p *Pool) Mint(holder identity.Holder, shareAmount uint64) error {
	if shareAmount == 0 {
		return ErrZeroShares
	}
	if p.totalShares > math.MaxUint64-shareAmount {
		return fmt.Errorf("%w: minting %d shares to total %d", ErrOverflow, shareAmount, p.totalShares)
	}
	p.shares[holder] += shareAmount
	p.totalShares += shareAmount
	return nil
}

// Burn destroys shareAmount shares held by holder.
func (p *Pool) Burn(holder identity.Holder, shareAmount uint64) error {
	held := p.shares[holder]
	if held < shareAmount {
		return fmt.Errorf("%w: holder has %d, burning %d", ErrInsufficientShares, held, shareAmount)
	}
	if held == shareAmount {
		delete(p.shares, holder)
	} else {
		p.shares[holder] = held - shareAmount
	}
	p.totalShares -= shareAmount
	return nil
}

// Move reassigns shareAmount shares from one holder to another.
// Totals are untouched; this is a pure reallocation of the pool fraction.
func (p *Pool) Move(from, to identity.Holder, shareAmount uint64) error {
	held := p.shares[from]
	if held < shareAmount {
		return fmt.Errorf("%w: holder has %d, moving %d", ErrInsufficientShares, held, shareAmount)
	}
	if shareAmount == 0 {
		return nil
	}
	if from == to {
		return nil
	}
	if held == shareAmount {
		delete(p.shares, from)
	} else {
		p.shares[from] = held - shareAmount
	}
	p.shares[to] += shareAmount
	return nil
}

// SharesOf returns holder's share balance.
func (p *Pool) SharesOf(holder identity.Holder) uint64 { return p.shares[holder] }

// TotalShares returns the total issued shares.
func (p *Pool) TotalShares() uint64 { return p.totalShares }

// Holders returns the share register sorted by holder identity.
func (p *Pool) Holders() []Entry {
	entries := make([]Entry, 0, len(p.shares))
	for h, s := range p.shares {
		entries = append(entries, Entry{Holder: h, Shares: s})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Holder, entries[j].Holder
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return entries
}

// Restore replaces the pool contents with the given register and totals.
// Used when loading a persisted snapshot; entries with zero shares are
// dropped. Fails with ErrShareMismatch if the entries do not sum to
// totalShares.
func (p *Pool) Restore(entries []Entry, totalShares, totalPooled uint64) error {
	var sum uint64
	shares := make(map[identity.Holder]uint64, len(entries))
	for _, e := range entries {
		if e.Shares == 0 {
			continue
		}
		if sum > math.MaxUint64-e.Shares {
			return fmt.Errorf("%w: share register wraps", ErrOverflow)
		}
		sum += e.Shares
		shares[e.Holder] += e.Shares
	}
	if sum != totalShares {
		return fmt.Errorf("%w: register sums to %d, total is %d", ErrShareMismatch, sum, totalShares)
	}
	p.shares = shares
	p.totalShares = totalShares
	p.totalPooled = totalPooled
	return nil
}
