package staking

import (
	"github.com/bidolabs/bidopool-go/identity"
	"github.com/bidolabs/bidopool-go/pool"
)

// SharesOf returns holder's share balance. The dead holder's bootstrap
// shares are reported like any other balance.
func (c *Controller) SharesOf(holder identity.Holder) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.SharesOf(holder)
}

// TotalShares returns the total issued shares.
func (c *Controller) TotalShares() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.TotalShares()
}

// TotalSupply returns the total pooled value: deposits plus rewards minus
// withdrawals.
func (c *Controller) TotalSupply() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.TotalPooled()
}

// BalanceOf returns holder's redeemable value at the current share price,
// truncating toward zero. A holder with no shares has a zero balance.
func (c *Controller) BalanceOf(holder identity.Holder) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	held := c.ledger.SharesOf(holder)
	if held == 0 {
		return 0, nil
	}
	return c.ledger.SharesToValue(held)
}

// Holders returns the share register sorted by holder identity.
func (c *Controller) Holders() []pool.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Holders()
}

// Initialized reports whether the one-time bootstrap has happened.
func (c *Controller) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Owner returns the current owner identity.
func (c *Controller) Owner() identity.Holder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.admin.Owner()
}

// StakingPaused reports whether the staking gate is closed.
func (c *Controller) StakingPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.admin.StakingPaused()
}

// TransfersStopped reports whether the transfer gate is closed.
func (c *Controller) TransfersStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.admin.TransfersStopped()
}
