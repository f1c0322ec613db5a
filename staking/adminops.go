package staking

import "github.com/bidolabs/bidopool-go/identity"

// PauseStaking closes the staking gate. Owner only. Unstakes are never
// affected: pausing deposits must not trap existing holders.
func (c *Controller) PauseStaking(caller identity.Holder) error {
	return c.adminOp(func() error { return c.admin.SetStakingPaused(caller, true) })
}

// ResumeStaking reopens the staking gate. Owner only.
func (c *Controller) ResumeStaking(caller identity.Holder) error {
	return c.adminOp(func() error { return c.admin.SetStakingPaused(caller, false) })
}

// Stop closes the transfer gate. Owner only.
func (c *Controller) Stop(caller identity.Holder) error {
	return c.adminOp(func() error { return c.admin.SetTransfersStopped(caller, true) })
}

// Resume reopens the transfer gate. Owner only.
func (c *Controller) Resume(caller identity.Holder) error {
	return c.adminOp(func() error { return c.admin.SetTransfersStopped(caller, false) })
}

// TransferOwnership hands the pool to a new owner. Owner only; the new
// owner is not validated here.
func (c *Controller) TransferOwnership(caller, newOwner identity.Holder) error {
	return c.adminOp(func() error { return c.admin.TransferOwnership(caller, newOwner) })
}

func (c *Controller) adminOp(fn func() error) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	return fn()
}
