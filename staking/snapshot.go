package staking

import (
	"github.com/bidolabs/bidopool-go/identity"
	"github.com/bidolabs/bidopool-go/pool"
)

// Snapshot is the full pool state as a plain value, for persistence and
// restart recovery. Holders is sorted by identity.
type Snapshot struct {
	Initialized      bool
	Owner            identity.Holder
	StakingPaused    bool
	TransfersStopped bool
	TotalShares      uint64
	TotalPooled      uint64
	Holders          []pool.Entry
	NextEventSeq     uint64
}

// Snapshot captures the current pool state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Initialized:      c.initialized,
		Owner:            c.admin.Owner(),
		StakingPaused:    c.admin.StakingPaused(),
		TransfersStopped: c.admin.TransfersStopped(),
		TotalShares:      c.ledger.TotalShares(),
		TotalPooled:      c.ledger.TotalPooled(),
		Holders:          c.ledger.Holders(),
		NextEventSeq:     c.nextSeq,
	}
}

// Restore replaces the controller state with a snapshot. The in-memory
// journal starts empty; event sequence numbering continues from the
// snapshot so persisted logs stay gap-free.
func (c *Controller) Restore(snap Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ledger.Restore(snap.Holders, snap.TotalShares, snap.TotalPooled); err != nil {
		return err
	}
	c.admin.Restore(snap.Owner, snap.StakingPaused, snap.TransfersStopped)
	c.initialized = snap.Initialized
	c.nextSeq = snap.NextEventSeq
	c.journal = nil
	return nil
}
