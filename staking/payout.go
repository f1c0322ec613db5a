package staking

import (
	"fmt"
	"math"
	"sync"

	"github.com/bidolabs/bidopool-go/identity"
)

// Transferrer delivers unstaked value to a holder. It is the external-effect
// seam of Unstake: the ledger burns shares and records the outflow first,
// then calls TransferValue; a failure rolls the burn back.
type Transferrer interface {
	TransferValue(to identity.Holder, value uint64) error
}

// Outbox is a Transferrer that accrues credited payouts per holder, for
// hosts that settle withdrawals through an external channel.
type Outbox struct {
	mu      sync.Mutex
	credits map[identity.Holder]uint64
}

// NewOutbox creates an empty payout outbox.
func NewOutbox() *Outbox {
	return &Outbox{credits: make(map[identity.Holder]uint64)}
}

// TransferValue credits value to the holder's pending payout.
func (o *Outbox) TransferValue(to identity.Holder, value uint64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.credits[to] > math.MaxUint64-value {
		return fmt.Errorf("outbox: credit overflow for %s", to)
	}
	o.credits[to] += value
	return nil
}

// Credited returns the total value credited to a holder.
func (o *Outbox) Credited(h identity.Holder) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.credits[h]
}

// discard is the default Transferrer: it accepts every payout. Used when
// the host performs settlement out of band.
type discard struct{}

func (discard) TransferValue(identity.Holder, uint64) error { return nil }
