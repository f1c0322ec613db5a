// Package staking implements the pool's public operation surface: the
// one-time initialize, stake/unstake, reward distribution, value-denominated
// share transfers, and the owner-gated administrative calls.
//
// A Controller is one mutual-exclusion domain: every operation executes as
// a single atomic unit against the shared pool state, and no operation ever
// observes a partially updated pool. The only external effect, the unstake
// payout, happens after the ledger mutation; if it fails the mutation is
// rolled back under the same lock before the error is returned.
package staking

import (
	"fmt"
	"sync"
	"time"

	"github.com/bidolabs/bidopool-go/admin"
	"github.com/bidolabs/bidopool-go/identity"
	"github.com/bidolabs/bidopool-go/pool"
)

// Controller orchestrates every public pool operation.
type Controller struct {
	mu     sync.Mutex
	ledger *pool.Pool
	admin  *admin.State
	payer  Transferrer

	initialized bool
	paying      bool

	journal []Event
	nextSeq uint64
	sink    func(Event)
	now     func() time.Time
}

// New creates an uninitialized pool controlled by owner. Unstaked value is
// delivered through payer; a nil payer accepts every payout, for hosts that
// settle withdrawals out of band.
func New(owner identity.Holder, payer Transferrer) *Controller {
	if payer == nil {
		payer = discard{}
	}
	return &Controller{
		ledger: pool.New(),
		admin:  admin.New(owner),
		payer:  payer,
		now:    time.Now,
	}
}

// begin acquires the lock and rejects calls made while a payout is in
// flight. The caller must Unlock on every path after a nil error.
func (c *Controller) begin() error {
	c.mu.Lock()
	if c.paying {
		c.mu.Unlock()
		return ErrPayoutInProgress
	}
	return nil
}

// Initialize performs the one-time bootstrap deposit. The attached value is
// credited 1:1 as shares to the dead holder, permanently locking it as the
// pool floor: the bootstrapper's own deposit becomes unredeemable, which is
// what protects later depositors from first-staker share-price attacks.
func (c *Controller) Initialize(caller identity.Holder, value uint64) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.initialized {
		return ErrAlreadyInitialized
	}
	if value == 0 {
		return ErrZeroValue
	}
	// Share price is 1:1 while no shares exist.
	if err := c.ledger.Mint(identity.Dead, value); err != nil {
		return err
	}
	if err := c.ledger.RecordInflow(value); err != nil {
		_ = c.ledger.Burn(identity.Dead, value)
		return err
	}
	c.initialized = true
	c.emit(Event{Type: EventInitialized, Holder: caller, Value: value, Shares: value})
	return nil
}

// Stake deposits value for the caller and mints the equivalent shares at
// the pre-deposit share price. referral is recorded on the event for
// attribution only and never affects the share math.
func (c *Controller) Stake(caller, referral identity.Holder, value uint64) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	return c.stakeLocked(caller, referral, value)
}

// Receive handles a bare value transfer to the pool: an implicit stake with
// no referral. A non-empty payload means the caller most likely intended a
// different operation, so the transfer is rejected outright.
func (c *Controller) Receive(caller identity.Holder, value uint64, payload []byte) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if len(payload) != 0 {
		return fmt.Errorf("%w: %d bytes", ErrUnexpectedPayload, len(payload))
	}
	return c.stakeLocked(caller, identity.Zero, value)
}

func (c *Controller) stakeLocked(caller, referral identity.Holder, value uint64) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.admin.StakingPaused() {
		return ErrStakingPaused
	}
	if value == 0 {
		return ErrZeroValue
	}
	// Convert at the pre-deposit totals so the deposit cannot dilute its
	// own mint.
	sharesToMint, err := c.ledger.ValueToShares(value)
	if err != nil {
		return err
	}
	if err := c.ledger.Mint(caller, sharesToMint); err != nil {
		return err
	}
	if err := c.ledger.RecordInflow(value); err != nil {
		_ = c.ledger.Burn(caller, sharesToMint)
		return err
	}
	c.emit(Event{Type: EventStaked, Holder: caller, Referral: referral, Value: value, Shares: sharesToMint})
	return nil
}

// Unstake redeems the requested shares for their current value and delivers
// it to the caller, returning the value paid out. Withdrawals are not
// subject to the staking gate: pausing deposits must never trap holders.
func (c *Controller) Unstake(caller identity.Holder, amount RedeemAmount) (uint64, error) {
	if err := c.begin(); err != nil {
		return 0, err
	}

	valueOut, actualShares, err := c.redeemLocked(caller, amount)
	if err != nil {
		c.mu.Unlock()
		return 0, err
	}
	c.paying = true
	c.mu.Unlock()

	// External effect, outside the ledger mutation. Reentrant calls are
	// rejected by the paying flag until this settles.
	payErr := c.payer.TransferValue(caller, valueOut)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.paying = false
	if payErr != nil {
		// Undo the burn and outflow; a failed payout leaves no trace.
		_ = c.ledger.Mint(caller, actualShares)
		_ = c.ledger.RecordInflow(valueOut)
		return 0, fmt.Errorf("%w: %w", ErrPayoutFailed, payErr)
	}
	c.emit(Event{Type: EventUnstaked, Holder: caller, Value: valueOut, Shares: actualShares})
	return valueOut, nil
}

// redeemLocked validates and applies the ledger half of an unstake.
func (c *Controller) redeemLocked(caller identity.Holder, amount RedeemAmount) (valueOut, actualShares uint64, err error) {
	if !c.initialized {
		return 0, 0, ErrNotInitialized
	}
	if caller == identity.Dead {
		return 0, 0, ErrReservedHolder
	}
	held := c.ledger.SharesOf(caller)
	actualShares = amount.resolve(held)
	if actualShares > held {
		return 0, 0, fmt.Errorf("%w: holding %d, requested %d", ErrBalanceExceeded, held, actualShares)
	}
	if actualShares == 0 {
		return 0, 0, ErrBurnZero
	}
	valueOut, err = c.ledger.SharesToValue(actualShares)
	if err != nil {
		return 0, 0, err
	}
	if err := c.ledger.Burn(caller, actualShares); err != nil {
		return 0, 0, err
	}
	if err := c.ledger.RecordOutflow(valueOut); err != nil {
		_ = c.ledger.Mint(caller, actualShares)
		return 0, 0, err
	}
	return valueOut, actualShares, nil
}

// DistributeReward injects value into the pool with no share mint. Every
// holder's redeemable value rises in proportion to its share fraction; no
// per-holder state is touched. Rewards are never gated.
func (c *Controller) DistributeReward(caller identity.Holder, value uint64) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if !c.initialized {
		return ErrNotInitialized
	}
	if value == 0 {
		return ErrZeroValue
	}
	if err := c.ledger.RecordInflow(value); err != nil {
		return err
	}
	c.emit(Event{Type: EventReward, Holder: caller, Value: value})
	return nil
}

// Transfer moves a value-denominated balance from the caller to another
// holder by moving the equivalent shares at the current price. Pool totals
// are untouched.
func (c *Controller) Transfer(caller, to identity.Holder, value uint64) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.admin.TransfersStopped() {
		return ErrTransfersStopped
	}
	if caller == identity.Dead {
		return ErrReservedHolder
	}
	shareAmount, err := c.ledger.ValueToShares(value)
	if err != nil {
		return err
	}
	if err := c.ledger.Move(caller, to, shareAmount); err != nil {
		return fmt.Errorf("%w: %w", ErrBalanceExceeded, err)
	}
	c.emit(Event{Type: EventTransferred, Holder: caller, Counterparty: to, Value: value, Shares: shareAmount})
	return nil
}
