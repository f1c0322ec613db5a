package staking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidolabs/bidopool-go/admin"
	"github.com/bidolabs/bidopool-go/identity"
	"github.com/bidolabs/bidopool-go/pool"
)

func makeHolder(seed byte) identity.Holder {
	var h identity.Holder
	for i := range h {
		h[i] = seed
	}
	return h
}

var owner = makeHolder(0x01)

// checkInvariants asserts the ledger invariants that must hold in every
// reachable state.
func checkInvariants(t *testing.T, c *Controller) {
	t.Helper()
	var sum uint64
	for _, e := range c.Holders() {
		sum += e.Shares
	}
	assert.Equal(t, c.TotalShares(), sum, "share register must sum to total shares")
	assert.Equal(t, c.TotalSupply() == 0, c.TotalShares() == 0, "pooled value and shares are zero together")
}

func TestInitialize(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	assert.True(t, c.Initialized())
	assert.Equal(t, uint64(100_000), c.SharesOf(identity.Dead))
	assert.Equal(t, uint64(100_000), c.TotalShares())
	assert.Equal(t, uint64(100_000), c.TotalSupply())
	// The bootstrapper gets nothing; the deposit is the pool floor.
	assert.Zero(t, c.SharesOf(owner))
	checkInvariants(t, c)
}

func TestInitialize_Twice(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))
	assert.ErrorIs(t, c.Initialize(owner, 100_000), ErrAlreadyInitialized)
}

func TestInitialize_ZeroValue(t *testing.T) {
	c := New(owner, nil)
	assert.ErrorIs(t, c.Initialize(owner, 0), ErrZeroValue)
	assert.False(t, c.Initialized())
}

func TestOperations_BeforeInitialize(t *testing.T) {
	c := New(owner, nil)
	a := makeHolder(0xAA)

	assert.ErrorIs(t, c.Stake(a, identity.Zero, 100), ErrNotInitialized)
	assert.ErrorIs(t, c.Receive(a, 100, nil), ErrNotInitialized)
	assert.ErrorIs(t, c.DistributeReward(a, 100), ErrNotInitialized)
	_, err := c.Unstake(a, AllShares())
	assert.ErrorIs(t, err, ErrNotInitialized)
	checkInvariants(t, c)
}

func TestStake(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	assert.Equal(t, uint64(150_000), c.SharesOf(a))
	assert.Equal(t, uint64(250_000), c.TotalShares())
	assert.Equal(t, uint64(250_000), c.TotalSupply())
	checkInvariants(t, c)
}

func TestStake_ZeroValue(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))
	assert.ErrorIs(t, c.Stake(makeHolder(0xAA), identity.Zero, 0), ErrZeroValue)
}

func TestStake_DustAfterReward(t *testing.T) {
	// Once rewards push the share price above 1, a deposit too small to
	// mint a single share is rejected, not absorbed.
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100))
	require.NoError(t, c.DistributeReward(owner, 100_000))

	err := c.Stake(makeHolder(0xAA), identity.Zero, 1)
	assert.ErrorIs(t, err, pool.ErrZeroShares)
	assert.Equal(t, uint64(100_100), c.TotalSupply())
	checkInvariants(t, c)
}

func TestStake_RecordsReferral(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a, ref := makeHolder(0xAA), makeHolder(0xBB)
	require.NoError(t, c.Stake(a, ref, 50_000))

	events := c.Events()
	require.Len(t, events, 2)
	last := events[1]
	assert.Equal(t, EventStaked, last.Type)
	assert.Equal(t, a, last.Holder)
	assert.Equal(t, ref, last.Referral)
	assert.Equal(t, uint64(50_000), last.Value)
	// Referral never affects the share math.
	assert.Zero(t, c.SharesOf(ref))
}

func TestReceive_ImplicitStake(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Receive(a, 230_000, nil))
	assert.Equal(t, uint64(230_000), c.SharesOf(a))

	events := c.Events()
	last := events[len(events)-1]
	assert.Equal(t, EventStaked, last.Type)
	assert.Equal(t, identity.Zero, last.Referral)
}

func TestReceive_NonEmptyPayload(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	err := c.Receive(a, 230_000, []byte{0x12, 0x34})
	assert.ErrorIs(t, err, ErrUnexpectedPayload)

	// Rejection leaves state unchanged.
	assert.Zero(t, c.SharesOf(a))
	assert.Equal(t, uint64(100_000), c.TotalSupply())
	checkInvariants(t, c)
}

func TestUnstake_Exact(t *testing.T) {
	outbox := NewOutbox()
	c := New(owner, outbox)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	got, err := c.Unstake(a, ExactShares(100_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), got)
	assert.Equal(t, uint64(100_000), outbox.Credited(a))
	assert.Equal(t, uint64(50_000), c.SharesOf(a))
	assert.Equal(t, uint64(150_000), c.TotalSupply())
	checkInvariants(t, c)
}

func TestUnstake_All(t *testing.T) {
	outbox := NewOutbox()
	c := New(owner, outbox)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	got, err := c.Unstake(a, AllShares())
	require.NoError(t, err)
	assert.Equal(t, uint64(150_000), got)
	assert.Zero(t, c.SharesOf(a))

	// A second all-shares unstake finds an empty balance.
	_, err = c.Unstake(a, AllShares())
	assert.ErrorIs(t, err, ErrBurnZero)
	checkInvariants(t, c)
}

func TestUnstake_BalanceExceeded(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	_, err := c.Unstake(a, ExactShares(200_000))
	assert.ErrorIs(t, err, ErrBalanceExceeded)
	assert.Equal(t, uint64(150_000), c.SharesOf(a))
	checkInvariants(t, c)
}

func TestUnstake_DeadHolder(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	// The pool floor is unburnable.
	_, err := c.Unstake(identity.Dead, AllShares())
	assert.ErrorIs(t, err, ErrReservedHolder)
	assert.Equal(t, uint64(100_000), c.SharesOf(identity.Dead))
}

type failingTransferrer struct{ err error }

func (f failingTransferrer) TransferValue(identity.Holder, uint64) error { return f.err }

func TestUnstake_PayoutFailureRollsBack(t *testing.T) {
	payErr := errors.New("chain unavailable")
	c := New(owner, failingTransferrer{err: payErr})
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	_, err := c.Unstake(a, AllShares())
	assert.ErrorIs(t, err, ErrPayoutFailed)
	assert.ErrorIs(t, err, payErr)

	// Burn and outflow were undone.
	assert.Equal(t, uint64(150_000), c.SharesOf(a))
	assert.Equal(t, uint64(250_000), c.TotalSupply())
	assert.Equal(t, uint64(250_000), c.TotalShares())
	checkInvariants(t, c)

	// The failed payout emitted nothing.
	for _, ev := range c.Events() {
		assert.NotEqual(t, EventUnstaked, ev.Type)
	}
}

// reentrantTransferrer calls back into the controller mid-payout.
type reentrantTransferrer struct {
	c    *Controller
	errs []error
}

func (r *reentrantTransferrer) TransferValue(to identity.Holder, value uint64) error {
	r.errs = append(r.errs, r.c.Stake(to, identity.Zero, value))
	_, err := r.c.Unstake(to, AllShares())
	r.errs = append(r.errs, err)
	return nil
}

func TestUnstake_ReentrantCallsRejected(t *testing.T) {
	rt := &reentrantTransferrer{}
	c := New(owner, rt)
	rt.c = c
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	got, err := c.Unstake(a, AllShares())
	require.NoError(t, err)
	assert.Equal(t, uint64(150_000), got)

	// Every reentrant call was rejected while the payout was in flight.
	require.Len(t, rt.errs, 2)
	for _, e := range rt.errs {
		assert.ErrorIs(t, e, ErrPayoutInProgress)
	}
	// The pool settled normally afterwards.
	assert.Zero(t, c.SharesOf(a))
	assert.Equal(t, uint64(100_000), c.TotalSupply())
	checkInvariants(t, c)
}

func TestDistributeReward(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a, b := makeHolder(0xAA), makeHolder(0xBB)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))
	require.NoError(t, c.Stake(b, identity.Zero, 250_000))

	balA, err := c.BalanceOf(a)
	require.NoError(t, err)
	require.Equal(t, uint64(150_000), balA)

	// 500_000 pooled, 500_000 shares; a 250_000 reward moves the price
	// to 1.5 with no share minted.
	require.NoError(t, c.DistributeReward(makeHolder(0xCC), 250_000))

	assert.Equal(t, uint64(500_000), c.TotalShares())
	assert.Equal(t, uint64(750_000), c.TotalSupply())
	assert.Equal(t, uint64(150_000), c.SharesOf(a))

	balA, err = c.BalanceOf(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(225_000), balA)
	balB, err := c.BalanceOf(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(375_000), balB)
	checkInvariants(t, c)
}

func TestDistributeReward_ZeroValue(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))
	assert.ErrorIs(t, c.DistributeReward(owner, 0), ErrZeroValue)
}

func TestDistributeReward_WorksWhilePaused(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))
	require.NoError(t, c.PauseStaking(owner))

	assert.NoError(t, c.DistributeReward(makeHolder(0xCC), 50_000))
}

func TestStakingGate(t *testing.T) {
	outbox := NewOutbox()
	c := New(owner, outbox)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	require.NoError(t, c.PauseStaking(owner))
	assert.ErrorIs(t, c.Stake(makeHolder(0xBB), identity.Zero, 110_000), ErrStakingPaused)
	assert.ErrorIs(t, c.Receive(makeHolder(0xBB), 110_000, nil), ErrStakingPaused)

	// Withdrawals stay open while staking is paused.
	got, err := c.Unstake(a, AllShares())
	require.NoError(t, err)
	assert.Equal(t, uint64(150_000), got)

	require.NoError(t, c.ResumeStaking(owner))
	assert.NoError(t, c.Stake(makeHolder(0xBB), identity.Zero, 110_000))
	checkInvariants(t, c)
}

func TestTransfer(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a, b := makeHolder(0xAA), makeHolder(0xBB)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	require.NoError(t, c.Transfer(a, b, 50_000))
	assert.Equal(t, uint64(100_000), c.SharesOf(a))
	assert.Equal(t, uint64(50_000), c.SharesOf(b))

	// A pure reallocation: totals untouched.
	assert.Equal(t, uint64(250_000), c.TotalShares())
	assert.Equal(t, uint64(250_000), c.TotalSupply())
	checkInvariants(t, c)
}

func TestTransfer_Stopped(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	require.NoError(t, c.Stop(owner))
	assert.ErrorIs(t, c.Transfer(a, makeHolder(0xBB), 50_000), ErrTransfersStopped)

	require.NoError(t, c.Resume(owner))
	assert.NoError(t, c.Transfer(a, makeHolder(0xBB), 50_000))
}

func TestTransfer_BalanceExceeded(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))

	err := c.Transfer(a, makeHolder(0xBB), 150_001)
	assert.ErrorIs(t, err, ErrBalanceExceeded)
	assert.Equal(t, uint64(150_000), c.SharesOf(a))
}

func TestTransfer_DeadHolder(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	err := c.Transfer(identity.Dead, makeHolder(0xBB), 1)
	assert.ErrorIs(t, err, ErrReservedHolder)
}

func TestAdminOps_NonOwner(t *testing.T) {
	c := New(owner, nil)
	stranger := makeHolder(0xEE)

	assert.ErrorIs(t, c.PauseStaking(stranger), admin.ErrUnauthorized)
	assert.ErrorIs(t, c.ResumeStaking(stranger), admin.ErrUnauthorized)
	assert.ErrorIs(t, c.Stop(stranger), admin.ErrUnauthorized)
	assert.ErrorIs(t, c.Resume(stranger), admin.ErrUnauthorized)
	assert.ErrorIs(t, c.TransferOwnership(stranger, stranger), admin.ErrUnauthorized)
}

func TestTransferOwnership(t *testing.T) {
	c := New(owner, nil)
	next := makeHolder(0x02)

	require.NoError(t, c.TransferOwnership(owner, next))
	assert.Equal(t, next, c.Owner())
	assert.ErrorIs(t, c.PauseStaking(owner), admin.ErrUnauthorized)
	assert.NoError(t, c.PauseStaking(next))
}

func TestRoundTrip_NeverProfits(t *testing.T) {
	// Stake then immediately unstake all: received value never exceeds
	// the deposit, and equals it when the price is exactly 1.
	outbox := NewOutbox()
	c := New(owner, outbox)
	require.NoError(t, c.Initialize(owner, 100_000))
	require.NoError(t, c.DistributeReward(owner, 50_000)) // price 1.5

	a := makeHolder(0xAA)
	deposit := uint64(100)
	require.NoError(t, c.Stake(a, identity.Zero, deposit))

	got, err := c.Unstake(a, AllShares())
	require.NoError(t, err)
	assert.LessOrEqual(t, got, deposit)
	checkInvariants(t, c)
}

func TestSnapshotRestore(t *testing.T) {
	c := New(owner, nil)
	require.NoError(t, c.Initialize(owner, 100_000))

	a := makeHolder(0xAA)
	require.NoError(t, c.Stake(a, identity.Zero, 150_000))
	require.NoError(t, c.DistributeReward(owner, 50_000))
	require.NoError(t, c.PauseStaking(owner))

	snap := c.Snapshot()

	restored := New(identity.Zero, nil)
	require.NoError(t, restored.Restore(snap))

	assert.True(t, restored.Initialized())
	assert.Equal(t, owner, restored.Owner())
	assert.True(t, restored.StakingPaused())
	assert.Equal(t, c.TotalShares(), restored.TotalShares())
	assert.Equal(t, c.TotalSupply(), restored.TotalSupply())
	assert.Equal(t, c.SharesOf(a), restored.SharesOf(a))
	assert.Equal(t, c.SharesOf(identity.Dead), restored.SharesOf(identity.Dead))
	checkInvariants(t, restored)

	// Sequence numbering continues where the snapshot left off.
	require.NoError(t, restored.ResumeStaking(owner))
	require.NoError(t, restored.Stake(makeHolder(0xBB), identity.Zero, 10_000))
	events := restored.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, snap.NextEventSeq, events[0].Seq)
}

func TestRestore_CorruptRegister(t *testing.T) {
	c := New(owner, nil)
	snap := Snapshot{
		Initialized: true,
		Owner:       owner,
		TotalShares: 100,
		TotalPooled: 100,
		Holders:     []pool.Entry{{Holder: makeHolder(0xAA), Shares: 99}},
	}
	assert.ErrorIs(t, c.Restore(snap), pool.ErrShareMismatch)
}
