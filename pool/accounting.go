package pool

import (
	"fmt"
	"math"
)

// TotalPooled returns the total pooled value: deposits plus rewards minus
// withdrawals.
func (p *Pool) TotalPooled() uint64 { return p.totalPooled }

// RecordInflow credits value to the pooled total.
func (p *Pool) RecordInflow(value uint64) error {
	if p.totalPooled > math.MaxUint64-value {
		return fmt.Errorf("%w: inflow %d to pool %d", ErrOverflow, value, p.totalPooled)
	}
	p.totalPooled += value
	return nil
}

// RecordOutflow debits value from the pooled total. Callers bound
// withdrawals by the computed redeemable value; the underflow check is
// defensive.
func (p *Pool) RecordOutflow(value uint64) error {
	if value > p.totalPooled {
		return fmt.Errorf("%w: outflow %d from pool %d", ErrInsufficientPool, value, p.totalPooled)
	}
	p.totalPooled -= value
	return nil
}

// ValueToShares converts a value amount to shares at the current share
// price, truncating toward zero. With no shares issued it returns 0; the
// bootstrap deposit is priced 1:1 by the caller instead.
func (p *Pool) ValueToShares(value uint64) (uint64, error) {
	if p.totalShares == 0 {
		return 0, nil
	}
	return mulDiv(value, p.totalShares, p.totalPooled)
}

// SharesToValue converts a share amount to its redeemable value at the
// current share price, truncating toward zero.
func (p *Pool) SharesToValue(shareAmount uint64) (uint64, error) {
	if p.totalShares == 0 {
		return 0, ErrZeroTotalShares
	}
	return mulDiv(shareAmount, p.totalPooled, p.totalShares)
}
