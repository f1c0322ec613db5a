package pool

import (
	"fmt"
	"math/bits"
)

// mulDiv computes a * b / c with a 128-bit intermediate so the product
// cannot wrap, truncating toward zero. Fails with ErrOverflow if the
// quotient does not fit in 64 bits. Callers guarantee c > 0.
func mulDiv(a, b, c uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, fmt.Errorf("%w: %d * %d / %d exceeds 64 bits", ErrOverflow, a, b, c)
	}
	q, _ := bits.Div64(hi, lo, c)
	return q, nil
}
