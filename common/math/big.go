// Package math provides the overflow-checked arithmetic helpers the gas
// table needs when accumulating uint64 gas costs.
package math

const (
	// MaxUint64 is the largest value representable by a uint64.
	MaxUint64 = 1<<64 - 1
)

// SafeAdd returns x+y and reports whether the addition overflowed a uint64.
func SafeAdd(x, y uint64) (uint64, bool) {
	return x + y, y > MaxUint64-x
}

// SafeMul returns x*y and reports whether the multiplication overflowed a
// uint64.
func SafeMul(x, y uint64) (uint64, bool) {
	if x == 0 || y == 0 {
		return 0, false
	}
	return x * y, y > MaxUint64/x
}
