// Package ops holds the branch-light comparison kernels the vectorized
// filter stage runs over gathered column values. Every kernel writes
// the indices of matching elements into out (sized >= len(arr)) and
// returns how many matched, in ascending order.
package ops

import "golang.org/x/exp/constraints"

type Numeric interface {
	constraints.Integer | constraints.Float
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
