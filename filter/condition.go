// Package filter is the vectorized predicate stage running over
// finalized row blocks: it gathers column values, runs the ops
// kernels, intersects surviving index lists and rewrites the block's
// read window and status with the outcome.
package filter

import (
	"errors"
	"fmt"

	"github.com/dot5enko/simple-olap-db/schema"
)

type Op uint8

const (
	EQ Op = iota
	LT
	GT
	RANGE
)

func (o Op) String() string {
	switch o {
	case EQ:
		return "eq"
	case LT:
		return "lt"
	case GT:
		return "gt"
	case RANGE:
		return "range"
	default:
		return ""
	}
}

var (
	ErrUnsupportedOp     = errors.New("unsupported filter operand")
	ErrUnsupportedColumn = errors.New("filtering is only supported on numeric columns")
)

// Condition is one predicate over a single column. Args carry the
// operand(s) as float64 and are converted to the column's native type
// before the kernel runs; integer columns truncate.
type Condition struct {
	Col  int
	Op   Op
	Args [2]float64
}

func Eq(col int, v float64) Condition { return Condition{Col: col, Op: EQ, Args: [2]float64{v, 0}} }
func Lt(col int, v float64) Condition { return Condition{Col: col, Op: LT, Args: [2]float64{v, 0}} }
func Gt(col int, v float64) Condition { return Condition{Col: col, Op: GT, Args: [2]float64{v, 0}} }

func Range(col int, a, b float64) Condition {
	return Condition{Col: col, Op: RANGE, Args: [2]float64{a, b}}
}

// MatchBounds decides from min/max metadata alone whether a block can
// be skipped (no intersection), taken whole (full) or must be
// evaluated row by row (partial).
func MatchBounds(cond Condition, bounds *schema.BoundsFloat) (schema.BoundsFilterMatchResult, error) {

	switch cond.Op {
	case RANGE:

		operandFrom := cond.Args[0]
		operandTo := cond.Args[1]

		if operandFrom > operandTo {
			operandFrom, operandTo = operandTo, operandFrom
		}

		return bounds.Intersects(schema.NewBoundsFromValues(operandFrom, operandTo)), nil

	case EQ:

		if !bounds.Contains(cond.Args[0]) {
			return schema.NoIntersection, nil
		}
		return schema.PartialIntersection, nil

	case GT:

		operand := cond.Args[0]

		if operand >= bounds.Max {
			return schema.NoIntersection, nil
		}
		if operand < bounds.Min {
			return schema.FullIntersection, nil
		}
		return schema.PartialIntersection, nil

	case LT:

		operand := cond.Args[0]

		if operand <= bounds.Min {
			return schema.NoIntersection, nil
		}
		if operand > bounds.Max {
			return schema.FullIntersection, nil
		}
		return schema.PartialIntersection, nil

	default:
		return schema.UnknownIntersection, fmt.Errorf("%w: %v", ErrUnsupportedOp, cond.Op)
	}
}
