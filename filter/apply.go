package filter

import (
	"fmt"

	"github.com/dot5enko/simple-olap-db/lists"
	"github.com/dot5enko/simple-olap-db/ops"
	"github.com/dot5enko/simple-olap-db/row"
	"github.com/dot5enko/simple-olap-db/rowblock"
	"github.com/dot5enko/simple-olap-db/schema"
)

// Apply evaluates every condition over the block's current read
// window [0, limit), compacts the surviving rows to the front and
// shrinks the limit accordingly. The resulting status is written to
// the block and returned.
//
// Runs after Finalize; the caller owns the block for the whole cycle.
func Apply(b *rowblock.RowBlock, conds []Condition) (rowblock.Status, error) {

	n := b.Limit()

	if n == 0 || len(conds) == 0 {
		st := rowblock.StatusSatisfied
		if n == 0 {
			st = rowblock.StatusRejected
		}
		b.SetStatus(st)
		return st, nil
	}

	cursor, err := row.NewCursor(b.Schema(), b.Layout().NullSupported)
	if err != nil {
		return rowblock.StatusPartialSatisfied, err
	}

	var surviving []uint32

	for _, cond := range conds {

		matched, evalErr := evalCondition(b, cursor, cond, n)
		if evalErr != nil {
			return rowblock.StatusPartialSatisfied, evalErr
		}

		if surviving == nil {
			surviving = matched
			continue
		}

		// both lists ascend, intersect in place
		surviving = surviving[:lists.IntersectSorted(surviving, matched, surviving)]
	}

	kept := len(surviving)

	var st rowblock.Status
	switch {
	case kept == n:
		st = rowblock.StatusSatisfied

	case kept == 0:
		st = rowblock.StatusRejected
		b.SetLimit(0)

	default:
		st = rowblock.StatusPartialSatisfied
		for dst, src := range surviving {
			b.MoveRow(dst, int(src))
		}
		b.SetLimit(kept)
	}

	b.SetStatus(st)
	return st, nil
}

// evalCondition gathers the column into its widest native type and
// runs the matching kernel, dropping null rows afterwards.
func evalCondition(b *rowblock.RowBlock, cursor *row.Cursor, cond Condition, n int) ([]uint32, error) {

	column := b.Schema().Columns[cond.Col]
	out := make([]uint32, n)

	var (
		matched int
		nulls   []bool
		evalErr error
	)

	switch typ := column.Type; typ {

	case schema.Int8FieldType, schema.Int16FieldType, schema.Int32FieldType, schema.Int64FieldType:
		vals := make([]int64, n)
		nulls = gather(b, cursor, cond.Col, vals, (*row.Cursor).Int)
		matched, evalErr = runKernel(vals, int64(cond.Args[0]), int64(cond.Args[1]), cond.Op, out)

	case schema.Uint8FieldType, schema.Uint16FieldType, schema.Uint32FieldType, schema.Uint64FieldType:
		vals := make([]uint64, n)
		nulls = gather(b, cursor, cond.Col, vals, (*row.Cursor).Uint)
		matched, evalErr = runKernel(vals, uint64(cond.Args[0]), uint64(cond.Args[1]), cond.Op, out)

	case schema.Float32FieldType, schema.Float64FieldType:
		vals := make([]float64, n)
		nulls = gather(b, cursor, cond.Col, vals, (*row.Cursor).Float)
		matched, evalErr = runKernel(vals, cond.Args[0], cond.Args[1], cond.Op, out)

	default:
		return nil, fmt.Errorf("%w: column %d is %s", ErrUnsupportedColumn, cond.Col, typ.String())
	}

	if evalErr != nil {
		return nil, evalErr
	}

	result := out[:matched]

	if nulls != nil {
		kept := 0
		for _, idx := range result {
			if !nulls[idx] {
				result[kept] = idx
				kept++
			}
		}
		result = result[:kept]
	}

	return result, nil
}

// gather pulls one column of the window into vals. Returns the null
// mask, or nil when every row had a value.
func gather[T ops.Numeric](
	b *rowblock.RowBlock,
	cursor *row.Cursor,
	col int,
	vals []T,
	get func(*row.Cursor, int) (T, bool),
) []bool {

	var nulls []bool

	for i := range vals {
		b.GetRow(i, cursor)

		v, ok := get(cursor, col)
		if !ok {
			if nulls == nil {
				nulls = make([]bool, len(vals))
			}
			nulls[i] = true
			continue
		}
		vals[i] = v
	}

	return nulls
}

func runKernel[T ops.Numeric](vals []T, from, to T, op Op, out []uint32) (int, error) {
	switch op {
	case EQ:
		return ops.FilterEq(vals, from, out), nil
	case LT:
		return ops.FilterLess(vals, from, out), nil
	case GT:
		return ops.FilterGreater(vals, from, out), nil
	case RANGE:
		return ops.FilterRange(vals, from, to, out), nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedOp, op)
	}
}
