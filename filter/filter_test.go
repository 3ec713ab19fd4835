package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dot5enko/simple-olap-db/mempool"
	"github.com/dot5enko/simple-olap-db/row"
	"github.com/dot5enko/simple-olap-db/rowblock"
	"github.com/dot5enko/simple-olap-db/schema"
)

func metricsSchema() *schema.TabletSchema {
	return &schema.TabletSchema{
		Name: "metrics",
		Columns: []schema.TabletColumn{
			{Name: "created_at", Type: schema.Uint64FieldType, IsKey: true},
			{Name: "value", Type: schema.Float64FieldType, Nullable: true},
			{Name: "tag", Type: schema.VarcharFieldType, Nullable: true},
		},
	}
}

// buildBlock fills rows with key=i, value=values[i] (NaN marks null)
// and a tag derived from the key.
func buildBlock(t *testing.T, values []float64, nullAt map[int]bool) *rowblock.RowBlock {
	t.Helper()

	b := rowblock.New(metricsSchema(), mempool.New(4, 16*1024))
	require.NoError(t, b.Init(rowblock.Info{Capacity: len(values), NullSupported: true}))

	writer, err := row.NewOwnedCursor(b.Schema(), true)
	require.NoError(t, err)
	writer.BindArena(b.Arena())

	for i, v := range values {
		writer.SetUint(0, uint64(i))

		if nullAt[i] {
			writer.SetNull(1)
		} else {
			writer.SetFloat(1, v)
		}

		require.NoError(t, writer.SetVarchar(2, fmt.Appendf(nil, "tag-%d", i)))
		b.SetRow(i, writer)
	}

	require.NoError(t, b.Finalize(len(values)))
	return b
}

func windowKeys(t *testing.T, b *rowblock.RowBlock) []uint64 {
	t.Helper()

	cursor, err := row.NewCursor(b.Schema(), true)
	require.NoError(t, err)

	out := make([]uint64, 0, b.Limit())
	for i := 0; i < b.Limit(); i++ {
		b.GetRow(i, cursor)
		k, ok := cursor.Uint(0)
		require.True(t, ok)
		out = append(out, k)
	}
	return out
}

func TestApplyNoConditions(t *testing.T) {

	b := buildBlock(t, []float64{1, 2, 3}, nil)

	st, err := Apply(b, nil)
	require.NoError(t, err)
	require.Equal(t, rowblock.StatusSatisfied, st)
	require.Equal(t, rowblock.StatusSatisfied, b.Status())
	require.Equal(t, 3, b.Limit())
}

func TestApplyEmptyWindow(t *testing.T) {

	b := rowblock.New(metricsSchema(), nil)
	require.NoError(t, b.Init(rowblock.Info{Capacity: 4, NullSupported: true}))
	require.NoError(t, b.Finalize(0))

	st, err := Apply(b, []Condition{Eq(0, 1)})
	require.NoError(t, err)
	require.Equal(t, rowblock.StatusRejected, st)
}

func TestApplyShrinksWindow(t *testing.T) {

	b := buildBlock(t, []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, nil)

	st, err := Apply(b, []Condition{Range(0, 3, 6)})
	require.NoError(t, err)
	require.Equal(t, rowblock.StatusPartialSatisfied, st)
	require.Equal(t, []uint64{3, 4, 5, 6}, windowKeys(t, b))

	// tags moved with their rows
	cursor, curErr := row.NewCursor(b.Schema(), true)
	require.NoError(t, curErr)

	b.GetRow(0, cursor)
	tag, present := cursor.Varchar(2)
	require.True(t, present)
	require.Equal(t, "tag-3", string(tag))
}

func TestApplyAllMatch(t *testing.T) {

	b := buildBlock(t, []float64{10, 20, 30}, nil)

	st, err := Apply(b, []Condition{Lt(1, 1000)})
	require.NoError(t, err)
	require.Equal(t, rowblock.StatusSatisfied, st)
	require.Equal(t, 3, b.Limit())
}

func TestApplyNoneMatch(t *testing.T) {

	b := buildBlock(t, []float64{10, 20, 30}, nil)

	st, err := Apply(b, []Condition{Gt(1, 1000)})
	require.NoError(t, err)
	require.Equal(t, rowblock.StatusRejected, st)
	require.Equal(t, 0, b.Limit())
	require.False(t, b.HasRemaining())
}

func TestApplyIntersectsConditions(t *testing.T) {

	b := buildBlock(t, []float64{5, 15, 25, 35, 45, 55}, nil)

	// keys 1..4 intersected with value > 20 leaves keys 2, 3, 4
	st, err := Apply(b, []Condition{
		Range(0, 1, 4),
		Gt(1, 20),
	})
	require.NoError(t, err)
	require.Equal(t, rowblock.StatusPartialSatisfied, st)
	require.Equal(t, []uint64{2, 3, 4}, windowKeys(t, b))
}

func TestApplyExcludesNullRows(t *testing.T) {

	b := buildBlock(t, []float64{0, 1, 5}, map[int]bool{0: true})

	// a null gathers as the zero value, which Lt would otherwise match
	st, err := Apply(b, []Condition{Lt(1, 10)})
	require.NoError(t, err)
	require.Equal(t, rowblock.StatusPartialSatisfied, st)
	require.Equal(t, []uint64{1, 2}, windowKeys(t, b))
}

func TestApplyVarcharColumnUnsupported(t *testing.T) {

	b := buildBlock(t, []float64{1}, nil)

	_, err := Apply(b, []Condition{Eq(2, 1)})
	require.ErrorIs(t, err, ErrUnsupportedColumn)
}

func TestMatchBounds(t *testing.T) {

	bounds := schema.NewBoundsFromValues(100, 200)

	cases := []struct {
		cond Condition
		want schema.BoundsFilterMatchResult
	}{
		{Range(0, 300, 400), schema.NoIntersection},
		{Range(0, 150, 400), schema.PartialIntersection},
		{Range(0, 50, 300), schema.FullIntersection},
		{Range(0, 400, 300), schema.NoIntersection}, // inverted operands normalize
		{Eq(0, 50), schema.NoIntersection},
		{Eq(0, 150), schema.PartialIntersection},
		{Gt(0, 200), schema.NoIntersection},
		{Gt(0, 50), schema.FullIntersection},
		{Gt(0, 150), schema.PartialIntersection},
		{Lt(0, 100), schema.NoIntersection},
		{Lt(0, 300), schema.FullIntersection},
		{Lt(0, 150), schema.PartialIntersection},
	}

	for _, tc := range cases {
		got, err := MatchBounds(tc.cond, &bounds)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%s %v", tc.cond.Op.String(), tc.cond.Args)
	}

	_, err := MatchBounds(Condition{Op: Op(99)}, &bounds)
	require.ErrorIs(t, err, ErrUnsupportedOp)
}
