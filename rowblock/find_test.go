package rowblock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dot5enko/simple-olap-db/row"
	"github.com/dot5enko/simple-olap-db/schema"
)

func keyCursor(t *testing.T, k int64) *row.Cursor {
	t.Helper()

	c, err := row.NewOwnedCursor(&schema.TabletSchema{
		Columns: kvSchema().Columns[:1],
	}, true)
	require.NoError(t, err)

	c.SetInt(0, k)
	return c
}

func TestFindRowBoundsOverDuplicates(t *testing.T) {

	b := newTestBlock(t, 4)
	fillKeys(t, b, []int64{10, 20, 20, 30})

	cases := []struct {
		key       int64
		findLast  bool
		wantIndex int
	}{
		{20, false, 1}, // leftmost duplicate
		{20, true, 3},  // one past the last duplicate
		{5, false, 0},  // below everything: insertion point 0
		{99, false, 4}, // above everything: row count, nothing qualifies
		{99, true, 4},
		{10, false, 0},
		{10, true, 1},
		{30, false, 3},
		{30, true, 4},
		{15, false, 1}, // between keys: both bounds agree
		{15, true, 1},
	}

	for _, tc := range cases {
		got, err := b.FindRow(keyCursor(t, tc.key), tc.findLast)
		require.NoError(t, err)
		require.Equal(t, tc.wantIndex, got, "key=%d findLast=%v", tc.key, tc.findLast)
	}
}

// lower bound counts elements < q, upper bound counts elements <= q
func TestFindRowCountingProperty(t *testing.T) {

	keys := []int64{3, 3, 7, 9, 9, 9, 12}

	b := newTestBlock(t, len(keys))
	fillKeys(t, b, keys)

	for q := int64(0); q < 15; q++ {

		below := 0
		belowOrEqual := 0
		for _, k := range keys {
			if k < q {
				below++
			}
			if k <= q {
				belowOrEqual++
			}
		}

		lower, err := b.FindRow(keyCursor(t, q), false)
		require.NoError(t, err)
		require.Equal(t, below, lower, "lower bound for %d", q)

		upper, err := b.FindRow(keyCursor(t, q), true)
		require.NoError(t, err)
		require.Equal(t, belowOrEqual, upper, "upper bound for %d", q)
	}
}

func TestFindRowEmptyBlock(t *testing.T) {

	b := newTestBlock(t, 4)
	require.NoError(t, b.Finalize(0))

	idx, err := b.FindRow(keyCursor(t, 1), false)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
}

func TestFindRowRequiresFinalize(t *testing.T) {

	b := newTestBlock(t, 4)

	_, err := b.FindRow(keyCursor(t, 1), false)
	require.ErrorIs(t, err, ErrNotFinalized)

	unborn := New(kvSchema(), nil)
	_, err = unborn.FindRow(keyCursor(t, 1), false)
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestFindRowAfterClearAndRefill(t *testing.T) {

	b := newTestBlock(t, 4)
	fillKeys(t, b, []int64{10, 20, 20, 30})

	b.Clear()
	fillKeys(t, b, []int64{40, 50})

	idx, err := b.FindRow(keyCursor(t, 50), false)
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	idx, err = b.FindRow(keyCursor(t, 20), false)
	require.NoError(t, err)
	require.Equal(t, 0, idx, "stale rows from the previous cycle are gone")
}
