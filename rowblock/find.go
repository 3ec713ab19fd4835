package rowblock

import (
	"sort"

	"github.com/dot5enko/simple-olap-db/row"
)

// FindRow binary searches the finalized rows [0, RowCount()) for key.
// Rows must already be sorted ascending under the cursor comparison
// over the key columns; the block does not verify that.
//
// findLast false returns the lower bound: the smallest index whose row
// is not less than key. findLast true returns the upper bound: the
// smallest index whose row is strictly greater than key. An index
// equal to RowCount() means no row qualifies; that is a normal result,
// not an error. An empty finalized block yields 0.
//
// Cost is O(log n) helper-cursor attachments.
func (b *RowBlock) FindRow(key *row.Cursor, findLast bool) (int, error) {

	if b.buf == nil {
		return 0, ErrNotInitialized
	}
	if !b.finalized {
		return 0, ErrNotFinalized
	}

	index := sort.Search(b.rowCount, func(i int) bool {
		b.GetRow(i, b.helper)
		if findLast {
			return b.helper.Cmp(key) > 0
		}
		return b.helper.Cmp(key) >= 0
	})

	return index, nil
}
