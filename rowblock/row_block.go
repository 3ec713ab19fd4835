// Package rowblock implements the fixed-capacity in-memory row
// container sitting between segment decode and the scan/compaction
// layers: decompressed rows are materialized into a block, consumed by
// index, by sequential cursor or by ordered key lookup, then the block
// is cleared and refilled.
package rowblock

import (
	"errors"

	"github.com/dot5enko/simple-olap-db/arena"
	"github.com/dot5enko/simple-olap-db/mempool"
	"github.com/dot5enko/simple-olap-db/row"
	"github.com/dot5enko/simple-olap-db/schema"
)

// Status records how the block relates to predicate evaluation. The
// filter stage writes it, the consumer of the block reads it.
type Status uint8

const (
	// StatusPartialSatisfied is the initial state: nothing is known or
	// only a prefix of the rows survived filtering.
	StatusPartialSatisfied Status = iota
	// StatusSatisfied means every row passed the predicates.
	StatusSatisfied
	// StatusRejected means no row passed.
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusSatisfied:
		return "satisfied"
	case StatusRejected:
		return "rejected"
	default:
		return "partial"
	}
}

var (
	ErrNotInitialized   = errors.New("row block is not initialized")
	ErrNotFinalized     = errors.New("row block is not finalized")
	ErrZeroCapacity     = errors.New("row block capacity must be positive")
	ErrCapacityExceeded = errors.New("row count exceeds block capacity")
)

// Info configures one fill cycle of a block. The checksum is opaque to
// the block: the segment reader computes it over the uncompressed
// bytes and hands it through for downstream verification.
type Info struct {
	Checksum      uint64
	Capacity      int
	NullSupported bool
	ColumnIDs     []uint32
}

// RowSource is anything exposing one row as a contiguous byte view of
// exactly the block's stride, laid out per the same schema and null
// support. *row.Cursor satisfies it.
type RowSource interface {
	RowBytes() []byte
}

// RowBlock owns its row buffer and its payload arena; the two move and
// die together. The schema is referenced, not owned, and must outlive
// the block. Implicit copies of a RowBlock alias its backing memory,
// use Clone for a true duplicate.
//
// Not safe for concurrent use: one owner per fill->read->clear cycle.
type RowBlock struct {
	schema *schema.TabletSchema
	pool   *mempool.Pool

	info     Info
	layout   row.Layout
	capacity int

	buf []byte
	pa  *arena.Arena

	rowCount  int
	finalized bool

	// sequential read window [pos, limit)
	pos   int
	limit int

	status Status

	// reusable cursor for the binary search comparator, attached per
	// probed index
	helper *row.Cursor
}

// New binds a block to its schema and chunk pool. The block stays
// unusable until Init. A nil pool gets a private default.
func New(s *schema.TabletSchema, pool *mempool.Pool) *RowBlock {
	if pool == nil {
		pool = mempool.New(0, 0)
	}
	return &RowBlock{schema: s, pool: pool}
}

// Init computes the row layout and allocates the buffer for
// info.Capacity rows. Fails on invalid schema or capacity; a failed
// block must not be used. Re-Init on a live block releases the
// previous cycle's arena first.
func (b *RowBlock) Init(info Info) error {

	if info.Capacity <= 0 {
		return ErrZeroCapacity
	}

	layout, err := row.Compute(b.schema, info.NullSupported)
	if err != nil {
		return err
	}

	helper, err := row.NewCursor(b.schema, info.NullSupported)
	if err != nil {
		return err
	}

	if b.pa != nil {
		b.pa.Release()
	}
	b.pool.Tracker().Release(len(b.buf))

	b.info = info
	b.layout = layout
	b.capacity = info.Capacity
	b.helper = helper

	b.buf = make([]byte, info.Capacity*layout.Stride)
	b.pool.Tracker().Acquire(len(b.buf))

	b.pa = arena.New(b.pool)
	helper.BindArena(b.pa)

	b.resetWindow()
	return nil
}

func (b *RowBlock) resetWindow() {
	b.rowCount = 0
	b.finalized = false
	b.pos = 0
	b.limit = 0
	b.status = StatusPartialSatisfied
}

// GetRow attaches the cursor to the row's bytes and arena. Caller
// contract: 0 <= index < RowCount(); no bounds check on this hot path.
func (b *RowBlock) GetRow(index int, cursor *row.Cursor) {
	off := index * b.layout.Stride
	cursor.Attach(b.buf[off : off+b.layout.Stride])
	cursor.BindArena(b.pa)
}

// SetRow copies exactly one stride of bytes from source into the slot.
// Caller contract: index < Capacity() and the source row was built
// against this block's layout, with varchar content already living in
// this block's arena.
func (b *RowBlock) SetRow(index int, source RowSource) {
	off := index * b.layout.Stride
	copy(b.buf[off:off+b.layout.Stride], source.RowBytes())
}

// MoveRow copies the row at src over the row at dst inside the block.
// Narrow accessor for the filter/compaction adapters that rearrange
// surviving rows; descriptors stay valid because the arena is shared.
func (b *RowBlock) MoveRow(dst, src int) {
	if dst == src {
		return
	}
	stride := b.layout.Stride
	copy(b.buf[dst*stride:(dst+1)*stride], b.buf[src*stride:(src+1)*stride])
}

// FieldBytes returns the column's field region inside the row: the
// null byte (when nulls are supported) followed by the value bytes.
// Same caller contract as GetRow.
func (b *RowBlock) FieldBytes(rowIndex, col int) []byte {
	base := rowIndex * b.layout.Stride
	return b.buf[base+b.layout.FieldOffset(col) : base+b.layout.FieldEnd(col)]
}

// Finalize fixes the logical row count for this fill cycle and opens
// the read window over all of it.
func (b *RowBlock) Finalize(rowCount int) error {
	if b.buf == nil {
		return ErrNotInitialized
	}
	if rowCount < 0 || rowCount > b.capacity {
		return ErrCapacityExceeded
	}

	b.rowCount = rowCount
	b.finalized = true
	b.pos = 0
	b.limit = rowCount
	return nil
}

// Clear returns the block to its post-Init state for reuse: logical
// size, read window, status and arena are dropped, allocations are
// kept. Must run before refilling an already finalized block.
func (b *RowBlock) Clear() {
	b.resetWindow()
	if b.pa != nil {
		b.pa.Reset()
	}
}

// Release gives the arena chunks back to the pool and drops the
// buffer. The block needs a fresh Init afterwards.
func (b *RowBlock) Release() {
	if b.pa != nil {
		b.pa.Release()
		b.pa = nil
	}
	b.pool.Tracker().Release(len(b.buf))
	b.buf = nil
	b.resetWindow()
}

// Clone builds a deep duplicate: buffer and arena are copied together
// so descriptor refs resolve identically in the clone.
func (b *RowBlock) Clone() (*RowBlock, error) {
	if b.buf == nil {
		return nil, ErrNotInitialized
	}

	dup := New(b.schema, b.pool)
	if err := dup.Init(b.info); err != nil {
		return nil, err
	}

	copy(dup.buf, b.buf)
	dup.pa.Release()
	dup.pa = b.pa.Clone()
	dup.helper.BindArena(dup.pa)

	dup.rowCount = b.rowCount
	dup.finalized = b.finalized
	dup.pos = b.pos
	dup.limit = b.limit
	dup.status = b.status
	return dup, nil
}

func (b *RowBlock) Schema() *schema.TabletSchema { return b.schema }
func (b *RowBlock) Info() Info { return b.info }
func (b *RowBlock) Layout() row.Layout { return b.layout }
func (b *RowBlock) Capacity() int { return b.capacity }
func (b *RowBlock) RowCount() int { return b.rowCount }
func (b *RowBlock) Stride() int { return b.layout.Stride }

// Arena exposes the payload arena so fill-cycle writers allocate
// varchar content with block lifetime.
func (b *RowBlock) Arena() *arena.Arena { return b.pa }

func (b *RowBlock) Pos() int { return b.pos }
func (b *RowBlock) Limit() int { return b.limit }

// SetPos positions the read window start. Caller keeps pos <= limit.
func (b *RowBlock) SetPos(pos int) { b.pos = pos }

// SetLimit shrinks (or restores) the read window end, normally to mark
// that only the first K rows survived filtering. Caller keeps
// limit <= RowCount().
func (b *RowBlock) SetLimit(limit int) { b.limit = limit }

// PosInc advances the window start, saturating at limit so remaining
// never goes negative.
func (b *RowBlock) PosInc() {
	if b.pos < b.limit {
		b.pos++
	}
}

func (b *RowBlock) Remaining() int { return b.limit - b.pos }
func (b *RowBlock) HasRemaining() bool { return b.pos < b.limit }
func (b *RowBlock) Status() Status { return b.status }
func (b *RowBlock) SetStatus(s Status) { b.status = s }
