package segment

import (
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dot5enko/simple-olap-db/compression"
	olapio "github.com/dot5enko/simple-olap-db/io"
	"github.com/dot5enko/simple-olap-db/mempool"
	"github.com/dot5enko/simple-olap-db/row"
	"github.com/dot5enko/simple-olap-db/rowblock"
	"github.com/dot5enko/simple-olap-db/schema"
)

// rawRow adapts one slot of a decoded block body to the byte-view
// capability SetRow consumes.
type rawRow []byte

func (r rawRow) RowBytes() []byte { return r }

// Reader decodes a segment file back into row blocks: decompress,
// verify the checksum, raw-copy the fixed rows and re-home varchar
// payloads into the destination block's arena.
type Reader struct {
	path   string
	schema *schema.TabletSchema
	pool   *mempool.Pool

	file    *olapio.File
	header  Header
	entries []BlockEntry
}

func NewReader(path string, s *schema.TabletSchema, pool *mempool.Pool) *Reader {
	if pool == nil {
		pool = mempool.New(0, 0)
	}
	return &Reader{path: path, schema: s, pool: pool}
}

func (r *Reader) Open() (topErr error) {

	r.file = olapio.NewFile(r.path)
	if topErr = r.file.Open(true); topErr != nil {
		return fmt.Errorf("unable to open segment: %s", topErr.Error())
	}

	headerBytes := make([]byte, HeaderSize)
	if topErr = r.file.ReadAt(headerBytes, 0); topErr != nil {
		return fmt.Errorf("unable to read segment header: %s", topErr.Error())
	}

	if topErr = r.header.FromBytes(headerBytes); topErr != nil {
		return topErr
	}

	if int(r.header.Columns) != len(r.schema.Columns) {
		return fmt.Errorf("%w: segment has %d columns, schema has %d",
			ErrSchemaMismatch, r.header.Columns, len(r.schema.Columns))
	}

	entryBytes := make([]byte, EntrySize)
	r.entries = make([]BlockEntry, r.header.BlockCount)

	for i := range r.entries {
		readErr := r.file.ReadAt(entryBytes, HeaderSize+i*EntrySize)
		if readErr != nil {
			return fmt.Errorf("unable to read block entry %d: %s", i, readErr.Error())
		}
		if decodeErr := r.entries[i].FromBytes(entryBytes); decodeErr != nil {
			return decodeErr
		}
	}

	return nil
}

func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

func (r *Reader) Header() Header { return r.header }

func (r *Reader) BlockCount() int { return len(r.entries) }

// Entry exposes a block's descriptive entry, the filter stage prunes
// on its bounds before paying for a decode.
func (r *Reader) Entry(i int) BlockEntry { return r.entries[i] }

// ReadBlock decodes block i into blk, re-initializing it for this
// segment's capacity. The verified checksum is handed to the block
// through its info.
func (r *Reader) ReadBlock(i int, blk *rowblock.RowBlock) error {

	entry := r.entries[i]

	compressedBytes := make([]byte, entry.CompressedSize)
	if readErr := r.file.ReadAt(compressedBytes, int(entry.StartOffset)); readErr != nil {
		return fmt.Errorf("unable to read block %d body: %s", i, readErr.Error())
	}

	raw := make([]byte, entry.RawSize)
	if decompressErr := compression.Decompress(r.header.Compression, compressedBytes, raw); decompressErr != nil {
		return fmt.Errorf("unable to decompress block %d: %s", i, decompressErr.Error())
	}

	if sum := xxhash.Sum64(raw); sum != entry.Checksum {
		return fmt.Errorf("%w: block %d, got %x want %x", ErrChecksumMismatch, i, sum, entry.Checksum)
	}

	columnIds := make([]uint32, len(r.schema.Columns))
	for col := range columnIds {
		columnIds[col] = uint32(col)
	}

	initErr := blk.Init(rowblock.Info{
		Checksum:      entry.Checksum,
		Capacity:      int(r.header.RowsPerBlock),
		NullSupported: r.header.NullSupported,
		ColumnIDs:     columnIds,
	})
	if initErr != nil {
		return fmt.Errorf("unable to init destination block: %s", initErr.Error())
	}

	if materializeErr := materialize(blk, raw, int(entry.Rows)); materializeErr != nil {
		return materializeErr
	}

	return blk.Finalize(int(entry.Rows))
}

// ReadAll decodes every block concurrently, one goroutine per block
// bounded by GOMAXPROCS. File reads are positional so no external
// locking is needed.
func (r *Reader) ReadAll() ([]*rowblock.RowBlock, error) {

	blocks := make([]*rowblock.RowBlock, len(r.entries))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range r.entries {
		i := i
		g.Go(func() error {
			blk := rowblock.New(r.schema, r.pool)
			if err := r.ReadBlock(i, blk); err != nil {
				return err
			}
			blocks[i] = blk
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return blocks, nil
}

// materialize copies the fixed row region into the block and rebuilds
// varchar fields from the payload section into the block's own arena.
func materialize(blk *rowblock.RowBlock, raw []byte, rows int) error {

	layout := blk.Layout()
	s := blk.Schema()
	stride := layout.Stride

	cursor, err := row.NewCursor(s, layout.NullSupported)
	if err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		blk.SetRow(i, rawRow(raw[i*stride:(i+1)*stride]))
	}

	for col, column := range s.Columns {
		if column.Type != schema.VarcharFieldType {
			continue
		}

		for i := 0; i < rows; i++ {
			blk.GetRow(i, cursor)

			if cursor.IsNull(col) {
				continue
			}

			// descriptor still carries the on-disk payload offset
			desc := raw[i*stride+layout.ValueOffset(col):]
			start := binary.LittleEndian.Uint32(desc[0:4])
			length := binary.LittleEndian.Uint32(desc[4:8])

			if int(start)+int(length) > len(raw) {
				return fmt.Errorf("varchar payload out of range in row %d col %d", i, col)
			}

			if setErr := cursor.SetVarchar(col, raw[start:start+length]); setErr != nil {
				return setErr
			}
		}
	}

	return nil
}
