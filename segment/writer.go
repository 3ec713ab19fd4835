package segment

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/dot5enko/simple-olap-db/bits"
	"github.com/dot5enko/simple-olap-db/compression"
	olapio "github.com/dot5enko/simple-olap-db/io"
	"github.com/dot5enko/simple-olap-db/row"
	"github.com/dot5enko/simple-olap-db/rowblock"
	"github.com/dot5enko/simple-olap-db/schema"
)

// Writer serializes finalized row blocks of one tablet schema into a
// segment file. Varchar descriptors are relocated from arena refs to
// offsets inside the serialized block, so a block round-trips through
// any process.
type Writer struct {
	path        string
	schema      *schema.TabletSchema
	compression compression.Type
}

func NewWriter(path string, s *schema.TabletSchema, ct compression.Type) *Writer {
	return &Writer{
		path:        path,
		schema:      s,
		compression: ct,
	}
}

// Write lays the segment out as header, entry table, then compressed
// block bodies. All blocks must be finalized, share the writer's
// schema and the same capacity and null support.
func (w *Writer) Write(blocks []*rowblock.RowBlock) (topErr error) {

	if len(blocks) == 0 {
		return fmt.Errorf("refusing to write a segment with no blocks")
	}

	first := blocks[0].Info()

	header := Header{
		Uid:           uuid.New(),
		Version:       FormatVersion,
		Columns:       uint16(len(w.schema.Columns)),
		NullSupported: first.NullSupported,
		Compression:   w.compression,
		BlockCount:    uint16(len(blocks)),
		RowsPerBlock:  uint32(first.Capacity),
	}

	file := olapio.NewFile(w.path)
	if topErr = file.Open(false); topErr != nil {
		return fmt.Errorf("unable to open segment for writing: %s", topErr.Error())
	}
	defer file.Close()

	entries := make([]BlockEntry, len(blocks))
	offset := HeaderSize + len(blocks)*EntrySize

	var compressed bytes.Buffer

	for i, block := range blocks {

		raw, encodeErr := encodeBlockRaw(block)
		if encodeErr != nil {
			return fmt.Errorf("unable to encode block %d: %s", i, encodeErr.Error())
		}

		compressed.Reset()
		if compressErr := compression.Compress(w.compression, raw, &compressed); compressErr != nil {
			return fmt.Errorf("unable to compress block %d: %s", i, compressErr.Error())
		}

		entries[i] = BlockEntry{
			StartOffset:    uint64(offset),
			CompressedSize: uint64(compressed.Len()),
			RawSize:        uint64(len(raw)),
			Rows:           uint32(block.RowCount()),
			Checksum:       xxhash.Sum64(raw),
			Bounds:         keyBounds(block),
		}

		if writeErr := file.WriteAt(compressed.Bytes(), offset); writeErr != nil {
			return fmt.Errorf("unable to write block %d body: %s", i, writeErr.Error())
		}

		slog.Debug("segment block written",
			"block", i,
			"rows", block.RowCount(),
			"raw", len(raw),
			"compressed", compressed.Len(),
			"codec", w.compression.String())

		offset += compressed.Len()
	}

	headerBuf := make([]byte, HeaderSize+len(blocks)*EntrySize)
	bw := bits.NewEncodeBuffer(headerBuf, binary.LittleEndian)

	if _, headerErr := header.WriteTo(&bw); headerErr != nil {
		return fmt.Errorf("unable to encode segment header: %s", headerErr.Error())
	}
	for i := range entries {
		if _, entryErr := entries[i].WriteTo(&bw); entryErr != nil {
			return fmt.Errorf("unable to encode block entry %d: %s", i, entryErr.Error())
		}
	}

	if writeErr := file.WriteAt(headerBuf, 0); writeErr != nil {
		return fmt.Errorf("unable to write segment header: %s", writeErr.Error())
	}

	return nil
}

// encodeBlockRaw produces the uncompressed block body: the fixed row
// region followed by the varchar payload section, descriptors patched
// to payload offsets.
func encodeBlockRaw(b *rowblock.RowBlock) ([]byte, error) {

	layout := b.Layout()
	s := b.Schema()
	n := b.RowCount()
	stride := layout.Stride

	cursor, err := row.NewCursor(s, layout.NullSupported)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, n*stride)
	payload := []byte(nil)

	for i := 0; i < n; i++ {

		b.GetRow(i, cursor)
		copy(raw[i*stride:(i+1)*stride], cursor.RowBytes())

		for col, column := range s.Columns {
			if column.Type != schema.VarcharFieldType {
				continue
			}

			content, present := cursor.Varchar(col)
			if !present {
				continue
			}

			desc := raw[i*stride+layout.ValueOffset(col):]
			binary.LittleEndian.PutUint32(desc[0:4], uint32(n*stride+len(payload)))
			binary.LittleEndian.PutUint32(desc[4:8], uint32(len(content)))

			payload = append(payload, content...)
		}
	}

	return append(raw, payload...), nil
}

// keyBounds scans the first key column when numeric; varchar or
// keyless schemas get empty bounds and filtering falls back to row
// evaluation.
func keyBounds(b *rowblock.RowBlock) schema.BoundsFloat {

	s := b.Schema()
	if s.KeyColumns() == 0 || !s.Columns[0].Type.Numeric() || b.RowCount() == 0 {
		return schema.BoundsFloat{}
	}

	cursor, err := row.NewCursor(s, b.Layout().NullSupported)
	if err != nil {
		return schema.BoundsFloat{}
	}

	bounds := schema.BoundsFloat{}

	for i := 0; i < b.RowCount(); i++ {
		b.GetRow(i, cursor)

		v, ok := numericAsFloat(cursor, s.Columns[0].Type, 0)
		if !ok {
			continue
		}

		if i == 0 {
			bounds = schema.NewBoundsFromValues(v, v)
		} else {
			bounds.Morph(schema.NewBoundsFromValues(v, v))
		}
	}

	return bounds
}

func numericAsFloat(c *row.Cursor, typ schema.FieldType, col int) (float64, bool) {
	switch typ {
	case schema.Int8FieldType, schema.Int16FieldType, schema.Int32FieldType, schema.Int64FieldType:
		v, ok := c.Int(col)
		return float64(v), ok
	case schema.Uint8FieldType, schema.Uint16FieldType, schema.Uint32FieldType, schema.Uint64FieldType:
		v, ok := c.Uint(col)
		return float64(v), ok
	case schema.Float32FieldType, schema.Float64FieldType:
		return c.Float(col)
	default:
		return 0, false
	}
}
