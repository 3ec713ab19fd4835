// Package segment implements the on-disk unit feeding row blocks: a
// header, a table of per-block entries and the compressed block bodies.
// The reader side is the decompression pipeline that materializes raw
// row bytes into reusable in-memory blocks.
package segment

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dot5enko/simple-olap-db/bits"
	"github.com/dot5enko/simple-olap-db/compression"
	"github.com/dot5enko/simple-olap-db/schema"
)

const FormatVersion = 1

// Fixed on-disk sizes, the gap after the used fields is reserved.
const (
	HeaderSize = 64
	EntrySize  = 64

	headerUsedBytes = 16 + 2 + 2 + 1 + 1 + 2 + 4
	entryUsedBytes  = 8 + 8 + 8 + 4 + 8 + 16
)

var (
	ErrBadVersion       = errors.New("unsupported segment format version")
	ErrSchemaMismatch   = errors.New("segment does not match the tablet schema")
	ErrChecksumMismatch = errors.New("block checksum mismatch")
)

// Header describes one segment file.
//
// layout: uid(16) version(2) columns(2) null(1) compression(1)
// blocks(2) rows_per_block(4) reserved
type Header struct {
	Uid uuid.UUID

	Version uint16
	Columns uint16

	NullSupported bool
	Compression   compression.Type

	BlockCount   uint16
	RowsPerBlock uint32
}

// BlockEntry locates and describes one compressed block body.
//
// layout: start(8) csize(8) rawsize(8) rows(4) checksum(8)
// bounds max(8) min(8) reserved
type BlockEntry struct {
	StartOffset    uint64
	CompressedSize uint64
	RawSize        uint64

	Rows uint32

	// xxhash64 of the uncompressed block bytes
	Checksum uint64

	// min/max of the first key column when it is numeric, used for
	// header-level filter pruning
	Bounds schema.BoundsFloat
}

func (h *Header) WriteTo(bw *bits.BitWriter) (int, error) {

	n, _ := bw.Write(h.Uid[:])
	if n != 16 {
		return 0, fmt.Errorf("failed to write segment uid")
	}

	bw.PutUint16(h.Version)
	bw.PutUint16(h.Columns)

	nullByte := uint8(0)
	if h.NullSupported {
		nullByte = 1
	}
	bw.WriteByte(nullByte)
	bw.WriteByte(uint8(h.Compression))

	bw.PutUint16(h.BlockCount)
	bw.PutUint32(h.RowsPerBlock)

	bw.EmptyBytes(HeaderSize - headerUsedBytes)

	return bw.Position(), nil
}

func (h *Header) FromBytes(input []byte) (topErr error) {

	reader := bits.NewReader(bytes.NewReader(input), binary.LittleEndian)

	h.Uid, topErr = reader.ReadUUID()
	if topErr != nil {
		return fmt.Errorf("unable to decode segment uid: %s", topErr.Error())
	}

	h.Version, topErr = reader.ReadU16()
	if topErr != nil {
		return fmt.Errorf("unable to decode segment version: %s", topErr.Error())
	}
	if h.Version != FormatVersion {
		return ErrBadVersion
	}

	h.Columns = reader.MustReadU16()
	h.NullSupported = reader.MustReadU8() != 0
	h.Compression = compression.Type(reader.MustReadU8())
	h.BlockCount = reader.MustReadU16()
	h.RowsPerBlock = reader.MustReadU32()

	return nil
}

func (e *BlockEntry) WriteTo(bw *bits.BitWriter) (int, error) {

	bw.PutUint64(e.StartOffset)
	bw.PutUint64(e.CompressedSize)
	bw.PutUint64(e.RawSize)
	bw.PutUint32(e.Rows)
	bw.PutUint64(e.Checksum)

	bw.PutFloat64(e.Bounds.Max)
	bw.PutFloat64(e.Bounds.Min)

	bw.EmptyBytes(EntrySize - entryUsedBytes)

	return bw.Position(), nil
}

func (e *BlockEntry) FromBytes(input []byte) (topErr error) {

	reader := bits.NewReader(bytes.NewReader(input), binary.LittleEndian)

	e.StartOffset, topErr = reader.ReadU64()
	if topErr != nil {
		return fmt.Errorf("unable to decode block entry start offset: %s", topErr.Error())
	}

	e.CompressedSize = reader.MustReadU64()
	e.RawSize = reader.MustReadU64()
	e.Rows = reader.MustReadU32()
	e.Checksum = reader.MustReadU64()

	e.Bounds.Max = reader.MustReadF64()
	e.Bounds.Min = reader.MustReadF64()

	return nil
}
