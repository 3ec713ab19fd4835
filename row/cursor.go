package row

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"github.com/dot5enko/simple-olap-db/arena"
	"github.com/dot5enko/simple-olap-db/schema"
)

var ErrNoArena = errors.New("cursor has no arena bound for varchar content")

// Cursor is a movable view over one row. Attach points it at any
// stride-sized byte span (typically a slot inside a block buffer), the
// typed accessors then read and write fields through the layout table.
//
// A cursor built over a key-prefix schema compares against full-row
// cursors of the same tablet: layout offsets are computed left to
// right, so the prefix layout is byte compatible.
type Cursor struct {
	schema *schema.TabletSchema
	layout Layout

	buf   []byte // currently attached row
	owned []byte // backing row for standalone cursors

	// resolves varchar descriptors written through or read by this
	// cursor, normally the arena of the block the row lives in
	arena *arena.Arena
}

// NewCursor builds a detached cursor; callers attach it to block rows.
func NewCursor(s *schema.TabletSchema, nullSupported bool) (*Cursor, error) {
	layout, err := Compute(s, nullSupported)
	if err != nil {
		return nil, err
	}
	return &Cursor{schema: s, layout: layout}, nil
}

// NewOwnedCursor builds a cursor over its own zeroed row buffer, used
// for constructing search keys and source rows to copy into blocks.
func NewOwnedCursor(s *schema.TabletSchema, nullSupported bool) (*Cursor, error) {
	c, err := NewCursor(s, nullSupported)
	if err != nil {
		return nil, err
	}
	c.owned = make([]byte, c.layout.Stride)
	c.buf = c.owned
	if nullSupported {
		for col := range s.Columns {
			c.buf[c.layout.Offsets[col]] = 1
		}
	}
	return c, nil
}

func (c *Cursor) Attach(row []byte) {
	c.buf = row
}

// BindArena points the cursor at the arena backing varchar content of
// the rows it is attached to.
func (c *Cursor) BindArena(a *arena.Arena) {
	c.arena = a
}

func (c *Cursor) Schema() *schema.TabletSchema { return c.schema }
func (c *Cursor) Layout() Layout { return c.layout }
func (c *Cursor) Stride() int { return c.layout.Stride }

// RowBytes exposes the attached row as a contiguous stride-sized byte
// view, the capability a block's SetRow consumes.
func (c *Cursor) RowBytes() []byte {
	return c.buf[:c.layout.Stride]
}

func (c *Cursor) IsNull(col int) bool {
	if !c.layout.NullSupported {
		return false
	}
	return c.buf[c.layout.Offsets[col]] != 0
}

func (c *Cursor) SetNull(col int) {
	if c.layout.NullSupported {
		c.buf[c.layout.Offsets[col]] = 1
	}
}

func (c *Cursor) clearNull(col int) {
	if c.layout.NullSupported {
		c.buf[c.layout.Offsets[col]] = 0
	}
}

func (c *Cursor) valueSlice(col int) []byte {
	off := c.layout.ValueOffset(col)
	return c.buf[off : off+c.schema.Columns[col].Type.Size()]
}

// SetInt writes a signed integer field, truncating to the column width.
func (c *Cursor) SetInt(col int, v int64) {
	c.clearNull(col)
	storeUint(c.valueSlice(col), uint64(v))
}

// SetUint writes an unsigned integer field.
func (c *Cursor) SetUint(col int, v uint64) {
	c.clearNull(col)
	storeUint(c.valueSlice(col), v)
}

// SetFloat writes a Float32 or Float64 field.
func (c *Cursor) SetFloat(col int, v float64) {
	c.clearNull(col)
	b := c.valueSlice(col)
	if len(b) == 4 {
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	} else {
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

// SetVarchar copies v into the bound arena and writes the fixed
// descriptor into the row slot.
func (c *Cursor) SetVarchar(col int, v []byte) error {
	if c.arena == nil {
		return ErrNoArena
	}

	ref, dst, err := c.arena.Alloc(len(v))
	if err != nil {
		return err
	}
	copy(dst, v)

	c.clearNull(col)
	desc := c.valueSlice(col)
	binary.LittleEndian.PutUint32(desc[0:4], ref)
	binary.LittleEndian.PutUint32(desc[4:8], uint32(len(v)))
	return nil
}

// Int reads a signed integer field. Second result is false when the
// field is null.
func (c *Cursor) Int(col int) (int64, bool) {
	if c.IsNull(col) {
		return 0, false
	}
	return loadInt(c.valueSlice(col)), true
}

func (c *Cursor) Uint(col int) (uint64, bool) {
	if c.IsNull(col) {
		return 0, false
	}
	return loadUint(c.valueSlice(col)), true
}

func (c *Cursor) Float(col int) (float64, bool) {
	if c.IsNull(col) {
		return 0, false
	}
	b := c.valueSlice(col)
	if len(b) == 4 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), true
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), true
}

// Varchar resolves the field's descriptor against the bound arena.
func (c *Cursor) Varchar(col int) ([]byte, bool) {
	if c.IsNull(col) {
		return nil, false
	}

	desc := c.valueSlice(col)
	ln := int(binary.LittleEndian.Uint32(desc[4:8]))
	if ln == 0 {
		return nil, true
	}

	ref := binary.LittleEndian.Uint32(desc[0:4])
	return c.arena.Get(ref, ln), true
}

// Cmp three-way compares the attached row against other, column by
// column over the shorter of the two schemas. Null sorts before any
// value. Both cursors must come from the same tablet schema (or its
// key prefix) with the same null support.
func (c *Cursor) Cmp(other *Cursor) int {

	n := len(c.schema.Columns)
	if m := len(other.schema.Columns); m < n {
		n = m
	}

	for col := 0; col < n; col++ {
		if r := c.cmpField(other, col); r != 0 {
			return r
		}
	}

	return 0
}

func (c *Cursor) cmpField(other *Cursor, col int) int {

	aNull := c.IsNull(col)
	bNull := other.IsNull(col)

	if aNull || bNull {
		if aNull && bNull {
			return 0
		}
		if aNull {
			return -1
		}
		return 1
	}

	switch typ := c.schema.Columns[col].Type; typ {

	case schema.Int8FieldType, schema.Int16FieldType, schema.Int32FieldType, schema.Int64FieldType:
		return cmpOrdered(loadInt(c.valueSlice(col)), loadInt(other.valueSlice(col)))

	case schema.Uint8FieldType, schema.Uint16FieldType, schema.Uint32FieldType, schema.Uint64FieldType:
		return cmpOrdered(loadUint(c.valueSlice(col)), loadUint(other.valueSlice(col)))

	case schema.Float32FieldType, schema.Float64FieldType:
		av, _ := c.Float(col)
		bv, _ := other.Float(col)
		return cmpOrdered(av, bv)

	case schema.VarcharFieldType:
		av, _ := c.Varchar(col)
		bv, _ := other.Varchar(col)
		return bytes.Compare(av, bv)

	default:
		panic("uncomparable field type " + typ.String())
	}
}

func cmpOrdered[T int64 | uint64 | float64](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func loadUint(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}

func loadInt(b []byte) int64 {
	switch len(b) {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	default:
		return int64(binary.LittleEndian.Uint64(b))
	}
}

func storeUint(b []byte, v uint64) {
	switch len(b) {
	case 1:
		b[0] = uint8(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	default:
		binary.LittleEndian.PutUint64(b, v)
	}
}
