// Package row implements the fixed-length in-memory row format shared
// by row blocks: the per-schema field layout and an attachable cursor
// for field-level access and ordered comparison.
package row

import (
	"errors"
	"fmt"

	"github.com/dot5enko/simple-olap-db/schema"
)

var ErrEmptySchema = errors.New("cannot compute layout for empty schema")
var ErrBadFieldWidth = errors.New("field has zero or unknown width")

// Layout is the byte layout of one row: a fixed stride and one offset
// per column. When null support is on, every field is preceded by a
// single null-indicator byte and the recorded offset points at that
// byte, value bytes follow immediately.
type Layout struct {
	Stride        int
	Offsets       []int
	NullSupported bool
}

// Compute derives the layout from the schema, columns in declared
// order. Deterministic: blocks sharing a schema copy rows between each
// other verbatim, so the same schema must always produce the same
// layout.
func Compute(s *schema.TabletSchema, nullSupported bool) (Layout, error) {

	if len(s.Columns) == 0 {
		return Layout{}, ErrEmptySchema
	}

	offsets := make([]int, len(s.Columns))
	off := 0

	for i, col := range s.Columns {

		width := col.Type.Size()
		if width <= 0 {
			return Layout{}, fmt.Errorf("column %d (%s, %s): %w", i, col.Name, col.Type.String(), ErrBadFieldWidth)
		}

		offsets[i] = off

		if nullSupported {
			off += 1
		}
		off += width
	}

	return Layout{
		Stride:        off,
		Offsets:       offsets,
		NullSupported: nullSupported,
	}, nil
}

// FieldOffset returns the offset of the column's null byte, or of its
// value bytes when nulls are unsupported.
func (l Layout) FieldOffset(col int) int {
	return l.Offsets[col]
}

// ValueOffset returns the offset of the column's value bytes.
func (l Layout) ValueOffset(col int) int {
	if l.NullSupported {
		return l.Offsets[col] + 1
	}
	return l.Offsets[col]
}

// FieldEnd returns the offset one past the column's value bytes.
func (l Layout) FieldEnd(col int) int {
	if col+1 < len(l.Offsets) {
		return l.Offsets[col+1]
	}
	return l.Stride
}
