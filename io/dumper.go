package io

import (
	"log"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"github.com/dot5enko/simple-olap-db/row"
	"github.com/dot5enko/simple-olap-db/rowblock"
	"github.com/dot5enko/simple-olap-db/schema"
)

// DumpBlock prints the readable window of a finalized block, one line
// per row. Debug aid for the demo binary, not a stable format.
func DumpBlock(b *rowblock.RowBlock, maxRows int) {

	s := b.Schema()

	color.Cyan("block: rows=%d capacity=%d stride=%d window=[%d:%d) status=%s",
		b.RowCount(), b.Capacity(), b.Stride(), b.Pos(), b.Limit(), b.Status().String())

	cursor, err := row.NewCursor(s, b.Layout().NullSupported)
	if err != nil {
		color.Red("cannot build dump cursor: %s", err.Error())
		return
	}

	shown := 0
	for i := b.Pos(); i < b.Limit() && shown < maxRows; i++ {
		b.GetRow(i, cursor)
		log.Printf("row %4d : %v", i, formatRow(cursor, s))
		shown++
	}

	if left := b.Limit() - b.Pos() - shown; left > 0 {
		color.Yellow(" ... %d more rows", left)
	}
}

// DumpBlockInfo spews the block config for debugging.
func DumpBlockInfo(b *rowblock.RowBlock) {
	spew.Dump(b.Info())
}

func formatRow(c *row.Cursor, s *schema.TabletSchema) []any {

	out := make([]any, 0, len(s.Columns))

	for col, column := range s.Columns {

		switch column.Type {
		case schema.Int8FieldType, schema.Int16FieldType, schema.Int32FieldType, schema.Int64FieldType:
			if v, ok := c.Int(col); ok {
				out = append(out, v)
			} else {
				out = append(out, nil)
			}
		case schema.Uint8FieldType, schema.Uint16FieldType, schema.Uint32FieldType, schema.Uint64FieldType:
			if v, ok := c.Uint(col); ok {
				out = append(out, v)
			} else {
				out = append(out, nil)
			}
		case schema.Float32FieldType, schema.Float64FieldType:
			if v, ok := c.Float(col); ok {
				out = append(out, v)
			} else {
				out = append(out, nil)
			}
		case schema.VarcharFieldType:
			if v, ok := c.Varchar(col); ok {
				out = append(out, string(v))
			} else {
				out = append(out, nil)
			}
		}
	}

	return out
}
