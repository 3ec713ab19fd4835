package schema

import (
	"errors"
	"fmt"
)

var (
	ErrNoColumns       = errors.New("schema has no columns")
	ErrBadColumnWidth  = errors.New("column value width must be positive")
	ErrKeyAfterValue   = errors.New("key columns must form a leading prefix")
	ErrKeyColumnIsNull = errors.New("key columns cannot be nullable")
)

type TabletSchema struct {
	Name    string `json:"name"`
	Columns []TabletColumn
}

func (s *TabletSchema) Validate() error {

	if len(s.Columns) == 0 {
		return ErrNoColumns
	}

	valueSeen := false

	for i, col := range s.Columns {
		if col.Type.Size() <= 0 {
			return fmt.Errorf("column %d (%s): %w", i, col.Name, ErrBadColumnWidth)
		}

		if col.IsKey {
			if valueSeen {
				return fmt.Errorf("column %d (%s): %w", i, col.Name, ErrKeyAfterValue)
			}
			if col.Nullable {
				return fmt.Errorf("column %d (%s): %w", i, col.Name, ErrKeyColumnIsNull)
			}
		} else {
			valueSeen = true
		}
	}

	return nil
}

// KeyColumns returns the number of leading key columns.
func (s *TabletSchema) KeyColumns() int {
	n := 0
	for _, col := range s.Columns {
		if !col.IsKey {
			break
		}
		n++
	}
	return n
}

// KeySchema returns a schema holding only the leading key columns,
// used to build partial-key cursors for ordered lookup. Layout offsets
// of the prefix are identical to the full schema's, so a key cursor row
// is byte compatible with the head of a full row.
func (s *TabletSchema) KeySchema() TabletSchema {
	n := s.KeyColumns()
	return TabletSchema{
		Name:    s.Name,
		Columns: s.Columns[:n],
	}
}
