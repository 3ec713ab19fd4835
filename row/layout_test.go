package row

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dot5enko/simple-olap-db/schema"
)

func testSchema() *schema.TabletSchema {
	return &schema.TabletSchema{
		Name: "layout_test",
		Columns: []schema.TabletColumn{
			{Name: "k", Type: schema.Int32FieldType, IsKey: true},
			{Name: "a", Type: schema.Uint8FieldType, Nullable: true},
			{Name: "b", Type: schema.Float64FieldType, Nullable: true},
			{Name: "v", Type: schema.VarcharFieldType, Nullable: true},
		},
	}
}

func TestComputeLayoutWithoutNulls(t *testing.T) {

	layout, err := Compute(testSchema(), false)
	require.NoError(t, err)

	require.Equal(t, []int{0, 4, 5, 13}, layout.Offsets)
	require.Equal(t, 4+1+8+schema.VarcharDescriptorSize, layout.Stride)
}

func TestComputeLayoutWithNulls(t *testing.T) {

	layout, err := Compute(testSchema(), true)
	require.NoError(t, err)

	// one null byte in front of every field
	require.Equal(t, []int{0, 5, 7, 16}, layout.Offsets)
	require.Equal(t, 4+1+8+schema.VarcharDescriptorSize+4, layout.Stride)
}

func TestComputeLayoutOffsetsStrictlyIncrease(t *testing.T) {

	for _, nulls := range []bool{false, true} {

		layout, err := Compute(testSchema(), nulls)
		require.NoError(t, err)

		require.Equal(t, 0, layout.Offsets[0])

		sum := 0
		for col, column := range testSchema().Columns {
			if col > 0 {
				require.Greater(t, layout.Offsets[col], layout.Offsets[col-1])
			}
			if nulls {
				sum++
			}
			sum += column.Type.Size()
		}

		require.Equal(t, sum, layout.Stride)
		require.Equal(t, layout.Stride, layout.FieldEnd(len(testSchema().Columns)-1))
	}
}

func TestComputeLayoutRejectsEmptySchema(t *testing.T) {
	_, err := Compute(&schema.TabletSchema{}, true)
	require.ErrorIs(t, err, ErrEmptySchema)
}

func TestComputeLayoutRejectsUnknownType(t *testing.T) {

	bad := &schema.TabletSchema{
		Columns: []schema.TabletColumn{
			{Name: "x", Type: schema.FieldType(200)},
		},
	}

	_, err := Compute(bad, false)
	require.ErrorIs(t, err, ErrBadFieldWidth)
}

func TestValueOffsetSkipsNullByte(t *testing.T) {

	layout, err := Compute(testSchema(), true)
	require.NoError(t, err)

	for col := range testSchema().Columns {
		require.Equal(t, layout.FieldOffset(col)+1, layout.ValueOffset(col))
	}
}
