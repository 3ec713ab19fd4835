package schema

type FieldType uint8

const (
	Int8FieldType FieldType = iota
	Int16FieldType
	Int32FieldType
	Int64FieldType

	Float64FieldType
	Float32FieldType

	Uint64FieldType
	Uint8FieldType
	Uint32FieldType
	Uint16FieldType

	VarcharFieldType
)

// Varchar content lives in the block's payload arena, the row slot only
// holds a fixed descriptor: arena ref (u32) + content length (u32).
const VarcharDescriptorSize = 8

func (f FieldType) String() string {
	switch f {
	case Int8FieldType:
		return "Int8"
	case Int16FieldType:
		return "Int16"
	case Int32FieldType:
		return "Int32"
	case Int64FieldType:
		return "Int64"
	case Float64FieldType:
		return "Float64"
	case Float32FieldType:
		return "Float32"
	case Uint64FieldType:
		return "Uint64"
	case Uint8FieldType:
		return "Uint8"
	case Uint32FieldType:
		return "Uint32"
	case Uint16FieldType:
		return "Uint16"
	case VarcharFieldType:
		return "Varchar"
	default:
		return ""
	}
}

// Size returns the fixed number of value bytes one field of this type
// occupies inside a row. Returns 0 for unknown types so layout
// computation can reject them instead of panicking mid-init.
func (f FieldType) Size() int {
	switch f {

	case Int8FieldType, Uint8FieldType:
		return 1
	case Int16FieldType, Uint16FieldType:
		return 2
	case Int32FieldType, Float32FieldType, Uint32FieldType:
		return 4
	case Int64FieldType, Float64FieldType, Uint64FieldType:
		return 8

	case VarcharFieldType:
		return VarcharDescriptorSize

	default:
		return 0
	}
}

func (f FieldType) Numeric() bool {
	switch f {
	case VarcharFieldType:
		return false
	default:
		return f.Size() > 0
	}
}
