package dlpack

import "fmt"

// TypeCode is the protocol's dtype category, following DLDataTypeCode.
type TypeCode uint8

// Type codes understood by the exchange protocol.
const (
	CodeInt          TypeCode = 0
	CodeUInt         TypeCode = 1
	CodeFloat        TypeCode = 2
	CodeOpaqueHandle TypeCode = 3
	CodeBfloat       TypeCode = 4
	CodeComplex      TypeCode = 5
	CodeBool         TypeCode = 6
)

// String returns a human-readable type code name.
func (c TypeCode) String() string {
	switch c {
	case CodeInt:
		return "int"
	case CodeUInt:
		return "uint"
	case CodeFloat:
		return "float"
	case CodeOpaqueHandle:
		return "opaque"
	case CodeBfloat:
		return "bfloat"
	case CodeComplex:
		return "complex"
	case CodeBool:
		return "bool"
	default:
		return fmt.Sprintf("type_code(%d)", uint8(c))
	}
}

// DataType is the protocol's dtype descriptor: category, bit width and
// vector lane count (1 for scalar element types).
type DataType struct {
	Code  TypeCode
	Bits  uint8
	Lanes uint16
}

// ByteSize returns the size of one element in bytes.
func (t DataType) ByteSize() int64 {
	return int64(t.Bits) / 8 * int64(t.Lanes)
}

// String returns a name like "float32" or "uint8x4".
func (t DataType) String() string {
	s := fmt.Sprintf("%s%d", t.Code, t.Bits)
	if t.Lanes != 1 {
		s = fmt.Sprintf("%sx%d", s, t.Lanes)
	}
	return s
}
