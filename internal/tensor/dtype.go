// Package tensor provides the core tensor value type and the exchange,
// serialization and migration operations of the ferry library.
package tensor

import (
	"github.com/ferry-ml/ferry/dlpack"
	ferrors "github.com/ferry-ml/ferry/errors"
)

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types. Bytes is the variable-length element type: each
// element is an opaque byte string and the tensor's byte size is the size
// of the serialized payload, not a function of shape alone.
const (
	Bool DataType = iota
	UInt8
	UInt16
	UInt32
	UInt64
	Int8
	Int16
	Int32
	Int64
	FP16
	FP32
	FP64
	BF16
	Bytes
)

// ByteSize returns the byte size of one element, or 0 for the
// variable-length Bytes type.
func (dt DataType) ByteSize() int64 {
	switch dt {
	case Bool, UInt8, Int8:
		return 1
	case UInt16, Int16, FP16, BF16:
		return 2
	case UInt32, Int32, FP32:
		return 4
	case UInt64, Int64, FP64:
		return 8
	default:
		return 0
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Bool:
		return "bool"
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case FP16:
		return "fp16"
	case FP32:
		return "fp32"
	case FP64:
		return "fp64"
	case BF16:
		return "bf16"
	case Bytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// dtypeToDLPack is the static table from internal dtypes to protocol
// dtype descriptors. Bytes has no protocol representation.
var dtypeToDLPack = map[DataType]dlpack.DataType{
	Bool:   {Code: dlpack.CodeBool, Bits: 8, Lanes: 1},
	UInt8:  {Code: dlpack.CodeUInt, Bits: 8, Lanes: 1},
	UInt16: {Code: dlpack.CodeUInt, Bits: 16, Lanes: 1},
	UInt32: {Code: dlpack.CodeUInt, Bits: 32, Lanes: 1},
	UInt64: {Code: dlpack.CodeUInt, Bits: 64, Lanes: 1},
	Int8:   {Code: dlpack.CodeInt, Bits: 8, Lanes: 1},
	Int16:  {Code: dlpack.CodeInt, Bits: 16, Lanes: 1},
	Int32:  {Code: dlpack.CodeInt, Bits: 32, Lanes: 1},
	Int64:  {Code: dlpack.CodeInt, Bits: 64, Lanes: 1},
	FP16:   {Code: dlpack.CodeFloat, Bits: 16, Lanes: 1},
	FP32:   {Code: dlpack.CodeFloat, Bits: 32, Lanes: 1},
	FP64:   {Code: dlpack.CodeFloat, Bits: 64, Lanes: 1},
	BF16:   {Code: dlpack.CodeBfloat, Bits: 16, Lanes: 1},
}

// DLPack translates the data type into the protocol's dtype descriptor.
func (dt DataType) DLPack() (dlpack.DataType, error) {
	d, ok := dtypeToDLPack[dt]
	if !ok {
		return dlpack.DataType{}, ferrors.InvalidArgumentf("data type %s has no dlpack representation", dt)
	}
	return d, nil
}

// DataTypeFromDLPack translates a protocol dtype descriptor back into an
// internal data type. Vector lane counts other than 1 are rejected.
func DataTypeFromDLPack(d dlpack.DataType) (DataType, error) {
	if d.Lanes != 1 {
		return Bool, ferrors.InvalidArgumentf("vector dtype %s not supported", d)
	}
	for dt, candidate := range dtypeToDLPack {
		if candidate == d {
			return dt, nil
		}
	}
	return Bool, ferrors.InvalidArgumentf("dlpack dtype %s not supported", d)
}
