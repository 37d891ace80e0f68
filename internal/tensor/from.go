package tensor

import (
	"unsafe"

	"github.com/x448/float16"

	"github.com/ferry-ml/ferry/dlpack"
	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/internal/memory"
)

// FromDLPack creates a tensor from any object supporting the exchange
// protocol. No data is copied; the object is retained as the buffer's
// owner.
func FromDLPack(obj any) (*Tensor, error) {
	view, err := dlpack.NewView(obj)
	if err != nil {
		return nil, err
	}
	defer view.Release()

	dtype, err := DataTypeFromDLPack(view.DType())
	if err != nil {
		return nil, err
	}
	buffer, err := memory.BufferFromView(obj, view)
	if err != nil {
		return nil, err
	}
	return New(dtype, Shape(view.Shape()), buffer)
}

// FromAny creates a tensor from a value, dispatching on its concrete
// type. Typed slices wrap their own backing array without copying
// (strings and byte strings are serialized into a Bytes tensor first);
// plain scalars become zero-dimensional tensors; anything else falls
// back to the exchange protocol when supported.
func FromAny(obj any) (*Tensor, error) {
	switch v := obj.(type) {
	case []bool:
		return wrapHostSlice(v, Bool)
	case []uint8:
		return wrapHostSlice(v, UInt8)
	case []uint16:
		return wrapHostSlice(v, UInt16)
	case []uint32:
		return wrapHostSlice(v, UInt32)
	case []uint64:
		return wrapHostSlice(v, UInt64)
	case []int8:
		return wrapHostSlice(v, Int8)
	case []int16:
		return wrapHostSlice(v, Int16)
	case []int32:
		return wrapHostSlice(v, Int32)
	case []int64:
		return wrapHostSlice(v, Int64)
	case []int:
		// Platform default integers widen to a stable 64-bit dtype.
		widened := make([]int64, len(v))
		for i, x := range v {
			widened[i] = int64(x)
		}
		return wrapHostSlice(widened, Int64)
	case []float32:
		return wrapHostSlice(v, FP32)
	case []float64:
		return wrapHostSlice(v, FP64)
	case []float16.Float16:
		return wrapHostSlice(v, FP16)
	case []string:
		return bytesTensor(EncodeStrings(v), int64(len(v)))
	case [][]byte:
		return bytesTensor(EncodeByteStrings(v), int64(len(v)))
	case []any:
		return bytesTensor(EncodeValues(v), int64(len(v)))
	case bool:
		return scalarTensor([]bool{v}, Bool)
	case int:
		return scalarTensor([]int64{int64(v)}, Int64)
	case int32:
		return scalarTensor([]int32{v}, Int32)
	case int64:
		return scalarTensor([]int64{v}, Int64)
	case float32:
		return scalarTensor([]float32{v}, FP32)
	case float64:
		return scalarTensor([]float64{v}, FP64)
	case float16.Float16:
		return scalarTensor([]float16.Float16{v}, FP16)
	case string:
		return New(Bytes, Shape{}, memory.BufferFromBytes(EncodeStrings([]string{v})))
	case *HostArray:
		return v.Tensor()
	case dlpack.Exchanger:
		return FromDLPack(v)
	default:
		return nil, ferrors.InvalidArgumentf(
			"input type %T not supported: must be a typed slice or scalar, a *HostArray, or support the dlpack protocol", obj)
	}
}

// DType is the constraint for fixed-width element types usable with
// FromSlice.
type DType interface {
	bool | int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// FromSlice creates a tensor over a Go slice with the given shape. The
// slice's backing array is wrapped without copying and retained as owner.
func FromSlice[T DType](data []T, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != int64(len(data)) {
		return nil, ferrors.InvalidArgumentf(
			"shape %v requires %d elements, got %d", []int64(shape), shape.NumElements(), len(data))
	}
	var dummy T
	return wrapSliceWithShape(data, inferDataType(dummy), shape)
}

// inferDataType maps a generic element type to its DataType.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return UInt8
	case uint16:
		return UInt16
	case uint32:
		return UInt32
	case uint64:
		return UInt64
	case float32:
		return FP32
	case float64:
		return FP64
	default:
		panic("unsupported type")
	}
}

// scalarTensor wraps a single element as a zero-dimensional tensor.
func scalarTensor[T any](data []T, dtype DataType) (*Tensor, error) {
	return wrapSliceWithShape(data, dtype, Shape{})
}

// wrapHostSlice builds a 1-D tensor over a slice's own memory.
func wrapHostSlice[T any](data []T, dtype DataType) (*Tensor, error) {
	return wrapSliceWithShape(data, dtype, Shape{int64(len(data))})
}

func wrapSliceWithShape[T any](data []T, dtype DataType, shape Shape) (*Tensor, error) {
	var zero T
	elem := int64(unsafe.Sizeof(zero))
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	buffer := memory.NewBuffer(ptr, memory.CPU, 0, int64(len(data))*elem, data)
	return New(dtype, shape, buffer)
}

// bytesTensor wraps a serialized variable-length payload.
func bytesTensor(payload []byte, elements int64) (*Tensor, error) {
	return New(Bytes, Shape{elements}, memory.BufferFromBytes(payload))
}
