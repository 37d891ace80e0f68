package tensor

import (
	"unsafe"

	"github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"

	"github.com/ferry-ml/ferry/dlpack"
	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/internal/memory"
)

// HostArray is a fixed-width host-resident array: dtype, shape and a byte
// buffer. It is the host-side intermediate for conversions and migration,
// and participates in the exchange protocol itself.
type HostArray struct {
	dtype DataType
	shape Shape
	data  []byte
	// owner, when set, is what keeps data valid; data may alias memory
	// owned by a tensor rather than a plain Go allocation.
	owner any
}

// NewHostArray wraps a byte buffer as an array. The buffer must match the
// shape; Bytes is rejected, host arrays are fixed-width.
func NewHostArray(dtype DataType, shape Shape, data []byte) (*HostArray, error) {
	if dtype == Bytes {
		return nil, ferrors.InvalidArgumentf("host arrays hold fixed-width elements, not %s", dtype)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if need := shape.NumElements() * dtype.ByteSize(); int64(len(data)) < need {
		return nil, ferrors.InvalidArgumentf(
			"%d bytes too small for shape %v of %s (%d bytes required)",
			len(data), []int64(shape), dtype, need)
	}
	return &HostArray{dtype: dtype, shape: shape.Clone(), data: data, owner: data}, nil
}

// HostArrayFromTensor views a host-resident fixed-width tensor as an
// array without copying. The tensor is retained as owner.
func HostArrayFromTensor(t *Tensor) (*HostArray, error) {
	if t.DType() == Bytes {
		return nil, ferrors.InvalidArgumentf("tensor has variable-length elements; deserialize with ToByteSlices")
	}
	data, err := t.Buffer().HostBytes()
	if err != nil {
		return nil, err
	}
	return &HostArray{dtype: t.DType(), shape: t.Shape(), data: data, owner: t}, nil
}

// DType returns the array's data type.
func (a *HostArray) DType() DataType {
	return a.dtype
}

// Shape returns a copy of the array's shape.
func (a *HostArray) Shape() Shape {
	return a.shape.Clone()
}

// NumElements returns the total number of elements.
func (a *HostArray) NumElements() int64 {
	return a.shape.NumElements()
}

// Data returns the backing bytes without copying.
func (a *HostArray) Data() []byte {
	return a.data
}

// Tensor views the array as a tensor sharing the same bytes, with the
// array retained as owner.
func (a *HostArray) Tensor() (*Tensor, error) {
	var ptr unsafe.Pointer
	if len(a.data) > 0 {
		ptr = unsafe.Pointer(&a.data[0])
	}
	buffer := memory.NewBuffer(ptr, memory.CPU, 0, int64(len(a.data)), a)
	return New(a.dtype, a.shape, buffer)
}

// DLPack exports the array through the exchange protocol.
func (a *HostArray) DLPack() (*dlpack.Capsule, error) {
	t, err := a.Tensor()
	if err != nil {
		return nil, err
	}
	return t.DLPack()
}

// DLPackDevice reports the array's device, always plain host.
func (a *HostArray) DLPackDevice() (dlpack.Device, error) {
	return dlpack.Device{Type: dlpack.DeviceCPU}, nil
}

// Float32s widens the array's elements to float32. Supported dtypes are
// FP32, FP16 and BF16.
func (a *HostArray) Float32s() ([]float32, error) {
	n := a.NumElements()
	switch a.dtype {
	case FP32:
		out := make([]float32, n)
		if n > 0 {
			//nolint:gosec // unsafe.Slice for zero-copy reinterpretation of the backing bytes
			copy(out, unsafe.Slice((*float32)(unsafe.Pointer(&a.data[0])), n))
		}
		return out, nil
	case FP16:
		out := make([]float32, n)
		if n > 0 {
			//nolint:gosec // see above
			bits := unsafe.Slice((*uint16)(unsafe.Pointer(&a.data[0])), n)
			for i, b := range bits {
				out[i] = float16.Frombits(b).Float32()
			}
		}
		return out, nil
	case BF16:
		return bfloat16.DecodeFloat32(a.data[:n*2]), nil
	default:
		return nil, ferrors.Unsupportedf("cannot widen %s elements to float32", a.dtype)
	}
}
