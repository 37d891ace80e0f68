package tensor

import (
	"go.uber.org/zap"

	"github.com/ferry-ml/ferry/dlpack"
	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/internal/memory"
)

// Tensor is a data type, a shape and a memory buffer. The buffer is a
// non-owning descriptor; the tensor owns only the object-level owner
// reference that keeps the underlying memory valid.
type Tensor struct {
	dtype  DataType
	shape  Shape
	buffer *memory.MemoryBuffer
}

// New constructs a tensor over an existing buffer. For fixed-width dtypes
// the buffer must be large enough for the shape; for Bytes the buffer
// holds a serialized payload whose size is independent of the shape.
func New(dtype DataType, shape Shape, buffer *memory.MemoryBuffer) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if buffer == nil {
		return nil, ferrors.InvalidArgumentf("nil memory buffer")
	}
	if dtype != Bytes {
		if need := shape.NumElements() * dtype.ByteSize(); buffer.Size() < need {
			return nil, ferrors.InvalidArgumentf(
				"buffer of %d bytes too small for shape %v of %s (%d bytes required)",
				buffer.Size(), []int64(shape), dtype, need)
		}
	}
	return &Tensor{dtype: dtype, shape: shape.Clone(), buffer: buffer}, nil
}

// DType returns the tensor's data type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int64 {
	return t.shape.NumElements()
}

// DataPtr returns the address of the tensor's data.
func (t *Tensor) DataPtr() uintptr {
	return t.buffer.DataPtr()
}

// MemoryType returns where the tensor's data lives.
func (t *Tensor) MemoryType() memory.MemoryType {
	return t.buffer.MemoryType()
}

// MemoryTypeID returns the type-local id, typically the device index.
func (t *Tensor) MemoryTypeID() int {
	return t.buffer.MemoryTypeID()
}

// Size returns the size of the tensor's data in bytes.
func (t *Tensor) Size() int64 {
	return t.buffer.Size()
}

// Buffer returns the underlying memory descriptor.
func (t *Tensor) Buffer() *memory.MemoryBuffer {
	return t.buffer
}

// exportRecord is what an export pins: the tensor and the heap-allocated
// shape slice placed in the managed record. Both must survive until the
// consumer finalizes.
type exportRecord struct {
	tensor *Tensor
	shape  []int64
}

// DLPack exports the tensor as a protocol capsule. The tensor and its
// shape array are pinned until the consumer invokes the record's deleter
// exactly once, either directly after import or through Capsule.Destroy
// if the capsule is never consumed.
func (t *Tensor) DLPack() (*dlpack.Capsule, error) {
	dtype, err := t.dtype.DLPack()
	if err != nil {
		return nil, err
	}
	device, err := t.DLPackDevice()
	if err != nil {
		return nil, err
	}

	// The shape array must outlive this frame; the record references it
	// and the consumer may read it at any point before finalization.
	shape := append([]int64(nil), t.shape...)
	handle := dlpack.Pins().Pin(exportRecord{tensor: t, shape: shape})

	record := dlpack.NewManagedTensor(dlpack.Tensor{
		Data:       t.DataPtr(),
		Device:     device,
		DType:      dtype,
		Shape:      shape,
		Strides:    nil, // contiguous
		ByteOffset: 0,
	}, t, func(*dlpack.ManagedTensor) {
		if !dlpack.Pins().Unpin(handle) {
			// Delete is one-shot guarded, so a failed unpin means the
			// table lost an entry it should still hold.
			logger().Error("export pin already released",
				zap.Uint64("handle", uint64(handle)))
		}
	})
	return dlpack.NewCapsule(record), nil
}

// DLPackDevice returns the protocol device descriptor for the tensor.
// It is pure and usable independently of a full export, so importers can
// check device compatibility first.
func (t *Tensor) DLPackDevice() (dlpack.Device, error) {
	return dlpack.Device{
		Type: memory.DeviceTypeOf(t.MemoryType()),
		ID:   int32(t.MemoryTypeID()),
	}, nil
}
