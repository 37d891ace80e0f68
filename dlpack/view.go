package dlpack

import (
	ferrors "github.com/ferry-ml/ferry/errors"
)

// View is a read-only normalized inspection of an arbitrary exchange
// object. Constructing a view consumes the object's capsule; the view then
// owns the managed record and must be released exactly once, typically
// right after the caller has copied the fields it needs and taken its own
// reference to the producing object.
type View struct {
	record *ManagedTensor
}

// NewView inspects obj through the exchange protocol. It fails with an
// invalid_argument error if obj is not an Exchanger or its export fails.
// No data is copied.
func NewView(obj any) (*View, error) {
	ex, ok := obj.(Exchanger)
	if !ok {
		return nil, ferrors.InvalidArgumentf("object of type %T does not support the dlpack protocol", obj)
	}
	capsule, err := ex.DLPack()
	if err != nil {
		return nil, err
	}
	record, err := capsule.Consume()
	if err != nil {
		return nil, err
	}
	return &View{record: record}, nil
}

// DataPtr returns the address of the first element, byte offset applied.
func (v *View) DataPtr() uintptr {
	return v.record.Tensor.Data + uintptr(v.record.Tensor.ByteOffset)
}

// Device returns the protocol device descriptor.
func (v *View) Device() Device {
	return v.record.Tensor.Device
}

// DType returns the protocol dtype descriptor.
func (v *View) DType() DataType {
	return v.record.Tensor.DType
}

// Shape returns a copy of the shape.
func (v *View) Shape() []int64 {
	return append([]int64(nil), v.record.Tensor.Shape...)
}

// NumElements returns the product of the shape dimensions.
func (v *View) NumElements() int64 {
	return v.record.Tensor.NumElements()
}

// ByteSize returns the total data size in bytes.
func (v *View) ByteSize() int64 {
	return v.NumElements() * v.record.Tensor.DType.ByteSize()
}

// Contiguous reports whether the exported layout is the canonical compact
// row-major layout for the shape. Nil strides mean contiguous by
// definition of the protocol.
func (v *View) Contiguous() bool {
	strides := v.record.Tensor.Strides
	if strides == nil {
		return true
	}
	shape := v.record.Tensor.Shape
	if len(strides) != len(shape) {
		return false
	}
	expected := int64(1)
	for i := len(shape) - 1; i >= 0; i-- {
		// Dimensions of size 1 place no constraint on their stride.
		if shape[i] != 1 && strides[i] != expected {
			return false
		}
		expected *= shape[i]
	}
	return true
}

// Release finalizes the record behind the view. Exactly one Release is
// expected; extra calls are no-ops.
func (v *View) Release() {
	v.record.Delete()
}
