package dlpack

import "sync/atomic"

// Tensor is the wire-level tensor record exchanged between runtimes.
//
// Data is the raw address of the first element. For host memory it is a
// real pointer; device runtimes may store an opaque device handle there.
// Strides are in elements, not bytes; a nil Strides means the canonical
// compact row-major layout for Shape.
type Tensor struct {
	Data       uintptr
	Device     Device
	DType      DataType
	Shape      []int64
	Strides    []int64
	ByteOffset uint64
}

// NumElements returns the product of the shape dimensions.
func (t *Tensor) NumElements() int64 {
	n := int64(1)
	for _, dim := range t.Shape {
		n *= dim
	}
	return n
}

// Deleter releases the resources behind a ManagedTensor. It receives the
// record it was attached to.
type Deleter func(*ManagedTensor)

// ManagedTensor pairs a Tensor with the context that keeps its memory
// alive and the deleter that releases it.
//
// The exporter guarantees the backing memory outlives the record until
// Delete runs. Delete must be invoked exactly once by whoever ends up
// owning the record; extra calls are no-ops.
type ManagedTensor struct {
	Tensor Tensor

	// ManagerCtx is the exporter's owner object. Holding the record holds
	// the owner, which is what keeps the data address valid.
	ManagerCtx any

	deleter Deleter
	deleted atomic.Bool
}

// NewManagedTensor builds a managed record with the given deleter.
func NewManagedTensor(t Tensor, managerCtx any, deleter Deleter) *ManagedTensor {
	return &ManagedTensor{Tensor: t, ManagerCtx: managerCtx, deleter: deleter}
}

// Delete runs the deleter exactly once. Subsequent calls return false and
// do nothing.
func (m *ManagedTensor) Delete() bool {
	if !m.deleted.CompareAndSwap(false, true) {
		return false
	}
	if m.deleter != nil {
		m.deleter(m)
	}
	return true
}

// Deleted reports whether the record has already been finalized.
func (m *ManagedTensor) Deleted() bool {
	return m.deleted.Load()
}
