package memory

import (
	"unsafe"

	"github.com/ferry-ml/ferry/dlpack"
	ferrors "github.com/ferry-ml/ferry/errors"
)

// MemoryBuffer is a non-owning descriptor of a memory region: address,
// memory type, type-local id, byte size, and a reference to the owner
// whose lifetime keeps the address valid.
//
// The descriptor never deallocates; it is an observation, not ownership.
// Holding a MemoryBuffer holds its owner, which is what prevents the
// backing memory from being collected.
//
// The address is held as unsafe.Pointer, never uintptr: a uintptr field
// is invisible to the collector and to alias analysis, which breaks the
// owner-keeps-pointer-valid contract for Go-owned memory. It becomes an
// integer only at the DataPtr boundary.
type MemoryBuffer struct {
	data         unsafe.Pointer
	memoryType   MemoryType
	memoryTypeID int
	size         int64
	owner        any
}

// NewBuffer constructs a descriptor over an existing region. The caller
// asserts that owner keeps ptr valid for size bytes.
func NewBuffer(ptr unsafe.Pointer, memoryType MemoryType, memoryTypeID int, size int64, owner any) *MemoryBuffer {
	return &MemoryBuffer{
		data:         ptr,
		memoryType:   memoryType,
		memoryTypeID: memoryTypeID,
		size:         size,
		owner:        owner,
	}
}

// BufferFromDLPack captures an external exchange object's memory as a
// descriptor, retaining the object as owner. Non-contiguous layouts are
// rejected.
func BufferFromDLPack(obj any) (*MemoryBuffer, error) {
	view, err := dlpack.NewView(obj)
	if err != nil {
		return nil, err
	}
	defer view.Release()
	return BufferFromView(obj, view)
}

// BufferFromView builds a descriptor from an already-constructed view,
// retaining obj as owner. Used by importers that need the view for shape
// and dtype translation as well.
func BufferFromView(obj any, view *dlpack.View) (*MemoryBuffer, error) {
	if !view.Contiguous() {
		return nil, ferrors.InvalidArgumentf("only contiguous memory is supported")
	}
	memoryType, err := MemoryTypeOf(view.Device().Type)
	if err != nil {
		return nil, err
	}
	// The view reports a raw integer address. Converting it back to a
	// pointer is the one place this is legitimate: the address belongs
	// to the foreign exporter and obj, retained as owner, is what keeps
	// the region alive.
	//nolint:govet // ingesting a foreign exchange-protocol address
	ptr := unsafe.Pointer(view.DataPtr())
	return &MemoryBuffer{
		data:         ptr,
		memoryType:   memoryType,
		memoryTypeID: int(view.Device().ID),
		size:         view.ByteSize(),
		owner:        obj,
	}, nil
}

// BufferFromBytes wraps a host byte slice, retaining the slice as owner.
func BufferFromBytes(data []byte) *MemoryBuffer {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	return &MemoryBuffer{
		data:       ptr,
		memoryType: CPU,
		size:       int64(len(data)),
		owner:      data,
	}
}

// DataPtr returns the address of the region as an integer, the form the
// exchange protocol and device runtimes traffic in.
func (b *MemoryBuffer) DataPtr() uintptr {
	return uintptr(b.data)
}

// MemoryType returns where the region lives.
func (b *MemoryBuffer) MemoryType() MemoryType {
	return b.memoryType
}

// MemoryTypeID returns the type-local id, typically the device index.
func (b *MemoryBuffer) MemoryTypeID() int {
	return b.memoryTypeID
}

// Size returns the region size in bytes.
func (b *MemoryBuffer) Size() int64 {
	return b.size
}

// Owner returns the object whose lifetime keeps the region valid.
func (b *MemoryBuffer) Owner() any {
	return b.owner
}

// HostBytes exposes a host-resident region as a byte slice without
// copying. It fails for device memory, whose address is not
// host-addressable.
func (b *MemoryBuffer) HostBytes() ([]byte, error) {
	if !b.memoryType.IsHost() {
		return nil, ferrors.Unsupportedf("cannot address %s memory from the host", b.memoryType)
	}
	if b.size == 0 {
		return nil, nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access; owner keeps the region alive
	return unsafe.Slice((*byte)(b.data), b.size), nil
}
