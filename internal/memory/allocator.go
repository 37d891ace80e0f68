package memory

import (
	ferrors "github.com/ferry-ml/ferry/errors"
)

// Allocator is the pluggable allocation strategy. Implementations are free
// to substitute the requested memory type or id (falling back to host
// memory, for example); callers must read the returned descriptor's own
// fields rather than assume the request was honored.
//
// The returned descriptor's Size must be at least the requested size, and
// failures must surface as errors, never as a nil buffer with a nil error.
type Allocator interface {
	Allocate(size int64, memoryType MemoryType, memoryTypeID int, tensorName string) (*MemoryBuffer, error)
}

// BufferFromAllocator requests a buffer through an allocator. The
// allocator may have substituted the memory type or id; read the
// returned descriptor's own fields.
func BufferFromAllocator(a Allocator, size int64, memoryType MemoryType, memoryTypeID int, tensorName string) (*MemoryBuffer, error) {
	buffer, err := a.Allocate(size, memoryType, memoryTypeID, tensorName)
	if err != nil {
		return nil, err
	}
	if buffer == nil {
		return nil, ferrors.InvalidArgumentf("allocator returned no buffer for tensor %q", tensorName)
	}
	return buffer, nil
}

// HostAllocator allocates from the Go heap. Requests for pinned or device
// memory are satisfied with plain host memory; the descriptor reports what
// was actually allocated.
type HostAllocator struct{}

// NewHostAllocator returns a host-heap allocator.
func NewHostAllocator() *HostAllocator {
	return &HostAllocator{}
}

// Allocate returns a zeroed host buffer of at least size bytes.
func (a *HostAllocator) Allocate(size int64, memoryType MemoryType, memoryTypeID int, tensorName string) (*MemoryBuffer, error) {
	if size < 0 {
		return nil, ferrors.InvalidArgumentf("negative allocation size %d for tensor %q", size, tensorName)
	}
	data := make([]byte, size)
	return BufferFromBytes(data), nil
}
