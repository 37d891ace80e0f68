// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package memory provides the public API for ferry memory descriptors and
// allocation strategies.
//
// A MemoryBuffer is a non-owning observation of a memory region: address,
// memory type, type-local id, byte size, and a reference to the owner
// whose lifetime keeps the region valid. It never deallocates. Allocator
// is the pluggable strategy that produces buffers; implementations may
// route allocation through any backing runtime and are free to substitute
// the requested memory type, so callers read the returned descriptor's
// own fields rather than assume the request was honored.
//
// Example:
//
//	allocator := memory.NewHostAllocator()
//	buffer, _ := allocator.Allocate(100, memory.CPU, 0, "output")
//	// buffer.Size() >= 100, buffer.MemoryType() == memory.CPU
package memory

import (
	"unsafe"

	memory "github.com/ferry-ml/ferry/internal/memory"

	"github.com/ferry-ml/ferry/dlpack"
)

// MemoryType classifies where a buffer lives.
type MemoryType = memory.MemoryType

// Memory type constants.
const (
	CPU       MemoryType = memory.CPU
	CPUPinned MemoryType = memory.CPUPinned
	GPU       MemoryType = memory.GPU
)

// Device is a canonical parsed memory specifier.
type Device = memory.Device

// MemoryBuffer is a non-owning descriptor of a memory region.
type MemoryBuffer = memory.MemoryBuffer

// Allocator is the pluggable allocation strategy.
//
// Example:
//
//	type PoolAllocator struct{ pool *Pool }
//
//	func (a *PoolAllocator) Allocate(size int64, memoryType memory.MemoryType,
//		memoryTypeID int, tensorName string) (*memory.MemoryBuffer, error) {
//		return a.pool.Take(size)
//	}
type Allocator = memory.Allocator

// HostAllocator allocates from the Go heap.
type HostAllocator = memory.HostAllocator

// NewHostAllocator returns a host-heap allocator.
func NewHostAllocator() *HostAllocator {
	return memory.NewHostAllocator()
}

// NewBuffer constructs a descriptor over an existing region. The caller
// asserts that owner keeps ptr valid for size bytes.
func NewBuffer(ptr unsafe.Pointer, memoryType MemoryType, memoryTypeID int, size int64, owner any) *MemoryBuffer {
	return memory.NewBuffer(ptr, memoryType, memoryTypeID, size, owner)
}

// BufferFromDLPack captures an exchange object's memory as a descriptor,
// retaining the object as owner. Non-contiguous layouts are rejected.
//
// Example:
//
//	buffer, _ := memory.BufferFromDLPack(otherRuntimeTensor)
func BufferFromDLPack(obj any) (*MemoryBuffer, error) {
	return memory.BufferFromDLPack(obj)
}

// BufferFromBytes wraps a host byte slice, retaining the slice as owner.
func BufferFromBytes(data []byte) *MemoryBuffer {
	return memory.BufferFromBytes(data)
}

// BufferFromAllocator requests a buffer through an allocator, rejecting
// a nil buffer with a nil error.
func BufferFromAllocator(a Allocator, size int64, memoryType MemoryType, memoryTypeID int, tensorName string) (*MemoryBuffer, error) {
	return memory.BufferFromAllocator(a, size, memoryType, memoryTypeID, tensorName)
}

// ParseDevice canonicalizes a device specifier given as a string
// ("cpu", "gpu:1", "cpu_pinned"), a MemoryType, a Device, or a
// dlpack.Device.
func ParseDevice(spec any) (Device, error) {
	return memory.ParseDevice(spec)
}

// DeviceTypeOf translates a memory type into the protocol's device type.
func DeviceTypeOf(m MemoryType) dlpack.DeviceType {
	return memory.DeviceTypeOf(m)
}

// MemoryTypeOf translates a protocol device type into a memory type.
func MemoryTypeOf(d dlpack.DeviceType) (MemoryType, error) {
	return memory.MemoryTypeOf(d)
}
