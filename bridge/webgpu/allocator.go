// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package webgpu

import (
	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/memory"

	"github.com/go-webgpu/webgpu/wgpu"
)

// Allocator is a memory.Allocator that satisfies GPU requests with
// WebGPU storage buffers. Host requests are substituted with Go-heap
// allocations, which the returned descriptor reports.
type Allocator struct {
	bridge *Bridge
	host   *memory.HostAllocator
}

// NewAllocator returns an allocator over the bridge's device.
func NewAllocator(bridge *Bridge) *Allocator {
	return &Allocator{bridge: bridge, host: memory.NewHostAllocator()}
}

// Allocate returns a zeroed buffer of at least size bytes.
func (a *Allocator) Allocate(size int64, memoryType memory.MemoryType, memoryTypeID int, tensorName string) (*memory.MemoryBuffer, error) {
	if size < 0 {
		return nil, ferrors.InvalidArgumentf("negative allocation size %d for tensor %q", size, tensorName)
	}
	if memoryType != memory.GPU {
		return a.host.Allocate(size, memoryType, memoryTypeID, tensorName)
	}

	// WebGPU buffers are zero-initialized at creation.
	buffer := a.bridge.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  uint64(size),
	})
	dev := &DeviceBuffer{buffer: buffer, size: uint64(size), deviceID: memoryTypeID}
	return memory.NewBuffer(dev.handle(), memory.GPU, memoryTypeID, dev.Size(), dev), nil
}
