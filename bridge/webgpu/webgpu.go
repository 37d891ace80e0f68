// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU device bridge for tensor migration
// and a GPU-backed allocator.
//
// The bridge satisfies tensor.DeviceBridge: it copies host tensors into
// GPU storage buffers and reads device tensors back through a staging
// buffer. Install it once at initialization:
//
//	if webgpu.IsAvailable() {
//	    bridge, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer bridge.Release()
//	    tensor.Configure(tensor.WithBridge(bridge))
//	}
//
// WebGPU exposes no raw device pointers, so GPU tensors carry an opaque
// handle as their address and only buffers owned by this bridge can be
// migrated back to the host.
//
// The package compiles on every platform; creating a bridge needs the
// wgpu-native library at runtime. New turns a missing library into an
// error and IsAvailable reports false, so platforms without it stay
// host-only rather than failing the build.
package webgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/memory"
	"github.com/ferry-ml/ferry/tensor"
)

// DeviceBuffer wraps a GPU buffer and is the owner object of every
// GPU-resident tensor produced by this bridge.
type DeviceBuffer struct {
	buffer   *wgpu.Buffer
	size     uint64
	deviceID int
}

// Size returns the buffer size in bytes.
func (d *DeviceBuffer) Size() int64 {
	return int64(d.size)
}

// Release frees the GPU buffer. After Release, tensors over this buffer
// must no longer be used.
func (d *DeviceBuffer) Release() {
	if d.buffer != nil {
		d.buffer.Release()
		d.buffer = nil
	}
}

// handle returns the opaque device address placed in tensor descriptors.
func (d *DeviceBuffer) handle() unsafe.Pointer {
	return unsafe.Pointer(d)
}

// Bridge implements tensor.DeviceBridge on top of WebGPU.
type Bridge struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// New initializes the WebGPU instance, adapter, device and queue.
// Returns an error if WebGPU is not available.
func New() (bridge *Bridge, err error) {
	// Recover from panic if the wgpu native library is not found.
	defer func() {
		if r := recover(); r != nil {
			bridge = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, _ := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Bridge{instance: instance, adapter: adapter, device: device, queue: queue}, nil
}

// IsAvailable checks whether a WebGPU adapter can be initialized, for
// graceful fallback to host-only operation.
func IsAvailable() bool {
	b, err := New()
	if err != nil {
		return false
	}
	b.Release()
	return true
}

// Release frees the GPU resources held by the bridge.
func (b *Bridge) Release() {
	if b.queue != nil {
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// Download produces a plain-host copy of t.
func (b *Bridge) Download(t *tensor.Tensor) (*tensor.Tensor, error) {
	data, err := b.tensorBytes(t)
	if err != nil {
		return nil, err
	}
	return tensor.New(t.DType(), t.Shape(), memory.BufferFromBytes(data))
}

// Upload produces a GPU-resident copy of t on the given device id.
// Device-resident sources go through the host.
func (b *Bridge) Upload(t *tensor.Tensor, deviceID int) (*tensor.Tensor, error) {
	data, err := b.tensorBytes(t)
	if err != nil {
		return nil, err
	}
	dev := b.createBuffer(data, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst, deviceID)
	buffer := memory.NewBuffer(dev.handle(), memory.GPU, deviceID, dev.Size(), dev)
	return tensor.New(t.DType(), t.Shape(), buffer)
}

// tensorBytes returns a host copy of the tensor's payload.
func (b *Bridge) tensorBytes(t *tensor.Tensor) ([]byte, error) {
	if t.MemoryType() == memory.GPU {
		dev, ok := t.Buffer().Owner().(*DeviceBuffer)
		if !ok {
			return nil, ferrors.Unsupportedf(
				"gpu tensor is not backed by a webgpu bridge buffer (owner %T)", t.Buffer().Owner())
		}
		return b.readBuffer(dev.buffer, dev.size)
	}
	host, err := t.Buffer().HostBytes()
	if err != nil {
		return nil, err
	}
	data := make([]byte, len(host))
	copy(data, host)
	return data, nil
}

// createBuffer creates a GPU buffer and uploads initial data through a
// mapped-at-creation range.
func (b *Bridge) createBuffer(data []byte, usage wgpu.BufferUsage, deviceID int) *DeviceBuffer {
	size := uint64(len(data))
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	if size > 0 {
		mappedPtr := buffer.GetMappedRange(0, size)
		//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
		mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
		copy(mappedSlice, data)
	}
	buffer.Unmap()

	return &DeviceBuffer{buffer: buffer, size: size, deviceID: deviceID}
}

// readBuffer reads a GPU buffer back to host memory through a staging
// buffer, since storage buffers cannot be mapped directly.
func (b *Bridge) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	stagingBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	if err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()

	return result, nil
}
