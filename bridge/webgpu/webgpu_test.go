// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package webgpu

import (
	"testing"
	"unsafe"

	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/memory"
	"github.com/ferry-ml/ferry/tensor"
)

// TestBridgeRoundTrip uploads a host tensor and reads it back.
func TestBridgeRoundTrip(t *testing.T) {
	bridge, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	defer bridge.Release()

	src, err := tensor.FromAny([]float32{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}

	uploaded, err := bridge.Upload(src, 0)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uploaded.MemoryType() != memory.GPU {
		t.Errorf("uploaded memory type: expected gpu, got %v", uploaded.MemoryType())
	}
	dev, ok := uploaded.Buffer().Owner().(*DeviceBuffer)
	if !ok {
		t.Fatalf("uploaded owner: expected *DeviceBuffer, got %T", uploaded.Buffer().Owner())
	}
	defer dev.Release()

	downloaded, err := bridge.Download(uploaded)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	values, err := downloaded.Float32s()
	if err != nil {
		t.Fatalf("Float32s: %v", err)
	}
	expected := []float32{1, 2, 3, 4}
	for i, exp := range expected {
		if values[i] != exp {
			t.Errorf("roundtrip[%d]: expected %v, got %v", i, exp, values[i])
		}
	}
}

// TestDownloadRejectsForeignGPUTensor needs no device: the owner check
// runs before any device work.
func TestDownloadRejectsForeignGPUTensor(t *testing.T) {
	data := make([]byte, 16)
	buffer := memory.NewBuffer(unsafe.Pointer(&data[0]), memory.GPU, 0, 16, data)
	foreign, err := tensor.New(tensor.FP32, tensor.Shape{4}, buffer)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = (&Bridge{}).Download(foreign)
	if err == nil {
		t.Fatal("Download: expected error for foreign gpu tensor")
	}
	if !ferrors.IsUnsupported(err) {
		t.Errorf("Download: expected unsupported error, got %v", err)
	}
}

// TestAllocatorHostSubstitution needs no device: host requests never
// touch the GPU.
func TestAllocatorHostSubstitution(t *testing.T) {
	alloc := NewAllocator(&Bridge{})

	buffer, err := alloc.Allocate(64, memory.CPU, 0, "input")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if buffer.MemoryType() != memory.CPU {
		t.Errorf("memory type: expected cpu, got %v", buffer.MemoryType())
	}
	if buffer.Size() < 64 {
		t.Errorf("size: expected at least 64, got %d", buffer.Size())
	}

	if _, err := alloc.Allocate(-1, memory.CPU, 0, "bad"); err == nil {
		t.Error("Allocate: expected error for negative size")
	}
}

// TestAllocatorGPU allocates a zeroed device buffer.
func TestAllocatorGPU(t *testing.T) {
	bridge, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	defer bridge.Release()

	alloc := NewAllocator(bridge)
	buffer, err := alloc.Allocate(128, memory.GPU, 0, "weights")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if buffer.MemoryType() != memory.GPU {
		t.Errorf("memory type: expected gpu, got %v", buffer.MemoryType())
	}
	dev, ok := buffer.Owner().(*DeviceBuffer)
	if !ok {
		t.Fatalf("owner: expected *DeviceBuffer, got %T", buffer.Owner())
	}
	defer dev.Release()

	payload, err := bridge.readBuffer(dev.buffer, dev.size)
	if err != nil {
		t.Fatalf("readBuffer: %v", err)
	}
	for i, b := range payload {
		if b != 0 {
			t.Errorf("payload[%d]: expected zero, got %d", i, b)
			break
		}
	}
}
