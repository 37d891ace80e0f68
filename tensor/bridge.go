// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"go.uber.org/zap"

	tensor "github.com/ferry-ml/ferry/internal/tensor"
	"github.com/ferry-ml/ferry/memory"
)

// MemoryBuffer is the non-owning memory descriptor tensors wrap.
// See the memory package.
type MemoryBuffer = memory.MemoryBuffer

// DeviceBridge is the host-capable numeric bridge used by ToDevice for
// combinations that need an actual copy.
//
// Implementations:
//   - bridge/webgpu: GPU transfer via WebGPU
type DeviceBridge = tensor.DeviceBridge

// Option configures the package runtime.
type Option = tensor.Option

// Configure installs the optional device bridge and logger. Capability
// probing belongs to the caller:
//
//	if webgpu.IsAvailable() {
//	    b, _ := webgpu.New()
//	    tensor.Configure(tensor.WithBridge(b))
//	}
func Configure(opts ...Option) {
	tensor.Configure(opts...)
}

// WithBridge installs the device bridge used by ToDevice.
func WithBridge(b DeviceBridge) Option {
	return tensor.WithBridge(b)
}

// WithLogger installs the logger for migration and finalization
// diagnostics.
func WithLogger(l *zap.Logger) Option {
	return tensor.WithLogger(l)
}
