// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for ferry tensors: a data type,
// a shape and a non-owning memory buffer, plus the operations that move
// tensors across runtimes and devices.
//
//   - Tensor: dtype + shape + memory.MemoryBuffer
//   - FromAny / FromSlice / FromDLPack: construction from Go values and
//     from arbitrary exchange-protocol objects (zero copy)
//   - Tensor.DLPack / DLPackDevice: export to any consumer implementing
//     the exchange protocol
//   - Tensor.ToDevice / ToHost: migration between memory types through a
//     configurable device bridge
//   - Tensor.ToByteSlices: deserialization of variable-length tensors
//
// Example:
//
//	t, _ := tensor.FromAny([]float32{1, 2, 3})
//	capsule, _ := t.DLPack()       // hand to another runtime
//	host, _ := t.ToDevice("cpu")   // identity no-op here
package tensor

import (
	tensor "github.com/ferry-ml/ferry/internal/tensor"
)

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Bool   DataType = tensor.Bool
	UInt8  DataType = tensor.UInt8
	UInt16 DataType = tensor.UInt16
	UInt32 DataType = tensor.UInt32
	UInt64 DataType = tensor.UInt64
	Int8   DataType = tensor.Int8
	Int16  DataType = tensor.Int16
	Int32  DataType = tensor.Int32
	Int64  DataType = tensor.Int64
	FP16   DataType = tensor.FP16
	FP32   DataType = tensor.FP32
	FP64   DataType = tensor.FP64
	BF16   DataType = tensor.BF16
	Bytes  DataType = tensor.Bytes
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} is a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a dtype, a shape and a memory buffer.
type Tensor = tensor.Tensor

// HostArray is a fixed-width host-resident array, the host-side
// intermediate for conversions and migration.
type HostArray = tensor.HostArray

// DType is the constraint for fixed-width element types usable with
// FromSlice.
type DType = tensor.DType

// New constructs a tensor over an existing buffer.
func New(dtype DataType, shape Shape, buffer *MemoryBuffer) (*Tensor, error) {
	return tensor.New(dtype, shape, buffer)
}

// FromAny creates a tensor from a value, dispatching on its concrete
// type, with an exchange-protocol fallback.
//
// Example:
//
//	t, _ := tensor.FromAny([]string{"hello", "world"})
func FromAny(obj any) (*Tensor, error) {
	return tensor.FromAny(obj)
}

// FromDLPack creates a tensor from any object supporting the exchange
// protocol, without copying data.
func FromDLPack(obj any) (*Tensor, error) {
	return tensor.FromDLPack(obj)
}

// FromSlice creates a tensor over a Go slice with the given shape.
//
// Example:
//
//	t, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// NewHostArray wraps a byte buffer as a fixed-width host array.
func NewHostArray(dtype DataType, shape Shape, data []byte) (*HostArray, error) {
	return tensor.NewHostArray(dtype, shape, data)
}

// HostArrayFromTensor views a host-resident tensor as an array without
// copying.
func HostArrayFromTensor(t *Tensor) (*HostArray, error) {
	return tensor.HostArrayFromTensor(t)
}

// EncodeByteStrings serializes byte strings into the variable-length
// tensor payload format.
func EncodeByteStrings(items [][]byte) []byte {
	return tensor.EncodeByteStrings(items)
}

// EncodeStrings serializes strings into the variable-length tensor
// payload format.
func EncodeStrings(items []string) []byte {
	return tensor.EncodeStrings(items)
}

// DecodeByteStrings deserializes a variable-length tensor payload.
func DecodeByteStrings(buf []byte) ([][]byte, error) {
	return tensor.DecodeByteStrings(buf)
}
