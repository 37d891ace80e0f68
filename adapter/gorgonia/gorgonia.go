// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gorgonia adapts gorgonia-style dense arrays
// (github.com/pdevine/tensor) to the exchange protocol, so they can be
// imported into ferry tensors without copying and exported back out.
//
// Example:
//
//	d := gtensor.New(gtensor.WithShape(2, 3), gtensor.WithBacking(data))
//	t, _ := gorgonia.FromDense(d) // zero copy, d retained as owner
package gorgonia

import (
	"strconv"
	"unsafe"

	gtensor "github.com/pdevine/tensor"

	"github.com/ferry-ml/ferry/dlpack"
	ferrors "github.com/ferry-ml/ferry/errors"
	"github.com/ferry-ml/ferry/tensor"
)

// Array adapts a dense array to the exchange protocol. The dense array
// is retained for as long as any export of this adapter is outstanding.
type Array struct {
	dense *gtensor.Dense
}

// Wrap returns an exchange-protocol adapter over d.
func Wrap(d *gtensor.Dense) *Array {
	return &Array{dense: d}
}

// Dense returns the wrapped array.
func (a *Array) Dense() *gtensor.Dense {
	return a.dense
}

// DLPackDevice reports the array's device, always plain host.
func (a *Array) DLPackDevice() (dlpack.Device, error) {
	return dlpack.Device{Type: dlpack.DeviceCPU}, nil
}

// DLPack exports the dense array's backing memory as a protocol capsule.
// The adapter (and through it the dense array) stays pinned until the
// consumer finalizes the record.
func (a *Array) DLPack() (*dlpack.Capsule, error) {
	ptr, dtype, err := describeBacking(a.dense.Data())
	if err != nil {
		return nil, err
	}

	shape := make([]int64, len(a.dense.Shape()))
	for i, dim := range a.dense.Shape() {
		shape[i] = int64(dim)
	}
	strides := make([]int64, len(a.dense.Strides()))
	for i, s := range a.dense.Strides() {
		strides[i] = int64(s)
	}

	handle := dlpack.Pins().Pin(a)
	record := dlpack.NewManagedTensor(dlpack.Tensor{
		Data:    ptr,
		Device:  dlpack.Device{Type: dlpack.DeviceCPU},
		DType:   dtype,
		Shape:   shape,
		Strides: strides,
	}, a, func(*dlpack.ManagedTensor) {
		dlpack.Pins().Unpin(handle)
	})
	return dlpack.NewCapsule(record), nil
}

// FromDense imports a dense array into a ferry tensor without copying.
func FromDense(d *gtensor.Dense) (*tensor.Tensor, error) {
	return tensor.FromDLPack(Wrap(d))
}

// ToDense exports a host-resident ferry tensor into a fresh dense array.
// The element data is copied; the result does not alias the tensor.
func ToDense(t *tensor.Tensor) (*gtensor.Dense, error) {
	host, err := t.ToHost()
	if err != nil {
		return nil, err
	}
	data, err := host.Buffer().HostBytes()
	if err != nil {
		return nil, err
	}
	n := host.NumElements()

	var backing any
	switch host.DType() {
	case tensor.Bool:
		backing = copyOf[bool](data, n)
	case tensor.UInt8:
		backing = copyOf[uint8](data, n)
	case tensor.Int32:
		backing = copyOf[int32](data, n)
	case tensor.Int64:
		backing = copyOf[int64](data, n)
	case tensor.FP32:
		backing = copyOf[float32](data, n)
	case tensor.FP64:
		backing = copyOf[float64](data, n)
	default:
		return nil, ferrors.Unsupportedf("no dense representation for data type %s", host.DType())
	}

	dims := make([]int, len(host.Shape()))
	for i, dim := range host.Shape() {
		dims[i] = int(dim)
	}
	return gtensor.New(gtensor.WithShape(dims...), gtensor.WithBacking(backing)), nil
}

// describeBacking maps a dense backing slice to its address and protocol
// dtype.
func describeBacking(data any) (uintptr, dlpack.DataType, error) {
	switch v := data.(type) {
	case []bool:
		return sliceAddr(v), dlpack.DataType{Code: dlpack.CodeBool, Bits: 8, Lanes: 1}, nil
	case []uint8:
		return sliceAddr(v), dlpack.DataType{Code: dlpack.CodeUInt, Bits: 8, Lanes: 1}, nil
	case []uint16:
		return sliceAddr(v), dlpack.DataType{Code: dlpack.CodeUInt, Bits: 16, Lanes: 1}, nil
	case []int32:
		return sliceAddr(v), dlpack.DataType{Code: dlpack.CodeInt, Bits: 32, Lanes: 1}, nil
	case []int64:
		return sliceAddr(v), dlpack.DataType{Code: dlpack.CodeInt, Bits: 64, Lanes: 1}, nil
	case []int:
		return sliceAddr(v), dlpack.DataType{Code: dlpack.CodeInt, Bits: uint8(strconv.IntSize), Lanes: 1}, nil
	case []float32:
		return sliceAddr(v), dlpack.DataType{Code: dlpack.CodeFloat, Bits: 32, Lanes: 1}, nil
	case []float64:
		return sliceAddr(v), dlpack.DataType{Code: dlpack.CodeFloat, Bits: 64, Lanes: 1}, nil
	default:
		return 0, dlpack.DataType{}, ferrors.InvalidArgumentf("dense backing type %T not supported", data)
	}
}

func sliceAddr[T any](data []T) uintptr {
	if len(data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&data[0]))
}

func copyOf[T any](data []byte, n int64) []T {
	out := make([]T, n)
	if n > 0 {
		//nolint:gosec // unsafe.Slice for zero-copy reinterpretation before the copy
		copy(out, unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n))
	}
	return out
}
