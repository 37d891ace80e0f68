// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dlpack implements the zero-copy tensor exchange protocol used to
// hand tensors between numeric runtimes without copying data.
//
// The protocol is a capsule-based handshake: a producer packs a pointer to
// its data, the device it lives on, a dtype descriptor and the shape into a
// ManagedTensor, wraps it in a tagged Capsule and attaches a deleter. The
// consumer takes the capsule, reads the record, and invokes the deleter
// exactly once when it no longer needs the memory. The producer must keep
// the backing memory alive until that finalization; the package-level pin
// registry exists for exactly that.
//
// Any object that can produce such a capsule implements Exchanger. View
// normalizes an arbitrary Exchanger into pointer/device/dtype/shape fields
// and checks contiguity, without touching the data.
package dlpack
