// Copyright 2026 Ferry ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package errors provides the two error kinds the tensor exchange core
// reports: invalid_argument for input that cannot be interpreted under the
// library's contract, and unsupported for well-formed requests with no
// implemented path.
//
// All errors implement the standard error interface and support
// errors.Is/As:
//
//	t, err := tensor.FromAny(struct{}{})
//	if errors.IsInvalidArgument(err) { ... }
package errors
