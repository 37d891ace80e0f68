package tensor

import ferrors "github.com/ferry-ml/ferry/errors"

// Shape represents the dimensions of a tensor.
type Shape []int64

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int64 {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := int64(1)
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that all dimensions are non-negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return ferrors.InvalidArgumentf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}
