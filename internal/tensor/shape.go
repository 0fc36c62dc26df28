package tensor

import (
	"fmt"
	"strings"
)

// Shape represents the dimensions of a tensor.
//
// Image tensors use the NHWC layout: Shape{batch, height, width, channels}.
type Shape []int

// NHWC axis indices.
const (
	AxisBatch = iota
	AxisHeight
	AxisWidth
	AxisChannels
)

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Validate4D checks that the shape is a valid NHWC image shape.
func (s Shape) Validate4D() error {
	if len(s) != 4 {
		return fmt.Errorf("expected 4D shape [N,H,W,C], got %dD %v", len(s), s)
	}
	return s.Validate()
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

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Batch returns the batch dimension of an NHWC shape.
func (s Shape) Batch() int { return s[AxisBatch] }

// Height returns the height dimension of an NHWC shape.
func (s Shape) Height() int { return s[AxisHeight] }

// Width returns the width dimension of an NHWC shape.
func (s Shape) Width() int { return s[AxisWidth] }

// Channels returns the channel dimension of an NHWC shape.
func (s Shape) Channels() int { return s[AxisChannels] }

// WithChannels returns a copy of an NHWC shape with the channel count replaced.
func (s Shape) WithChannels(c int) Shape {
	out := s.Clone()
	out[AxisChannels] = c
	return out
}

// String formats the shape like (1, 224, 224, 3).
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = fmt.Sprint(dim)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
