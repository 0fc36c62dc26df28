// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/resnet/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{1, 28, 28, 2048} is one 28x28 map with 2048 channels.
type Shape = tensor.Shape

// Padding selects SAME or VALID window placement.
type Padding = tensor.Padding

// Padding modes.
const (
	PaddingSame  Padding = tensor.PaddingSame
	PaddingValid Padding = tensor.PaddingValid
)

// ParsePadding parses "same" or "valid" (case-insensitive).
func ParsePadding(s string) (Padding, error) {
	return tensor.ParsePadding(s)
}

// WindowOutput returns the output extent and leading padding of a window
// of size kernel sliding with stride over in positions.
func WindowOutput(in, kernel, stride int, p Padding) (out, padBefore int) {
	return tensor.WindowOutput(in, kernel, stride, p)
}

// RawTensor is the backend-facing dense storage of a tensor.
type RawTensor = tensor.RawTensor

// Backend defines the primitive operations a compute backend implements.
type Backend = tensor.Backend

// Tensor is a float32 tensor bound to backend B.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{1, 8, 8, 3}, backend)
type Tensor[B Backend] = tensor.Tensor[B]

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Zeros(shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Ones(shape, b)
}

// Full creates a tensor filled with value.
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	return tensor.Full(shape, value, b)
}

// FromSlice creates a tensor from a copy of data.
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, b)
}
