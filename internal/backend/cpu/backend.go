// Package cpu implements the CPU backend with BLAS-backed convolution.
package cpu

import (
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// It holds no mutable state: every operation allocates its result, so a
// single backend can serve any number of concurrent callers.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Add performs element-wise addition of two tensors with identical shapes.
//
// Residual additions never broadcast, so a shape mismatch is a programming
// error and panics.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("add: shape mismatch %v vs %v", a.Shape(), b.Shape()))
	}

	result := tensor.MustRaw(a.Shape())
	dst := result.AsFloat32()
	lhs, rhs := a.AsFloat32(), b.AsFloat32()
	for i := range dst {
		dst[i] = lhs[i] + rhs[i]
	}
	return result
}
