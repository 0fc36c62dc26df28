// Package nn implements neural network modules for the residual feature
// extractor.
//
// This package provides building blocks for constructing networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named weight tensors owned by a module
//   - LayerConfig: Plain-data description of one convolution
//   - Conv2D, BatchNorm, ReLU, MaxPool2D: Primitive layers
//   - Composite: The two normalize/activate/convolve orderings
//   - Sequential: Container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
// Modules are immutable once constructed; Forward never mutates module
// state, so one module tree can serve concurrent callers.
package nn

import (
	"github.com/born-ml/resnet/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all parameters
//   - OutputShape: Compute the output shape for an input shape without
//     touching any data
//
// Modules can be composed to build complex architectures:
//
//	stem := nn.NewSequential[Backend](
//	    nn.NewConvNormAct(cfg, 3, rng, backend),
//	    nn.NewMaxPool2D[Backend]([2]int{3, 3}, [2]int{2, 2}, tensor.PaddingSame),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor must have a shape accepted by OutputShape;
	// backends panic otherwise.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all parameters of this module.
	//
	// This includes nested module parameters. Returns an empty slice for
	// modules without parameters (e.g., activation functions).
	Parameters() []*Parameter[B]

	// OutputShape returns the shape Forward produces for the given input
	// shape, or an error if the module cannot accept it.
	OutputShape(input tensor.Shape) (tensor.Shape, error)
}

// CountParameters returns the total number of scalar weights in params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	total := 0
	for _, p := range params {
		total += p.Tensor().NumElements()
	}
	return total
}
