package nn

import (
	"github.com/born-ml/resnet/internal/tensor"
)

// Parameter represents a named weight tensor of a neural network.
//
// Parameters are randomly initialized at construction and never updated:
// there is no training, so no gradient is tracked.
//
// Example:
//
//	weight := nn.NewParameter("conv2d.weight", weightTensor)
//	w := weight.Tensor()
type Parameter[B tensor.Backend] struct {
	name   string            // Parameter name (e.g., "weight", "gamma")
	tensor *tensor.Tensor[B] // The parameter tensor
}

// NewParameter creates a new parameter.
//
// Parameters:
//   - name: Descriptive name for this parameter (e.g., "conv2d.weight")
//   - tensor: The initialized parameter tensor
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}
