package nn

import (
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input, creating a
// sequential pipeline of transformations.
//
// Example:
//
//	stem := nn.NewSequential[Backend](
//	    nn.NewConvNormAct(cfg, 3, rng, backend),
//	    nn.NewMaxPool2D[Backend]([2]int{3, 3}, [2]int{2, 2}, tensor.PaddingSame),
//	)
//
//	output := stem.Forward(input)
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	output := input

	for _, module := range s.modules {
		output = module.Forward(output)
	}

	return output
}

// OutputShape threads the shape through every module.
func (s *Sequential[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	shape := input
	for i, module := range s.modules {
		next, err := module.OutputShape(shape)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		shape = next
	}
	return shape, nil
}

// Parameters returns all parameters from all modules, in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]

	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}

	return params
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential[B]) Module(index int) Module[B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}
