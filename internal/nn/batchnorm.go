package nn

import (
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// DefaultBatchNormEpsilon matches the Keras BatchNormalization default.
const DefaultBatchNormEpsilon = 1e-3

// BatchNorm normalizes an NHWC tensor over its channel axis.
//
// Formula: Y = gamma * (X - mean) / sqrt(var + eps) + beta
//
// mean and var are estimated per channel over the batch and spatial extent
// of each input, so the output depends only on the current input: there
// are no running statistics and Forward has no side effects.
type BatchNorm[B tensor.Backend] struct {
	Gamma    *Parameter[B] // scale [channels]
	Beta     *Parameter[B] // shift [channels]
	Epsilon  float32       // numerical stability constant
	channels int
	backend  B
}

// NewBatchNorm creates a new BatchNorm layer.
//
// The gamma parameter is initialized to ones, beta to zeros.
func NewBatchNorm[B tensor.Backend](channels int, epsilon float32, backend B) *BatchNorm[B] {
	if channels <= 0 {
		panic(fmt.Sprintf("batchnorm: invalid channels %d", channels))
	}
	return &BatchNorm[B]{
		Gamma:    NewParameter("batchnorm.gamma", tensor.Ones(tensor.Shape{channels}, backend)),
		Beta:     NewParameter("batchnorm.beta", tensor.Zeros(tensor.Shape{channels}, backend)),
		Epsilon:  epsilon,
		channels: channels,
		backend:  backend,
	}
}

// Forward normalizes the input.
func (bn *BatchNorm[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	raw := bn.backend.BatchNorm(x.Raw(), bn.Gamma.Tensor().Raw(), bn.Beta.Tensor().Raw(), bn.Epsilon)
	return tensor.New(raw, bn.backend)
}

// ForwardReLU normalizes the input and applies ReLU in one fused pass.
func (bn *BatchNorm[B]) ForwardReLU(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	raw := bn.backend.BatchNormReLU(x.Raw(), bn.Gamma.Tensor().Raw(), bn.Beta.Tensor().Raw(), bn.Epsilon)
	return tensor.New(raw, bn.backend)
}

// OutputShape returns the input shape after checking its channel count.
func (bn *BatchNorm[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if err := input.Validate4D(); err != nil {
		return nil, fmt.Errorf("batchnorm: %w", err)
	}
	if input.Channels() != bn.channels {
		return nil, fmt.Errorf("batchnorm: input channels %d != expected %d", input.Channels(), bn.channels)
	}
	return input.Clone(), nil
}

// Parameters returns gamma and beta.
func (bn *BatchNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.Gamma, bn.Beta}
}

// String returns a string representation of the layer.
func (bn *BatchNorm[B]) String() string {
	return fmt.Sprintf("BatchNorm(channels=%d, eps=%g)", bn.channels, bn.Epsilon)
}
