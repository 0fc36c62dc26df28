package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/resnet/internal/tensor"
)

// Order selects how a Composite arranges normalize, activate and convolve.
type Order int

const (
	// ConvNormAct convolves, then normalizes, then applies ReLU.
	ConvNormAct Order = iota
	// NormActConv normalizes, applies ReLU, then convolves (pre-activation).
	// The activation is a function of the sublayer's input.
	NormActConv
)

func (o Order) String() string {
	switch o {
	case ConvNormAct:
		return "conv-bn-relu"
	case NormActConv:
		return "bn-relu-conv"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// Composite is a convolution fused with a BatchNorm+ReLU in one of the two
// orders. The normalization is sized for the tensor it sees: the conv
// output for ConvNormAct, the composite's input for NormActConv.
type Composite[B tensor.Backend] struct {
	order Order
	conv  *Conv2D[B]
	norm  *BatchNorm[B]
}

// NewConvNormAct creates a convolve -> normalize -> ReLU layer.
func NewConvNormAct[B tensor.Backend](cfg LayerConfig, inChannels int, rng *rand.Rand, backend B) *Composite[B] {
	return &Composite[B]{
		order: ConvNormAct,
		conv:  NewConv2D(cfg, inChannels, rng, backend),
		norm:  NewBatchNorm(cfg.Filters, DefaultBatchNormEpsilon, backend),
	}
}

// NewNormActConv creates a normalize -> ReLU -> convolve layer.
func NewNormActConv[B tensor.Backend](cfg LayerConfig, inChannels int, rng *rand.Rand, backend B) *Composite[B] {
	return &Composite[B]{
		order: NormActConv,
		conv:  NewConv2D(cfg, inChannels, rng, backend),
		norm:  NewBatchNorm(inChannels, DefaultBatchNormEpsilon, backend),
	}
}

// NewComposite dispatches to NewConvNormAct or NewNormActConv.
func NewComposite[B tensor.Backend](order Order, cfg LayerConfig, inChannels int, rng *rand.Rand, backend B) *Composite[B] {
	switch order {
	case ConvNormAct:
		return NewConvNormAct(cfg, inChannels, rng, backend)
	case NormActConv:
		return NewNormActConv(cfg, inChannels, rng, backend)
	default:
		panic(fmt.Sprintf("composite: unknown order %v", order))
	}
}

// Forward applies the three steps in the composite's order.
func (c *Composite[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	if c.order == ConvNormAct {
		return c.norm.ForwardReLU(c.conv.Forward(x))
	}
	return c.conv.Forward(c.norm.ForwardReLU(x))
}

// OutputShape returns the shape after the convolution.
func (c *Composite[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return c.conv.OutputShape(input)
}

// Parameters returns the convolution weight followed by gamma and beta.
func (c *Composite[B]) Parameters() []*Parameter[B] {
	return append(c.conv.Parameters(), c.norm.Parameters()...)
}

// Order returns the composite's ordering.
func (c *Composite[B]) Order() Order {
	return c.order
}

// Conv returns the convolution.
func (c *Composite[B]) Conv() *Conv2D[B] {
	return c.conv
}

// Norm returns the normalization.
func (c *Composite[B]) Norm() *BatchNorm[B] {
	return c.norm
}

// String returns a string representation of the layer.
func (c *Composite[B]) String() string {
	return fmt.Sprintf("%s(in_channels=%d, %s)", c.order, c.conv.InChannels(), c.conv.Config())
}
