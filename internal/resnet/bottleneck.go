package resnet

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// Block is a materialized residual block.
type Block[B tensor.Backend] interface {
	nn.Module[B]

	// Plan returns the shape-level description the block was built from.
	Plan() BlockPlan

	// Penalty returns the L2 regularization term of the block's convolutions.
	Penalty() float64
}

// newBlock materializes a planned block, drawing weights from rng.
func newBlock[B tensor.Backend](bp BlockPlan, rng *rand.Rand, backend B) Block[B] {
	switch bp.Kind {
	case BlockBottleneck:
		return newBottleneck(bp, rng, backend)
	default:
		panic(fmt.Sprintf("resnet: no builder for block kind %v", bp.Kind))
	}
}

// Bottleneck is a pre-activation bottleneck residual block.
//
//	reduce:   BN-ReLU-Conv 1x1/s  (plain Conv 1x1/1 on the entry block)
//	spatial:  BN-ReLU-Conv 3x3/1
//	expand:   BN-ReLU-Conv 1x1/1, 4*filters
//	shortcut: identity, or Conv 1x1/s VALID when channels differ
//	output:   shortcut + expand
type Bottleneck[B tensor.Backend] struct {
	plan BlockPlan

	reduce     nn.Module[B]
	reduceConv *nn.Conv2D[B]
	spatial    *nn.Composite[B]
	expand     *nn.Composite[B]
	projection *nn.Conv2D[B] // nil for an identity shortcut
}

func newBottleneck[B tensor.Backend](bp BlockPlan, rng *rand.Rand, backend B) *Bottleneck[B] {
	inC := bp.Input.Channels()
	b := &Bottleneck[B]{plan: bp}

	// At network entry there is no earlier normalization to pre-activate with.
	if bp.Config.IsEntryBlock {
		conv := nn.NewConv2D(bp.Reduce, inC, rng, backend)
		b.reduce, b.reduceConv = conv, conv
	} else {
		layer := nn.NewNormActConv(bp.Reduce, inC, rng, backend)
		b.reduce, b.reduceConv = layer, layer.Conv()
	}
	b.spatial = nn.NewNormActConv(bp.Spatial, bp.Reduce.Filters, rng, backend)
	b.expand = nn.NewNormActConv(bp.Expand, bp.Spatial.Filters, rng, backend)

	if bp.Projection != nil {
		b.projection = nn.NewConv2D(*bp.Projection, inC, rng, backend)
	}
	return b
}

// Forward computes shortcut(x) + expand(spatial(reduce(x))).
func (b *Bottleneck[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	out := b.expand.Forward(b.spatial.Forward(b.reduce.Forward(x)))

	shortcut := x
	if b.projection != nil {
		shortcut = b.projection.Forward(x)
	}
	return shortcut.Add(out)
}

// OutputShape returns the planned output shape for an input matching the
// planned input in every axis except batch.
func (b *Bottleneck[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return planned(input, b.plan.Input, b.plan.Output)
}

// Parameters returns the sublayer parameters in evaluation order,
// followed by the projection weight.
func (b *Bottleneck[B]) Parameters() []*nn.Parameter[B] {
	params := b.reduce.Parameters()
	params = append(params, b.spatial.Parameters()...)
	params = append(params, b.expand.Parameters()...)
	if b.projection != nil {
		params = append(params, b.projection.Parameters()...)
	}
	return params
}

// Penalty sums the L2 terms of every convolution in the block.
func (b *Bottleneck[B]) Penalty() float64 {
	p := b.reduceConv.Penalty() + b.spatial.Conv().Penalty() + b.expand.Conv().Penalty()
	if b.projection != nil {
		p += b.projection.Penalty()
	}
	return p
}

// Plan returns the block's plan.
func (b *Bottleneck[B]) Plan() BlockPlan {
	return b.plan
}

// Projection returns the shortcut convolution, or nil for an identity
// shortcut.
func (b *Bottleneck[B]) Projection() *nn.Conv2D[B] {
	return b.projection
}

func (b *Bottleneck[B]) String() string {
	shortcut := "identity"
	if b.projection != nil {
		shortcut = "projection " + b.projection.Config().String()
	}
	return fmt.Sprintf("Bottleneck(filters=%d, strides=%v, shortcut=%s)",
		b.plan.Config.Filters, b.plan.Config.Strides, shortcut)
}

// planned checks input against a planned shape, ignoring the batch axis,
// and returns out with the input's batch size.
func planned(input, want, out tensor.Shape) (tensor.Shape, error) {
	if err := input.Validate4D(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputShape, err)
	}
	if input.Height() != want.Height() || input.Width() != want.Width() || input.Channels() != want.Channels() {
		return nil, fmt.Errorf("%w: got %v, want (N, %d, %d, %d)",
			ErrInputShape, input, want.Height(), want.Width(), want.Channels())
	}
	shape := out.Clone()
	shape[tensor.AxisBatch] = input.Batch()
	return shape, nil
}
