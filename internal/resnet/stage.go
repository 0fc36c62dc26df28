package resnet

import (
	"math/rand"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// Stage is a run of residual blocks sharing one base width.
type Stage[B tensor.Backend] struct {
	plan   StagePlan
	blocks []Block[B]
}

func newStage[B tensor.Backend](sp StagePlan, rng *rand.Rand, backend B) *Stage[B] {
	s := &Stage[B]{plan: sp, blocks: make([]Block[B], len(sp.Blocks))}
	for i, bp := range sp.Blocks {
		s.blocks[i] = newBlock(bp, rng, backend)
	}
	return s
}

// Forward runs the blocks in order.
func (s *Stage[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	for _, b := range s.blocks {
		x = b.Forward(x)
	}
	return x
}

// OutputShape returns the planned output shape.
func (s *Stage[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return planned(input, s.plan.Input, s.plan.Output)
}

// Parameters returns every block's parameters in order.
func (s *Stage[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, b := range s.blocks {
		params = append(params, b.Parameters()...)
	}
	return params
}

// Penalty sums the block penalties.
func (s *Stage[B]) Penalty() float64 {
	var p float64
	for _, b := range s.blocks {
		p += b.Penalty()
	}
	return p
}

// Len returns the number of blocks.
func (s *Stage[B]) Len() int {
	return len(s.blocks)
}

// Block returns the i-th block. Panics if i is out of range.
func (s *Stage[B]) Block(i int) Block[B] {
	return s.blocks[i]
}

// Plan returns the stage's plan.
func (s *Stage[B]) Plan() StagePlan {
	return s.plan
}
