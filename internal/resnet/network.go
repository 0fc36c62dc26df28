package resnet

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// Network is a built residual feature extractor.
//
// A Network is immutable after Build. Forward keeps every intermediate in
// fresh tensors, so one Network can serve any number of sequential or
// concurrent calls.
type Network[B tensor.Backend] struct {
	plan    *Plan
	stem    *nn.Sequential[B] // nil for StemNone
	stages  []*Stage[B]
	backend B
}

// Build plans spec and materializes its weights on backend. Weights are
// drawn from a generator seeded with spec.Seed, so equal specs build equal
// networks.
//
// Configuration and shape errors are reported before any weight is
// allocated.
//
// Example:
//
//	net, err := resnet.Build(resnet.NewSpec(), cpu.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fm, err := net.Forward(input) // (1, 224, 224, 3) -> (1, 28, 28, 2048)
func Build[B tensor.Backend](spec NetworkSpec, backend B) (*Network[B], error) {
	plan, err := PlanNetwork(spec)
	if err != nil {
		return nil, err
	}
	return BuildPlan(plan, backend), nil
}

// BuildPlan materializes a plan returned by PlanNetwork.
func BuildPlan[B tensor.Backend](plan *Plan, backend B) *Network[B] {
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	rng := rand.New(rand.NewSource(plan.Spec.Seed))

	net := &Network[B]{
		plan:    plan,
		stem:    newStem(plan.Stem, rng, backend),
		stages:  make([]*Stage[B], len(plan.Stages)),
		backend: backend,
	}
	for i, sp := range plan.Stages {
		net.stages[i] = newStage(sp, rng, backend)
	}
	return net
}

// Forward runs the stem and every stage over input and returns the final
// feature map. The input must be NHWC with the network's height, width and
// channels; any batch size is accepted.
func (n *Network[B]) Forward(input *tensor.Tensor[B]) (*FeatureMap[B], error) {
	if _, err := planned(input.Shape(), n.plan.Input, n.plan.Output); err != nil {
		return nil, err
	}

	x := input
	if n.stem != nil {
		x = n.stem.Forward(x)
	}
	for _, s := range n.stages {
		x = s.Forward(x)
	}
	return &FeatureMap[B]{t: x}, nil
}

// OutputShape returns the feature map shape for an input shape.
func (n *Network[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return planned(input, n.plan.Input, n.plan.Output)
}

// InputShape returns the single-image input shape (1, H, W, C).
func (n *Network[B]) InputShape() tensor.Shape {
	return n.plan.Input.Clone()
}

// Plan returns the plan the network was built from. Callers must not
// modify it.
func (n *Network[B]) Plan() *Plan {
	return n.plan
}

// Spec returns a copy of the network's spec.
func (n *Network[B]) Spec() NetworkSpec {
	return n.plan.Spec.Clone()
}

// NumStages returns the number of stages.
func (n *Network[B]) NumStages() int {
	return len(n.stages)
}

// Stage returns the i-th stage. Panics if i is out of range.
func (n *Network[B]) Stage(i int) *Stage[B] {
	return n.stages[i]
}

// Parameters returns all parameters: stem first, then stages in order.
func (n *Network[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	if n.stem != nil {
		params = append(params, n.stem.Parameters()...)
	}
	for _, s := range n.stages {
		params = append(params, s.Parameters()...)
	}
	return params
}

// NumParameters returns the total number of scalar weights.
func (n *Network[B]) NumParameters() int {
	return nn.CountParameters(n.Parameters())
}

// RegularizationPenalty returns the L2 weight-decay term summed over every
// convolution.
func (n *Network[B]) RegularizationPenalty() float64 {
	var p float64
	if n.stem != nil {
		if c, ok := n.stem.Module(0).(*nn.Composite[B]); ok {
			p += c.Conv().Penalty()
		}
	}
	for _, s := range n.stages {
		p += s.Penalty()
	}
	return p
}

func (n *Network[B]) String() string {
	return fmt.Sprintf("Network(block=%s, stem=%s, repetitions=%v, input=%v, output=%v)",
		n.plan.Spec.Block, n.plan.Spec.Stem, n.plan.Spec.Repetitions(), n.plan.Input, n.plan.Output)
}
