package resnet

import (
	"math/rand"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// newStem returns the stem layers, or nil for StemNone.
func newStem[B tensor.Backend](sp StemPlan, rng *rand.Rand, backend B) *nn.Sequential[B] {
	if sp.Conv == nil {
		return nil
	}
	return nn.NewSequential[B](
		nn.NewConvNormAct(*sp.Conv, sp.Input.Channels(), rng, backend),
		nn.NewMaxPool2D[B](sp.Pool.Kernel, sp.Pool.Strides, sp.Pool.Padding),
	)
}
