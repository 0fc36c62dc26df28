package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// DefaultWeightDecay is the L2 penalty coefficient used by every
// convolution in the network.
const DefaultWeightDecay = 1e-4

// LayerConfig is the plain-data description of one convolution.
type LayerConfig struct {
	Filters     int             // number of output channels
	KernelSize  [2]int          // (height, width)
	Strides     [2]int          // (height, width), each >= 1
	Padding     tensor.Padding  // SAME or VALID
	Init        VarianceScaling // weight initializer, parameterized by fan-in
	WeightDecay float64         // L2 penalty coefficient, >= 0
}

// NewLayerConfig returns a config with SAME padding, He normal init and
// the default weight decay.
func NewLayerConfig(filters int, kernel, strides [2]int) LayerConfig {
	return LayerConfig{
		Filters:     filters,
		KernelSize:  kernel,
		Strides:     strides,
		Padding:     tensor.PaddingSame,
		Init:        HeNormal(),
		WeightDecay: DefaultWeightDecay,
	}
}

// WithPadding returns a copy of the config using padding p.
func (c LayerConfig) WithPadding(p tensor.Padding) LayerConfig {
	c.Padding = p
	return c
}

// Validate checks every field of the config.
func (c LayerConfig) Validate() error {
	var errs []error
	if c.Filters <= 0 {
		errs = append(errs, fmt.Errorf("filters must be positive, got %d", c.Filters))
	}
	if c.KernelSize[0] <= 0 || c.KernelSize[1] <= 0 {
		errs = append(errs, fmt.Errorf("kernel size must be positive, got %v", c.KernelSize))
	}
	if c.Strides[0] < 1 || c.Strides[1] < 1 {
		errs = append(errs, fmt.Errorf("strides must be >= 1, got %v", c.Strides))
	}
	if c.Padding != tensor.PaddingSame && c.Padding != tensor.PaddingValid {
		errs = append(errs, fmt.Errorf("unknown padding %v", c.Padding))
	}
	if !(c.WeightDecay >= 0) {
		errs = append(errs, fmt.Errorf("weight decay must be non-negative, got %v", c.WeightDecay))
	}
	if err := c.Init.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// OutputShape applies the config's window arithmetic to an NHWC shape.
func (c LayerConfig) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if err := input.Validate4D(); err != nil {
		return nil, err
	}
	h, _ := tensor.WindowOutput(input.Height(), c.KernelSize[0], c.Strides[0], c.Padding)
	w, _ := tensor.WindowOutput(input.Width(), c.KernelSize[1], c.Strides[1], c.Padding)
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("kernel %v with %v padding does not fit input %v", c.KernelSize, c.Padding, input)
	}
	return tensor.Shape{input.Batch(), h, w, c.Filters}, nil
}

// String formats the config like "3x3/1 SAME, 64 filters".
func (c LayerConfig) String() string {
	stride := fmt.Sprint(c.Strides[0])
	if c.Strides[0] != c.Strides[1] {
		stride = fmt.Sprintf("(%d,%d)", c.Strides[0], c.Strides[1])
	}
	return fmt.Sprintf("%dx%d/%s %s, %d filters", c.KernelSize[0], c.KernelSize[1], stride, c.Padding, c.Filters)
}
