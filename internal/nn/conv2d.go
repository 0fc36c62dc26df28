package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/resnet/internal/tensor"
)

// Conv2D is a 2D convolutional layer without bias.
//
// Input shape:  [batch, height, width, in_channels]
// Weight shape: [kernel_h, kernel_w, in_channels, filters]
// Output shape: [batch, out_h, out_w, filters]
//
// Output extents follow the config's padding (see tensor.WindowOutput).
//
// Example:
//
//	// 1x1 projection: 64 -> 256 channels, stride 2
//	cfg := nn.NewLayerConfig(256, [2]int{1, 1}, [2]int{2, 2}).WithPadding(tensor.PaddingValid)
//	conv := nn.NewConv2D(cfg, 64, rng, backend)
//	output := conv.Forward(input) // [1, 56, 56, 64] -> [1, 28, 28, 256]
type Conv2D[B tensor.Backend] struct {
	cfg        LayerConfig
	inChannels int

	weight *Parameter[B] // [kernel_h, kernel_w, in_channels, filters]

	backend B
}

// NewConv2D creates a new 2D convolutional layer initialized by cfg.Init.
//
// Parameters:
//   - cfg: Filters, kernel, strides, padding, initializer, weight decay
//   - inChannels: Number of input channels
//   - rng: Source of randomness for the initializer
//   - backend: Backend for computation
//
// Panics on an invalid config; callers validate configs up front.
func NewConv2D[B tensor.Backend](cfg LayerConfig, inChannels int, rng *rand.Rand, backend B) *Conv2D[B] {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("conv2d: %v", err))
	}
	if inChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid input channels %d", inChannels))
	}

	kh, kw := cfg.KernelSize[0], cfg.KernelSize[1]
	weightShape := tensor.Shape{kh, kw, inChannels, cfg.Filters}

	// For Conv2D:
	//   fan_in = kernel_h * kernel_w * in_channels
	//   fan_out = kernel_h * kernel_w * filters
	weight := tensor.Zeros(weightShape, backend)
	cfg.Init.Fill(weight.Data(), kh*kw*inChannels, kh*kw*cfg.Filters, rng)

	return &Conv2D[B]{
		cfg:        cfg,
		inChannels: inChannels,
		weight:     NewParameter("conv2d.weight", weight),
		backend:    backend,
	}
}

// Forward performs the forward pass.
//
// Input: [batch, height, width, in_channels]
// Output: [batch, out_h, out_w, filters].
func (c *Conv2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [N,H,W,C], got %dD", len(inputShape)))
	}
	if inputShape.Channels() != c.inChannels {
		panic(fmt.Sprintf("conv2d: input channels %d != expected %d", inputShape.Channels(), c.inChannels))
	}

	outputRaw := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.cfg.Strides, c.cfg.Padding)
	return tensor.New(outputRaw, c.backend)
}

// OutputShape returns the output shape for an NHWC input shape.
func (c *Conv2D[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if err := input.Validate4D(); err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}
	if input.Channels() != c.inChannels {
		return nil, fmt.Errorf("conv2d: input channels %d != expected %d", input.Channels(), c.inChannels)
	}
	out, err := c.cfg.OutputShape(input)
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}
	return out, nil
}

// Parameters returns the weight parameter.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.weight}
}

// Weight returns the weight parameter.
func (c *Conv2D[B]) Weight() *Parameter[B] {
	return c.weight
}

// Config returns the layer config.
func (c *Conv2D[B]) Config() LayerConfig {
	return c.cfg
}

// InChannels returns the number of input channels.
func (c *Conv2D[B]) InChannels() int {
	return c.inChannels
}

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int {
	return c.cfg.Filters
}

// Penalty returns the L2 regularization term WeightDecay * sum(w^2).
func (c *Conv2D[B]) Penalty() float64 {
	var sum float64
	for _, w := range c.weight.Tensor().Data() {
		sum += float64(w) * float64(w)
	}
	return c.cfg.WeightDecay * sum
}

// String returns a string representation of the layer.
func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2D(in_channels=%d, %s)", c.inChannels, c.cfg)
}
