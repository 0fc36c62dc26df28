package nn

import (
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// MaxPool2D is a 2D max pooling layer.
//
// Max pooling reduces spatial dimensions by taking the maximum value
// in each window. Unlike Conv2D, MaxPool2D has no learnable parameters.
//
// Input shape:  [batch, height, width, channels]
// Output shape: [batch, out_height, out_width, channels]
//
// Example:
//
//	// 3x3 overlapping pool with stride 2, as in the ImageNet stem
//	pool := nn.NewMaxPool2D[Backend]([2]int{3, 3}, [2]int{2, 2}, tensor.PaddingSame)
//	output := pool.Forward(input) // [1, 112, 112, 64] -> [1, 56, 56, 64]
type MaxPool2D[B tensor.Backend] struct {
	kernel  [2]int
	strides [2]int
	padding tensor.Padding
}

// NewMaxPool2D creates a new 2D max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernel, strides [2]int, padding tensor.Padding) *MaxPool2D[B] {
	if kernel[0] <= 0 || kernel[1] <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %v", kernel))
	}
	if strides[0] <= 0 || strides[1] <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid strides %v", strides))
	}
	return &MaxPool2D[B]{kernel: kernel, strides: strides, padding: padding}
}

// Forward applies max pooling.
func (m *MaxPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	backend := input.Backend()
	return tensor.New(backend.MaxPool2D(input.Raw(), m.kernel, m.strides, m.padding), backend)
}

// OutputShape returns the pooled shape.
func (m *MaxPool2D[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if err := input.Validate4D(); err != nil {
		return nil, fmt.Errorf("maxpool2d: %w", err)
	}
	h, _ := tensor.WindowOutput(input.Height(), m.kernel[0], m.strides[0], m.padding)
	w, _ := tensor.WindowOutput(input.Width(), m.kernel[1], m.strides[1], m.padding)
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("maxpool2d: kernel %v too large for input %v", m.kernel, input)
	}
	return tensor.Shape{input.Batch(), h, w, input.Channels()}, nil
}

// Parameters returns an empty slice (MaxPool2D has no trainable parameters).
func (m *MaxPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (m *MaxPool2D[B]) String() string {
	return fmt.Sprintf("MaxPool2D(kernel_size=(%d, %d), stride=(%d, %d), padding=%s)",
		m.kernel[0], m.kernel[1], m.strides[0], m.strides[1], m.padding)
}
