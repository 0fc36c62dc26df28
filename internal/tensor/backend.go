package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// All image operations use the NHWC layout. Convolution kernels use the
// HWIO layout [kernel_h, kernel_w, in_channels, out_channels].
//
// Backends panic on malformed shapes: callers are expected to have checked
// shapes up front (see nn.Module.OutputShape).
//
// Implementations:
//   - CPU: Pure Go, GEMM via gonum BLAS
type Backend interface {
	// Element-wise operations
	Add(a, b *RawTensor) *RawTensor
	ReLU(x *RawTensor) *RawTensor

	// Normalization over the channel axis, statistics taken over
	// batch, height and width.
	BatchNorm(x, gamma, beta *RawTensor, eps float32) *RawTensor
	// BatchNormReLU fuses BatchNorm with a rectified-linear activation.
	BatchNormReLU(x, gamma, beta *RawTensor, eps float32) *RawTensor

	// Windowed operations
	Conv2D(input, kernel *RawTensor, strides [2]int, padding Padding) *RawTensor
	MaxPool2D(input *RawTensor, kernel, strides [2]int, padding Padding) *RawTensor

	// Metadata
	Name() string
}
