// Package tensor provides the core tensor types for the residual feature
// extractor: NHWC shapes, dense float32 raw tensors, a backend-bound generic
// Tensor and the Backend interface implemented by compute backends.
package tensor
