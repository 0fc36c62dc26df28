// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers the feature extractor is
// built from.
package nn

import (
	"math/rand"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a named weight tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// LayerConfig describes one convolution.
type LayerConfig = nn.LayerConfig

// NewLayerConfig returns a SAME-padded, He-initialized config.
//
// Example:
//
//	cfg := nn.NewLayerConfig(64, [2]int{3, 3}, [2]int{1, 1})
func NewLayerConfig(filters int, kernel, strides [2]int) LayerConfig {
	return nn.NewLayerConfig(filters, kernel, strides)
}

// VarianceScaling is a fan-scaled weight initializer.
type VarianceScaling = nn.VarianceScaling

// HeNormal returns the scale-2, fan-in, truncated normal initializer.
func HeNormal() VarianceScaling {
	return nn.HeNormal()
}

// Layers

// Conv2D represents a 2D convolutional layer without bias.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer.
func NewConv2D[B tensor.Backend](cfg LayerConfig, inChannels int, rng *rand.Rand, backend B) *Conv2D[B] {
	return nn.NewConv2D(cfg, inChannels, rng, backend)
}

// BatchNorm normalizes over the channel axis with batch statistics.
type BatchNorm[B tensor.Backend] = nn.BatchNorm[B]

// NewBatchNorm creates a BatchNorm layer with gamma=1 and beta=0.
func NewBatchNorm[B tensor.Backend](channels int, epsilon float32, backend B) *BatchNorm[B] {
	return nn.NewBatchNorm(channels, epsilon, backend)
}

// MaxPool2D represents a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a new 2D max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernel, strides [2]int, padding tensor.Padding) *MaxPool2D[B] {
	return nn.NewMaxPool2D[B](kernel, strides, padding)
}

// ReLU is the rectified linear activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Composite layers

// Composite is a convolution fused with BatchNorm+ReLU.
type Composite[B tensor.Backend] = nn.Composite[B]

// NewConvNormAct creates a convolve -> normalize -> ReLU layer.
func NewConvNormAct[B tensor.Backend](cfg LayerConfig, inChannels int, rng *rand.Rand, backend B) *Composite[B] {
	return nn.NewConvNormAct(cfg, inChannels, rng, backend)
}

// NewNormActConv creates a pre-activation normalize -> ReLU -> convolve layer.
func NewNormActConv[B tensor.Backend](cfg LayerConfig, inChannels int, rng *rand.Rand, backend B) *Composite[B] {
	return nn.NewNormActConv(cfg, inChannels, rng, backend)
}

// Sequential chains modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}
