// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API of the residual feature
// extractor.
//
// # Overview
//
// Tensors are dense float32 arrays in NHWC layout:
//   - Generic backend-bound tensors (Tensor[B])
//   - Shape helpers for the batch, height, width and channel axes
//   - SAME/VALID window arithmetic shared by convolution and pooling
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/resnet/backend/cpu"
//	    "github.com/born-ml/resnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros(tensor.Shape{1, 224, 224, 3}, backend)
//	    y := x.ReLU().Add(x)
//	}
package tensor
