package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/resnet/internal/tensor"
)

// BatchNorm normalizes an NHWC tensor per channel.
//
// Formula: y = gamma * (x - mean) / sqrt(var + eps) + beta
//
// mean and var are the biased per-channel statistics over the batch,
// height and width axes of x.
func (cpu *CPUBackend) BatchNorm(x, gamma, beta *tensor.RawTensor, eps float32) *tensor.RawTensor {
	return batchNorm("batchnorm", x, gamma, beta, eps, false)
}

// BatchNormReLU is BatchNorm followed by ReLU in a single pass over the data.
func (cpu *CPUBackend) BatchNormReLU(x, gamma, beta *tensor.RawTensor, eps float32) *tensor.RawTensor {
	return batchNorm("batchnorm_relu", x, gamma, beta, eps, true)
}

func batchNorm(op string, x, gamma, beta *tensor.RawTensor, eps float32, relu bool) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: expected 4D input [N,H,W,C], got %dD", op, len(shape)))
	}
	C := shape.Channels()
	if gamma.NumElements() != C || beta.NumElements() != C {
		panic(fmt.Sprintf("%s: gamma/beta size %d/%d != channels %d", op, gamma.NumElements(), beta.NumElements(), C))
	}

	src := x.AsFloat32()
	rows := len(src) / C // N * H * W

	// Per-channel statistics, accumulated in float64.
	mean := make([]float64, C)
	for i := 0; i < rows; i++ {
		row := src[i*C : (i+1)*C]
		for c, v := range row {
			mean[c] += float64(v)
		}
	}
	for c := range mean {
		mean[c] /= float64(rows)
	}

	variance := make([]float64, C)
	for i := 0; i < rows; i++ {
		row := src[i*C : (i+1)*C]
		for c, v := range row {
			d := float64(v) - mean[c]
			variance[c] += d * d
		}
	}

	// Fold normalization and affine transform into y = (x-mean)*scale + beta.
	// Centering first keeps constant channels at exactly beta.
	g, b := gamma.AsFloat32(), beta.AsFloat32()
	center := make([]float32, C)
	scale := make([]float32, C)
	for c := range scale {
		center[c] = float32(mean[c])
		scale[c] = float32(float64(g[c]) / math.Sqrt(variance[c]/float64(rows)+float64(eps)))
	}

	result := tensor.MustRaw(shape)
	dst := result.AsFloat32()
	for i := 0; i < rows; i++ {
		off := i * C
		for c := 0; c < C; c++ {
			y := (src[off+c]-center[c])*scale[c] + b[c]
			if relu && y < 0 {
				y = 0
			}
			dst[off+c] = y
		}
	}
	return result
}
