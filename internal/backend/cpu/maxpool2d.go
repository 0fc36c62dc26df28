package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/resnet/internal/tensor"
)

// MaxPool2D performs 2D max pooling over an NHWC tensor.
//
// Max pooling reduces spatial dimensions by taking the maximum value
// in each pooling window. Unlike Conv2D, MaxPool2D has no learnable parameters.
//
// Input shape:  [batch, height, width, channels]
// Output shape: [batch, out_height, out_width, channels]
//
// Output extents follow tensor.WindowOutput. With SAME padding, positions
// in the padding never win the maximum.
//
// Example (2x2 pool, stride=2, VALID):
//
//	Input: [[1,2,3,4],    Output: [[6,8],
//	        [5,6,7,8],             [14,16]]
//	        [9,10,11,12],
//	        [13,14,15,16]]
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernel, strides [2]int, padding tensor.Padding) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("maxpool2d: expected 4D input [N,H,W,C], got %dD", len(inputShape)))
	}
	if kernel[0] <= 0 || kernel[1] <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %v", kernel))
	}
	if strides[0] <= 0 || strides[1] <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid strides %v", strides))
	}

	N, H, W, C := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	HOut, padTop := tensor.WindowOutput(H, kernel[0], strides[0], padding)
	WOut, padLeft := tensor.WindowOutput(W, kernel[1], strides[1], padding)
	if HOut <= 0 || WOut <= 0 {
		panic(fmt.Sprintf("maxpool2d: kernel size %v too large for input %dx%d", kernel, H, W))
	}

	output := tensor.MustRaw(tensor.Shape{N, HOut, WOut, C})
	g := convGeometry{
		n: N, h: H, w: W, c: C,
		kh: kernel[0], kw: kernel[1],
		hOut: HOut, wOut: WOut,
		strideH: strides[0], strideW: strides[1],
		padTop: padTop, padLeft: padLeft,
	}
	maxPoolInto(output.AsFloat32(), input.AsFloat32(), g)

	return output
}

func maxPoolInto(dst, src []float32, g convGeometry) {
	best := make([]float32, g.c)
	idx := 0

	for n := 0; n < g.n; n++ {
		base := n * g.h * g.w * g.c
		for outH := 0; outH < g.hOut; outH++ {
			hStart := outH*g.strideH - g.padTop
			for outW := 0; outW < g.wOut; outW++ {
				wStart := outW*g.strideW - g.padLeft

				for c := range best {
					best[c] = float32(math.Inf(-1))
				}
				for kh := 0; kh < g.kh; kh++ {
					h := hStart + kh
					if h < 0 || h >= g.h {
						continue
					}
					for kw := 0; kw < g.kw; kw++ {
						w := wStart + kw
						if w < 0 || w >= g.w {
							continue
						}
						pix := src[base+(h*g.w+w)*g.c : base+(h*g.w+w+1)*g.c]
						for c, v := range pix {
							if v > best[c] {
								best[c] = v
							}
						}
					}
				}

				copy(dst[idx:idx+g.c], best)
				idx += g.c
			}
		}
	}
}
