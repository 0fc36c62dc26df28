package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/resnet/internal/tensor"
)

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape:  [batch, height, width, in_channels]
// Kernel shape: [kernel_h, kernel_w, in_channels, out_channels]
// Output shape: [batch, out_h, out_w, out_channels]
//
// Output extents follow tensor.WindowOutput for the requested padding.
//
// Algorithm: Im2col
//  1. Transform input patches into rows (im2col):
//     [N, H, W, C] -> [N * H_out * W_out, K_h * K_w * C]
//  2. View kernel as a matrix: [K_h * K_w * C, C_out]
//  3. SGEMM via gonum BLAS: rows @ kernel -> [N * H_out * W_out, C_out]
//
// Because both the patch rows and the result are channel-last, the GEMM
// output already is the NHWC output tensor and no rearrangement is needed.
// 1x1 kernels with unit stride skip step 1 entirely: the input itself is
// the patch matrix.
//
// Reference: "High Performance Convolutional Neural Networks for Document Processing"
// (Chellapilla et al., 2006).
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, strides [2]int, padding tensor.Padding) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,H,W,C], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [K_h,K_w,C_in,C_out], got %dD", len(kernelShape)))
	}
	if strides[0] <= 0 || strides[1] <= 0 {
		panic(fmt.Sprintf("conv2d: invalid strides %v", strides))
	}

	N, H, W, CIn := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	KH, KW, CInK, COut := kernelShape[0], kernelShape[1], kernelShape[2], kernelShape[3]

	if CIn != CInK {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", CIn, CInK))
	}

	HOut, padTop := tensor.WindowOutput(H, KH, strides[0], padding)
	WOut, padLeft := tensor.WindowOutput(W, KW, strides[1], padding)
	if HOut <= 0 || WOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check kernel/stride/padding)", HOut, WOut))
	}

	output := tensor.MustRaw(tensor.Shape{N, HOut, WOut, COut})

	g := convGeometry{
		n: N, h: H, w: W, c: CIn,
		kh: KH, kw: KW,
		hOut: HOut, wOut: WOut,
		strideH: strides[0], strideW: strides[1],
		padTop: padTop, padLeft: padLeft,
	}

	var cols []float32
	if KH == 1 && KW == 1 && strides == [2]int{1, 1} {
		cols = input.AsFloat32()
	} else {
		cols = make([]float32, N*HOut*WOut*KH*KW*CIn)
		im2col(cols, input.AsFloat32(), g)
	}

	rows := N * HOut * WOut
	depth := KH * KW * CIn
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: rows, Cols: depth, Stride: depth, Data: cols},
		blas32.General{Rows: depth, Cols: COut, Stride: COut, Data: kernel.AsFloat32()},
		0,
		blas32.General{Rows: rows, Cols: COut, Stride: COut, Data: output.AsFloat32()},
	)

	return output
}

// convGeometry bundles the sizes shared by im2col and max pooling.
type convGeometry struct {
	n, h, w, c       int
	kh, kw           int
	hOut, wOut       int
	strideH, strideW int
	padTop, padLeft  int
}

// im2col transforms an NHWC input into the patch matrix.
//
// Output: colBuf [N * H_out * W_out, K_h * K_w * C]
//
// Each row of colBuf corresponds to one output position; within a row the
// layout is [kh][kw][c], matching the HWIO kernel. Positions that fall into
// the padding are left as zero.
func im2col(colBuf, inputData []float32, g convGeometry) {
	depth := g.kh * g.kw * g.c
	row := 0

	for n := 0; n < g.n; n++ {
		base := n * g.h * g.w * g.c
		for outH := 0; outH < g.hOut; outH++ {
			hStart := outH*g.strideH - g.padTop
			for outW := 0; outW < g.wOut; outW++ {
				wStart := outW*g.strideW - g.padLeft
				dst := colBuf[row*depth : (row+1)*depth]

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
						src := base + (h*g.w+w)*g.c
						off := (kh*g.kw + kw) * g.c
						copy(dst[off:off+g.c], inputData[src:src+g.c])
					}
				}
				row++
			}
		}
	}
}
