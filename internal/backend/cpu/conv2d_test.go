package cpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnet/internal/tensor"
)

func rawFrom(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.RawFromSlice(data, shape)
	require.NoError(t, err)
	return raw
}

// TestConv2D_BasicForward tests basic Conv2D forward pass.
func TestConv2D_BasicForward(t *testing.T) {
	backend := New()

	// Input: [1, 3, 3, 1] - single channel 3x3 image
	// 1 2 3
	// 4 5 6
	// 7 8 9
	input := rawFrom(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{1, 3, 3, 1})

	// Kernel: [2, 2, 1, 1] - identity-like kernel
	// 1 0
	// 0 1
	kernel := rawFrom(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2, 1, 1})

	output := backend.Conv2D(input, kernel, [2]int{1, 1}, tensor.PaddingValid)

	// out_h = (3 - 2) / 1 + 1 = 2
	expectedShape := tensor.Shape{1, 2, 2, 1}
	if !output.Shape().Equal(expectedShape) {
		t.Fatalf("Expected shape %v, got %v", expectedShape, output.Shape())
	}

	// Diagonal sums of each 2x2 patch.
	expected := []float32{6, 8, 12, 14}
	outputData := output.AsFloat32()
	for i, exp := range expected {
		if outputData[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, outputData[i])
		}
	}
}

// TestConv2D_SamePadding tests Conv2D with SAME zero padding.
func TestConv2D_SamePadding(t *testing.T) {
	backend := New()

	ones := make([]float32, 9)
	for i := range ones {
		ones[i] = 1
	}
	input := rawFrom(t, ones, tensor.Shape{1, 3, 3, 1})
	kernel := rawFrom(t, ones, tensor.Shape{3, 3, 1, 1})

	output := backend.Conv2D(input, kernel, [2]int{1, 1}, tensor.PaddingSame)

	require.Equal(t, tensor.Shape{1, 3, 3, 1}, output.Shape())
	// Count of in-bounds neighbours per position.
	assert.Equal(t, []float32{4, 6, 4, 6, 9, 6, 4, 6, 4}, output.AsFloat32())
}

// TestConv2D_StridedPointwise tests a 1x1 kernel with stride 2.
func TestConv2D_StridedPointwise(t *testing.T) {
	backend := New()

	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i)
	}
	input := rawFrom(t, data, tensor.Shape{1, 4, 4, 1})
	kernel := rawFrom(t, []float32{1}, tensor.Shape{1, 1, 1, 1})

	for _, padding := range []tensor.Padding{tensor.PaddingSame, tensor.PaddingValid} {
		output := backend.Conv2D(input, kernel, [2]int{2, 2}, padding)
		require.Equal(t, tensor.Shape{1, 2, 2, 1}, output.Shape(), "padding %v", padding)
		assert.Equal(t, []float32{0, 2, 8, 10}, output.AsFloat32(), "padding %v", padding)
	}
}

// TestConv2D_ChannelMixing tests that a 1x1 kernel mixes channels per pixel.
func TestConv2D_ChannelMixing(t *testing.T) {
	backend := New()

	// Two pixels with channels (1, 2) and (3, 4).
	input := rawFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	// HWIO [1, 1, 2, 3]: row per input channel.
	kernel := rawFrom(t, []float32{
		1, 0, 1,
		0, 1, 1,
	}, tensor.Shape{1, 1, 2, 3})

	output := backend.Conv2D(input, kernel, [2]int{1, 1}, tensor.PaddingSame)

	require.Equal(t, tensor.Shape{1, 1, 2, 3}, output.Shape())
	assert.Equal(t, []float32{1, 2, 3, 3, 4, 7}, output.AsFloat32())
}

// directConv2D is a straightforward reference convolution.
func directConv2D(input, kernel *tensor.RawTensor, strides [2]int, padding tensor.Padding) []float32 {
	in, k := input.Shape(), kernel.Shape()
	N, H, W, C := in[0], in[1], in[2], in[3]
	KH, KW, COut := k[0], k[1], k[3]
	HOut, padTop := tensor.WindowOutput(H, KH, strides[0], padding)
	WOut, padLeft := tensor.WindowOutput(W, KW, strides[1], padding)

	kd := kernel.AsFloat32()
	out := make([]float32, 0, N*HOut*WOut*COut)
	for n := 0; n < N; n++ {
		for oh := 0; oh < HOut; oh++ {
			for ow := 0; ow < WOut; ow++ {
				for co := 0; co < COut; co++ {
					var sum float32
					for kh := 0; kh < KH; kh++ {
						for kw := 0; kw < KW; kw++ {
							h := oh*strides[0] - padTop + kh
							w := ow*strides[1] - padLeft + kw
							if h < 0 || h >= H || w < 0 || w >= W {
								continue
							}
							for c := 0; c < C; c++ {
								sum += input.At(n, h, w, c) * kd[((kh*KW+kw)*C+c)*COut+co]
							}
						}
					}
					out = append(out, sum)
				}
			}
		}
	}
	return out
}

// TestConv2D_MatchesDirect compares the im2col/GEMM path with a direct loop.
func TestConv2D_MatchesDirect(t *testing.T) {
	backend := New()
	rng := rand.New(rand.NewSource(7))

	randRaw := func(shape tensor.Shape) *tensor.RawTensor {
		raw := tensor.MustRaw(shape)
		for i := range raw.AsFloat32() {
			raw.AsFloat32()[i] = float32(rng.NormFloat64())
		}
		return raw
	}

	tests := []struct {
		name    string
		input   tensor.Shape
		kernel  tensor.Shape
		strides [2]int
		padding tensor.Padding
	}{
		{"3x3 same", tensor.Shape{2, 7, 6, 3}, tensor.Shape{3, 3, 3, 4}, [2]int{1, 1}, tensor.PaddingSame},
		{"3x3 same stride 2", tensor.Shape{1, 7, 7, 2}, tensor.Shape{3, 3, 2, 5}, [2]int{2, 2}, tensor.PaddingSame},
		{"7x7 same stride 2", tensor.Shape{1, 9, 9, 3}, tensor.Shape{7, 7, 3, 2}, [2]int{2, 2}, tensor.PaddingSame},
		{"1x1 valid stride 2", tensor.Shape{1, 5, 5, 4}, tensor.Shape{1, 1, 4, 8}, [2]int{2, 2}, tensor.PaddingValid},
		{"1x1 same", tensor.Shape{2, 3, 3, 4}, tensor.Shape{1, 1, 4, 2}, [2]int{1, 1}, tensor.PaddingSame},
		{"2x3 valid mixed strides", tensor.Shape{1, 6, 8, 2}, tensor.Shape{2, 3, 2, 3}, [2]int{2, 1}, tensor.PaddingValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := randRaw(tt.input)
			kernel := randRaw(tt.kernel)

			got := backend.Conv2D(input, kernel, tt.strides, tt.padding).AsFloat32()
			want := directConv2D(input, kernel, tt.strides, tt.padding)

			require.Len(t, got, len(want))
			for i := range want {
				assert.InDelta(t, want[i], got[i], 1e-4, "element %d", i)
			}
		})
	}
}

// TestConv2D_OddSizeStride2 tests SAME output extents on odd inputs.
func TestConv2D_OddSizeStride2(t *testing.T) {
	backend := New()

	input := tensor.MustRaw(tensor.Shape{1, 7, 7, 1})
	kernel := tensor.MustRaw(tensor.Shape{3, 3, 1, 1})

	output := backend.Conv2D(input, kernel, [2]int{2, 2}, tensor.PaddingSame)
	assert.Equal(t, tensor.Shape{1, 4, 4, 1}, output.Shape())
}

// TestConv2D_InvalidInputs tests that malformed shapes panic.
func TestConv2D_InvalidInputs(t *testing.T) {
	backend := New()

	input := tensor.MustRaw(tensor.Shape{1, 4, 4, 3})
	wrongChannels := tensor.MustRaw(tensor.Shape{1, 1, 2, 8})
	assert.Panics(t, func() {
		backend.Conv2D(input, wrongChannels, [2]int{1, 1}, tensor.PaddingSame)
	})

	tooLarge := tensor.MustRaw(tensor.Shape{5, 5, 3, 1})
	assert.Panics(t, func() {
		backend.Conv2D(input, tooLarge, [2]int{1, 1}, tensor.PaddingValid)
	})

	assert.Panics(t, func() {
		backend.Conv2D(tensor.MustRaw(tensor.Shape{4, 4, 3}), wrongChannels, [2]int{1, 1}, tensor.PaddingSame)
	})
}
