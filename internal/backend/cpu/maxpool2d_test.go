package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnet/internal/tensor"
)

// TestMaxPool2D_Valid tests a 2x2 VALID pool with stride 2.
func TestMaxPool2D_Valid(t *testing.T) {
	backend := New()

	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i + 1)
	}
	input := rawFrom(t, data, tensor.Shape{1, 4, 4, 1})

	output := backend.MaxPool2D(input, [2]int{2, 2}, [2]int{2, 2}, tensor.PaddingValid)

	require.Equal(t, tensor.Shape{1, 2, 2, 1}, output.Shape())
	assert.Equal(t, []float32{6, 8, 14, 16}, output.AsFloat32())
}

// TestMaxPool2D_SameIgnoresPadding tests that padding never wins the max.
func TestMaxPool2D_SameIgnoresPadding(t *testing.T) {
	backend := New()

	data := make([]float32, 16)
	for i := range data {
		data[i] = -float32(i + 1)
	}
	input := rawFrom(t, data, tensor.Shape{1, 4, 4, 1})

	output := backend.MaxPool2D(input, [2]int{3, 3}, [2]int{2, 2}, tensor.PaddingSame)

	require.Equal(t, tensor.Shape{1, 2, 2, 1}, output.Shape())
	// SAME: total pad = 1*2 + 3 - 4 = 1, pad_top = 0. Windows start at 0 and 2.
	assert.Equal(t, []float32{-1, -3, -9, -11}, output.AsFloat32())
}

// TestMaxPool2D_PerChannel tests that channels are pooled independently.
func TestMaxPool2D_PerChannel(t *testing.T) {
	backend := New()

	// Two pixels, two channels: (1, 9) and (5, 2).
	input := rawFrom(t, []float32{1, 9, 5, 2}, tensor.Shape{1, 1, 2, 2})

	output := backend.MaxPool2D(input, [2]int{1, 2}, [2]int{1, 2}, tensor.PaddingValid)

	require.Equal(t, tensor.Shape{1, 1, 1, 2}, output.Shape())
	assert.Equal(t, []float32{5, 9}, output.AsFloat32())
}

func TestMaxPool2D_InvalidInputs(t *testing.T) {
	backend := New()

	assert.Panics(t, func() {
		backend.MaxPool2D(tensor.MustRaw(tensor.Shape{4, 4}), [2]int{2, 2}, [2]int{2, 2}, tensor.PaddingValid)
	})
	assert.Panics(t, func() {
		backend.MaxPool2D(tensor.MustRaw(tensor.Shape{1, 2, 2, 1}), [2]int{3, 3}, [2]int{1, 1}, tensor.PaddingValid)
	})
	assert.Panics(t, func() {
		backend.MaxPool2D(tensor.MustRaw(tensor.Shape{1, 2, 2, 1}), [2]int{1, 1}, [2]int{0, 1}, tensor.PaddingValid)
	})
}
