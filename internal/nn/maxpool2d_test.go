package nn

import (
	"testing"

	"github.com/born-ml/resnet/internal/backend/cpu"
	"github.com/born-ml/resnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMaxPool2D_Forward tests the pooling window arithmetic.
func TestMaxPool2D_Forward(t *testing.T) {
	backend := cpu.New()
	pool := NewMaxPool2D[*cpu.CPUBackend]([2]int{2, 2}, [2]int{2, 2}, tensor.PaddingValid)

	input, err := tensor.FromSlice([]float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, tensor.Shape{1, 4, 4, 1}, backend)
	require.NoError(t, err)

	out := pool.Forward(input)
	assert.Equal(t, tensor.Shape{1, 2, 2, 1}, out.Shape())
	assert.Equal(t, []float32{6, 8, 14, 16}, out.Data())
}

// TestMaxPool2D_SameNegative checks that SAME padding never wins the maximum.
func TestMaxPool2D_SameNegative(t *testing.T) {
	backend := cpu.New()
	pool := NewMaxPool2D[*cpu.CPUBackend]([2]int{3, 3}, [2]int{2, 2}, tensor.PaddingSame)

	input := tensor.Full(tensor.Shape{1, 5, 5, 2}, -3, backend)
	out := pool.Forward(input)

	assert.Equal(t, tensor.Shape{1, 3, 3, 2}, out.Shape())
	for i, v := range out.Data() {
		if v != -3 {
			t.Fatalf("out[%d] = %v, want -3", i, v)
		}
	}
}

func TestMaxPool2D_OutputShape(t *testing.T) {
	pool := NewMaxPool2D[*cpu.CPUBackend]([2]int{3, 3}, [2]int{2, 2}, tensor.PaddingSame)

	got, err := pool.OutputShape(tensor.Shape{1, 112, 112, 64})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 56, 56, 64}, got)

	valid := NewMaxPool2D[*cpu.CPUBackend]([2]int{3, 3}, [2]int{1, 1}, tensor.PaddingValid)
	_, err = valid.OutputShape(tensor.Shape{1, 2, 2, 1})
	assert.Error(t, err)

	assert.Empty(t, pool.Parameters())
	assert.Equal(t, "MaxPool2D(kernel_size=(3, 3), stride=(2, 2), padding=SAME)", pool.String())
}

func TestMaxPool2D_InvalidArgs(t *testing.T) {
	assert.Panics(t, func() {
		NewMaxPool2D[*cpu.CPUBackend]([2]int{0, 3}, [2]int{1, 1}, tensor.PaddingSame)
	})
	assert.Panics(t, func() {
		NewMaxPool2D[*cpu.CPUBackend]([2]int{3, 3}, [2]int{1, 0}, tensor.PaddingSame)
	})
}
