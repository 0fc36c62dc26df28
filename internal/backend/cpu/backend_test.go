package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/resnet/internal/tensor"
)

func TestCPUBackendName(t *testing.T) {
	backend := New()
	if backend.Name() != "CPU" {
		t.Errorf("Name() = %s, want CPU", backend.Name())
	}
}

func TestAdd(t *testing.T) {
	backend := New()

	a := rawFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	b := rawFrom(t, []float32{10, 20, 30, 40}, tensor.Shape{1, 2, 2, 1})

	result := backend.Add(a, b)

	expected := []float32{11, 22, 33, 44}
	data := result.AsFloat32()
	for i, exp := range expected {
		if data[i] != exp {
			t.Errorf("Add[%d] = %f, want %f", i, data[i], exp)
		}
	}

	// Inputs are left untouched.
	assert.Equal(t, []float32{1, 2, 3, 4}, a.AsFloat32())
}

func TestAddShapeMismatchPanics(t *testing.T) {
	backend := New()

	a := tensor.MustRaw(tensor.Shape{1, 2, 2, 4})
	b := tensor.MustRaw(tensor.Shape{1, 2, 2, 8})
	assert.Panics(t, func() { backend.Add(a, b) })
}

func TestReLU(t *testing.T) {
	backend := New()

	x := rawFrom(t, []float32{-2, -0.5, 0, 0.5, 3}, tensor.Shape{5})
	result := backend.ReLU(x)

	assert.Equal(t, []float32{0, 0, 0, 0.5, 3}, result.AsFloat32())
	assert.Equal(t, float32(-2), x.AsFloat32()[0], "ReLU must not modify its input")
}

func TestTensorOpsDispatchToBackend(t *testing.T) {
	backend := New()

	x, err := tensor.FromSlice([]float32{-1, 2}, tensor.Shape{1, 1, 2, 1}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	y := x.ReLU().Add(x)
	assert.Equal(t, []float32{-1, 4}, y.Data())
	assert.Same(t, backend, y.Backend())
}
