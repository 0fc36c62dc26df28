package tensor

// Tensor is a float32 tensor bound to a computation backend B.
//
// It provides a fluent API over RawTensor: every operation is dispatched to
// the backend and returns a new Tensor, leaving the receiver untouched.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{1, 8, 8, 3}, backend)
//	y := x.ReLU().Add(x)
type Tensor[B Backend] struct {
	raw     *RawTensor
	backend B
}

// New creates a Tensor from a RawTensor and backend.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return &Tensor[B]{
		raw:     raw,
		backend: b,
	}
}

// Shape returns the tensor's shape.
func (t *Tensor[B]) Shape() Shape {
	return t.raw.Shape()
}

// NumElements returns the total number of elements.
func (t *Tensor[B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
// Used by backend implementations for low-level operations.
func (t *Tensor[B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[B]) Backend() B {
	return t.backend
}

// Data returns the underlying float32 buffer.
func (t *Tensor[B]) Data() []float32 {
	return t.raw.AsFloat32()
}

// Clone returns a deep copy bound to the same backend.
func (t *Tensor[B]) Clone() *Tensor[B] {
	return New(t.raw.Clone(), t.backend)
}

// Add performs element-wise addition. Shapes must be identical.
func (t *Tensor[B]) Add(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Add(t.raw, other.raw), t.backend)
}

// ReLU clips negative values to zero.
func (t *Tensor[B]) ReLU() *Tensor[B] {
	return New(t.backend.ReLU(t.raw), t.backend)
}

// Reshape views the tensor under a new shape with the same element count.
func (t *Tensor[B]) Reshape(dims ...int) (*Tensor[B], error) {
	raw, err := t.raw.Reshape(Shape(dims))
	if err != nil {
		return nil, err
	}
	return New(raw, t.backend), nil
}
