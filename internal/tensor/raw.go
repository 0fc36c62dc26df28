package tensor

import (
	"fmt"
	"slices"
)

// RawTensor is the low-level tensor representation: a dense row-major
// float32 buffer plus its shape.
//
// RawTensors produced by backends are never written again after the
// operation that created them returns, so they can be shared freely
// between readers.
type RawTensor struct {
	data   []float32
	shape  Shape
	stride []int
}

// NewRaw creates a new zero-filled RawTensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}

// MustRaw is NewRaw for shapes already known to be valid.
// Panics on an invalid shape.
func MustRaw(shape Shape) *RawTensor {
	r, err := NewRaw(shape)
	if err != nil {
		panic(err)
	}
	return r
}

// RawFromSlice wraps a copy of data in a RawTensor.
func RawFromSlice(data []float32, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	r, err := NewRaw(shape)
	if err != nil {
		return nil, err
	}
	copy(r.data, data)
	return r, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return len(r.data)
}

// AsFloat32 returns the underlying buffer.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) AsFloat32() []float32 {
	return r.data
}

// At returns the element at the given NHWC coordinates.
func (r *RawTensor) At(n, h, w, c int) float32 {
	return r.data[n*r.stride[0]+h*r.stride[1]+w*r.stride[2]+c*r.stride[3]]
}

// Clone returns a deep copy of the RawTensor.
func (r *RawTensor) Clone() *RawTensor {
	return &RawTensor{
		data:   slices.Clone(r.data),
		shape:  r.shape.Clone(),
		stride: slices.Clone(r.stride),
	}
}

// Reshape returns a RawTensor sharing the same buffer under a new shape.
func (r *RawTensor) Reshape(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}
	if shape.NumElements() != len(r.data) {
		return nil, fmt.Errorf("reshape: cannot view %d elements as %v", len(r.data), shape)
	}
	return &RawTensor{
		data:   r.data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}
