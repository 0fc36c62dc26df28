package resnet

import (
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// FeatureMap is the output of a network's last stage.
type FeatureMap[B tensor.Backend] struct {
	t *tensor.Tensor[B]
}

// Shape returns the map's NHWC shape.
func (f *FeatureMap[B]) Shape() tensor.Shape {
	return f.t.Shape().Clone()
}

// Tensor returns the underlying tensor. Callers must not modify it.
func (f *FeatureMap[B]) Tensor() *tensor.Tensor[B] {
	return f.t
}

// At returns one element.
func (f *FeatureMap[B]) At(n, h, w, c int) float32 {
	return f.t.Raw().At(n, h, w, c)
}

// Channel copies channel c of image n into a [height][width] array.
func (f *FeatureMap[B]) Channel(n, c int) ([][]float32, error) {
	shape := f.t.Shape()
	if n < 0 || n >= shape.Batch() {
		return nil, fmt.Errorf("%w: batch index %d, batch size %d", ErrChannelRange, n, shape.Batch())
	}
	if c < 0 || c >= shape.Channels() {
		return nil, fmt.Errorf("%w: channel %d, %d channels", ErrChannelRange, c, shape.Channels())
	}

	raw := f.t.Raw()
	out := make([][]float32, shape.Height())
	for h := range out {
		row := make([]float32, shape.Width())
		for w := range row {
			row[w] = raw.At(n, h, w, c)
		}
		out[h] = row
	}
	return out, nil
}
