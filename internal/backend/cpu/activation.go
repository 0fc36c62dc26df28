package cpu

import (
	"github.com/born-ml/resnet/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.MustRaw(x.Shape())
	reluInto(result.AsFloat32(), x.AsFloat32())
	return result
}

func reluInto(dst, src []float32) {
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		} else {
			dst[i] = 0
		}
	}
}
