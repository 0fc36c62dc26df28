package tensor

import "fmt"

// Padding selects how a sliding window treats the input border.
type Padding int

const (
	// PaddingSame zero-pads so that out = ceil(in / stride).
	PaddingSame Padding = iota
	// PaddingValid uses no padding: out = (in - kernel) / stride + 1.
	PaddingValid
)

// String returns the conventional upper-case name.
func (p Padding) String() string {
	switch p {
	case PaddingSame:
		return "SAME"
	case PaddingValid:
		return "VALID"
	default:
		return fmt.Sprintf("Padding(%d)", int(p))
	}
}

// ParsePadding resolves "same" or "valid" (any case).
func ParsePadding(s string) (Padding, error) {
	switch s {
	case "same", "SAME", "Same":
		return PaddingSame, nil
	case "valid", "VALID", "Valid":
		return PaddingValid, nil
	}
	return 0, fmt.Errorf("unknown padding %q (want same or valid)", s)
}

// WindowOutput returns the output extent of a sliding window along one axis
// and the zero padding inserted before the first input element.
//
// SAME follows the TensorFlow rule: the total padding is
// max((out-1)*stride + kernel - in, 0) and the smaller half goes first.
// A non-positive size means the window does not fit.
func WindowOutput(in, kernel, stride int, p Padding) (out, padBefore int) {
	switch p {
	case PaddingValid:
		if in < kernel {
			return 0, 0
		}
		return (in-kernel)/stride + 1, 0
	default:
		out = (in + stride - 1) / stride
		total := (out-1)*stride + kernel - in
		if total < 0 {
			total = 0
		}
		return out, total / 2
	}
}
