package resnet

import "errors"

// Errors reported while planning, building or running a network. Each is
// wrapped with context; test with errors.Is.
var (
	// ErrConfiguration reports non-positive filters or repetitions, an
	// unknown block or stem kind, or a broken channel-doubling schedule.
	ErrConfiguration = errors.New("invalid network configuration")

	// ErrShapeMismatch reports a shortcut whose shape cannot match the
	// main path of a bottleneck block.
	ErrShapeMismatch = errors.New("shortcut shape mismatch")

	// ErrInputShape reports an input that does not match the network's
	// input shape, such as an image smaller than the crop region.
	ErrInputShape = errors.New("input shape mismatch")

	// ErrChannelRange reports a feature map channel or batch index out of range.
	ErrChannelRange = errors.New("feature map index out of range")
)
