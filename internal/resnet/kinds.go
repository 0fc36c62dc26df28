package resnet

import (
	"fmt"
	"strings"

	"github.com/born-ml/resnet/internal/tensor"
)

// BlockKind enumerates the supported residual block designs.
type BlockKind int

const (
	// BlockBottleneck is the 1x1 -> 3x3 -> 1x1 pre-activation bottleneck.
	BlockBottleneck BlockKind = iota
)

// blockKinds is the static dispatch table for block kinds.
var blockKinds = [...]struct {
	name string
	plan func(in tensor.Shape, cfg BlockConfig) (BlockPlan, error)
}{
	BlockBottleneck: {name: "bottleneck", plan: planBottleneck},
}

func (k BlockKind) valid() bool {
	return k >= 0 && int(k) < len(blockKinds)
}

func (k BlockKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
	return blockKinds[k].name
}

// ParseBlockKind maps a configuration name to a BlockKind.
func ParseBlockKind(name string) (BlockKind, error) {
	for k := range blockKinds {
		if strings.EqualFold(name, blockKinds[k].name) {
			return BlockKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown block kind %q", ErrConfiguration, name)
}

// StemKind selects the layers applied before the first stage.
type StemKind int

const (
	// StemNone feeds the input directly into the first stage.
	StemNone StemKind = iota
	// StemStandard applies a 7x7/2 conv-bn-relu and a 3x3/2 max pool,
	// reducing the input by 4 before the first stage.
	StemStandard
)

var stemNames = [...]string{
	StemNone:     "none",
	StemStandard: "standard",
}

func (k StemKind) valid() bool {
	return k >= 0 && int(k) < len(stemNames)
}

func (k StemKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("StemKind(%d)", int(k))
	}
	return stemNames[k]
}

// ParseStemKind maps a configuration name to a StemKind. The empty string
// selects StemNone.
func ParseStemKind(name string) (StemKind, error) {
	if name == "" {
		return StemNone, nil
	}
	for k, n := range stemNames {
		if strings.EqualFold(name, n) {
			return StemKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown stem kind %q", ErrConfiguration, name)
}
