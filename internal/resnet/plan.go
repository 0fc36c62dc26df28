package resnet

import (
	"fmt"
	"math"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// BlockPlan is the shape-level realization of one residual block: every
// sublayer config plus the shortcut decision. Planning allocates no weights.
type BlockPlan struct {
	Kind   BlockKind
	Config BlockConfig
	Input  tensor.Shape
	Output tensor.Shape

	Reduce  nn.LayerConfig // 1x1 with the block stride; a plain conv on the entry block
	Spatial nn.LayerConfig // 3x3, stride 1
	Expand  nn.LayerConfig // 1x1, Expansion*filters

	// Projection is the 1x1 VALID shortcut conv, or nil for an identity
	// shortcut.
	Projection *nn.LayerConfig
}

// Identity reports whether the shortcut passes the input through unchanged.
func (p BlockPlan) Identity() bool {
	return p.Projection == nil
}

// StagePlan is the realization of one stage.
type StagePlan struct {
	Config StageConfig
	Input  tensor.Shape
	Output tensor.Shape
	Blocks []BlockPlan
}

// StemPlan describes the layers ahead of the first stage. Conv and Pool
// are nil for StemNone.
type StemPlan struct {
	Kind   StemKind
	Input  tensor.Shape
	Output tensor.Shape
	Conv   *nn.LayerConfig
	Pool   *PoolConfig
}

// PoolConfig describes a max pooling window.
type PoolConfig struct {
	Kernel  [2]int
	Strides [2]int
	Padding tensor.Padding
}

// Plan is the complete shape-level realization of a NetworkSpec.
type Plan struct {
	Spec   NetworkSpec
	Input  tensor.Shape
	Stem   StemPlan
	Stages []StagePlan
	Output tensor.Shape
}

// NumBlocks returns the total number of residual blocks.
func (p *Plan) NumBlocks() int {
	n := 0
	for _, st := range p.Stages {
		n += len(st.Blocks)
	}
	return n
}

// PlanNetwork validates spec and derives every layer shape for a
// single-image batch. Nothing is allocated beyond the plan itself, so
// configuration and shape errors surface before any convolution runs.
func PlanNetwork(spec NetworkSpec) (*Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	spec = spec.Clone()

	input := spec.Input.NHWC(1)
	stem, err := planStem(input, spec.Stem)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Spec:   spec,
		Input:  input,
		Stem:   stem,
		Stages: make([]StagePlan, len(spec.Stages)),
	}

	shape := stem.Output
	for i, cfg := range spec.Stages {
		st, err := planStage(shape, cfg, spec.Block)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		plan.Stages[i] = st
		shape = st.Output
	}
	plan.Output = shape
	return plan, nil
}

func planStage(in tensor.Shape, cfg StageConfig, kind BlockKind) (StagePlan, error) {
	if err := cfg.Validate(); err != nil {
		return StagePlan{}, err
	}
	if !kind.valid() {
		return StagePlan{}, fmt.Errorf("%w: unknown block kind %v", ErrConfiguration, kind)
	}

	st := StagePlan{
		Config: cfg,
		Input:  in.Clone(),
		Blocks: make([]BlockPlan, cfg.Repetitions),
	}
	shape := in
	for i := range cfg.Repetitions {
		bp, err := blockKinds[kind].plan(shape, cfg.block(i))
		if err != nil {
			return StagePlan{}, fmt.Errorf("block %d: %w", i, err)
		}
		st.Blocks[i] = bp
		shape = bp.Output
	}
	st.Output = shape.Clone()
	return st, nil
}

// planBottleneck derives the sublayers of a bottleneck block and decides
// its shortcut.
//
// The projection stride is the rounded ratio between the input and the
// main-path output extents. It must equal the block's nominal stride:
// inputs that shrink to a single row or column before a downsampling
// stage diverge and are rejected with ErrShapeMismatch.
func planBottleneck(in tensor.Shape, cfg BlockConfig) (BlockPlan, error) {
	if err := cfg.Validate(); err != nil {
		return BlockPlan{}, err
	}
	if err := in.Validate4D(); err != nil {
		return BlockPlan{}, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}

	bp := BlockPlan{
		Kind:    BlockBottleneck,
		Config:  cfg,
		Input:   in.Clone(),
		Reduce:  nn.NewLayerConfig(cfg.Filters, [2]int{1, 1}, cfg.Strides),
		Spatial: nn.NewLayerConfig(cfg.Filters, [2]int{3, 3}, [2]int{1, 1}),
		Expand:  nn.NewLayerConfig(cfg.OutChannels(), [2]int{1, 1}, [2]int{1, 1}),
	}

	shape := in
	for _, layer := range []nn.LayerConfig{bp.Reduce, bp.Spatial, bp.Expand} {
		next, err := layer.OutputShape(shape)
		if err != nil {
			return BlockPlan{}, fmt.Errorf("%w: %v: %w", ErrShapeMismatch, layer, err)
		}
		shape = next
	}
	bp.Output = shape

	if in.Channels() == bp.Output.Channels() {
		if !in.Equal(bp.Output) {
			return BlockPlan{}, fmt.Errorf("%w: identity shortcut %v vs main path %v", ErrShapeMismatch, in, bp.Output)
		}
		return bp, nil
	}

	strides := [2]int{
		roundRatio(in.Height(), bp.Output.Height()),
		roundRatio(in.Width(), bp.Output.Width()),
	}
	if strides != cfg.Strides {
		return BlockPlan{}, fmt.Errorf("%w: projection stride %v diverges from block stride %v (input %v, main path %v)",
			ErrShapeMismatch, strides, cfg.Strides, in, bp.Output)
	}

	proj := nn.NewLayerConfig(cfg.OutChannels(), [2]int{1, 1}, strides).WithPadding(tensor.PaddingValid)
	projOut, err := proj.OutputShape(in)
	if err != nil {
		return BlockPlan{}, fmt.Errorf("%w: projection: %w", ErrShapeMismatch, err)
	}
	if !projOut.Equal(bp.Output) {
		return BlockPlan{}, fmt.Errorf("%w: projection %v vs main path %v", ErrShapeMismatch, projOut, bp.Output)
	}
	bp.Projection = &proj
	return bp, nil
}

func roundRatio(in, out int) int {
	return int(math.Round(float64(in) / float64(out)))
}

// standardStem returns the conv and pool of the ImageNet stem.
func standardStem() (nn.LayerConfig, PoolConfig) {
	return nn.NewLayerConfig(EntryFilters, [2]int{7, 7}, [2]int{2, 2}),
		PoolConfig{Kernel: [2]int{3, 3}, Strides: [2]int{2, 2}, Padding: tensor.PaddingSame}
}

func planStem(in tensor.Shape, kind StemKind) (StemPlan, error) {
	sp := StemPlan{Kind: kind, Input: in.Clone(), Output: in.Clone()}
	switch kind {
	case StemNone:
		return sp, nil
	case StemStandard:
		conv, pool := standardStem()
		afterConv, err := conv.OutputShape(in)
		if err != nil {
			return StemPlan{}, fmt.Errorf("%w: stem: %w", ErrInputShape, err)
		}
		h, _ := tensor.WindowOutput(afterConv.Height(), pool.Kernel[0], pool.Strides[0], pool.Padding)
		w, _ := tensor.WindowOutput(afterConv.Width(), pool.Kernel[1], pool.Strides[1], pool.Padding)
		sp.Conv = &conv
		sp.Pool = &pool
		sp.Output = tensor.Shape{in.Batch(), h, w, conv.Filters}
		return sp, nil
	default:
		return StemPlan{}, fmt.Errorf("%w: unknown stem kind %v", ErrConfiguration, kind)
	}
}
