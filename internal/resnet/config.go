package resnet

import (
	"errors"
	"fmt"
	"slices"

	"github.com/born-ml/resnet/internal/tensor"
)

const (
	// EntryFilters is the base width of the first stage.
	EntryFilters = 64

	// Expansion is the ratio between a bottleneck block's output channels
	// and its base width.
	Expansion = 4
)

// DefaultRepetitions returns the ResNet-50 block counts per stage.
// Every call returns a fresh slice.
func DefaultRepetitions() []int {
	return []int{3, 4, 6, 3}
}

// InputShape is the per-image input extent, ordered (channels, height, width).
type InputShape struct {
	Channels int
	Height   int
	Width    int
}

// DefaultInputShape returns the 3x224x224 ImageNet crop.
func DefaultInputShape() InputShape {
	return InputShape{Channels: 3, Height: 224, Width: 224}
}

// NHWC returns the tensor shape of a batch of n images.
func (s InputShape) NHWC(n int) tensor.Shape {
	return tensor.Shape{n, s.Height, s.Width, s.Channels}
}

func (s InputShape) String() string {
	return fmt.Sprintf("%d,%d,%d", s.Channels, s.Height, s.Width)
}

// BlockConfig describes one residual block.
type BlockConfig struct {
	Filters      int    // base width; the block outputs Expansion*Filters channels
	Strides      [2]int // applied by the reduce sublayer only
	IsEntryBlock bool   // first block of the first stage
}

// OutChannels returns the block's output channel count.
func (c BlockConfig) OutChannels() int {
	return Expansion * c.Filters
}

// Validate checks filters and strides.
func (c BlockConfig) Validate() error {
	if c.Filters <= 0 {
		return fmt.Errorf("%w: block filters must be positive, got %d", ErrConfiguration, c.Filters)
	}
	if c.Strides[0] < 1 || c.Strides[1] < 1 {
		return fmt.Errorf("%w: block strides must be >= 1, got %v", ErrConfiguration, c.Strides)
	}
	return nil
}

// StageConfig describes a run of blocks sharing one base width.
type StageConfig struct {
	Filters      int
	Repetitions  int
	IsFirstStage bool
}

// Validate checks filters and repetitions.
func (c StageConfig) Validate() error {
	var errs []error
	if c.Filters <= 0 {
		errs = append(errs, fmt.Errorf("%w: stage filters must be positive, got %d", ErrConfiguration, c.Filters))
	}
	if c.Repetitions <= 0 {
		errs = append(errs, fmt.Errorf("%w: stage repetitions must be positive, got %d", ErrConfiguration, c.Repetitions))
	}
	return errors.Join(errs...)
}

// block returns the config of the i-th block of the stage. Only the first
// block of a non-first stage downsamples.
func (c StageConfig) block(i int) BlockConfig {
	strides := [2]int{1, 1}
	if i == 0 && !c.IsFirstStage {
		strides = [2]int{2, 2}
	}
	return BlockConfig{
		Filters:      c.Filters,
		Strides:      strides,
		IsEntryBlock: c.IsFirstStage && i == 0,
	}
}

// NetworkSpec is the complete, plain-data description of a network.
type NetworkSpec struct {
	Input  InputShape
	Block  BlockKind
	Stem   StemKind
	Stages []StageConfig
	Seed   int64 // weight initialization seed
}

// NewSpec returns the default spec with the given per-stage repetitions,
// or DefaultRepetitions when none are given. Stage 0 has EntryFilters and
// the width doubles after each stage.
func NewSpec(repetitions ...int) NetworkSpec {
	if len(repetitions) == 0 {
		repetitions = DefaultRepetitions()
	}
	stages := make([]StageConfig, len(repetitions))
	filters := EntryFilters
	for i, r := range repetitions {
		stages[i] = StageConfig{Filters: filters, Repetitions: r, IsFirstStage: i == 0}
		filters *= 2
	}
	return NetworkSpec{
		Input:  DefaultInputShape(),
		Block:  BlockBottleneck,
		Stem:   StemNone,
		Stages: stages,
	}
}

// Clone returns a deep copy.
func (s NetworkSpec) Clone() NetworkSpec {
	s.Stages = slices.Clone(s.Stages)
	return s
}

// Repetitions returns the per-stage block counts.
func (s NetworkSpec) Repetitions() []int {
	reps := make([]int, len(s.Stages))
	for i, st := range s.Stages {
		reps[i] = st.Repetitions
	}
	return reps
}

// Validate reports every configuration problem in s. All returned
// errors wrap ErrConfiguration.
func (s NetworkSpec) Validate() error {
	var errs []error
	if s.Input.Channels <= 0 || s.Input.Height <= 0 || s.Input.Width <= 0 {
		errs = append(errs, fmt.Errorf("%w: input shape must be positive, got %s", ErrConfiguration, s.Input))
	}
	if !s.Block.valid() {
		errs = append(errs, fmt.Errorf("%w: unknown block kind %v", ErrConfiguration, s.Block))
	}
	if !s.Stem.valid() {
		errs = append(errs, fmt.Errorf("%w: unknown stem kind %v", ErrConfiguration, s.Stem))
	}
	if len(s.Stages) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one stage is required", ErrConfiguration))
	}

	want := EntryFilters
	for i, st := range s.Stages {
		if err := st.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("stage %d: %w", i, err))
		}
		if st.Filters != want {
			errs = append(errs, fmt.Errorf("%w: stage %d filters %d, want %d", ErrConfiguration, i, st.Filters, want))
		}
		if st.IsFirstStage != (i == 0) {
			errs = append(errs, fmt.Errorf("%w: stage %d first-stage flag is %v", ErrConfiguration, i, st.IsFirstStage))
		}
		want *= 2
	}
	return errors.Join(errs...)
}
