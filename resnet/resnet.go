// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package resnet builds bottleneck residual feature extractors.
//
// Example:
//
//	backend := cpu.New()
//	net, err := resnet.Build(resnet.NewSpec(), backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fm, err := net.Forward(input) // (1, 224, 224, 3) -> (1, 28, 28, 2048)
package resnet

import (
	"github.com/born-ml/resnet/internal/resnet"
	"github.com/born-ml/resnet/internal/tensor"
)

// Errors.
var (
	ErrConfiguration = resnet.ErrConfiguration
	ErrShapeMismatch = resnet.ErrShapeMismatch
	ErrInputShape    = resnet.ErrInputShape
	ErrChannelRange  = resnet.ErrChannelRange
)

// Architecture constants.
const (
	EntryFilters = resnet.EntryFilters
	Expansion    = resnet.Expansion
)

// Configuration types.
type (
	InputShape  = resnet.InputShape
	BlockConfig = resnet.BlockConfig
	StageConfig = resnet.StageConfig
	NetworkSpec = resnet.NetworkSpec
	BlockKind   = resnet.BlockKind
	StemKind    = resnet.StemKind
)

// Block and stem kinds.
const (
	BlockBottleneck = resnet.BlockBottleneck
	StemNone        = resnet.StemNone
	StemStandard    = resnet.StemStandard
)

// Plan types.
type (
	Plan       = resnet.Plan
	StagePlan  = resnet.StagePlan
	BlockPlan  = resnet.BlockPlan
	StemPlan   = resnet.StemPlan
	PoolConfig = resnet.PoolConfig
)

// Network is a built feature extractor.
type Network[B tensor.Backend] = resnet.Network[B]

// FeatureMap is the output of a network's last stage.
type FeatureMap[B tensor.Backend] = resnet.FeatureMap[B]

// LayerSummary is one row of a network summary.
type LayerSummary = resnet.LayerSummary

// DefaultRepetitions returns a fresh []int{3, 4, 6, 3}.
func DefaultRepetitions() []int {
	return resnet.DefaultRepetitions()
}

// DefaultInputShape returns 3x224x224.
func DefaultInputShape() InputShape {
	return resnet.DefaultInputShape()
}

// NewSpec returns the default spec with the given repetitions.
func NewSpec(repetitions ...int) NetworkSpec {
	return resnet.NewSpec(repetitions...)
}

// ParseBlockKind maps a name such as "bottleneck" to a BlockKind.
func ParseBlockKind(name string) (BlockKind, error) {
	return resnet.ParseBlockKind(name)
}

// ParseStemKind maps "none" or "standard" to a StemKind.
func ParseStemKind(name string) (StemKind, error) {
	return resnet.ParseStemKind(name)
}

// PlanNetwork derives every layer shape of spec without allocating weights.
func PlanNetwork(spec NetworkSpec) (*Plan, error) {
	return resnet.PlanNetwork(spec)
}

// Build plans spec and materializes its weights on backend.
func Build[B tensor.Backend](spec NetworkSpec, backend B) (*Network[B], error) {
	return resnet.Build(spec, backend)
}

// BuildPlan materializes a plan returned by PlanNetwork.
func BuildPlan[B tensor.Backend](plan *Plan, backend B) *Network[B] {
	return resnet.BuildPlan(plan, backend)
}
