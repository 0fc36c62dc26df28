// Package resnet assembles bottleneck residual feature extractors.
//
// A network is described by a plain-data NetworkSpec, realized at the
// shape level by PlanNetwork and materialized with random weights by
// Build:
//
//	spec := resnet.NewSpec()              // stages of 3, 4, 6, 3 blocks
//	plan, err := resnet.PlanNetwork(spec) // shapes only, no weights
//	net, err := resnet.Build(spec, cpu.New())
//	fm, err := net.Forward(input)
//
// Stage i has base width 64 * 2^i and every block outputs 4x its base
// width. The first block of every stage but the first halves the spatial
// extent. A block's shortcut is the identity when its input already has
// the output channel count and a strided 1x1 projection otherwise.
package resnet
