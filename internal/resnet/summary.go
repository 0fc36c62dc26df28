package resnet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// LayerSummary describes one row of a network summary.
type LayerSummary struct {
	Name       string
	Kind       string
	Input      tensor.Shape
	Output     tensor.Shape
	Parameters int
}

// Summary returns one row for the stem (when present) and one for every
// block.
func (n *Network[B]) Summary() []LayerSummary {
	var rows []LayerSummary
	if n.stem != nil {
		sp := n.plan.Stem
		rows = append(rows, LayerSummary{
			Name:       "stem",
			Kind:       fmt.Sprintf("conv-bn-relu %dx%d/%d + maxpool %dx%d/%d", sp.Conv.KernelSize[0], sp.Conv.KernelSize[1], sp.Conv.Strides[0], sp.Pool.Kernel[0], sp.Pool.Kernel[1], sp.Pool.Strides[0]),
			Input:      sp.Input,
			Output:     sp.Output,
			Parameters: nn.CountParameters(n.stem.Parameters()),
		})
	}
	for i, s := range n.stages {
		for j, b := range s.blocks {
			bp := b.Plan()
			shortcut := "projection"
			if bp.Identity() {
				shortcut = "identity"
			}
			rows = append(rows, LayerSummary{
				Name:       fmt.Sprintf("stage%d.block%d", i, j),
				Kind:       bp.Kind.String() + "/" + shortcut,
				Input:      bp.Input,
				Output:     bp.Output,
				Parameters: nn.CountParameters(b.Parameters()),
			})
		}
	}
	return rows
}

// WriteSummary writes a layer table followed by the per-stage shapes and
// the parameter totals.
func (n *Network[B]) WriteSummary(w io.Writer) error {
	const rule = "=================================================================================="
	spec := n.plan.Spec

	var sb strings.Builder
	fmt.Fprintf(&sb, "Network: %s, stem=%s, repetitions=%v\n", spec.Block, spec.Stem, spec.Repetitions())
	fmt.Fprintf(&sb, "%-16s %-26s %-22s %12s\n", "Layer", "Kind", "Output Shape", "Param #")
	sb.WriteString(rule + "\n")
	for _, row := range n.Summary() {
		fmt.Fprintf(&sb, "%-16s %-26s %-22s %12s\n", row.Name, row.Kind, row.Output, groupThousands(row.Parameters))
	}
	sb.WriteString(rule + "\n")

	fmt.Fprintf(&sb, "Input: %v\n", n.plan.Input)
	fmt.Fprintf(&sb, "Stages: %d\n", len(n.plan.Stages))
	for i, sp := range n.plan.Stages {
		fmt.Fprintf(&sb, "  stage%d: %d blocks, filters %d, %v -> %v\n",
			i, len(sp.Blocks), sp.Config.Filters, sp.Input, sp.Output)
	}
	fmt.Fprintf(&sb, "Output: %v\n", n.plan.Output)
	fmt.Fprintf(&sb, "Total params: %s\n", groupThousands(n.NumParameters()))
	fmt.Fprintf(&sb, "L2 penalty: %.6g\n", n.RegularizationPenalty())

	_, err := io.WriteString(w, sb.String())
	return err
}

// SummaryJSON renders the summary as an indented JSON document.
func (n *Network[B]) SummaryJSON() ([]byte, error) {
	spec := n.plan.Spec

	layers := make([]any, 0, n.plan.NumBlocks()+1)
	for _, row := range n.Summary() {
		layers = append(layers, map[string]any{
			"name":       row.Name,
			"kind":       row.Kind,
			"input":      shapeList(row.Input),
			"output":     shapeList(row.Output),
			"parameters": row.Parameters,
		})
	}
	stages := make([]any, len(n.plan.Stages))
	for i, sp := range n.plan.Stages {
		stages[i] = map[string]any{
			"filters": sp.Config.Filters,
			"blocks":  len(sp.Blocks),
			"input":   shapeList(sp.Input),
			"output":  shapeList(sp.Output),
		}
	}
	reps := make([]any, len(spec.Stages))
	for i, r := range spec.Repetitions() {
		reps[i] = r
	}

	doc, err := structpb.NewStruct(map[string]any{
		"block":            spec.Block.String(),
		"stem":             spec.Stem.String(),
		"seed":             strconv.FormatInt(spec.Seed, 10),
		"repetitions":      reps,
		"input":            shapeList(n.plan.Input),
		"output":           shapeList(n.plan.Output),
		"stages":           stages,
		"layers":           layers,
		"total_parameters": n.NumParameters(),
		"l2_penalty":       n.RegularizationPenalty(),
	})
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(doc)
}

func shapeList(s tensor.Shape) []any {
	out := make([]any, len(s))
	for i, d := range s {
		out[i] = d
	}
	return out
}

// groupThousands formats n as 23,587,712.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
