// Package plot displays feature map channels.
//
// A Heatmap renders as text on a terminal or is posted as a PlotData
// document to a sidecar plotting service.
package plot

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ramp maps normalized intensity to characters, darkest first.
const ramp = " .:-=+*#%@"

// ErrEmpty reports a heatmap without values.
var ErrEmpty = errors.New("heatmap has no values")

// Heatmap is a 2-D grid of values with its range.
type Heatmap struct {
	Title  string
	Values [][]float64
	Min    float64
	Max    float64
}

// NewHeatmap copies a rectangular [rows][cols] grid.
func NewHeatmap(title string, values [][]float32) (*Heatmap, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmpty
	}
	cols := len(values[0])
	grid := make([][]float64, len(values))
	for i, row := range values {
		if len(row) != cols {
			return nil, fmt.Errorf("heatmap: row %d has %d values, want %d", i, len(row), cols)
		}
		grid[i] = make([]float64, cols)
		for j, v := range row {
			grid[i][j] = float64(v)
		}
	}

	h := &Heatmap{Title: title, Values: grid, Min: floats.Min(grid[0]), Max: floats.Max(grid[0])}
	for _, row := range grid[1:] {
		h.Min = min(h.Min, floats.Min(row))
		h.Max = max(h.Max, floats.Max(row))
	}
	return h, nil
}

// Rows returns the grid height.
func (h *Heatmap) Rows() int { return len(h.Values) }

// Cols returns the grid width.
func (h *Heatmap) Cols() int { return len(h.Values[0]) }

// Mean returns the average value.
func (h *Heatmap) Mean() float64 {
	var sum float64
	for _, row := range h.Values {
		sum += floats.Sum(row)
	}
	return sum / float64(h.Rows()*h.Cols())
}

// level maps v into [0, len(ramp)-1]. A constant map renders at level 0.
func (h *Heatmap) level(v float64) int {
	span := h.Max - h.Min
	if span <= 0 {
		return 0
	}
	l := int((v - h.Min) / span * float64(len(ramp)-1))
	return max(0, min(l, len(ramp)-1))
}

// Render writes the heatmap as text at most cols characters wide. Wider
// grids are block-averaged; each cell is printed twice horizontally to
// approximate a square aspect ratio.
func (h *Heatmap) Render(w io.Writer, cols int) error {
	step := 1
	if cols > 0 {
		for h.Cols()*2/step > cols && step < h.Cols() {
			step++
		}
	}

	var sb strings.Builder
	if h.Title != "" {
		fmt.Fprintf(&sb, "%s (%dx%d, min %.4g, max %.4g)\n", h.Title, h.Rows(), h.Cols(), h.Min, h.Max)
	}
	for r := 0; r < h.Rows(); r += step {
		for c := 0; c < h.Cols(); c += step {
			ch := ramp[h.level(h.block(r, c, step))]
			sb.WriteByte(ch)
			sb.WriteByte(ch)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// block averages the step x step cell starting at (r, c).
func (h *Heatmap) block(r, c, step int) float64 {
	var sum float64
	n := 0
	for i := r; i < min(r+step, h.Rows()); i++ {
		row := h.Values[i][c:min(c+step, h.Cols())]
		sum += floats.Sum(row)
		n += len(row)
	}
	return sum / float64(n)
}
