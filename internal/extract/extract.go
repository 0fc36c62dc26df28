// Package extract runs a built network over a single image.
package extract

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/born-ml/resnet/internal/resnet"
	"github.com/born-ml/resnet/internal/tensor"
	"github.com/born-ml/resnet/internal/vision"
)

// SummaryFormat selects how the network summary is printed.
type SummaryFormat int

// Summary formats.
const (
	SummaryText SummaryFormat = iota
	SummaryJSON
	SummaryNone
)

// Driver feeds images through a network it does not own.
type Driver[B tensor.Backend] struct {
	net     *resnet.Network[B]
	backend B
	out     io.Writer
	format  SummaryFormat
}

// NewDriver returns a driver that writes its summary to out.
func NewDriver[B tensor.Backend](net *resnet.Network[B], backend B, out io.Writer, format SummaryFormat) *Driver[B] {
	if out == nil {
		out = io.Discard
	}
	return &Driver[B]{net: net, backend: backend, out: out, format: format}
}

// Run decodes the image at path and extracts its feature map.
func (d *Driver[B]) Run(path string) (*resnet.FeatureMap[B], error) {
	img, _, err := vision.Load(path)
	if err != nil {
		return nil, err
	}
	return d.RunImage(img)
}

// RunImage crops the top-left region of img to the network input, prints
// the network summary and runs the forward pass. Images smaller than the
// input fail with resnet.ErrInputShape before anything is printed.
func (d *Driver[B]) RunImage(img image.Image) (*resnet.FeatureMap[B], error) {
	input, err := d.Input(img)
	if err != nil {
		return nil, err
	}
	if err := d.writeSummary(); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return d.net.Forward(input)
}

// Input converts img into a (1, H, W, 3) tensor of raw 0..255 values.
func (d *Driver[B]) Input(img image.Image) (*tensor.Tensor[B], error) {
	shape := d.net.InputShape()
	if shape.Channels() != vision.RGB {
		return nil, fmt.Errorf("%w: images have %d channels, network expects %d",
			resnet.ErrInputShape, vision.RGB, shape.Channels())
	}

	data, err := vision.CropTopLeft(img, shape.Height(), shape.Width())
	if errors.Is(err, vision.ErrImageTooSmall) {
		return nil, fmt.Errorf("%w: %w", resnet.ErrInputShape, err)
	}
	if err != nil {
		return nil, err
	}
	return tensor.FromSlice(data, shape, d.backend)
}

func (d *Driver[B]) writeSummary() error {
	switch d.format {
	case SummaryText:
		return d.net.WriteSummary(d.out)
	case SummaryJSON:
		data, err := d.net.SummaryJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(d.out, "%s\n", data)
		return err
	default:
		return nil
	}
}
