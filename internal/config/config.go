// Package config loads extractor settings from YAML.
//
// Example file:
//
//	input: {channels: 3, height: 224, width: 224}
//	block: bottleneck
//	stem: none
//	repetitions: [3, 4, 6, 3]
//	seed: 0
//	display:
//	  channel: 0
//	  columns: 112
//	  plot_url: http://localhost:8080
//	  timeout: 10s
//	summary: text
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/resnet/internal/resnet"
)

// Summary formats.
const (
	SummaryText = "text"
	SummaryJSON = "json"
)

// Config holds every setting of an extraction run.
type Config struct {
	Input       Input   `yaml:"input"`
	Block       string  `yaml:"block"`
	Stem        string  `yaml:"stem"`
	Repetitions []int   `yaml:"repetitions"`
	Seed        int64   `yaml:"seed"`
	Display     Display `yaml:"display"`
	Summary     string  `yaml:"summary"`
}

// Input is the network input extent.
type Input struct {
	Channels int `yaml:"channels"`
	Height   int `yaml:"height"`
	Width    int `yaml:"width"`
}

// Display controls how the selected channel is shown.
type Display struct {
	Channel int           `yaml:"channel"`
	Columns int           `yaml:"columns"`  // terminal width; 0 prints every cell
	PlotURL string        `yaml:"plot_url"` // sidecar base URL; empty disables posting
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the ResNet-50 settings. Every call returns a fresh value.
func Default() Config {
	in := resnet.DefaultInputShape()
	return Config{
		Input:       Input{Channels: in.Channels, Height: in.Height, Width: in.Width},
		Block:       resnet.BlockBottleneck.String(),
		Stem:        resnet.StemNone.String(),
		Repetitions: resnet.DefaultRepetitions(),
		Display:     Display{Columns: 112, Timeout: 10 * time.Second},
		Summary:     SummaryText,
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks display settings and that the network settings form a
// valid spec.
func (c Config) Validate() error {
	var errs []error
	if c.Display.Channel < 0 {
		errs = append(errs, fmt.Errorf("display channel must be non-negative, got %d", c.Display.Channel))
	}
	if c.Display.Columns < 0 {
		errs = append(errs, fmt.Errorf("display columns must be non-negative, got %d", c.Display.Columns))
	}
	if c.Display.Timeout < 0 {
		errs = append(errs, fmt.Errorf("display timeout must be non-negative, got %v", c.Display.Timeout))
	}
	if c.Summary != SummaryText && c.Summary != SummaryJSON {
		errs = append(errs, fmt.Errorf("summary must be %q or %q, got %q", SummaryText, SummaryJSON, c.Summary))
	}
	if _, err := c.NetworkSpec(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NetworkSpec converts the network settings into a validated spec.
func (c Config) NetworkSpec() (resnet.NetworkSpec, error) {
	block, err := resnet.ParseBlockKind(c.Block)
	if err != nil {
		return resnet.NetworkSpec{}, err
	}
	stem, err := resnet.ParseStemKind(c.Stem)
	if err != nil {
		return resnet.NetworkSpec{}, err
	}
	if len(c.Repetitions) == 0 {
		return resnet.NetworkSpec{}, fmt.Errorf("%w: no repetitions", resnet.ErrConfiguration)
	}

	spec := resnet.NewSpec(slices.Clone(c.Repetitions)...)
	spec.Input = resnet.InputShape{Channels: c.Input.Channels, Height: c.Input.Height, Width: c.Input.Width}
	spec.Block = block
	spec.Stem = stem
	spec.Seed = c.Seed
	if err := spec.Validate(); err != nil {
		return resnet.NetworkSpec{}, err
	}
	return spec, nil
}
